package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"wealth-planner/domain"
)

// scenarioFile is the TOML household description read by the one-shot
// commands.
//
//	name = "Car payoff"
//	months = 60
//	income = 150000
//	fixed_expenses = 60000
//
//	[allocations]
//	"Extra Debt Payment" = 5000
//	"Investments" = 2000
//
//	[[loans]]
//	name = "Car Loan"
//	principal = 500000
//	emi = 15000
//	roi = 9
type scenarioFile struct {
	Name             string               `toml:"name"`
	Strategy         string               `toml:"strategy"`
	Months           *int                 `toml:"months"`
	AnnualReturnRate *float64             `toml:"annual_return_rate"`
	Income           float64              `toml:"income"`
	FixedExpenses    float64              `toml:"fixed_expenses"`
	Allocations      domain.AllocationSet `toml:"allocations"`
	Loans            []domain.Loan        `toml:"loans"`
}

func loadScenarioFile(path string) (scenarioFile, error) {
	var f scenarioFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return scenarioFile{}, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return scenarioFile{}, fmt.Errorf("scenario %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	if f.Allocations == nil {
		f.Allocations = domain.AllocationSet{}
	}
	return f, nil
}

func (f scenarioFile) simulationInput() domain.SimulationInput {
	return domain.SimulationInput{
		Loans:            f.Loans,
		Allocations:      f.Allocations,
		Months:           f.Months,
		AnnualReturnRate: f.AnnualReturnRate,
	}
}

func (f scenarioFile) strategyInput(horizon int) domain.StrategyInput {
	return domain.StrategyInput{
		Income:        f.Income,
		FixedExpenses: f.FixedExpenses,
		Loans:         f.Loans,
		Horizon:       horizon,
		Strategy:      f.Strategy,
	}
}

// deployable is the default redistribution total: income left after fixed
// costs and EMIs when an income is given, otherwise the current allocations.
func (f scenarioFile) deployable() float64 {
	if f.Income > 0 {
		return max(0, f.Income-f.FixedExpenses-domain.TotalEMI(f.Loans))
	}
	return f.Allocations.Sum()
}
