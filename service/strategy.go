package service

import (
	"fmt"
	"math"
	"sort"

	"wealth-planner/domain"
)

// ComparedStrategies are the presets scored against the baseline.
var ComparedStrategies = []string{
	domain.StrategyKillDebtFirst,
	domain.StrategyWealthBuilder,
	domain.StrategyAggressiveGrowth,
}

// KnownStrategy reports whether name is a preset or Custom.
func KnownStrategy(name string) bool {
	switch name {
	case domain.StrategyKillDebtFirst,
		domain.StrategyWealthBuilder,
		domain.StrategyAggressiveGrowth,
		domain.StrategyBaseline,
		domain.StrategyCustom:
		return true
	}
	return false
}

// DeployableCapital is what is left of income after fixed costs and the
// scheduled loan payments, floored at zero.
func DeployableCapital(income, fixedExpenses float64, loans []domain.Loan) float64 {
	return math.Max(0, income-fixedExpenses-domain.TotalEMI(loans))
}

// InitialAllocations seeds the allocation dashboard for a strategy.
func InitialAllocations(strategy string, deployable float64) domain.AllocationSet {
	switch strategy {
	case domain.StrategyKillDebtFirst:
		return domain.AllocationSet{
			domain.CategoryExtraDebt:   deployable,
			domain.CategoryInvestments: 0,
			domain.CategoryFunMoney:    0,
		}
	case domain.StrategyWealthBuilder:
		return domain.AllocationSet{
			domain.CategoryExtraDebt:   0,
			domain.CategoryInvestments: math.Floor(deployable * 0.7),
			domain.CategoryFunMoney:    math.Floor(deployable * 0.3),
		}
	default:
		return domain.AllocationSet{
			domain.CategoryExtraDebt:   0,
			domain.CategoryInvestments: math.Floor(deployable * 0.8),
			domain.CategoryFunMoney:    math.Floor(deployable * 0.2),
		}
	}
}

// strategyLoan tracks a loan through a strategy run, including the interest
// it accrues.
type strategyLoan struct {
	principal    float64
	emi          float64
	roi          float64
	monthlyRate  float64
	interestPaid float64
}

// payMonth pays the EMI plus extra, capped at the amount that closes the
// loan. A payment below the interest grows the principal.
func (l *strategyLoan) payMonth(extra float64) {
	if l.principal <= 0 {
		return
	}
	interest := l.principal * l.monthlyRate
	payment := math.Min(l.emi+extra, l.principal+interest)

	l.principal -= payment - interest
	l.interestPaid += interest

	if l.principal < ClosedLoanThreshold {
		l.principal = 0
	}
}

type budgetSplit struct {
	extraDebt float64
	invest    float64
	cash      float64
}

func splitSurplus(strategy string, remaining float64, debtActive bool) budgetSplit {
	switch strategy {
	case domain.StrategyKillDebtFirst:
		if debtActive {
			return budgetSplit{extraDebt: math.Max(0, remaining)}
		}
		return budgetSplit{invest: math.Max(0, remaining)}
	case domain.StrategyWealthBuilder:
		return budgetSplit{
			invest: math.Max(0, remaining*0.7),
			cash:   math.Max(0, remaining*0.3),
		}
	case domain.StrategyAggressiveGrowth:
		return budgetSplit{
			invest: math.Max(0, remaining*0.9),
			cash:   math.Max(0, remaining*0.1),
		}
	default:
		return budgetSplit{cash: math.Max(0, remaining)}
	}
}

// RunStrategy projects a household over horizon months under one of the
// preset strategies. Unlike Simulate, the budget is derived from income and
// fixed expenses, the scheduled payments shrink as loans close, and all of
// a month's extra debt payment goes to the single highest-ROI open loan.
func RunStrategy(
	input domain.StrategyInput,
	strategy string,
	horizon int,
	equityReturn float64,
	cashReturn float64,
) domain.StrategyOutcome {
	if horizon <= 0 {
		horizon = DefaultStrategyHorizon
	}

	loans := make([]*strategyLoan, len(input.Loans))
	for i, l := range input.Loans {
		loans[i] = &strategyLoan{
			principal:   l.Principal,
			emi:         l.EMI,
			roi:         l.ROI,
			monthlyRate: l.MonthlyRate(),
		}
	}

	outcome := domain.StrategyOutcome{
		Strategy:       strategy,
		DebtPath:       make([]float64, 0, horizon),
		InvestmentPath: make([]float64, 0, horizon),
		CashPath:       make([]float64, 0, horizon),
	}

	invested, cash := 0.0, 0.0
	available := input.Income - input.FixedExpenses

	for m := 0; m < horizon; m++ {
		active := openStrategyLoans(loans)

		requiredEMI := 0.0
		for _, l := range active {
			requiredEMI += l.emi
		}

		split := splitSurplus(strategy, available-requiredEMI, len(active) > 0)
		if len(active) == 0 && outcome.DebtFreeMonth == nil {
			month := m
			outcome.DebtFreeMonth = &month
		}

		sort.SliceStable(active, func(i, j int) bool {
			return active[i].roi > active[j].roi
		})

		debt := 0.0
		for _, l := range loans {
			if l.principal <= 0 {
				continue
			}
			extra := 0.0
			if l == active[0] {
				extra = split.extraDebt
			}
			l.payMonth(extra)
			debt += l.principal
		}
		outcome.DebtPath = append(outcome.DebtPath, debt)

		invested = invested*(1+equityReturn/12) + split.invest
		cash = cash*(1+cashReturn/12) + split.cash
		outcome.InvestmentPath = append(outcome.InvestmentPath, invested)
		outcome.CashPath = append(outcome.CashPath, cash)
	}

	for _, l := range loans {
		outcome.TotalInterest += l.interestPaid
	}
	outcome.FinalNetWorth = invested + cash - outcome.DebtPath[len(outcome.DebtPath)-1]

	return outcome
}

func openStrategyLoans(loans []*strategyLoan) []*strategyLoan {
	open := make([]*strategyLoan, 0, len(loans))
	for _, l := range loans {
		if l.principal > 0 {
			open = append(open, l)
		}
	}
	return open
}

// CompareStrategies runs the baseline and every preset, scoring each preset
// by the interest and months it saves against minimum payments only.
func CompareStrategies(
	input domain.StrategyInput,
	horizon int,
	equityReturn float64,
	cashReturn float64,
) domain.StrategyComparison {
	if horizon <= 0 {
		horizon = DefaultStrategyHorizon
	}

	baseline := RunStrategy(input, domain.StrategyBaseline, horizon, equityReturn, cashReturn)
	baseline.DebtFreeLabel = debtFreeLabel(debtFreeOr(baseline.DebtFreeMonth, horizon), horizon)

	comparison := domain.StrategyComparison{
		Horizon:    horizon,
		Baseline:   baseline,
		Strategies: make(map[string]domain.StrategyOutcome, len(ComparedStrategies)),
	}

	baseTime := debtFreeOr(baseline.DebtFreeMonth, horizon)
	for _, name := range ComparedStrategies {
		res := RunStrategy(input, name, horizon, equityReturn, cashReturn)
		stratTime := debtFreeOr(res.DebtFreeMonth, horizon)

		res.InterestSaved = roundTo2Decimals(baseline.TotalInterest - res.TotalInterest)
		res.MonthsSaved = max(0, baseTime-stratTime)
		res.DebtFreeLabel = debtFreeLabel(stratTime, horizon)

		comparison.Strategies[name] = res
	}

	return comparison
}

func debtFreeOr(month *int, fallback int) int {
	if month == nil {
		return fallback
	}
	return *month
}

func debtFreeLabel(month, horizon int) string {
	if month < horizon {
		return fmt.Sprintf("Month %d", month)
	}
	if horizon == DefaultStrategyHorizon {
		return "After 10 Years"
	}
	return fmt.Sprintf("After %d Months", horizon)
}
