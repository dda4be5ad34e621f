package domain

// Preset strategies offered on the input screen.
const (
	StrategyKillDebtFirst    = "Kill Debt First"
	StrategyWealthBuilder    = "Wealth Builder"
	StrategyAggressiveGrowth = "Aggressive Growth"
	StrategyBaseline         = "Baseline (Minimums Only)"
	StrategyCustom           = "Custom"
)

// StrategyInput describes a household: monthly income, fixed costs and loans.
type StrategyInput struct {
	Income        float64 `json:"income"`
	FixedExpenses float64 `json:"fixed_expenses"`
	Loans         []Loan  `json:"loans"`
	Horizon       int     `json:"horizon,omitempty"`
	Strategy      string  `json:"strategy,omitempty"`
}

type StrategyOutcome struct {
	Strategy       string    `json:"strategy"`
	DebtPath       []float64 `json:"debt_path"`
	InvestmentPath []float64 `json:"investment_path"`
	CashPath       []float64 `json:"cash_path"`
	TotalInterest  float64   `json:"total_interest"`
	DebtFreeMonth  *int      `json:"debt_free_month"`
	FinalNetWorth  float64   `json:"final_net_worth"`
	InterestSaved  float64   `json:"interest_saved"`
	MonthsSaved    int       `json:"months_saved"`
	DebtFreeLabel  string    `json:"debt_free_date_str"`
}

type StrategyComparison struct {
	Horizon    int                        `json:"horizon"`
	Baseline   StrategyOutcome            `json:"baseline"`
	Strategies map[string]StrategyOutcome `json:"strategies"`
}

// AllocationPlan is the starting point of the allocation dashboard.
type AllocationPlan struct {
	Strategy          string        `json:"strategy"`
	DeployableCapital float64       `json:"deployable_capital"`
	TotalEMI          float64       `json:"total_emi"`
	Allocations       AllocationSet `json:"allocations"`
}
