package domain

import "fmt"

// SimulationInput is the request shape for a debt/wealth projection.
// Months and AnnualReturnRate are optional; nil means "use the default".
type SimulationInput struct {
	Loans            []Loan        `json:"loans"`
	Allocations      AllocationSet `json:"allocations"`
	Months           *int          `json:"months,omitempty"`
	AnnualReturnRate *float64      `json:"annual_return_rate,omitempty"`
}

// SimulationResult holds parallel month-indexed series. Entry i describes the
// state at the end of month i+1.
type SimulationResult struct {
	Labels         []string  `json:"labels"`
	DebtPath       []float64 `json:"debt_path"`
	InvestmentPath []float64 `json:"investment_path"`
	NetWorthPath   []float64 `json:"net_worth_path"`
}

// NewSimulationResult returns an empty result with room for months entries.
// The slices are never nil so an empty run still encodes as [].
func NewSimulationResult(months int) SimulationResult {
	if months < 0 {
		months = 0
	}
	return SimulationResult{
		Labels:         make([]string, 0, months),
		DebtPath:       make([]float64, 0, months),
		InvestmentPath: make([]float64, 0, months),
		NetWorthPath:   make([]float64, 0, months),
	}
}

// Record appends the state at the end of the given 1-based month.
func (r *SimulationResult) Record(month int, debt, invested float64) {
	r.Labels = append(r.Labels, fmt.Sprintf("M%d", month))
	r.DebtPath = append(r.DebtPath, debt)
	r.InvestmentPath = append(r.InvestmentPath, invested)
	r.NetWorthPath = append(r.NetWorthPath, invested-debt)
}

func (r SimulationResult) Len() int {
	return len(r.Labels)
}

// DebtFreeMonth returns the first 1-based month that ends with no debt.
func (r SimulationResult) DebtFreeMonth() (int, bool) {
	for i, d := range r.DebtPath {
		if d <= 0 {
			return i + 1, true
		}
	}
	return 0, false
}

// Final returns the last recorded debt, investment and net worth values.
func (r SimulationResult) Final() (debt, invested, netWorth float64) {
	n := r.Len()
	if n == 0 {
		return 0, 0, 0
	}
	return r.DebtPath[n-1], r.InvestmentPath[n-1], r.NetWorthPath[n-1]
}
