package domain

import "time"

// Scenario is a named, saved projection: its inputs plus the last result.
// Months and AnnualReturnRate follow SimulationInput: nil means the default,
// and a saved scenario always carries the values its result was run with.
type Scenario struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Strategy         string            `json:"strategy,omitempty"`
	Loans            []Loan            `json:"loans"`
	Allocations      AllocationSet     `json:"allocations"`
	Months           *int              `json:"months,omitempty"`
	AnnualReturnRate *float64          `json:"annual_return_rate,omitempty"`
	Result           *SimulationResult `json:"result,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type AnalysisInput struct {
	Strategy string           `json:"strategy,omitempty"`
	Result   SimulationResult `json:"result"`
}

type AnalysisResult struct {
	Message string `json:"message"`
	Source  string `json:"source"` // "llm" or "fallback"
}
