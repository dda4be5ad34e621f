package domain

// Loan is an outstanding interest-bearing debt. ROI is the nominal annual
// rate in percent; EMI is the fixed scheduled monthly payment.
type Loan struct {
	Name       string  `json:"name" toml:"name"`
	Principal  float64 `json:"principal" toml:"principal"`
	EMI        float64 `json:"emi" toml:"emi"`
	ROI        float64 `json:"roi" toml:"roi"`
	Tenure     int     `json:"tenure,omitempty" toml:"tenure"`
	MonthsLeft int     `json:"months_left,omitempty" toml:"months_left"`
}

// MonthlyRate returns the periodic rate applied to the principal each month.
func (l Loan) MonthlyRate() float64 {
	return l.ROI / 12 / 100
}

// TotalEMI sums the scheduled payments of every loan in the portfolio.
func TotalEMI(loans []Loan) float64 {
	total := 0.0
	for _, l := range loans {
		total += l.EMI
	}
	return total
}

type EMIInput struct {
	Principal  float64 `json:"principal"`
	ROI        float64 `json:"roi"`
	TermMonths int     `json:"term_months"`
}

type EMIResult struct {
	EMI           float64 `json:"emi"`
	TotalPayment  float64 `json:"total_payment"`
	TotalInterest float64 `json:"total_interest"`
}
