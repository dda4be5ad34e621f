package service

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"wealth-planner/domain"
)

func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// LoanService validates loan portfolios and computes scheduled payments.
type LoanService struct {
	log zerolog.Logger
}

func NewLoanService(log zerolog.Logger) *LoanService {
	return &LoanService{log: log.With().Str("service", "loan").Logger()}
}

// CalculateEMI returns the fixed monthly payment that amortizes principal
// over the term at the given annual ROI.
func (s *LoanService) CalculateEMI(input domain.EMIInput) (domain.EMIResult, error) {
	if input.Principal <= 0 || input.Principal > MaxLoanAmount {
		return domain.EMIResult{}, fmt.Errorf("%w: principal must be in (0, %.0f]", ErrInvalidLoan, MaxLoanAmount)
	}
	if input.ROI < 0 || input.ROI > MaxInterestRate {
		return domain.EMIResult{}, fmt.Errorf("%w: roi must be in [0, %.0f]", ErrInvalidLoan, MaxInterestRate)
	}
	if input.TermMonths < MinEMITermMonths || input.TermMonths > MaxEMITermMonths {
		return domain.EMIResult{}, fmt.Errorf("%w: term must be between %d and %d months", ErrInvalidHorizon, MinEMITermMonths, MaxEMITermMonths)
	}

	var emi float64
	n := float64(input.TermMonths)
	if input.ROI == 0 {
		emi = input.Principal / n
	} else {
		rate := input.ROI / 12 / 100
		emi = input.Principal * (rate / (1 - math.Pow(1+rate, -n)))
	}

	total := emi * n
	result := domain.EMIResult{
		EMI:           roundTo2Decimals(emi),
		TotalPayment:  roundTo2Decimals(total),
		TotalInterest: roundTo2Decimals(total - input.Principal),
	}

	s.log.Debug().
		Float64("principal", input.Principal).
		Float64("roi", input.ROI).
		Int("term_months", input.TermMonths).
		Float64("emi", result.EMI).
		Msg("Calculated EMI")

	return result, nil
}

// ValidateLoans checks a household portfolio for the strategy engine, where
// each loan is paid from its own EMI. A loan whose EMI does not cover its
// first month of interest is rejected.
func (s *LoanService) ValidateLoans(loans []domain.Loan) error {
	if err := validateLoanFields(loans); err != nil {
		return err
	}
	for _, l := range loans {
		if interest := l.Principal * l.MonthlyRate(); l.Principal > 0 && l.EMI < interest {
			return fmt.Errorf("%w: %s emi (%.2f) is below the monthly interest (%.2f)", ErrInvalidLoan, l.Name, l.EMI, interest)
		}
	}
	return nil
}

// ValidateDebtBudget checks a portfolio for the simulator, which pools every
// EMI plus extra into one monthly debt budget. A loan whose EMI is below its
// interest is accepted as long as the budget covers the interest of the
// whole portfolio.
func (s *LoanService) ValidateDebtBudget(loans []domain.Loan, extra float64) error {
	if err := validateLoanFields(loans); err != nil {
		return err
	}

	interest, short := 0.0, ""
	for _, l := range loans {
		i := l.Principal * l.MonthlyRate()
		interest += i
		if short == "" && l.Principal > 0 && l.EMI < i {
			short = l.Name
		}
	}
	if short == "" {
		return nil
	}

	// El presupuesto total debe cubrir el interés de todo el portafolio
	budget := domain.TotalEMI(loans) + extra
	if interest+SurplusTolerance > budget {
		return fmt.Errorf("%w: %s emi is below its monthly interest and the debt budget (%.2f) does not cover the total interest (%.2f)",
			ErrInvalidLoan, short, budget, interest)
	}
	return nil
}

func validateLoanFields(loans []domain.Loan) error {
	if len(loans) > MaxLoansPerRequest {
		return fmt.Errorf("%w: at most %d loans", ErrTooManyLoans, MaxLoansPerRequest)
	}

	for i, l := range loans {
		if l.Name == "" {
			return fmt.Errorf("%w: loan %d has no name", ErrInvalidLoan, i+1)
		}
		if !finite(l.Principal, l.EMI, l.ROI) {
			return fmt.Errorf("%w: %s has a non-numeric amount", ErrInvalidLoan, l.Name)
		}
		if l.Principal < 0 || l.Principal > MaxLoanAmount {
			return fmt.Errorf("%w: %s principal out of range", ErrInvalidLoan, l.Name)
		}
		if l.EMI < 0 {
			return fmt.Errorf("%w: %s emi is negative", ErrInvalidLoan, l.Name)
		}
		if l.ROI < 0 || l.ROI > MaxInterestRate {
			return fmt.Errorf("%w: %s roi out of range", ErrInvalidLoan, l.Name)
		}
	}
	return nil
}
