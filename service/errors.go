package service

import "errors"

// Validation failures. Handlers map these to 400 responses.
var (
	ErrInvalidLoan       = errors.New("invalid loan")
	ErrTooManyLoans      = errors.New("too many loans")
	ErrInvalidHorizon    = errors.New("invalid horizon")
	ErrInvalidReturnRate = errors.New("invalid annual return rate")
	ErrInvalidAllocation = errors.New("invalid allocation")
	ErrUnknownCategory   = errors.New("unknown allocation category")
	ErrInvalidTotal      = errors.New("invalid total")
	ErrUnknownStrategy   = errors.New("unknown strategy")
	ErrInvalidIncome     = errors.New("invalid income")
	ErrInvalidScenario   = errors.New("invalid scenario")
)

// IsValidation reports whether err came from input validation.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidLoan,
		ErrTooManyLoans,
		ErrInvalidHorizon,
		ErrInvalidReturnRate,
		ErrInvalidAllocation,
		ErrUnknownCategory,
		ErrInvalidTotal,
		ErrUnknownStrategy,
		ErrInvalidIncome,
		ErrInvalidScenario,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
