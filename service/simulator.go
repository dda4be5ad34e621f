package service

import (
	"math"
	"sort"

	"wealth-planner/domain"
)

// workingLoan is the mutable per-run copy of a domain.Loan.
type workingLoan struct {
	name        string
	principal   float64
	emi         float64
	roi         float64
	monthlyRate float64
}

func newWorkingLoans(loans []domain.Loan) []*workingLoan {
	working := make([]*workingLoan, len(loans))
	for i, l := range loans {
		working[i] = &workingLoan{
			name:        l.Name,
			principal:   l.Principal,
			emi:         l.EMI,
			roi:         l.ROI,
			monthlyRate: l.MonthlyRate(),
		}
	}
	return working
}

// Simulate projects outstanding debt, invested wealth and net worth month by
// month. Each month the investment balance compounds first, then the debt
// budget (every loan's EMI plus the "Extra Debt Payment" allocation) pays the
// scheduled minimums, the surplus goes to the highest-ROI loans (avalanche)
// and whatever the loans cannot absorb flows into investments (snowball)
// along with the "Investments" allocation.
//
// Simulate never fails: missing categories count as 0 and months <= 0
// yields empty series. The loans and allocations are not modified.
func Simulate(
	loans []domain.Loan,
	allocations domain.AllocationSet,
	months int,
	annualReturnRate float64,
) domain.SimulationResult {
	result := domain.NewSimulationResult(months)
	if months <= 0 {
		return result
	}

	working := newWorkingLoans(loans)
	baseEMITotal := domain.TotalEMI(loans)
	debtAlloc := allocations.Get(domain.CategoryExtraDebt)
	investAlloc := allocations.Get(domain.CategoryInvestments)
	growth := 1 + annualReturnRate/12

	invested := 0.0
	for m := 0; m < months; m++ {
		// Contributions made this month do not earn this month's growth.
		invested *= growth

		// Pagos mínimos, luego avalancha con el sobrante
		budget := baseEMITotal + debtAlloc
		budget -= payMinimums(working)

		if budget > SurplusTolerance {
			budget = applyAvalanche(working, budget)
		}

		if budget > 0 {
			invested += budget
		}
		invested += investAlloc

		result.Record(m+1, math.Max(0, outstanding(working)), invested)
	}

	return result
}

// payMinimums pays each open loan's EMI, capped at what it takes to close
// the loan, and returns the total paid.
func payMinimums(loans []*workingLoan) float64 {
	paid := 0.0
	for _, l := range loans {
		if l.principal <= 0 {
			continue
		}
		interest := l.principal * l.monthlyRate
		payment := math.Min(l.emi, l.principal+interest)

		l.principal -= payment - interest
		if l.principal < 0 {
			l.principal = 0
		}
		paid += payment
	}
	return paid
}

// applyAvalanche spends budget on principal, highest ROI first. Loans with
// equal ROI keep their portfolio order. It returns the unspent budget.
func applyAvalanche(loans []*workingLoan, budget float64) float64 {
	open := make([]*workingLoan, 0, len(loans))
	for _, l := range loans {
		if l.principal > 0 {
			open = append(open, l)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].roi > open[j].roi
	})

	for _, l := range open {
		if budget <= 0 {
			break
		}
		extra := math.Min(budget, l.principal)
		l.principal -= extra
		budget -= extra
	}
	return budget
}

func outstanding(loans []*workingLoan) float64 {
	total := 0.0
	for _, l := range loans {
		total += l.principal
	}
	return total
}
