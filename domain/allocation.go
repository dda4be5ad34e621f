package domain

import "sort"

// Budget categories understood by the simulator. Any other key is carried
// through redistribution untouched by the simulation (e.g. FunMoney).
const (
	CategoryExtraDebt   = "Extra Debt Payment"
	CategoryInvestments = "Investments"
	CategoryFunMoney    = "Fun Money"
)

// AllocationSet maps a budget category to the monthly amount assigned to it.
type AllocationSet map[string]float64

// Get returns the amount for key, or 0 when the category is absent.
func (a AllocationSet) Get(key string) float64 {
	if a == nil {
		return 0
	}
	return a[key]
}

// Has reports whether key is one of the set's categories.
func (a AllocationSet) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Sum adds every category in key order so the result is reproducible.
func (a AllocationSet) Sum() float64 {
	total := 0.0
	for _, k := range a.Keys() {
		total += a[k]
	}
	return total
}

// Keys returns the category names sorted lexically.
func (a AllocationSet) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (a AllocationSet) Clone() AllocationSet {
	out := make(AllocationSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

type RedistributeInput struct {
	Allocations AllocationSet `json:"allocations"`
	ChangedKey  string        `json:"changed_key"`
	NewValue    float64       `json:"new_value"`
	Total       float64       `json:"total"`
}

type RedistributeResult struct {
	Allocations AllocationSet `json:"allocations"`
	Total       float64       `json:"total"`
}
