package service

import "wealth-planner/domain"

// Redistribute sets changedKey to newValue, clamped to [0, total], and
// rescales every other category so the set still sums to total. The other
// categories keep their relative shape; when they are all zero the remainder
// is split evenly between them. The input set is not modified.
func Redistribute(
	allocations domain.AllocationSet,
	changedKey string,
	newValue float64,
	total float64,
) domain.AllocationSet {
	if total < 0 {
		total = 0
	}
	value := clamp(newValue, 0, total)
	remaining := total - value

	others := make([]string, 0, len(allocations))
	sumOthers := 0.0
	for _, k := range allocations.Keys() {
		if k == changedKey {
			continue
		}
		others = append(others, k)
		sumOthers += allocations[k]
	}

	out := make(domain.AllocationSet, len(others)+1)
	for _, k := range others {
		if sumOthers > 0 {
			out[k] = (allocations[k] / sumOthers) * remaining
		} else {
			out[k] = remaining / float64(len(others))
		}
	}
	out[changedKey] = value

	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
