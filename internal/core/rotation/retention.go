package rotation

import "sort"

// DefaultMaxPlans is the number of plans retained per line.
const DefaultMaxPlans = 30

// PlansToPrune returns the dates (YYYY-MM-DD) of plans to delete so that at
// most max remain, oldest first. A non-positive max disables pruning.
func PlansToPrune(dates []string, max int) []string {
	if max <= 0 || len(dates) <= max {
		return nil
	}
	sorted := append([]string(nil), dates...)
	sort.Strings(sorted)
	return sorted[:len(sorted)-max]
}

// PickYesterday returns the most recent date strictly before today, or "" when
// there is none.
func PickYesterday(dates []string, today string) string {
	best := ""
	for _, d := range dates {
		if d < today && d > best {
			best = d
		}
	}
	return best
}
