package rotation

import "sort"

// SortPositions orders positions for scheduling: critical first, then by
// ascending count of qualified employees. Equal positions keep their input
// order. The input slice is not modified.
func SortPositions(positions []Position, qualifiedCount map[string]int) []Position {
	out := append([]Position(nil), positions...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Critical != out[j].Critical {
			return out[i].Critical
		}
		return qualifiedCount[out[i].ID] < qualifiedCount[out[j].ID]
	})
	return out
}
