package gacha

import (
	"math/rand/v2"
)

// target is a total proven reachable by a table, together with the
// capacity at which the table reported it.
type target struct {
	capacity int
	value    int
}

// pickTarget draws uniformly among all capacities in the budget band whose
// best total also lies in the band. A value reachable at several capacities
// is counted once per capacity. A best total of 0 means nothing fits and is
// never a candidate, even when the band starts at 0.
func pickTarget(t table, minBudget, maxBudget int, rng *rand.Rand) (target, bool) {
	var candidates []target
	for w := max(minBudget, 0); w <= maxBudget && w <= t.capacity(); w++ {
		if v := t.value(w); v > 0 && v >= minBudget && v <= maxBudget {
			candidates = append(candidates, target{capacity: w, value: v})
		}
	}
	if len(candidates) == 0 {
		return target{}, false
	}
	return candidates[rng.IntN(len(candidates))], true
}
