package gacha

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"mcp-menu-gacha/internal/models"
)

// ErrInconsistentTable means reconstruction hit a state the table claims
// is reachable but that has no valid branch. It indicates a bug in table
// construction or target selection and is raised as a panic.
var ErrInconsistentTable = errors.New("no reconstruction branch consistent with knapsack table")

func inconsistency(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInconsistentTable, fmt.Sprintf(format, args...))
}

// reconstruct walks the table back from tg, choosing uniformly among every
// item that keeps the remaining total reachable. Zero-price items never
// reduce the remaining total and are not offered.
func (t *unboundedTable) reconstruct(tg target, rng *rand.Rand) []models.MenuItem {
	picked := []models.MenuItem{}
	options := make([]int, 0, len(t.items))

	remaining, want := tg.capacity, tg.value
	for want > 0 {
		options = options[:0]
		for i, item := range t.items {
			if item.Price == 0 || item.Price > remaining {
				continue
			}
			if t.best[remaining-item.Price] >= want-item.Price {
				options = append(options, i)
			}
		}
		if len(options) == 0 {
			panic(inconsistency("remaining capacity %d, remaining total %d", remaining, want))
		}

		item := t.items[options[rng.IntN(len(options))]]
		picked = append(picked, item)
		remaining -= item.Price
		want -= item.Price
	}
	return picked
}

// reconstruct walks items from last to first, and at each one flips a fair
// coin between skipping and taking it whenever both keep the remaining
// total reachable.
func (t *boundedTable) reconstruct(tg target, rng *rand.Rand) []models.MenuItem {
	picked := []models.MenuItem{}

	remaining, want := tg.capacity, tg.value
	for i := len(t.items); i > 0; i-- {
		item := t.items[i-1]
		canSkip := t.at(i-1, remaining) >= want
		canTake := item.Price <= remaining && t.at(i-1, remaining-item.Price) >= want-item.Price

		var take bool
		switch {
		case canSkip && canTake:
			take = rng.IntN(2) == 0
		case canTake:
			take = true
		case canSkip:
			take = false
		default:
			panic(inconsistency("item %d, remaining capacity %d, remaining total %d", i, remaining, want))
		}

		if take {
			picked = append(picked, item)
			remaining -= item.Price
			want -= item.Price
		}
	}
	if want != 0 {
		panic(inconsistency("walk ended with remaining total %d", want))
	}
	return picked
}
