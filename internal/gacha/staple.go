package gacha

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/go-logr/logr"

	"mcp-menu-gacha/internal/models"
)

// MaxStapleAttempts bounds how many fresh reconstructions are drawn while
// looking for one that already contains a staple item.
const MaxStapleAttempts = 100

// solver is a knapsack table that can also turn a target into items.
type solver interface {
	table
	reconstruct(tg target, rng *rand.Rand) []models.MenuItem
	// remainder reconstructs items totaling exactly tg.value-staple.Price
	// that may be combined with staple. ok is false when that total is
	// not reachable.
	remainder(staple models.MenuItem, tg target, rng *rand.Rand) (items []models.MenuItem, ok bool)
}

func (t *unboundedTable) remainder(staple models.MenuItem, tg target, rng *rand.Rand) ([]models.MenuItem, bool) {
	rest := tg.value - staple.Price
	if rest < 0 || t.best[rest] != rest {
		return nil, false
	}
	return t.reconstruct(target{capacity: rest, value: rest}, rng), true
}

func (t *boundedTable) remainder(staple models.MenuItem, tg target, rng *rand.Rand) ([]models.MenuItem, bool) {
	rest := tg.value - staple.Price
	if rest < 0 {
		return nil, false
	}

	others := make([]models.MenuItem, 0, len(t.items))
	for _, item := range t.items {
		if item.ItemID != staple.ItemID {
			others = append(others, item)
		}
	}
	secondary := newBoundedTable(others, tg.capacity-staple.Price)
	if secondary.value(rest) != rest {
		return nil, false
	}
	return secondary.reconstruct(target{capacity: rest, value: rest}, rng), true
}

// stapleCandidates returns the staple items priced within maxBudget,
// cheapest first. Equal prices keep catalog order.
func stapleCandidates(items []models.MenuItem, maxBudget int) []models.MenuItem {
	var staples []models.MenuItem
	for _, item := range items {
		if item.HasStapleFood && item.Price <= maxBudget {
			staples = append(staples, item)
		}
	}
	slices.SortStableFunc(staples, func(a, b models.MenuItem) int {
		return cmp.Compare(a.Price, b.Price)
	})
	return staples
}

func containsStaple(items []models.MenuItem) bool {
	return slices.ContainsFunc(items, func(item models.MenuItem) bool {
		return item.HasStapleFood
	})
}

// stapleOutcome is what enforceStaple settled on.
type stapleOutcome struct {
	items   []models.MenuItem
	relaxed bool
	ok      bool
}

// enforceStaple reconstructs tg until a draw contains a staple item. When
// MaxStapleAttempts draws fail it forces a staple in, trying staples
// cheapest first: a staple pricier than the target is returned on its own
// (relaxed), otherwise the rest of the target is rebuilt around it.
func enforceStaple(logger logr.Logger, sol solver, staples []models.MenuItem, tg target, rng *rand.Rand) stapleOutcome {
	for attempt := 1; attempt <= MaxStapleAttempts; attempt++ {
		picked := sol.reconstruct(tg, rng)
		if containsStaple(picked) {
			logger.V(1).Info("Staple food drawn", "attempt", attempt)
			return stapleOutcome{items: picked, ok: true}
		}
	}

	logger.V(1).Info("Forcing staple food", "attempts", MaxStapleAttempts, "target", tg.value)
	for _, staple := range staples {
		if staple.Price > tg.value {
			logger.V(1).Info("Staple food exceeds target, returning it alone",
				"item", staple.ItemID, "price", staple.Price, "target", tg.value)
			return stapleOutcome{items: []models.MenuItem{staple}, relaxed: true, ok: true}
		}
		rest, ok := sol.remainder(staple, tg, rng)
		if !ok {
			continue
		}
		return stapleOutcome{items: append([]models.MenuItem{staple}, rest...), ok: true}
	}
	return stapleOutcome{}
}
