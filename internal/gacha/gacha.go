// Package gacha draws a random assortment of menu items whose combined
// price lands inside a budget band.
//
// A pull builds a knapsack table of the best total reachable at every
// capacity up to the maximum budget, picks one in-band total at random, and
// walks the table back to a concrete list of items, choosing uniformly at
// every branch so repeated pulls with the same inputs vary. Pulls either
// allow an item to repeat (unbounded knapsack) or use each item at most
// once (0/1 knapsack), and may be required to contain a staple-food item.
//
// Every call allocates its own tables and random source; the menu slice is
// only read and may be shared between concurrent pulls.
package gacha

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/go-logr/logr"

	"mcp-menu-gacha/internal/models"
)

const (
	DefaultMinBudget = 800
	DefaultMaxBudget = 800
)

var (
	// ErrInvalidBudget is returned for a negative maximum budget or a
	// minimum above the maximum.
	ErrInvalidBudget = errors.New("invalid budget range")
	// ErrNegativePrice is returned when a menu item has a price below zero.
	ErrNegativePrice = errors.New("menu item has negative price")
)

// PullOption customizes a single pull.
type PullOption func(*pullConfig)

type pullConfig struct {
	rng *rand.Rand
}

// WithRand makes the pull draw from rng instead of a fresh source. rng must
// not be used concurrently by other pulls.
func WithRand(rng *rand.Rand) PullOption {
	return func(c *pullConfig) {
		c.rng = rng
	}
}

// Pull picks items from menu totaling between minBudget and maxBudget.
//
// An infeasible request is not an error: the result has Success false, no
// items and a zero total. The error return is reserved for invalid input.
// When opts.RequireStapleFood forces a staple item that alone costs more
// than the drawn total, the staple is returned by itself and the result is
// marked Relaxed.
func Pull(
	ctx context.Context,
	menu []models.MenuItem,
	minBudget, maxBudget int,
	opts models.GachaOptions,
	pullOpts ...PullOption,
) (*models.GachaResult, error) {
	if maxBudget < 0 || minBudget > maxBudget {
		return nil, fmt.Errorf("%w: min %d, max %d", ErrInvalidBudget, minBudget, maxBudget)
	}
	for _, item := range menu {
		if item.Price < 0 {
			return nil, fmt.Errorf("%w: %s costs %d", ErrNegativePrice, item.ItemID, item.Price)
		}
	}

	cfg := pullConfig{}
	for _, o := range pullOpts {
		o(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	logger := logr.FromContextOrDiscard(ctx).WithName("gacha").WithValues(
		"minBudget", minBudget,
		"maxBudget", maxBudget,
		"allowDuplicates", opts.AllowDuplicates,
		"requireStapleFood", opts.RequireStapleFood,
	)

	result := &models.GachaResult{
		Items:     []models.MenuItem{},
		MinBudget: minBudget,
		MaxBudget: maxBudget,
		Options:   opts,
	}

	var staples []models.MenuItem
	if opts.RequireStapleFood {
		staples = stapleCandidates(menu, maxBudget)
		if len(staples) == 0 {
			logger.V(1).Info("No staple food within budget")
			return result, nil
		}
	}

	var sol solver
	if opts.AllowDuplicates {
		sol = newUnboundedTable(menu, maxBudget)
	} else {
		sol = newBoundedTable(menu, maxBudget)
	}

	tg, ok := pickTarget(sol, minBudget, maxBudget, cfg.rng)
	if !ok {
		logger.V(1).Info("No combination within budget")
		return result, nil
	}
	logger.V(1).Info("Target selected", "capacity", tg.capacity, "total", tg.value)

	var picked []models.MenuItem
	if opts.RequireStapleFood {
		outcome := enforceStaple(logger, sol, staples, tg, cfg.rng)
		if !outcome.ok {
			logger.V(1).Info("No staple food combination fits the target", "total", tg.value)
			return result, nil
		}
		picked = outcome.items
		result.Relaxed = outcome.relaxed
	} else {
		picked = sol.reconstruct(tg, cfg.rng)
	}

	result.Items = picked
	result.TotalAmount = models.TotalPrice(picked)
	result.Success = true
	return result, nil
}
