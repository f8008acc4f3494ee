package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mcp-menu-gacha/internal/gacha"
	"mcp-menu-gacha/internal/models"
)

type pullFlags struct {
	minBudget       int
	maxBudget       int
	allowDuplicates bool
	requireStaple   bool
	seed            uint64
}

func newPullCmd(a *app) *cobra.Command {
	var f pullFlags

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Draw one combination from the menu and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			g := a.config.Gacha
			minBudget, maxBudget := g.MinBudget, g.MaxBudget
			opts := models.GachaOptions{
				AllowDuplicates:   g.AllowDuplicates,
				RequireStapleFood: g.RequireStapleFood,
			}
			if flags.Changed("max") {
				maxBudget = f.maxBudget
				if !flags.Changed("min") && minBudget > maxBudget {
					minBudget = maxBudget
				}
			}
			if flags.Changed("min") {
				minBudget = f.minBudget
			}
			if flags.Changed("allow-duplicates") {
				opts.AllowDuplicates = f.allowDuplicates
			}
			if flags.Changed("require-staple") {
				opts.RequireStapleFood = f.requireStaple
			}

			var pullOpts []gacha.PullOption
			if flags.Changed("seed") {
				pullOpts = append(pullOpts, gacha.WithRand(rand.New(rand.NewPCG(f.seed, f.seed))))
			}
			return a.pull(cmd.Context(), cmd.OutOrStdout(), minBudget, maxBudget, opts, pullOpts...)
		},
	}

	f.register(cmd.Flags())
	return cmd
}

// register binds the flags; each one overrides its gacha.* setting only
// when given explicitly.
func (f *pullFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.minBudget, "min", gacha.DefaultMinBudget, "Lowest acceptable total (overrides gacha.min_budget)")
	fs.IntVar(&f.maxBudget, "max", gacha.DefaultMaxBudget, "Highest acceptable total (overrides gacha.max_budget)")
	fs.BoolVar(&f.allowDuplicates, "allow-duplicates", true, "Allow the same item more than once")
	fs.BoolVar(&f.requireStaple, "require-staple", false, "Require a staple food item in the pull")
	fs.Uint64Var(&f.seed, "seed", 0, "Seed for a reproducible draw")
}

func (a *app) pull(ctx context.Context, out io.Writer, minBudget, maxBudget int, opts models.GachaOptions, pullOpts ...gacha.PullOption) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if limit := a.config.Gacha.BudgetLimit; maxBudget > limit {
		return fmt.Errorf("max budget %d exceeds limit %d", maxBudget, limit)
	}

	source, err := a.openSource()
	if err != nil {
		return err
	}
	if closer, ok := source.(io.Closer); ok {
		defer closer.Close()
	}

	menu, err := source.ListMenuItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load menu: %w", err)
	}

	result, err := gacha.Pull(logr.NewContext(ctx, a.logger), menu, minBudget, maxBudget, opts, pullOpts...)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}
