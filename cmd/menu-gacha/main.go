// cmd/menu-gacha/main.go
package main

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"mcp-menu-gacha/internal/catalog"
	"mcp-menu-gacha/internal/config"
	"mcp-menu-gacha/internal/logging"
	"mcp-menu-gacha/internal/server"
	"mcp-menu-gacha/internal/storage"
)

// app carries what every subcommand needs once the root command has
// loaded the configuration.
type app struct {
	cfgFile string
	config  *config.Config
	logger  logr.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "menu-gacha",
		Short:   "Random menu picker that fits a budget",
		Version: server.Version,
		Long: `menu-gacha draws a random set of menu items whose total price
falls inside a budget band. It serves the draw as an MCP tool over HTTP
and can also pull once from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	rootCmd.SetVersionTemplate("mcp-menu-gacha version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./config.yaml or $HOME/.config/menu-gacha/config.yaml)")

	rootCmd.AddCommand(
		newServeCmd(a),
		newPullCmd(a),
		newImportCmd(a),
	)
	return rootCmd
}

func (a *app) load() error {
	v, err := config.New(a.cfgFile)
	if err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.config = cfg
	a.logger = logger
	return nil
}

// openSource serves the menu from the configured YAML file when one is
// set and from the SQLite catalog otherwise.
func (a *app) openSource() (catalog.Source, error) {
	if path := a.config.Catalog.MenuFile; path != "" {
		items, err := catalog.LoadFile(path)
		if err != nil {
			return nil, err
		}
		a.logger.V(1).Info("Serving menu from file", "path", path, "items", len(items))
		return catalog.NewStatic(items), nil
	}

	store, err := storage.NewSQLiteStorage(a.config.Catalog.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return store, nil
}
