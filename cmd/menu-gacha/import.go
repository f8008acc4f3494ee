package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mcp-menu-gacha/internal/catalog"
	"mcp-menu-gacha/internal/storage"
)

func newImportCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the SQLite catalog with the items in a YAML menu file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.importMenu(cmd.Context(), file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML menu file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) importMenu(ctx context.Context, file string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	items, err := catalog.LoadFile(file)
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(a.config.Catalog.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer store.Close()

	if err := store.ReplaceMenu(ctx, items); err != nil {
		return err
	}

	a.logger.Info("Imported menu", "file", file, "items", len(items), "db", a.config.Catalog.DBPath)
	return nil
}
