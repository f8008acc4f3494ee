// Package catalog reads menus for the gacha. A menu comes either from the
// SQLite store or from a YAML file of the form:
//
//	items:
//	  - item_id: karaage
//	    name: 唐揚げ
//	    price: 480
//	    allergens: [ALLERGEN_TYPE_WHEAT]
//	  - item_id: onigiri
//	    name: おにぎり
//	    price: 180
//	    has_staple_food: true
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mcp-menu-gacha/internal/models"
)

var (
	ErrMissingItemID   = errors.New("menu item has no item_id")
	ErrDuplicateItemID = errors.New("duplicate item_id")
	ErrNegativePrice   = errors.New("negative price")
)

// Source provides the current menu. Implementations return items in a
// stable order.
type Source interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
}

type menuFile struct {
	Items []models.MenuItem `yaml:"items"`
}

// Parse decodes and validates a YAML menu document.
func Parse(data []byte) ([]models.MenuItem, error) {
	var doc menuFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse menu: %w", err)
	}
	if err := Validate(doc.Items); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

// LoadFile reads and validates the YAML menu at path.
func LoadFile(path string) ([]models.MenuItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}
	return Parse(data)
}

// Validate checks that every item has a unique id and a non-negative price.
func Validate(items []models.MenuItem) error {
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if item.ItemID == "" {
			return fmt.Errorf("item %d (%q): %w", i, item.Name, ErrMissingItemID)
		}
		if _, dup := seen[item.ItemID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateItemID, item.ItemID)
		}
		seen[item.ItemID] = struct{}{}
		if item.Price < 0 {
			return fmt.Errorf("item %s: %w %d", item.ItemID, ErrNegativePrice, item.Price)
		}
		for _, c := range item.CustomizeItems {
			if c.Price < 0 {
				return fmt.Errorf("item %s customization %s: %w %d", item.ItemID, c.ItemID, ErrNegativePrice, c.Price)
			}
		}
	}
	return nil
}

// Static serves a fixed menu loaded once.
type Static struct {
	items []models.MenuItem
}

// NewStatic returns a Source over items. The slice is not copied.
func NewStatic(items []models.MenuItem) *Static {
	return &Static{items: items}
}

func (s *Static) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return s.items, nil
}
