// internal/storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"mcp-menu-gacha/internal/models"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS menu_items (
        item_id TEXT PRIMARY KEY,
        position INTEGER NOT NULL,
        name TEXT NOT NULL,
        description TEXT NOT NULL,
        price INTEGER NOT NULL CHECK (price >= 0),
        has_staple_food INTEGER NOT NULL,
        is_alcohol INTEGER NOT NULL
    );

    CREATE TABLE IF NOT EXISTS menu_item_allergens (
        item_id TEXT NOT NULL,
        position INTEGER NOT NULL,
        allergen TEXT NOT NULL,
        PRIMARY KEY (item_id, position),
        FOREIGN KEY (item_id) REFERENCES menu_items(item_id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS customize_items (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        item_id TEXT NOT NULL,
        customize_id TEXT NOT NULL,
        name TEXT NOT NULL,
        price INTEGER NOT NULL,
        FOREIGN KEY (item_id) REFERENCES menu_items(item_id) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_menu_items_position ON menu_items(position);
    CREATE INDEX IF NOT EXISTS idx_customize_items_item_id ON customize_items(item_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// ReplaceMenu swaps the stored menu for items in a single transaction.
// Catalog order is kept as each item's position.
func (s *SQLiteStorage) ReplaceMenu(ctx context.Context, items []models.MenuItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM customize_items",
		"DELETE FROM menu_item_allergens",
		"DELETE FROM menu_items",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear menu: %w", err)
		}
	}

	itemQuery := `
        INSERT INTO menu_items (item_id, position, name, description, price, has_staple_food, is_alcohol)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	allergenQuery := `
        INSERT INTO menu_item_allergens (item_id, position, allergen)
        VALUES (?, ?, ?)
    `
	customizeQuery := `
        INSERT INTO customize_items (item_id, customize_id, name, price)
        VALUES (?, ?, ?, ?)
    `
	for pos, item := range items {
		_, err = tx.ExecContext(ctx, itemQuery,
			item.ItemID, pos, item.Name, item.Description, item.Price,
			item.HasStapleFood, item.IsAlcohol)
		if err != nil {
			return fmt.Errorf("failed to insert menu item %s: %w", item.ItemID, err)
		}

		for i, allergen := range item.Allergens {
			if _, err = tx.ExecContext(ctx, allergenQuery, item.ItemID, i, string(allergen)); err != nil {
				return fmt.Errorf("failed to insert allergen for %s: %w", item.ItemID, err)
			}
		}

		for _, c := range item.CustomizeItems {
			if _, err = tx.ExecContext(ctx, customizeQuery, item.ItemID, c.ItemID, c.Name, c.Price); err != nil {
				return fmt.Errorf("failed to insert customization for %s: %w", item.ItemID, err)
			}
		}
	}

	return tx.Commit()
}

// ListMenuItems returns the stored menu in catalog order.
func (s *SQLiteStorage) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	query := `
        SELECT item_id, name, description, price, has_staple_food, is_alcohol
        FROM menu_items
        ORDER BY position
    `

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	items := []models.MenuItem{}
	index := map[string]int{}
	for rows.Next() {
		item := models.MenuItem{Allergens: []models.Allergen{}}
		err := rows.Scan(
			&item.ItemID, &item.Name, &item.Description, &item.Price,
			&item.HasStapleFood, &item.IsAlcohol)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		index[item.ItemID] = len(items)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read menu items: %w", err)
	}
	rows.Close()

	if err := s.loadAllergens(ctx, items, index); err != nil {
		return nil, err
	}
	if err := s.loadCustomizeItems(ctx, items, index); err != nil {
		return nil, err
	}

	return items, nil
}

func (s *SQLiteStorage) loadAllergens(ctx context.Context, items []models.MenuItem, index map[string]int) error {
	query := `
        SELECT item_id, allergen
        FROM menu_item_allergens
        ORDER BY item_id, position
    `

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query allergens: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID, allergen string
		if err := rows.Scan(&itemID, &allergen); err != nil {
			return fmt.Errorf("failed to scan allergen: %w", err)
		}
		if i, ok := index[itemID]; ok {
			items[i].Allergens = append(items[i].Allergens, models.Allergen(allergen))
		}
	}
	return rows.Err()
}

func (s *SQLiteStorage) loadCustomizeItems(ctx context.Context, items []models.MenuItem, index map[string]int) error {
	query := `
        SELECT item_id, customize_id, name, price
        FROM customize_items
        ORDER BY id
    `

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query customizations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID string
		var c models.CustomizeItem
		if err := rows.Scan(&itemID, &c.ItemID, &c.Name, &c.Price); err != nil {
			return fmt.Errorf("failed to scan customization: %w", err)
		}
		if i, ok := index[itemID]; ok {
			items[i].CustomizeItems = append(items[i].CustomizeItems, c)
		}
	}
	return rows.Err()
}
