package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/staffworks/staffbot/internal/domain"
)

// ─── Shop Catalog Operations ────────────────────────────────────────────────

// ListItems returns all shop items.
func (db *DB) ListItems(ctx context.Context) ([]domain.ShopItem, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, name, price, description FROM shop_items ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []domain.ShopItem
	for rows.Next() {
		var it domain.ShopItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Description); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// FindItem looks an item up by name, case-insensitively, returning the first
// match. Returns domain.ErrItemNotFound when absent.
func (db *DB) FindItem(ctx context.Context, name string) (domain.ShopItem, error) {
	var it domain.ShopItem
	err := db.db.QueryRowContext(ctx, `
		SELECT id, name, price, description FROM shop_items
		WHERE name = ? COLLATE NOCASE ORDER BY id LIMIT 1
	`, name).Scan(&it.ID, &it.Name, &it.Price, &it.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ShopItem{}, domain.ErrItemNotFound
	}
	if err != nil {
		return domain.ShopItem{}, fmt.Errorf("find item: %w", err)
	}
	return it, nil
}

// AddItem inserts a new catalog item. Name uniqueness is NOT enforced;
// case-variant duplicates are left to admin discipline.
func (db *DB) AddItem(ctx context.Context, name string, price int64, description string) (domain.ShopItem, error) {
	res, err := db.db.ExecContext(ctx, `
		INSERT INTO shop_items (name, price, description) VALUES (?, ?, ?)
	`, name, price, description)
	if err != nil {
		return domain.ShopItem{}, fmt.Errorf("add item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.ShopItem{}, fmt.Errorf("add item: %w", err)
	}
	return domain.ShopItem{ID: id, Name: name, Price: price, Description: description}, nil
}

// RemoveItem deletes the first case-insensitive match and reports whether
// one existed.
func (db *DB) RemoveItem(ctx context.Context, name string) (bool, error) {
	res, err := db.db.ExecContext(ctx, `
		DELETE FROM shop_items WHERE id = (
			SELECT id FROM shop_items WHERE name = ? COLLATE NOCASE ORDER BY id LIMIT 1
		)
	`, name)
	if err != nil {
		return false, fmt.Errorf("remove item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove item: %w", err)
	}
	return n > 0, nil
}

// ResetItems clears the catalog.
func (db *DB) ResetItems(ctx context.Context) error {
	if _, err := db.db.ExecContext(ctx, `DELETE FROM shop_items`); err != nil {
		return fmt.Errorf("reset items: %w", err)
	}
	return nil
}
