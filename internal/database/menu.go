package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"armancoffee/internal/models"
)

// ReplaceMenu wipes the catalog and inserts the provided category tree in a
// single transaction, so a failure partway through leaves the previous
// catalog untouched. Sort orders are stored as given; defaulting happens
// where the categories are assembled.
func (db *DB) ReplaceMenu(ctx context.Context, categories []models.MenuCategory) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("failed to clear categories: %w", err)
	}

	ts := now()
	for _, cat := range categories {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, slug, sort_order, is_active, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			newID(), cat.Name, cat.Slug, cat.SortOrder, cat.IsActive, ts, ts,
		)
		if err != nil {
			return fmt.Errorf("failed to insert category %q: %w", cat.Slug, err)
		}

		for _, item := range cat.Items {
			optionsJSON, err := json.Marshal(item.Options)
			if err != nil {
				return fmt.Errorf("failed to encode options for %q: %w", item.Name, err)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO items (id, category_slug, name, description, price, image, options, is_active, created_at, updated_at)
                 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				newID(), cat.Slug, item.Name, item.Description, item.Price, item.Image, string(optionsJSON), item.IsActive, ts, ts,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item %q: %w", item.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit menu import: %w", err)
	}
	return nil
}

// GetMenu returns active categories sorted by sort_order, each carrying its
// active items.
func (db *DB) GetMenu(ctx context.Context) ([]models.MenuCategory, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, slug, sort_order, is_active, created_at, updated_at
         FROM categories WHERE is_active = 1 ORDER BY sort_order, slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.MenuCategory
	for rows.Next() {
		var cat models.MenuCategory
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.SortOrder, &cat.IsActive, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range categories {
		items, err := db.activeItemsByCategory(ctx, categories[i].Slug)
		if err != nil {
			return nil, err
		}
		categories[i].Items = items
	}

	return categories, nil
}

func (db *DB) activeItemsByCategory(ctx context.Context, slug string) ([]models.MenuItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, category_slug, name, description, price, image, options, is_active, created_at, updated_at
         FROM items WHERE category_slug = ? AND is_active = 1 ORDER BY name`, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetMenuItem returns a catalog item by id regardless of active flag.
// Callers decide whether inactive items are orderable.
func (db *DB) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, category_slug, name, description, price, image, options, is_active, created_at, updated_at
         FROM items WHERE id = ?`, id)

	item, err := scanMenuItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("menu item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMenuItem(row rowScanner) (*models.MenuItem, error) {
	var (
		item        models.MenuItem
		description sql.NullString
		image       sql.NullString
		optionsJSON sql.NullString
	)
	err := row.Scan(&item.ID, &item.CategorySlug, &item.Name, &description, &item.Price,
		&image, &optionsJSON, &item.IsActive, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.Image = image.String
	if optionsJSON.Valid && optionsJSON.String != "" && optionsJSON.String != "null" {
		if err := json.Unmarshal([]byte(optionsJSON.String), &item.Options); err != nil {
			return nil, fmt.Errorf("failed to decode options: %w", err)
		}
	}
	return &item, nil
}
