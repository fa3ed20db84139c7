package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"china-one/internal/domain"
	apperrors "china-one/internal/errors"
)

type MySQLMenuRepository struct {
	db *sql.DB
}

func NewMySQLMenuRepository(db *sql.DB) *MySQLMenuRepository {
	return &MySQLMenuRepository{db: db}
}

func (r *MySQLMenuRepository) ListCategories(ctx context.Context) ([]domain.MenuCategory, error) {
	query := `
		SELECT id, name, description, icon, sortOrder
		FROM menu_categories
		ORDER BY sortOrder ASC, name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying menu categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.MenuCategory
	for rows.Next() {
		var c domain.MenuCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning menu category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu category rows: %w", err)
	}

	return categories, nil
}

func (r *MySQLMenuRepository) ListItems(ctx context.Context, categoryID string, availableOnly bool) ([]domain.MenuItem, error) {
	query := `
		SELECT id, categoryId, name, description, basePrice, popular, spicy, available,
		       optionGroups, createdAt, updatedAt
		FROM menu_items
	`
	var args []interface{}
	where := ""
	if categoryID != "" {
		where = " WHERE categoryId = ?"
		args = append(args, categoryID)
	}
	if availableOnly {
		if where == "" {
			where = " WHERE available = 1"
		} else {
			where += " AND available = 1"
		}
	}
	query += where + " ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying menu items: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu item rows: %w", err)
	}

	return items, nil
}

func (r *MySQLMenuRepository) FindItemByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	query := `
		SELECT id, categoryId, name, description, basePrice, popular, spicy, available,
		       optionGroups, createdAt, updatedAt
		FROM menu_items
		WHERE id = ?
	`

	item, err := scanMenuItem(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("menu item %s not found", id))
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *MySQLMenuRepository) Insert(ctx context.Context, item domain.MenuItem) error {
	groups, err := json.Marshal(item.OptionGroups)
	if err != nil {
		return fmt.Errorf("marshaling option groups: %w", err)
	}

	query := `
		INSERT INTO menu_items (id, categoryId, name, description, basePrice, popular, spicy, available, optionGroups)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		item.ID, item.CategoryID, item.Name, item.Description, item.BasePrice,
		item.Popular, item.Spicy, item.Available, string(groups),
	)
	if err != nil {
		return fmt.Errorf("inserting menu item: %w", err)
	}
	return nil
}

func (r *MySQLMenuRepository) Update(ctx context.Context, item domain.MenuItem) error {
	groups, err := json.Marshal(item.OptionGroups)
	if err != nil {
		return fmt.Errorf("marshaling option groups: %w", err)
	}

	query := `
		UPDATE menu_items
		SET categoryId = ?, name = ?, description = ?, basePrice = ?,
		    popular = ?, spicy = ?, available = ?, optionGroups = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		item.CategoryID, item.Name, item.Description, item.BasePrice,
		item.Popular, item.Spicy, item.Available, string(groups), item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating menu item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("menu item %s not found", item.ID))
	}
	return nil
}

func (r *MySQLMenuRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE menu_items SET available = ? WHERE id = ?`, available, id)
	if err != nil {
		return fmt.Errorf("updating menu item availability: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("menu item %s not found", id))
	}
	return nil
}

func scanMenuItem(scan func(dest ...interface{}) error) (*domain.MenuItem, error) {
	var item domain.MenuItem
	var groups []byte
	err := scan(
		&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.BasePrice,
		&item.Popular, &item.Spicy, &item.Available, &groups,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning menu item row: %w", err)
	}

	if len(groups) > 0 {
		if err := json.Unmarshal(groups, &item.OptionGroups); err != nil {
			return nil, fmt.Errorf("unmarshaling option groups: %w", err)
		}
	}
	return &item, nil
}
