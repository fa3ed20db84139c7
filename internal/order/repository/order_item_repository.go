package repository

import (
	"context"
	"database/sql"
	"fmt"

	"china-one/internal/domain"
)

type MySQLOrderItemRepository struct {
	db *sql.DB
}

func NewMySQLOrderItemRepository(db *sql.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

// InsertAll writes every line item inside the caller's transaction.
func (r *MySQLOrderItemRepository) InsertAll(ctx context.Context, tx *sql.Tx, items []domain.OrderItem) error {
	query := `
		INSERT INTO order_items (orderId, menuItemId, name, quantity, basePrice, finalPrice,
		                         customizations, specialInstructions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, item := range items {
		_, err := tx.ExecContext(ctx, query,
			item.OrderID, item.MenuItemID, item.Name, item.Quantity,
			item.BasePrice, item.FinalPrice, item.Customizations, item.SpecialInstructions,
		)
		if err != nil {
			return fmt.Errorf("inserting order item: %w", err)
		}
	}
	return nil
}

func (r *MySQLOrderItemRepository) ListByOrder(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	query := `
		SELECT id, orderId, menuItemId, name, quantity, basePrice, finalPrice,
		       customizations, specialInstructions
		FROM order_items
		WHERE orderId = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.Name, &item.Quantity,
			&item.BasePrice, &item.FinalPrice, &item.Customizations, &item.SpecialInstructions,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}

// ListForCompletedOrders joins items to completed orders for the reporting
// view.
func (r *MySQLOrderItemRepository) ListForCompletedOrders(ctx context.Context) ([]domain.OrderItem, error) {
	query := `
		SELECT oi.id, oi.orderId, oi.menuItemId, oi.name, oi.quantity,
		       oi.basePrice, oi.finalPrice, oi.customizations, oi.specialInstructions
		FROM order_items oi
		JOIN orders o ON o.id = oi.orderId
		WHERE o.status = ?
	`

	rows, err := r.db.QueryContext(ctx, query, domain.OrderStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("querying completed order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.Name, &item.Quantity,
			&item.BasePrice, &item.FinalPrice, &item.Customizations, &item.SpecialInstructions,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}
