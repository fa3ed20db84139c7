package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"china-one/internal/domain"
	apperrors "china-one/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `id, customerId, customerName, customerPhone, customerEmail,
       orderType, paymentMethod, status, subtotal, tax, deliveryFee, total,
       specialInstructions, estimatedReadyAt, completedAt, createdAt, updatedAt`

// Insert writes the order header inside the caller's transaction so the
// header and its items commit or roll back as one unit.
func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, o domain.Order) (uint, error) {
	query := `
		INSERT INTO orders (customerId, customerName, customerPhone, customerEmail,
		                    orderType, paymentMethod, status, subtotal, tax, deliveryFee, total,
		                    specialInstructions, estimatedReadyAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		o.CustomerID, o.CustomerName, o.CustomerPhone, o.CustomerEmail,
		o.OrderType, o.PaymentMethod, o.Status,
		o.Subtotal, o.Tax, o.DeliveryFee, o.Total,
		o.SpecialInstructions, o.EstimatedReadyAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// List returns orders newest first, optionally filtered by status.
func (r *MySQLOrderRepository) List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY createdAt DESC`

	return r.queryOrders(ctx, query, args...)
}

// ListByCustomer returns a customer's order history, newest first.
func (r *MySQLOrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customerId = ? ORDER BY createdAt DESC`
	return r.queryOrders(ctx, query, customerID)
}

// ListCompletedSince returns completed orders created at or after the cut,
// for the reporting view.
func (r *MySQLOrderRepository) ListCompletedSince(ctx context.Context, since time.Time) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status = ? AND createdAt >= ? ORDER BY createdAt DESC`
	return r.queryOrders(ctx, query, domain.OrderStatusCompleted, since)
}

// UpdateStatusIf performs the conditional transition write. The WHERE clause
// carries the expected current status, so of two racing staff writes exactly
// one sees rowsAffected == 1. completedAt is stamped only when provided.
func (r *MySQLOrderRepository) UpdateStatusIf(ctx context.Context, id uint, from, to domain.OrderStatus, completedAt *time.Time) (bool, error) {
	var (
		result sql.Result
		err    error
	)
	if completedAt != nil {
		result, err = r.db.ExecContext(ctx,
			`UPDATE orders SET status = ?, completedAt = ? WHERE id = ? AND status = ?`,
			to, *completedAt, id, from,
		)
	} else {
		result, err = r.db.ExecContext(ctx,
			`UPDATE orders SET status = ? WHERE id = ? AND status = ?`,
			to, id, from,
		)
	}
	if err != nil {
		return false, fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *MySQLOrderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func scanOrder(scan func(dest ...interface{}) error) (*domain.Order, error) {
	var o domain.Order
	err := scan(
		&o.ID, &o.CustomerID, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail,
		&o.OrderType, &o.PaymentMethod, &o.Status,
		&o.Subtotal, &o.Tax, &o.DeliveryFee, &o.Total,
		&o.SpecialInstructions, &o.EstimatedReadyAt, &o.CompletedAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning order row: %w", err)
	}
	return &o, nil
}
