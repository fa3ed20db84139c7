package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"china-one/internal/domain"
	apperrors "china-one/internal/errors"
)

type MySQLAdminRepository struct {
	db *sql.DB
}

func NewMySQLAdminRepository(db *sql.DB) *MySQLAdminRepository {
	return &MySQLAdminRepository{db: db}
}

func (r *MySQLAdminRepository) FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	query := `
		SELECT id, email, fullName, role, isActive, lastLoginAt, createdAt
		FROM admin_users
		WHERE email = ?
	`

	var a domain.AdminUser
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&a.ID, &a.Email, &a.FullName, &a.Role, &a.Active, &a.LastLoginAt, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("admin user %s not found", email))
	}
	if err != nil {
		return nil, fmt.Errorf("querying admin user by email: %w", err)
	}

	return &a, nil
}

func (r *MySQLAdminRepository) Insert(ctx context.Context, a domain.AdminUser) error {
	query := `
		INSERT INTO admin_users (id, email, fullName, role, isActive)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Email, a.FullName, a.Role, a.Active)
	if err != nil {
		return fmt.Errorf("inserting admin user: %w", err)
	}
	return nil
}

func (r *MySQLAdminRepository) StampLastLogin(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE admin_users SET lastLoginAt = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("updating admin last login: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("admin user %s not found", id))
	}
	return nil
}
