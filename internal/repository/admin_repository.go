package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coupon-dispenser/internal/model"
)

// AdminPool defines the database operations needed by AdminRepository.
type AdminPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AdminRepository provides read access to admin accounts.
type AdminRepository struct {
	pool AdminPool
}

// NewAdminRepository creates a new AdminRepository with the given pool.
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// NewAdminRepositoryWithPool creates a new AdminRepository with a custom pool interface.
// This is primarily used for testing.
func NewAdminRepositoryWithPool(pool AdminPool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// GetByUsername retrieves an admin account by username.
// Returns nil, nil when no such account exists.
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	query := `SELECT id, username, password_hash FROM admins WHERE username = $1`

	var admin model.Admin
	err := r.pool.QueryRow(ctx, query, username).Scan(&admin.ID, &admin.Username, &admin.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Unknown user - let service handle
		}
		return nil, fmt.Errorf("get admin by username %s: %w", username, err)
	}
	return &admin, nil
}
