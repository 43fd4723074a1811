package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"coupon-dispenser/internal/model"
	"coupon-dispenser/internal/service"
)

// ClaimPool defines the database operations needed by ClaimRepository.
type ClaimPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ClaimRepository provides data access for claims using pgx.
type ClaimRepository struct {
	pool ClaimPool
}

// NewClaimRepository creates a new ClaimRepository with the given pool.
func NewClaimRepository(pool *pgxpool.Pool) *ClaimRepository {
	return &ClaimRepository{pool: pool}
}

// NewClaimRepositoryWithPool creates a new ClaimRepository with a custom pool interface.
// This is primarily used for testing.
func NewClaimRepositoryWithPool(pool ClaimPool) *ClaimRepository {
	return &ClaimRepository{pool: pool}
}

const claimColumns = `id, coupon_id, ip_address, user_agent, created_at`

// FindRecentByIP retrieves the most recent claim from the given client IP
// created at or after since. Returns nil, nil when no such claim exists.
func (r *ClaimRepository) FindRecentByIP(ctx context.Context, ip string, since time.Time) (*model.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims
	          WHERE ip_address = $1 AND created_at >= $2
	          ORDER BY created_at DESC LIMIT 1`

	var claim model.Claim
	err := r.pool.QueryRow(ctx, query, ip, since).Scan(
		&claim.ID,
		&claim.CouponID,
		&claim.IPAddress,
		&claim.UserAgent,
		&claim.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No recent claim - let service handle
		}
		return nil, fmt.Errorf("find recent claim by ip: %w", err)
	}
	return &claim, nil
}

// FindByID retrieves a claim by id joined with the code of its coupon.
// Returns nil, nil when the claim does not exist.
func (r *ClaimRepository) FindByID(ctx context.Context, id int64) (*model.ClaimWithCoupon, error) {
	query := `SELECT cl.id, cl.coupon_id, cl.ip_address, cl.user_agent, cl.created_at, c.code
	          FROM claims cl
	          JOIN coupons c ON c.id = cl.coupon_id
	          WHERE cl.id = $1`

	var claim model.ClaimWithCoupon
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&claim.ID,
		&claim.CouponID,
		&claim.IPAddress,
		&claim.UserAgent,
		&claim.CreatedAt,
		&claim.CouponCode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find claim %d: %w", id, err)
	}
	return &claim, nil
}

// FindLatest retrieves the globally most recent claim across all clients.
// Returns nil, nil when no claims exist yet.
func (r *ClaimRepository) FindLatest(ctx context.Context) (*model.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims ORDER BY created_at DESC LIMIT 1`

	var claim model.Claim
	err := r.pool.QueryRow(ctx, query).Scan(
		&claim.ID,
		&claim.CouponID,
		&claim.IPAddress,
		&claim.UserAgent,
		&claim.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find latest claim: %w", err)
	}
	return &claim, nil
}

// Insert creates a claim for the given coupon and returns it with its
// generated id and timestamp. This is the dispenser's only write.
func (r *ClaimRepository) Insert(ctx context.Context, couponID int64, ip, userAgent string) (*model.Claim, error) {
	query := `INSERT INTO claims (coupon_id, ip_address, user_agent)
	          VALUES ($1, $2, $3) RETURNING id, created_at`

	claim := model.Claim{
		CouponID:  couponID,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	err := r.pool.QueryRow(ctx, query, couponID, ip, userAgent).Scan(&claim.ID, &claim.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert claim: %w", err)
	}
	return &claim, nil
}

// ListPage retrieves a page of claim history, newest first, joined with each
// claim's coupon code.
func (r *ClaimRepository) ListPage(ctx context.Context, limit, offset int) ([]model.ClaimWithCoupon, error) {
	query := `SELECT cl.id, cl.coupon_id, cl.ip_address, cl.user_agent, cl.created_at, c.code
	          FROM claims cl
	          JOIN coupons c ON c.id = cl.coupon_id
	          ORDER BY cl.created_at DESC
	          LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var claims []model.ClaimWithCoupon
	for rows.Next() {
		var c model.ClaimWithCoupon
		if err := rows.Scan(&c.ID, &c.CouponID, &c.IPAddress, &c.UserAgent, &c.CreatedAt, &c.CouponCode); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		claims = append(claims, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claim rows: %w", err)
	}

	// Return empty slice, not nil
	if claims == nil {
		claims = []model.ClaimWithCoupon{}
	}

	return claims, nil
}

// Count returns the total number of claims.
func (r *ClaimRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM claims`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count claims: %w", err)
	}
	return total, nil
}

// Delete removes the claim with the given id.
// Returns service.ErrClaimNotFound when no row was deleted.
func (r *ClaimRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM claims WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete claim %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrClaimNotFound
	}
	return nil
}
