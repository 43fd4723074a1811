package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"coupon-dispenser/internal/model"
	"coupon-dispenser/internal/service"
)

// CouponPool defines the database operations needed by CouponRepository.
// This allows for easier testing with mocks.
type CouponPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CouponRepository provides data access for coupons using pgx.
type CouponRepository struct {
	pool CouponPool
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a new CouponRepository with a custom pool interface.
// This is primarily used for testing.
func NewCouponRepositoryWithPool(pool CouponPool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// Insert inserts a new coupon and fills in its generated id and timestamp.
// Returns service.ErrCouponCodeExists when the code is already taken.
func (r *CouponRepository) Insert(ctx context.Context, coupon *model.Coupon) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO coupons (code, description, is_active) VALUES ($1, $2, $3) RETURNING id, created_at`,
		coupon.Code, coupon.Description, coupon.IsActive).Scan(&coupon.ID, &coupon.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrCouponCodeExists
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// ListActive retrieves the coupons eligible for rotation, ordered by ascending id.
// The ordering is what makes the round-robin deterministic.
func (r *CouponRepository) ListActive(ctx context.Context) ([]model.Coupon, error) {
	query := `SELECT id, code, description, is_active, created_at
	          FROM coupons WHERE is_active ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active coupons: %w", err)
	}
	defer rows.Close()

	var coupons []model.Coupon
	for rows.Next() {
		var c model.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.Description, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}

	// Return empty slice, not nil
	if coupons == nil {
		coupons = []model.Coupon{}
	}

	return coupons, nil
}

// ListWithClaimCounts retrieves all coupons with the number of claims issued
// against each, ordered by ascending id.
func (r *CouponRepository) ListWithClaimCounts(ctx context.Context) ([]model.CouponWithClaims, error) {
	query := `SELECT c.id, c.code, c.description, c.is_active, c.created_at, COUNT(cl.id)
	          FROM coupons c
	          LEFT JOIN claims cl ON cl.coupon_id = c.id
	          GROUP BY c.id
	          ORDER BY c.id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []model.CouponWithClaims
	for rows.Next() {
		var c model.CouponWithClaims
		if err := rows.Scan(&c.ID, &c.Code, &c.Description, &c.IsActive, &c.CreatedAt, &c.ClaimCount); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}

	if coupons == nil {
		coupons = []model.CouponWithClaims{}
	}

	return coupons, nil
}

// Update applies the non-nil fields of req to the coupon with the given id and
// returns the updated row.
// Returns service.ErrCouponNotFound when the coupon doesn't exist and
// service.ErrCouponCodeExists when renaming to a code already in use.
func (r *CouponRepository) Update(ctx context.Context, id int64, req *model.UpdateCouponRequest) (*model.Coupon, error) {
	query := `UPDATE coupons
	          SET code = COALESCE($2, code),
	              description = COALESCE($3, description),
	              is_active = COALESCE($4, is_active)
	          WHERE id = $1
	          RETURNING id, code, description, is_active, created_at`

	var coupon model.Coupon
	err := r.pool.QueryRow(ctx, query, id, req.Code, req.Description, req.IsActive).Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.Description,
		&coupon.IsActive,
		&coupon.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrCouponNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, service.ErrCouponCodeExists
		}
		return nil, fmt.Errorf("update coupon %d: %w", id, err)
	}
	return &coupon, nil
}

// Delete removes the coupon with the given id. Claims referencing it are
// removed by the store's cascade rule.
// Returns service.ErrCouponNotFound when no row was deleted.
func (r *CouponRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete coupon %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCouponNotFound
	}
	return nil
}
