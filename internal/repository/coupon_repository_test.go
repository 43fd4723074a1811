package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coupon-dispenser/internal/model"
	"coupon-dispenser/internal/service"
)

// mockRow implements pgx.Row for testing.
type mockRow struct {
	scanFn func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	return m.scanFn(dest...)
}

// mockCouponRows implements pgx.Rows over a fixed coupon list.
type mockCouponRows struct {
	data      []model.CouponWithClaims
	index     int
	withCount bool
	errOnRows error
}

func (m *mockCouponRows) Close()     {}
func (m *mockCouponRows) Err() error { return m.errOnRows }

func (m *mockCouponRows) Next() bool {
	if m.index < len(m.data) {
		m.index++
		return true
	}
	return false
}

func (m *mockCouponRows) Scan(dest ...any) error {
	c := m.data[m.index-1]
	*(dest[0].(*int64)) = c.ID
	*(dest[1].(*string)) = c.Code
	*(dest[2].(*string)) = c.Description
	*(dest[3].(*bool)) = c.IsActive
	*(dest[4].(*time.Time)) = c.CreatedAt
	if m.withCount {
		*(dest[5].(*int64)) = c.ClaimCount
	}
	return nil
}

func (m *mockCouponRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockCouponRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockCouponRows) RawValues() [][]byte                          { return nil }
func (m *mockCouponRows) Values() ([]any, error)                       { return nil, nil }
func (m *mockCouponRows) Conn() *pgx.Conn                              { return nil }

// mockCouponPool implements CouponPool for testing.
type mockCouponPool struct {
	execFn     func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	queryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (m *mockCouponPool) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	if m.execFn != nil {
		return m.execFn(ctx, sql, arguments...)
	}
	return pgconn.CommandTag{}, nil
}

func (m *mockCouponPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.queryRowFn != nil {
		return m.queryRowFn(ctx, sql, args...)
	}
	return &mockRow{scanFn: func(dest ...any) error { return nil }}
}

func (m *mockCouponPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, sql, args...)
	}
	return &mockCouponRows{}, nil
}

func TestCouponRepository_Insert_Success(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pool := &mockCouponPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			assert.Equal(t, "WELCOME10", args[0])
			return &mockRow{scanFn: func(dest ...any) error {
				*(dest[0].(*int64)) = 7
				*(dest[1].(*time.Time)) = created
				return nil
			}}
		},
	}

	repo := NewCouponRepositoryWithPool(pool)
	coupon := &model.Coupon{Code: "WELCOME10", Description: "10% off", IsActive: true}
	err := repo.Insert(context.Background(), coupon)

	require.NoError(t, err)
	assert.Equal(t, int64(7), coupon.ID)
	assert.Equal(t, created, coupon.CreatedAt)
}

func TestCouponRepository_Insert_DuplicateCode(t *testing.T) {
	pool := &mockCouponPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFn: func(dest ...any) error {
				return &pgconn.PgError{Code: "23505"}
			}}
		},
	}

	repo := NewCouponRepositoryWithPool(pool)
	err := repo.Insert(context.Background(), &model.Coupon{Code: "WELCOME10"})

	assert.ErrorIs(t, err, service.ErrCouponCodeExists)
}

func TestCouponRepository_ListActive_Success(t *testing.T) {
	pool := &mockCouponPool{
		queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &mockCouponRows{data: []model.CouponWithClaims{
				{Coupon: model.Coupon{ID: 1, Code: "WELCOME10", IsActive: true}},
				{Coupon: model.Coupon{ID: 3, Code: "FREESHIP", IsActive: true}},
			}}, nil
		},
	}

	repo := NewCouponRepositoryWithPool(pool)
	coupons, err := repo.ListActive(context.Background())

	require.NoError(t, err)
	require.Len(t, coupons, 2)
	assert.Equal(t, "WELCOME10", coupons[0].Code)
	assert.Equal(t, int64(3), coupons[1].ID)
}

func TestCouponRepository_ListActive_Empty(t *testing.T) {
	repo := NewCouponRepositoryWithPool(&mockCouponPool{})
	coupons, err := repo.ListActive(context.Background())

	require.NoError(t, err)
	require.NotNil(t, coupons, "Should return empty slice, not nil")
	assert.Len(t, coupons, 0)
}

func TestCouponRepository_ListWithClaimCounts_Success(t *testing.T) {
	pool := &mockCouponPool{
		queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &mockCouponRows{
				withCount: true,
				data: []model.CouponWithClaims{
					{Coupon: model.Coupon{ID: 1, Code: "WELCOME10", IsActive: true}, ClaimCount: 12},
					{Coupon: model.Coupon{ID: 2, Code: "SPRING25", IsActive: false}, ClaimCount: 0},
				},
			}, nil
		},
	}

	repo := NewCouponRepositoryWithPool(pool)
	coupons, err := repo.ListWithClaimCounts(context.Background())

	require.NoError(t, err)
	require.Len(t, coupons, 2)
	assert.Equal(t, int64(12), coupons[0].ClaimCount)
	assert.False(t, coupons[1].IsActive)
}

func TestCouponRepository_Update_NotFound(t *testing.T) {
	pool := &mockCouponPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFn: func(dest ...any) error {
				return pgx.ErrNoRows
			}}
		},
	}

	repo := NewCouponRepositoryWithPool(pool)
	_, err := repo.Update(context.Background(), 99, &model.UpdateCouponRequest{})

	assert.ErrorIs(t, err, service.ErrCouponNotFound)
}

func TestCouponRepository_Update_DuplicateCode(t *testing.T) {
	pool := &mockCouponPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFn: func(dest ...any) error {
				return &pgconn.PgError{Code: "23505"}
			}}
		},
	}

	repo := NewCouponRepositoryWithPool(pool)
	code := "TAKEN"
	_, err := repo.Update(context.Background(), 1, &model.UpdateCouponRequest{Code: &code})

	assert.ErrorIs(t, err, service.ErrCouponCodeExists)
}

func TestCouponRepository_Delete_Success(t *testing.T) {
	pool := &mockCouponPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			assert.Equal(t, int64(5), arguments[0])
			return pgconn.NewCommandTag("DELETE 1"), nil
		},
	}

	repo := NewCouponRepositoryWithPool(pool)
	err := repo.Delete(context.Background(), 5)

	assert.NoError(t, err)
}

func TestCouponRepository_Delete_NotFound(t *testing.T) {
	pool := &mockCouponPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 0"), nil
		},
	}

	repo := NewCouponRepositoryWithPool(pool)
	err := repo.Delete(context.Background(), 99)

	assert.ErrorIs(t, err, service.ErrCouponNotFound)
}

func TestCouponRepository_Delete_QueryError(t *testing.T) {
	dbErr := errors.New("database connection failed")
	pool := &mockCouponPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, dbErr
		},
	}

	repo := NewCouponRepositoryWithPool(pool)
	err := repo.Delete(context.Background(), 1)

	assert.ErrorIs(t, err, dbErr)
}
