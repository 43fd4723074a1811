package service

import (
	"context"
	"fmt"

	"coupon-dispenser/internal/model"
)

// AdminCouponRepository is the coupon data access needed by the admin console.
type AdminCouponRepository interface {
	Insert(ctx context.Context, coupon *model.Coupon) error
	ListWithClaimCounts(ctx context.Context) ([]model.CouponWithClaims, error)
	Update(ctx context.Context, id int64, req *model.UpdateCouponRequest) (*model.Coupon, error)
	Delete(ctx context.Context, id int64) error
}

// AdminClaimRepository is the claim data access needed by the admin console.
type AdminClaimRepository interface {
	ListPage(ctx context.Context, limit, offset int) ([]model.ClaimWithCoupon, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// AdminService provides business logic for the admin console: coupon pool
// management and claim history.
type AdminService struct {
	couponRepo AdminCouponRepository
	claimRepo  AdminClaimRepository
}

// NewAdminService creates a new AdminService with the given repositories.
func NewAdminService(couponRepo AdminCouponRepository, claimRepo AdminClaimRepository) *AdminService {
	return &AdminService{couponRepo: couponRepo, claimRepo: claimRepo}
}

// CreateCoupon creates a new coupon from the request. The active flag
// defaults to true when omitted.
// Returns ErrCouponCodeExists when the code is already taken.
func (s *AdminService) CreateCoupon(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	coupon := &model.Coupon{
		Code:        req.Code,
		Description: req.Description,
		IsActive:    active,
	}
	if err := s.couponRepo.Insert(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// ListCoupons retrieves all coupons with their claim counts.
func (s *AdminService) ListCoupons(ctx context.Context) ([]model.CouponWithClaims, error) {
	return s.couponRepo.ListWithClaimCounts(ctx)
}

// UpdateCoupon applies a partial update to the coupon with the given id.
// Returns ErrCouponNotFound or ErrCouponCodeExists from the repository.
func (s *AdminService) UpdateCoupon(ctx context.Context, id int64, req *model.UpdateCouponRequest) (*model.Coupon, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	return s.couponRepo.Update(ctx, id, req)
}

// DeleteCoupon removes the coupon with the given id.
func (s *AdminService) DeleteCoupon(ctx context.Context, id int64) error {
	return s.couponRepo.Delete(ctx, id)
}

// ListClaims retrieves one page of claim history, newest first, with
// pagination metadata. Page defaults to 1, limit to 20 and is capped at 100.
func (s *AdminService) ListClaims(ctx context.Context, page, limit int) (*model.ClaimListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := (page - 1) * limit

	claims, err := s.claimRepo.ListPage(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}

	total, err := s.claimRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count claims: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &model.ClaimListResponse{
		Claims: claims,
		Pagination: model.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// DeleteClaim removes the claim with the given id.
func (s *AdminService) DeleteClaim(ctx context.Context, id int64) error {
	return s.claimRepo.Delete(ctx, id)
}
