package model

import "time"

// Coupon is a dispensable coupon code managed through the admin API.
type Coupon struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CouponWithClaims is the admin list view of a coupon with its claim count.
type CouponWithClaims struct {
	Coupon
	ClaimCount int64 `json:"claimCount"`
}

// CreateCouponRequest is the DTO for creating a coupon.
type CreateCouponRequest struct {
	Code        string `json:"code" validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"max=1024"`
	IsActive    *bool  `json:"isActive"` // defaults to true when omitted
}

// UpdateCouponRequest is the DTO for partially updating a coupon.
// Nil fields are left unchanged.
type UpdateCouponRequest struct {
	Code        *string `json:"code" validate:"omitempty,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1024"`
	IsActive    *bool   `json:"isActive"`
}
