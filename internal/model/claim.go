package model

import "time"

// Claim records one coupon issuance to a client. Claims are created exactly
// once per issuance and never mutated afterwards.
type Claim struct {
	ID        int64     `json:"id"`
	CouponID  int64     `json:"couponId"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClaimWithCoupon is a claim joined with the code of the coupon it issued.
type ClaimWithCoupon struct {
	Claim
	CouponCode string `json:"couponCode"`
}

// Pagination describes the slice of claim history returned by the admin list.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ClaimListResponse is the admin claim-history payload.
type ClaimListResponse struct {
	Claims     []ClaimWithCoupon `json:"claims"`
	Pagination Pagination        `json:"pagination"`
}
