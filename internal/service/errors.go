package service

import (
	"errors"
	"fmt"
)

var (
	// ErrCouponCodeExists is returned when creating or renaming a coupon to a code already in use
	ErrCouponCodeExists = errors.New("coupon code already exists")

	// ErrCouponNotFound is returned when a coupon cannot be found
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrClaimNotFound is returned when a claim cannot be found
	ErrClaimNotFound = errors.New("claim not found")

	// ErrNoActiveCoupons is returned when the rotation pool has no active coupons
	ErrNoActiveCoupons = errors.New("no active coupons")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidCredentials is returned when admin login fails
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// CooldownError is returned when a client attempts another claim inside the
// cooldown window of its most recent claim.
type CooldownError struct {
	WaitMinutes int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active: wait %d minutes", e.WaitMinutes)
}
