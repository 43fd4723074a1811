package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"coupon-dispenser/internal/model"
)

// DispenserCouponRepository is the coupon data access needed by the dispenser.
type DispenserCouponRepository interface {
	ListActive(ctx context.Context) ([]model.Coupon, error)
}

// DispenserClaimRepository is the claim data access needed by the dispenser.
type DispenserClaimRepository interface {
	FindRecentByIP(ctx context.Context, ip string, since time.Time) (*model.Claim, error)
	FindByID(ctx context.Context, id int64) (*model.ClaimWithCoupon, error)
	FindLatest(ctx context.Context) (*model.Claim, error)
	Insert(ctx context.Context, couponID int64, ip, userAgent string) (*model.Claim, error)
}

// ClaimResult is the outcome of a claim attempt that produced a coupon.
// AlreadyClaimed indicates the coupon came from an earlier claim resolved
// through the correlation token; no new claim row exists in that case.
type ClaimResult struct {
	CouponCode     string
	ClaimID        int64
	AlreadyClaimed bool
}

// Dispenser decides the outcome of each public claim attempt: reject inside
// the cooldown window, answer repeat claims from the correlation token, or
// advance the round-robin rotation and issue the next active coupon.
type Dispenser struct {
	couponRepo DispenserCouponRepository
	claimRepo  DispenserClaimRepository
	cooldown   time.Duration
	now        func() time.Time
}

// NewDispenser creates a Dispenser with the given repositories and cooldown period.
func NewDispenser(couponRepo DispenserCouponRepository, claimRepo DispenserClaimRepository, cooldown time.Duration) *Dispenser {
	return &Dispenser{
		couponRepo: couponRepo,
		claimRepo:  claimRepo,
		cooldown:   cooldown,
		now:        time.Now,
	}
}

// AttemptClaim runs one claim attempt for a client. claimID is the correlation
// token from a prior issuance, or 0 when the client presents none.
//
// The checks run in a fixed order: cooldown first, then the repeat-claim
// token, then rotation. The cooldown gate wins even when the client holds a
// valid token for an earlier claim.
//
// Returns:
//   - *CooldownError when the client claimed within the cooldown window
//   - ErrNoActiveCoupons when the rotation pool is empty
func (d *Dispenser) AttemptClaim(ctx context.Context, clientIP, userAgent string, claimID int64) (*ClaimResult, error) {
	now := d.now()

	// 1. Cooldown gate: most recent claim from this IP inside the window.
	recent, err := d.claimRepo.FindRecentByIP(ctx, clientIP, now.Add(-d.cooldown))
	if err != nil {
		return nil, fmt.Errorf("find recent claim: %w", err)
	}
	if recent != nil {
		wait := recent.CreatedAt.Add(d.cooldown).Sub(now)
		return nil, &CooldownError{WaitMinutes: int(math.Ceil(wait.Minutes()))}
	}

	// 2. Repeat claim: a resolvable token returns the original coupon with no
	// new claim row and no token change.
	if claimID > 0 {
		existing, err := d.claimRepo.FindByID(ctx, claimID)
		if err != nil {
			return nil, fmt.Errorf("resolve claim token: %w", err)
		}
		if existing != nil {
			return &ClaimResult{
				CouponCode:     existing.CouponCode,
				ClaimID:        existing.ID,
				AlreadyClaimed: true,
			}, nil
		}
	}

	// 3. Rotation: position of the globally latest claim's coupon in the
	// active pool determines the next index.
	active, err := d.couponRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active coupons: %w", err)
	}
	if len(active) == 0 {
		return nil, ErrNoActiveCoupons
	}

	latest, err := d.claimRepo.FindLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("find latest claim: %w", err)
	}

	next := 0
	if latest != nil {
		// A coupon deactivated or deleted since its last issuance is absent
		// from the pool; the -1 position restarts the rotation at the front.
		last := -1
		for i, c := range active {
			if c.ID == latest.CouponID {
				last = i
				break
			}
		}
		next = (last + 1) % len(active)
	}

	// 4. Issue: the single write of the whole procedure.
	coupon := active[next]
	claim, err := d.claimRepo.Insert(ctx, coupon.ID, clientIP, userAgent)
	if err != nil {
		return nil, fmt.Errorf("insert claim: %w", err)
	}

	return &ClaimResult{CouponCode: coupon.Code, ClaimID: claim.ID}, nil
}
