package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"coupon-dispenser/internal/metrics"
	"coupon-dispenser/internal/service"
)

// ClaimCookieName is the cookie carrying the correlation token (claim id)
// that lets a later request recognize an already-served client.
const ClaimCookieName = "coupon_claim_id"

// DispenserInterface defines the interface for the claim decision logic.
type DispenserInterface interface {
	AttemptClaim(ctx context.Context, clientIP, userAgent string, claimID int64) (*service.ClaimResult, error)
}

// ClaimHandler handles the public coupon claim endpoint.
type ClaimHandler struct {
	dispenser    DispenserInterface
	cookieMaxAge time.Duration
}

// NewClaimHandler creates a new ClaimHandler with the given dispenser and
// correlation cookie lifetime.
func NewClaimHandler(dispenser DispenserInterface, cookieMaxAge time.Duration) *ClaimHandler {
	return &ClaimHandler{dispenser: dispenser, cookieMaxAge: cookieMaxAge}
}

// Claim handles GET /api/coupon requests from anonymous visitors.
func (h *ClaimHandler) Claim(c *fiber.Ctx) error {
	ip := clientIP(c)
	userAgent := c.Get(fiber.HeaderUserAgent)

	// A malformed or missing cookie is treated as no token.
	var claimID int64
	if v := c.Cookies(ClaimCookieName); v != "" {
		claimID, _ = strconv.ParseInt(v, 10, 64)
	}

	result, err := h.dispenser.AttemptClaim(c.Context(), ip, userAgent, claimID)
	if err != nil {
		var cooldown *service.CooldownError
		if errors.As(err, &cooldown) {
			metrics.ClaimsRateLimited.Inc()
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": fmt.Sprintf("Please wait %d minutes before claiming another coupon.", cooldown.WaitMinutes),
			})
		}
		if errors.Is(err, service.ErrNoActiveCoupons) {
			metrics.ClaimsPoolEmpty.Inc()
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "No active coupons currently",
			})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("ip", ip).
			Msg("failed to process claim")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "An error occurred while processing your request",
		})
	}

	if result.AlreadyClaimed {
		// The existing token stays untouched.
		metrics.ClaimsRepeated.Inc()
		return c.JSON(fiber.Map{
			"success": true,
			"message": "You have already claimed a coupon",
			"coupon":  result.CouponCode,
		})
	}

	metrics.ClaimsIssued.Inc()
	c.Cookie(&fiber.Cookie{
		Name:     ClaimCookieName,
		Value:    strconv.FormatInt(result.ClaimID, 10),
		MaxAge:   int(h.cookieMaxAge.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	log.Info().
		Int64("claim_id", result.ClaimID).
		Str("coupon", result.CouponCode).
		Str("ip", ip).
		Msg("coupon issued")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Coupon claimed successfully!",
		"coupon":  result.CouponCode,
	})
}

// clientIP prefers the forwarded-for header set by the reverse proxy, falling
// back to the transport peer address.
func clientIP(c *fiber.Ctx) string {
	if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	return c.IP()
}
