package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"coupon-dispenser/internal/model"
	"coupon-dispenser/internal/service"
)

// AdminServiceInterface defines the interface for admin console business logic.
type AdminServiceInterface interface {
	CreateCoupon(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)
	ListCoupons(ctx context.Context) ([]model.CouponWithClaims, error)
	UpdateCoupon(ctx context.Context, id int64, req *model.UpdateCouponRequest) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, id int64) error
	ListClaims(ctx context.Context, page, limit int) (*model.ClaimListResponse, error)
	DeleteClaim(ctx context.Context, id int64) error
}

// AdminHandler handles HTTP requests for the admin console.
type AdminHandler struct {
	service   AdminServiceInterface
	validator *validator.Validate
}

// NewAdminHandler creates a new AdminHandler with the given service and validator.
func NewAdminHandler(svc AdminServiceInterface, v *validator.Validate) *AdminHandler {
	return &AdminHandler{service: svc, validator: v}
}

// formatCouponValidationError converts validator errors to human-readable messages.
func formatCouponValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			tag := fe.Tag()

			switch field {
			case "Code":
				if tag == "required" {
					return "invalid request: code is required"
				}
				if tag == "notblank" {
					return "invalid request: code cannot be whitespace only"
				}
				if tag == "max" {
					return "invalid request: code exceeds maximum length of 255"
				}
				return "invalid request: code is invalid"
			case "Description":
				if tag == "max" {
					return "invalid request: description exceeds maximum length of 1024"
				}
				return "invalid request: description is invalid"
			default:
				if tag == "required" {
					return "invalid request: " + field + " is required"
				}
				if tag == "max" {
					return "invalid request: " + field + " exceeds maximum length"
				}
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}

// parseID parses a positive integer id from a route parameter.
func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListClaims handles GET /api/admin/claims with page/limit query params.
func (h *AdminHandler) ListClaims(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	resp, err := h.service.ListClaims(c.Context(), page, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list claims")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(resp)
}

// DeleteClaim handles DELETE /api/admin/claims/:id.
func (h *AdminHandler) DeleteClaim(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: id is required"})
	}

	if err := h.service.DeleteClaim(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "claim not found"})
		}
		log.Error().Err(err).Int64("claim_id", id).Msg("failed to delete claim")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// ListCoupons handles GET /api/admin/coupons.
func (h *AdminHandler) ListCoupons(c *fiber.Ctx) error {
	coupons, err := h.service.ListCoupons(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list coupons")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"coupons": coupons})
}

// CreateCoupon handles POST /api/admin/coupons.
func (h *AdminHandler) CreateCoupon(c *fiber.Ctx) error {
	var req model.CreateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatCouponValidationError(err)})
	}

	coupon, err := h.service.CreateCoupon(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCouponCodeExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "coupon code already exists"})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("coupon_code", req.Code).Msg("failed to create coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"coupon": coupon})
}

// UpdateCoupon handles PATCH /api/admin/coupons/:id with partial fields.
func (h *AdminHandler) UpdateCoupon(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: id is required"})
	}

	var req model.UpdateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatCouponValidationError(err)})
	}

	coupon, err := h.service.UpdateCoupon(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
		}
		if errors.Is(err, service.ErrCouponCodeExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "coupon code already exists"})
		}
		log.Error().Err(err).Int64("coupon_id", id).Msg("failed to update coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{"coupon": coupon})
}

// DeleteCoupon handles DELETE /api/admin/coupons/:id.
func (h *AdminHandler) DeleteCoupon(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: id is required"})
	}

	if err := h.service.DeleteCoupon(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
		}
		log.Error().Err(err).Int64("coupon_id", id).Msg("failed to delete coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{"message": "Coupon deleted successfully"})
}
