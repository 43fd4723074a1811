package handler

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"coupon-dispenser/internal/middleware"
	"coupon-dispenser/internal/model"
	"coupon-dispenser/internal/service"
)

// AuthServiceInterface defines the interface for admin login.
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// AuthHandler handles admin login requests.
type AuthHandler struct {
	service   AuthServiceInterface
	validator *validator.Validate
	tokenTTL  time.Duration
}

// NewAuthHandler creates a new AuthHandler with the given service and validator.
func NewAuthHandler(svc AuthServiceInterface, v *validator.Validate, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{service: svc, validator: v, tokenTTL: tokenTTL}
}

// formatLoginValidationError converts validator errors to human-readable messages.
func formatLoginValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			switch fe.Field() {
			case "Username":
				return "invalid request: username is required"
			case "Password":
				return "invalid request: password is required"
			}
		}
	}
	return "invalid request"
}

// Login handles POST /api/admin/login. On success the token is returned in
// the body and also set as an httponly session cookie for the admin UI.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatLoginValidationError(err)})
	}

	token, err := h.service.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid username or password"})
		}
		log.Error().Err(err).Str("username", req.Username).Msg("failed to process login")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    token,
		MaxAge:   int(h.tokenTTL.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	log.Info().Str("username", req.Username).Msg("admin logged in")
	return c.JSON(fiber.Map{"token": token})
}
