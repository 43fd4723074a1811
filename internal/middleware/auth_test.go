package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coupon-dispenser/internal/service"
)

// mockValidator is a mock implementation of SessionValidator.
type mockValidator struct {
	validateFn func(token string) (*service.SessionClaims, error)
}

func (m *mockValidator) ValidateToken(token string) (*service.SessionClaims, error) {
	if m.validateFn != nil {
		return m.validateFn(token)
	}
	return nil, errors.New("token is unexpected")
}

func adminClaims(subject string) *service.SessionClaims {
	return &service.SessionClaims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	}
}

func setupGuardedApp(v SessionValidator) *fiber.App {
	app := fiber.New()
	app.Use(RequireAdmin(v))
	app.Get("/api/admin/coupons", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"admin": c.Locals("admin")})
	})
	return app
}

func TestRequireAdmin_NoToken(t *testing.T) {
	app := setupGuardedApp(&mockValidator{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/coupons", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdmin_InvalidToken(t *testing.T) {
	app := setupGuardedApp(&mockValidator{
		validateFn: func(token string) (*service.SessionClaims, error) {
			return nil, errors.New("token signature is invalid")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/coupons", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer garbage")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdmin_BearerHeader(t *testing.T) {
	var gotToken string
	app := setupGuardedApp(&mockValidator{
		validateFn: func(token string) (*service.SessionClaims, error) {
			gotToken = token
			return adminClaims("admin"), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/coupons", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer valid-token")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "valid-token", gotToken)
}

func TestRequireAdmin_CookieFallback(t *testing.T) {
	var gotToken string
	app := setupGuardedApp(&mockValidator{
		validateFn: func(token string) (*service.SessionClaims, error) {
			gotToken = token
			return adminClaims("admin"), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/coupons", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: "cookie-token"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "cookie-token", gotToken)
}

func TestRequireAdmin_HeaderBeatsCookie(t *testing.T) {
	var gotToken string
	app := setupGuardedApp(&mockValidator{
		validateFn: func(token string) (*service.SessionClaims, error) {
			gotToken = token
			return adminClaims("admin"), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/coupons", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: "cookie-token"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "header-token", gotToken)
}

func TestRequireAdmin_SetsAdminLocal(t *testing.T) {
	app := setupGuardedApp(&mockValidator{
		validateFn: func(token string) (*service.SessionClaims, error) {
			return adminClaims("alice"), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/coupons", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer valid-token")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "alice", result["admin"])
}
