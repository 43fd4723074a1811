package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"coupon-dispenser/internal/model"
)

// AdminRepositoryInterface is the admin data access needed for login.
type AdminRepositoryInterface interface {
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
}

// SessionClaims is the JWT payload carried by admin session tokens.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService verifies admin credentials and mints session tokens.
type AuthService struct {
	adminRepo AdminRepositoryInterface
	secret    []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewAuthService creates a new AuthService with the given repository,
// signing secret, and token lifetime.
func NewAuthService(adminRepo AdminRepositoryInterface, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Login verifies the credentials against the stored bcrypt hash and returns a
// signed session token carrying the admin role.
// Returns ErrInvalidCredentials for an unknown user or a wrong password; the
// two cases are deliberately indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("get admin: %w", err)
	}
	if admin == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := s.now()
	claims := SessionClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.Username,
			Issuer:    "coupon-dispenser",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// ValidateToken parses a session token and confirms it is signed with our
// secret, unexpired, and carries the admin role.
func (s *AuthService) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Role != "admin" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
