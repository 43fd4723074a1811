// Command seed provisions the default admin account and a starter coupon
// pool. Safe to run repeatedly: existing rows are left untouched.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"coupon-dispenser/internal/config"
	"coupon-dispenser/pkg/database"
)

func main() {
	_ = godotenv.Load()
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 3)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	username := envOr("SEED_ADMIN_USER", "admin")
	password := envOr("SEED_ADMIN_PASSWORD", "admin123")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash admin password")
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO admins (username, password_hash) VALUES ($1, $2) ON CONFLICT (username) DO NOTHING`,
		username, string(hash)); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin")
	}
	log.Info().Str("username", username).Msg("admin account ready")

	coupons := []struct{ code, description string }{
		{"WELCOME10", "10% off for new users"},
		{"SPRING25", "25% off spring collection"},
		{"FREESHIP", "Free shipping on all orders"},
	}
	for _, c := range coupons {
		if _, err := pool.Exec(ctx,
			`INSERT INTO coupons (code, description, is_active) VALUES ($1, $2, true) ON CONFLICT (code) DO NOTHING`,
			c.code, c.description); err != nil {
			log.Fatal().Err(err).Str("code", c.code).Msg("failed to seed coupon")
		}
	}

	log.Info().Int("coupons", len(coupons)).Msg("seed data created")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
