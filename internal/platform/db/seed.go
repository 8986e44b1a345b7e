package db

import (
	"context"
	"log/slog"
	"strings"

	"officehr/internal/domain/auth"
	"officehr/internal/platform/config"
)

// AdminEnsurer creates or reactivates the bootstrap administrator.
type AdminEnsurer interface {
	EnsureAdmin(ctx context.Context, name, email, password string) (auth.User, error)
}

// Seed makes sure the configured ADMIN account exists and is active. Without
// SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD it does nothing.
func Seed(ctx context.Context, users AdminEnsurer, cfg config.Config) error {
	if !cfg.RunSeed {
		return nil
	}
	if strings.TrimSpace(cfg.SeedAdminEmail) == "" || strings.TrimSpace(cfg.SeedAdminPassword) == "" {
		slog.Info("seed skipped: no admin credentials configured")
		return nil
	}
	user, err := users.EnsureAdmin(ctx, cfg.SeedAdminName, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	slog.Info("seed admin ready", "user_id", user.ID, "email", user.Email)
	return nil
}
