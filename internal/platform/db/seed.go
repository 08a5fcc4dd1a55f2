package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"crewpay/internal/domain/auth"
	"crewpay/internal/domain/roster"
	"crewpay/internal/platform/config"
)

// Seed creates the bootstrap admin login and its roster entry. It is safe to
// run on every start.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if email == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE lower(email) = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, `
    INSERT INTO people (email, name, role)
    VALUES ($1, $2, $3)
    ON CONFLICT (email) DO NOTHING
  `, email, cfg.SeedAdminName, roster.RoleAdmin); err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, password_hash, role, person_email)
    VALUES ($1, $2, $3, $1)
  `, email, hash, roster.RoleAdmin)
	return err
}
