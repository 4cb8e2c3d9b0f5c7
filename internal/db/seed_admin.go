package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ntokozo078/logistics-fleet-manager/internal/config"
	"github.com/ntokozo078/logistics-fleet-manager/internal/domain/user"
	"github.com/ntokozo078/logistics-fleet-manager/internal/security"
)

const defaultAdminImageURL = "https://images.unsplash.com/photo-1560250097-0b93528c311a?fit=crop&w=100&h=100"

// EnsureAdminUser creates the default admin account on first boot so the
// app is usable before any drivers exist.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	// check if the user exists

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, cfg.AdminUsername).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	now := time.Now().UTC()
	img := defaultAdminImageURL

	u := user.User{
		ID:           uuid.NewString(),
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		Role:         user.RoleAdmin,
		ImageURL:     &img,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, role, image_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.ImageURL, u.CreatedAt, u.UpdatedAt,
	)

	return err
}
