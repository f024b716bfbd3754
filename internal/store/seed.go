// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/talenthub/internal/auth"
)

// BootstrapAdmin describes the first local account.
type BootstrapAdmin struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// SeedAdmin creates the bootstrap admin account for the local identity
// backend. It does nothing when the email is empty or the account exists.
func SeedAdmin(ctx context.Context, db *sql.DB, admin BootstrapAdmin) error {
	if admin.Email == "" {
		return nil
	}
	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, admin.Email)
	if err == nil {
		slog.Info("bootstrap admin already exists, skipping seed", "email", admin.Email)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	if err := auth.ValidatePassword(admin.Password); err != nil {
		return fmt.Errorf("bootstrap admin password: %w", err)
	}
	passwordHash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		ID:           uuid.NewString(),
		Email:        admin.Email,
		PasswordHash: passwordHash,
		FirstName:    admin.FirstName,
		LastName:     admin.LastName,
		Role:         "admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created bootstrap admin user", "id", user.ID, "email", user.Email)
	return nil
}
