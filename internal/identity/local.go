// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/talenthub/internal/auth"
	"github.com/olegiv/talenthub/internal/store"
)

// DefaultTokenTTL is the lifetime of access tokens issued by StoreProvider.
const DefaultTokenTTL = 12 * time.Hour

// StoreProvider keeps accounts and access tokens in the local database.
type StoreProvider struct {
	db       *sql.DB
	queries  *store.Queries
	tokenTTL time.Duration
	now      func() time.Time
}

// NewStoreProvider creates a provider over db. A non-positive tokenTTL uses
// DefaultTokenTTL.
func NewStoreProvider(db *sql.DB, tokenTTL time.Duration) *StoreProvider {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &StoreProvider{
		db:       db,
		queries:  store.New(db),
		tokenTTL: tokenTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Configured is always true.
func (p *StoreProvider) Configured() bool {
	return true
}

// SignIn verifies the password and issues a new access token. A hash made
// with outdated parameters is replaced in the same transaction.
func (p *StoreProvider) SignIn(ctx context.Context, email, password string) (Session, error) {
	u, err := p.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, newAuthError(KindInvalidCredentials, MsgInvalidCredentials, nil)
		}
		return Session{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := auth.CheckPassword(password, u.PasswordHash)
	if err != nil {
		return Session{}, fmt.Errorf("checking password: %w", err)
	}
	if !ok {
		return Session{}, newAuthError(KindInvalidCredentials, MsgInvalidCredentials, nil)
	}

	token, err := auth.GenerateToken()
	if err != nil {
		return Session{}, err
	}
	now := p.now()
	expires := now.Add(p.tokenTTL)

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return Session{}, fmt.Errorf("beginning sign-in: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	qtx := p.queries.WithTx(tx)

	if auth.NeedsRehash(u.PasswordHash) {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return Session{}, err
		}
		if err := qtx.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
			PasswordHash: hash,
			UpdatedAt:    now,
			ID:           u.ID,
		}); err != nil {
			return Session{}, fmt.Errorf("rehashing password: %w", err)
		}
	}
	if err := qtx.CreateAccessToken(ctx, store.CreateAccessTokenParams{
		TokenHash: auth.HashToken(token),
		UserID:    u.ID,
		ExpiresAt: expires,
		CreatedAt: now,
	}); err != nil {
		return Session{}, fmt.Errorf("storing access token: %w", err)
	}
	if err := qtx.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: now, Valid: true},
		UpdatedAt:   now,
		ID:          u.ID,
	}); err != nil {
		return Session{}, fmt.Errorf("updating last login: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Session{}, fmt.Errorf("committing sign-in: %w", err)
	}

	return Session{AccessToken: token, ExpiresAt: expires, User: userFromRow(u)}, nil
}

// SignUp creates a local account.
func (p *StoreProvider) SignUp(ctx context.Context, email, password string, meta Metadata) error {
	if err := auth.ValidatePassword(password); err != nil {
		return newAuthError(KindValidation, capitalize(err.Error()), err)
	}

	_, err := p.queries.GetUserByEmail(ctx, email)
	if err == nil {
		return newAuthError(KindValidation, MsgUserExists, nil)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for existing user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	now := p.now()
	if _, err := p.queries.CreateUser(ctx, store.CreateUserParams{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    meta.FirstName,
		LastName:     meta.LastName,
		Role:         meta.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// SignOut deletes the access token. Unknown tokens are not an error.
func (p *StoreProvider) SignOut(ctx context.Context, accessToken string) error {
	return p.queries.DeleteAccessToken(ctx, auth.HashToken(accessToken))
}

// GetSession resolves an access token.
func (p *StoreProvider) GetSession(ctx context.Context, accessToken string) (Session, error) {
	tok, err := p.queries.GetAccessToken(ctx, auth.HashToken(accessToken))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("looking up access token: %w", err)
	}
	if !p.now().Before(tok.ExpiresAt) {
		return Session{}, &ExpiredError{UserID: tok.UserID}
	}

	u, err := p.queries.GetUserByID(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("looking up user: %w", err)
	}
	return Session{AccessToken: accessToken, ExpiresAt: tok.ExpiresAt, User: userFromRow(u)}, nil
}

// PurgeExpired deletes expired access tokens and returns how many were
// removed.
func (p *StoreProvider) PurgeExpired(ctx context.Context) (int64, error) {
	return p.queries.DeleteExpiredAccessTokens(ctx, p.now())
}

func userFromRow(u store.User) User {
	return User{
		ID:    u.ID,
		Email: u.Email,
		Metadata: Metadata{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Role:      u.Role,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
