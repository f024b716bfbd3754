// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createAccessToken = `INSERT INTO access_tokens (token_hash, user_id, expires_at, created_at)
VALUES (?, ?, ?, ?)`

// CreateAccessTokenParams holds the columns of a new token.
type CreateAccessTokenParams struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// CreateAccessToken stores a hashed access token.
func (q *Queries) CreateAccessToken(ctx context.Context, arg CreateAccessTokenParams) error {
	_, err := q.db.ExecContext(ctx, createAccessToken, arg.TokenHash, arg.UserID, arg.ExpiresAt, arg.CreatedAt)
	return err
}

const getAccessToken = `SELECT token_hash, user_id, expires_at, created_at FROM access_tokens WHERE token_hash = ?`

// GetAccessToken returns sql.ErrNoRows for unknown tokens.
func (q *Queries) GetAccessToken(ctx context.Context, tokenHash string) (AccessToken, error) {
	var t AccessToken
	err := q.db.QueryRowContext(ctx, getAccessToken, tokenHash).Scan(
		&t.TokenHash,
		&t.UserID,
		&t.ExpiresAt,
		&t.CreatedAt,
	)
	return t, err
}

const deleteAccessToken = `DELETE FROM access_tokens WHERE token_hash = ?`

// DeleteAccessToken revokes a token. Deleting an unknown token is not an error.
func (q *Queries) DeleteAccessToken(ctx context.Context, tokenHash string) error {
	_, err := q.db.ExecContext(ctx, deleteAccessToken, tokenHash)
	return err
}

const deleteExpiredAccessTokens = `DELETE FROM access_tokens WHERE expires_at < ?`

// DeleteExpiredAccessTokens purges tokens that expired before now and
// returns how many were removed.
func (q *Queries) DeleteExpiredAccessTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpiredAccessTokens, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
