// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package identity

import "errors"

// ErrorKind classifies an AuthError.
type ErrorKind string

// Error kinds.
const (
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindProvider           ErrorKind = "provider"
	KindUnconfigured       ErrorKind = "unconfigured"
	KindValidation         ErrorKind = "validation"
)

// Messages used when the provider does not supply one.
const (
	MsgInvalidCredentials = "Invalid login credentials"
	MsgUnconfigured       = "Authentication is not configured. Use demo access instead."
	MsgUnexpected         = "An unexpected error occurred"
	MsgUserExists         = "User already registered"
)

// ErrNoSession is returned when a token does not resolve to a live session.
var ErrNoSession = errors.New("no active session")

// ExpiredError reports a token that belonged to UserID but has expired.
// It matches ErrNoSession under errors.Is.
type ExpiredError struct {
	UserID string
}

func (e *ExpiredError) Error() string {
	return "session expired"
}

// Is makes an expired session count as no session.
func (e *ExpiredError) Is(target error) bool {
	return target == ErrNoSession
}

// AuthError is a user-facing authentication failure. Message is shown to
// the user verbatim.
type AuthError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func newAuthError(kind ErrorKind, message string, err error) *AuthError {
	return &AuthError{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether err is an AuthError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.Kind == kind
}
