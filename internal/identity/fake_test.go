// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package identity

import (
	"context"
	"sync"
)

// fakeProvider is an in-memory Provider that records calls.
type fakeProvider struct {
	mu         sync.Mutex
	configured bool
	sessions   map[string]Session
	signInErr  error
	signUpErr  error
	signOutErr error
	getErr     error

	signUps     []Metadata
	signOuts    int
	getSessions int
	calls       int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{configured: true, sessions: make(map[string]Session)}
}

func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) SignIn(_ context.Context, email, _ string) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.signInErr != nil {
		return Session{}, f.signInErr
	}
	s := Session{AccessToken: "tok-" + email, User: User{ID: "id-" + email, Email: email}}
	f.sessions[s.AccessToken] = s
	return s, nil
}

func (f *fakeProvider) SignUp(_ context.Context, _, _ string, meta Metadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.signUps = append(f.signUps, meta)
	return f.signUpErr
}

func (f *fakeProvider) SignOut(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.signOuts++
	delete(f.sessions, token)
	return f.signOutErr
}

func (f *fakeProvider) GetSession(_ context.Context, token string) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.getSessions++
	if f.getErr != nil {
		return Session{}, f.getErr
	}
	s, ok := f.sessions[token]
	if !ok {
		return Session{}, ErrNoSession
	}
	return s, nil
}
