// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey  = "anon-key"
	testUserID  = "6b1f6c1e-8a43-4c1e-9a6e-2f3d4c5b6a71"
	testNewUser = "0f9c2a14-5d7e-4b8a-9c3d-1e2f3a4b5c6d"
)

type testPasswordGrant struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type testSignUpBody struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Data     Metadata `json:"data"`
}

func newGoTrueServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, testAPIKey, r.Header.Get("apikey"))

		var body testPasswordGrant
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		if body.Password != "correct-horse" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"access_token":"at-1","refresh_token":"rt-1","expires_in":3600,"expires_at":1893456000,
			"user":{"id":"` + testUserID + `","email":"jane@example.com",
				"user_metadata":{"first_name":"Jane","last_name":"Doe","role":"hr_admin"}}
		}`))
	})

	mux.HandleFunc("POST /auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		var body testSignUpBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		if body.Email == "taken@example.com" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"code":422,"msg":"User already registered"}`))
			return
		}
		assert.Equal(t, "applicant", body.Data.Role)
		_, _ = w.Write([]byte(`{"id":"` + testNewUser + `","email":"` + body.Email + `"}`))
	})

	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"logout failed"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"msg":"invalid JWT"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + testUserID + `","email":"jane@example.com","user_metadata":{"role":"hr_admin"}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGoTrueClient_Configured(t *testing.T) {
	tests := []struct {
		url, key string
		want     bool
	}{
		{"", "", false},
		{PlaceholderURL, "real-key", false},
		{"https://abc.supabase.co", PlaceholderKey, false},
		{"https://abc.supabase.co", "", false},
		{"https://abc.supabase.co/", "real-key", true},
	}
	for _, tt := range tests {
		c := NewGoTrueClient(tt.url, tt.key, nil)
		assert.Equal(t, tt.want, c.Configured(), "url=%q key=%q", tt.url, tt.key)
	}
}

func TestGoTrueClient_SignIn(t *testing.T) {
	srv := newGoTrueServer(t)
	c := NewGoTrueClient(srv.URL, testAPIKey, srv.Client())

	s, err := c.SignIn(context.Background(), "jane@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "at-1", s.AccessToken)
	assert.Equal(t, "rt-1", s.RefreshToken)
	assert.Equal(t, int64(1893456000), s.ExpiresAt.Unix())
	assert.Equal(t, testUserID, s.User.ID)
	assert.Equal(t, Metadata{FirstName: "Jane", LastName: "Doe", Role: "hr_admin"}, s.User.Metadata)
}

func TestGoTrueClient_SignInInvalidCredentials(t *testing.T) {
	srv := newGoTrueServer(t)
	c := NewGoTrueClient(srv.URL, testAPIKey, srv.Client())

	_, err := c.SignIn(context.Background(), "jane@example.com", "wrong")
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindInvalidCredentials, ae.Kind)
	assert.Equal(t, "Invalid login credentials", ae.Message)
}

func TestGoTrueClient_SignUp(t *testing.T) {
	srv := newGoTrueServer(t)
	c := NewGoTrueClient(srv.URL, testAPIKey, srv.Client())
	ctx := context.Background()

	require.NoError(t, c.SignUp(ctx, "new@example.com", "secret123", Metadata{Role: "applicant"}))

	err := c.SignUp(ctx, "taken@example.com", "secret123", Metadata{Role: "applicant"})
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindValidation, ae.Kind)
	assert.Equal(t, "User already registered", ae.Message)
}

func TestGoTrueClient_SignOut(t *testing.T) {
	srv := newGoTrueServer(t)
	c := NewGoTrueClient(srv.URL, testAPIKey, srv.Client())
	ctx := context.Background()

	require.NoError(t, c.SignOut(ctx, "at-1"))

	err := c.SignOut(ctx, "other")
	assert.True(t, IsKind(err, KindProvider))
	assert.Equal(t, "logout failed", err.Error())
}

func TestGoTrueClient_GetSession(t *testing.T) {
	srv := newGoTrueServer(t)
	c := NewGoTrueClient(srv.URL, testAPIKey, srv.Client())
	ctx := context.Background()

	s, err := c.GetSession(ctx, "at-1")
	require.NoError(t, err)
	assert.Equal(t, testUserID, s.User.ID)
	assert.Equal(t, "at-1", s.AccessToken)

	_, err = c.GetSession(ctx, "bad")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestGoTrueClient_Unconfigured(t *testing.T) {
	c := NewGoTrueClient(PlaceholderURL, PlaceholderKey, nil)
	_, err := c.SignIn(context.Background(), "a@example.com", "x")
	assert.True(t, IsKind(err, KindUnconfigured))
}

func TestGoTrueClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewGoTrueClient(url, testAPIKey, nil)
	_, err := c.GetSession(context.Background(), "at-1")
	assert.True(t, IsKind(err, KindProvider))
	assert.False(t, errors.Is(err, ErrNoSession))
}

func TestGoTrueClient_HonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	c := NewGoTrueClient(srv.URL, testAPIKey, srv.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.GetSession(ctx, "at-1")
	assert.True(t, IsKind(err, KindProvider))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestMapClientError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    ErrorKind
		message string
	}{
		{"bad grant", errors.New(`response status code 400: {"error":"invalid_grant","error_description":"Invalid login credentials"}`), KindInvalidCredentials, "Invalid login credentials"},
		{"unauthorized without body", errors.New("response status code 401"), KindInvalidCredentials, MsgInvalidCredentials},
		{"unprocessable", errors.New(`response status code 422: {"msg":"Password should be at least 6 characters"}`), KindValidation, "Password should be at least 6 characters"},
		{"server error", errors.New(`response status code 503: upstream down`), KindProvider, MsgUnexpected},
		{"transport", errors.New("dial tcp: connection refused"), KindProvider, MsgUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ae *AuthError
			require.ErrorAs(t, mapClientError(tt.err), &ae)
			assert.Equal(t, tt.kind, ae.Kind)
			assert.Equal(t, tt.message, ae.Message)
		})
	}
}
