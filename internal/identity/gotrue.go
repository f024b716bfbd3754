// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

// defaultHTTPTimeout bounds a single call to the auth server.
const defaultHTTPTimeout = 10 * time.Second

// GoTrueClient talks to a GoTrue-compatible auth server, such as the one
// behind a Supabase project.
type GoTrueClient struct {
	baseURL    string
	apiKey     string
	client     gotrue.Client
	httpClient *http.Client
}

// NewGoTrueClient creates a client for the project at baseURL. A nil
// httpClient uses a client with a 10 second timeout.
func NewGoTrueClient(baseURL, apiKey string, httpClient *http.Client) *GoTrueClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	apiKey = strings.TrimSpace(apiKey)
	return &GoTrueClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		client:     gotrue.New("", apiKey).WithCustomGoTrueURL(baseURL + "/auth/v1"),
		httpClient: httpClient,
	}
}

// Configured reports whether the URL and key are real values.
func (c *GoTrueClient) Configured() bool {
	return !IsPlaceholder(c.baseURL, c.apiKey)
}

// SignIn performs a password grant.
func (c *GoTrueClient) SignIn(ctx context.Context, email, password string) (Session, error) {
	if !c.Configured() {
		return Session{}, newAuthError(KindUnconfigured, MsgUnconfigured, nil)
	}
	resp, err := c.with(ctx, "").Token(types.TokenRequest{
		GrantType: "password",
		Email:     email,
		Password:  password,
	})
	if err != nil {
		return Session{}, mapClientError(err)
	}

	s := Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         userFromGoTrue(resp.User),
	}
	switch {
	case resp.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(resp.ExpiresAt, 0).UTC()
	case resp.ExpiresIn > 0:
		s.ExpiresAt = time.Now().UTC().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	return s, nil
}

// SignUp registers an account with metadata.
func (c *GoTrueClient) SignUp(ctx context.Context, email, password string, meta Metadata) error {
	if !c.Configured() {
		return newAuthError(KindUnconfigured, MsgUnconfigured, nil)
	}
	_, err := c.with(ctx, "").Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     meta.toMap(),
	})
	if err != nil {
		return mapClientError(err)
	}
	return nil
}

// SignOut revokes the session.
func (c *GoTrueClient) SignOut(ctx context.Context, accessToken string) error {
	if !c.Configured() {
		return newAuthError(KindUnconfigured, MsgUnconfigured, nil)
	}
	if err := c.with(ctx, accessToken).Logout(); err != nil {
		return mapClientError(err)
	}
	return nil
}

// GetSession fetches the user behind accessToken.
func (c *GoTrueClient) GetSession(ctx context.Context, accessToken string) (Session, error) {
	if !c.Configured() {
		return Session{}, newAuthError(KindUnconfigured, MsgUnconfigured, nil)
	}
	resp, err := c.with(ctx, accessToken).GetUser()
	if err != nil {
		err = mapClientError(err)
		if IsKind(err, KindInvalidCredentials) {
			return Session{}, ErrNoSession
		}
		return Session{}, err
	}
	if resp.ID == uuid.Nil {
		return Session{}, ErrNoSession
	}
	return Session{AccessToken: accessToken, User: userFromGoTrue(resp.User)}, nil
}

// with returns a library client whose requests carry ctx and, when set,
// the user's bearer token.
func (c *GoTrueClient) with(ctx context.Context, bearer string) gotrue.Client {
	hc := *c.httpClient
	hc.Transport = contextTransport{ctx: ctx, base: c.httpClient.Transport}
	client := c.client.WithClient(hc)
	if bearer != "" {
		client = client.WithToken(bearer)
	}
	return client
}

// contextTransport attaches a caller's context to every request.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req.WithContext(t.ctx))
}

func (m Metadata) toMap() map[string]any {
	data := make(map[string]any, 3)
	if m.FirstName != "" {
		data["first_name"] = m.FirstName
	}
	if m.LastName != "" {
		data["last_name"] = m.LastName
	}
	if m.Role != "" {
		data["role"] = m.Role
	}
	return data
}

func userFromGoTrue(u types.User) User {
	return User{
		ID:    u.ID.String(),
		Email: u.Email,
		Metadata: Metadata{
			FirstName: metaString(u.UserMetadata, "first_name"),
			LastName:  metaString(u.UserMetadata, "last_name"),
			Role:      metaString(u.UserMetadata, "role"),
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func metaString(meta map[string]any, key string) string {
	s, _ := meta[key].(string)
	return s
}

// statusErrorPattern matches the errors the library builds from non-2xx
// responses.
var statusErrorPattern = regexp.MustCompile(`(?s)^response status code (\d{3})(?:: (.*))?$`)

// mapClientError turns a library error into an *AuthError. Status errors
// keep the server's message; anything else is a transport failure.
func mapClientError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return asAuthError(err)
	}
	m := statusErrorPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return newAuthError(KindProvider, MsgUnexpected, fmt.Errorf("calling identity provider: %w", err))
	}
	status, _ := strconv.Atoi(m[1])
	return mapStatusError(status, []byte(m[2]))
}

// errorBody covers the error shapes GoTrue versions return.
type errorBody struct {
	Error            string `json:"error"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (b errorBody) text() string {
	for _, s := range []string{b.ErrorDescription, b.Msg, b.Message, b.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func mapStatusError(status int, payload []byte) error {
	var eb errorBody
	_ = json.Unmarshal(payload, &eb)
	msg := eb.text()

	cause := fmt.Errorf("identity provider returned status %d", status)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden ||
		(status == http.StatusBadRequest && (eb.Error == "invalid_grant" || eb.ErrorCode == "invalid_credentials")):
		if msg == "" {
			msg = MsgInvalidCredentials
		}
		return newAuthError(KindInvalidCredentials, msg, cause)
	case status >= 400 && status < 500:
		if msg == "" {
			msg = http.StatusText(status)
		}
		return newAuthError(KindValidation, msg, cause)
	default:
		if msg == "" {
			msg = MsgUnexpected
		}
		return newAuthError(KindProvider, msg, cause)
	}
}
