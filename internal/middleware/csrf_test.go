// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testCSRFKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig(t *testing.T) {
	tests := []struct {
		name  string
		isDev bool
		addr  string
		want  []string
	}{
		{"production", false, "0.0.0.0:8080", nil},
		{"development default port", true, "localhost:8080", []string{"localhost:8080", "127.0.0.1:8080"}},
		{"development custom addr", true, "localhost:9000", []string{"localhost:8080", "127.0.0.1:8080", "localhost:9000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCSRFConfig(testCSRFKey, tt.isDev, tt.addr)
			if len(cfg.AuthKey) != 32 {
				t.Errorf("AuthKey length = %d", len(cfg.AuthKey))
			}
			if len(cfg.TrustedOrigins) != len(tt.want) {
				t.Fatalf("TrustedOrigins = %v, want %v", cfg.TrustedOrigins, tt.want)
			}
			for i, o := range tt.want {
				if cfg.TrustedOrigins[i] != o {
					t.Errorf("TrustedOrigins[%d] = %q, want %q", i, cfg.TrustedOrigins[i], o)
				}
				if strings.HasPrefix(cfg.TrustedOrigins[i], "http") {
					t.Errorf("origin must be host:port, got %q", cfg.TrustedOrigins[i])
				}
			}
		})
	}
}

func TestCSRF_AllowsSafeMethods(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig(testCSRFKey, false, ""))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("GET status = %d, want 200", rr.Code)
	}
}

func TestCSRF_RejectsCrossSitePost(t *testing.T) {
	var called bool
	handler := CSRF(DefaultCSRFConfig(testCSRFKey, false, ""))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader("{}"))
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if called {
		t.Error("handler must not run for a cross-site POST")
	}
	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "csrf_failed") {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestCSRF_AllowsSameOriginPost(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig(testCSRFKey, false, ""))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rr.Code)
	}
}

func TestCSRF_CustomErrorHandler(t *testing.T) {
	cfg := DefaultCSRFConfig(testCSRFKey, false, "")
	cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := CSRF(cfg)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rr.Code)
	}
}

func TestSkipCSRF(t *testing.T) {
	inner := CSRF(DefaultCSRFConfig(testCSRFKey, false, ""))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler := SkipCSRF("/auth/signout")(inner)

	tests := []struct {
		path string
		want int
	}{
		{"/auth/signout", http.StatusOK},
		{"/auth/signin", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			req.Header.Set("Sec-Fetch-Site", "cross-site")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}
