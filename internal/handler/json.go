// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/olegiv/talenthub/internal/middleware"
)

// maxBodyBytes bounds decoded request bodies.
const maxBodyBytes = 1 << 20

// errEmptyBody is returned when a JSON request has no body.
var errEmptyBody = errors.New("request body is empty")

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a JSON error response in the shape used by the
// middleware chain.
func writeJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	middleware.WriteAPIError(w, statusCode, code, message, nil)
}

// formDecoder is implemented by request types that accept form posts.
type formDecoder interface {
	decodeForm(values url.Values)
}

// decodeRequest fills dst from a JSON body or, for form posts, from the
// posted values.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst formDecoder) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if isJSONBody(r) {
		err := json.NewDecoder(r.Body).Decode(dst)
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}

	if err := r.ParseForm(); err != nil {
		return err
	}
	dst.decodeForm(r.PostForm)
	return nil
}

func isJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
