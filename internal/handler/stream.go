// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/talenthub/internal/middleware"
)

// DefaultKeepAlive is the interval between SSE comment pings.
const DefaultKeepAlive = 25 * time.Second

// SSE event names.
const (
	eventState  = "state"
	eventChange = "change"
)

// sseWriter writes Server-Sent Events and flushes after each one.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	mu      sync.Mutex
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer does not support flushing")
	}
	return &sseWriter{w: w, flusher: flusher}, nil
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

func (s *sseWriter) writeEvent(name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "id: %s\nevent: %s\ndata: %s\n\n", uuid.NewString(), name, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *sseWriter) writeKeepAlive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprint(s.w, ": ping\n\n"); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// StreamHandler pushes shell state changes to the browser.
type StreamHandler struct {
	keepAlive time.Duration
}

// NewStreamHandler creates a StreamHandler. A non-positive keepAlive uses
// DefaultKeepAlive.
func NewStreamHandler(keepAlive time.Duration) *StreamHandler {
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}
	return &StreamHandler{keepAlive: keepAlive}
}

// SessionEvents handles GET /dashboard/session/events. The first event is
// the current shell snapshot. When the user signs out elsewhere or the
// session expires, a change event carrying the login redirect is sent and
// the stream ends.
func (h *StreamHandler) SessionEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sh := middleware.GetShell(r)
	if sh == nil {
		logAndInternalError(w, r, "session stream reached without shell")
		return
	}

	sse, err := newSSEWriter(w)
	if err != nil {
		logAndInternalError(w, r, "session stream unavailable", "error", err)
		return
	}

	changes, err := sh.Watch(ctx)
	if err != nil {
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "Session stream unavailable")
		return
	}

	// The stream outlives the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	setSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	if err := sse.writeEvent(eventState, sh.Snapshot()); err != nil {
		return
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sse.writeKeepAlive(); err != nil {
				return
			}
		case c, ok := <-changes:
			if !ok {
				return
			}
			slog.InfoContext(ctx, "session ended during stream", "reason", c.Reason)
			_ = sse.writeEvent(eventChange, c)
			return
		}
	}
}
