// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the dashboard's business logic: the seeded list
// views, analytics and overview figures, and the audit event log.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/talenthub/internal/model"
	"github.com/olegiv/talenthub/internal/store"
)

// EventService records audit events in the events table.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{
		queries: store.New(db),
	}
}

// LogEvent creates a new event log entry. userID may be empty.
func (s *EventService) LogEvent(ctx context.Context, level, category, message, userID, ipAddress string, metadata map[string]any) error {
	var nullUserID sql.NullString
	if userID != "" {
		nullUserID = sql.NullString{String: userID, Valid: true}
	}

	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    nullUserID,
		Metadata:  metadataJSON,
		IpAddress: ipAddress,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("failed to log event", "error", err, "category", category)
		return err
	}

	return nil
}

// LogAuthEvent logs an authentication event (sign-in, sign-up, sign-out).
func (s *EventService) LogAuthEvent(ctx context.Context, level, message, userID, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryAuth, message, userID, ipAddress, metadata)
}

// LogSessionEvent logs a session resolution event.
func (s *EventService) LogSessionEvent(ctx context.Context, level, message, userID, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategorySession, message, userID, ipAddress, metadata)
}

// LogAccessEvent logs an authorization decision, typically a denial.
func (s *EventService) LogAccessEvent(ctx context.Context, level, message, userID, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryAccess, message, userID, ipAddress, metadata)
}

// LogSystemEvent logs a system event.
func (s *EventService) LogSystemEvent(ctx context.Context, level, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategorySystem, message, "", "", metadata)
}

// ListEvents returns the most recent events, newest first.
func (s *EventService) ListEvents(ctx context.Context, limit, offset int) ([]model.Event, error) {
	rows, err := s.queries.ListEvents(ctx, store.ListEventsParams{Limit: int64(limit), Offset: int64(offset)})
	if err != nil {
		return nil, err
	}
	events := make([]model.Event, len(rows))
	for i, r := range rows {
		events[i] = model.Event{
			ID:        r.ID,
			Level:     r.Level,
			Category:  r.Category,
			Message:   r.Message,
			UserID:    r.UserID,
			Metadata:  r.Metadata,
			IPAddress: r.IpAddress,
			CreatedAt: r.CreatedAt,
		}
	}
	return events, nil
}

// DeleteOldEvents removes events older than the specified duration.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().UTC().Add(-olderThan)
	return s.queries.DeleteOldEvents(ctx, cutoff)
}

// ClientMetadata describes the client of an audited request.
func ClientMetadata(userAgent string) map[string]any {
	ua := useragent.Parse(userAgent)

	browser, osName := ua.Name, ua.OS
	if browser == "" {
		browser = "Unknown"
	}
	if osName == "" {
		osName = "Unknown"
	}

	device := "desktop"
	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	}

	return map[string]any{
		"browser": browser,
		"os":      osName,
		"device":  device,
	}
}
