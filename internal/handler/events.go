// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/olegiv/talenthub/internal/middleware"
	"github.com/olegiv/talenthub/internal/model"
	"github.com/olegiv/talenthub/internal/service"
)

// EventsPerPage is the number of events returned per page.
const EventsPerPage = 25

// EventsHandler serves the audit event log to administrators.
type EventsHandler struct {
	events *service.EventService
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(events *service.EventService) *EventsHandler {
	return &EventsHandler{events: events}
}

// EventEntry is one audit log entry.
type EventEntry struct {
	ID          int64  `json:"id"`
	Level       string `json:"level"`
	Category    string `json:"category"`
	Message     string `json:"message"`
	UserID      string `json:"user_id,omitempty"`
	IPAddress   string `json:"ip_address,omitempty"`
	Details     string `json:"details,omitempty"`
	DetailsLong bool   `json:"details_long"`
	CreatedAt   string `json:"created_at"`
}

// EventsListResponse is one page of the event log.
type EventsListResponse struct {
	PageMeta
	Events  []EventEntry `json:"events"`
	Page    int          `json:"page"`
	HasMore bool         `json:"has_more"`
}

// detailsLengthThreshold is the max chars before details are collapsible
const detailsLengthThreshold = 80

// formatMetadata converts JSON metadata to readable text format.
// Example: {"path":"/dashboard","role":"applicant"} -> "path: /dashboard, role: applicant"
func formatMetadata(metadata string) string {
	if metadata == "" || metadata == "{}" {
		return ""
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(metadata), &data); err != nil {
		return metadata
	}

	if len(data) == 0 {
		return ""
	}

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		var strValue string
		switch v := data[key].(type) {
		case string:
			strValue = v
		case float64:
			strValue = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			strValue = strconv.FormatBool(v)
		default:
			if b, err := json.Marshal(v); err == nil {
				strValue = string(b)
			}
		}
		parts = append(parts, key+": "+strValue)
	}

	return strings.Join(parts, ", ")
}

// parsePageParam returns the 1-based page number, 1 when missing or invalid.
func parsePageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// List handles GET /dashboard/events. Only administrators may read the log.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	sh := middleware.GetShell(r)
	if sh == nil || !sh.Store().IsAdmin() {
		writeJSONError(w, http.StatusForbidden, "forbidden", "Only administrators can view the event log")
		return
	}

	page := parsePageParam(r)
	offset := (page - 1) * EventsPerPage

	// One extra row tells whether another page exists.
	rows, err := h.events.ListEvents(r.Context(), EventsPerPage+1, offset)
	if err != nil {
		logAndInternalError(w, r, "failed to list events", "error", err)
		return
	}

	hasMore := len(rows) > EventsPerPage
	if hasMore {
		rows = rows[:EventsPerPage]
	}

	writeJSON(w, http.StatusOK, EventsListResponse{
		PageMeta: pageMeta(r),
		Events:   convertEvents(rows),
		Page:     page,
		HasMore:  hasMore,
	})
}

func convertEvents(rows []model.Event) []EventEntry {
	events := make([]EventEntry, len(rows))
	for i, row := range rows {
		details := formatMetadata(row.Metadata)
		events[i] = EventEntry{
			ID:          row.ID,
			Level:       row.Level,
			Category:    row.Category,
			Message:     row.Message,
			UserID:      row.UserID.String,
			IPAddress:   row.IPAddress,
			Details:     details,
			DetailsLong: len(details) > detailsLengthThreshold,
			CreatedAt:   row.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}
	return events
}
