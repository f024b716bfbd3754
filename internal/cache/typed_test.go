// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"testing"
	"time"
)

type testProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func TestTypedCache_SetGet(t *testing.T) {
	mem := newTestMemoryCache(0)
	defer func() { _ = mem.Close() }()

	c := NewTypedCache[testProfile](mem, "profile:", time.Hour)
	ctx := context.Background()

	want := &testProfile{ID: "u1", Email: "a@example.com"}
	if err := c.Set(ctx, "u1", want); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := c.Get(ctx, "u1")
	if !ok {
		t.Fatal("expected hit")
	}
	if *got != *want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	// The prefix is applied to the backend key.
	if has, _ := mem.Has(ctx, "profile:u1"); !has {
		t.Error("expected prefixed key in backend")
	}
}

func TestTypedCache_Miss(t *testing.T) {
	mem := newTestMemoryCache(0)
	defer func() { _ = mem.Close() }()

	c := NewTypedCache[testProfile](mem, "", time.Hour)
	if _, ok := c.Get(context.Background(), "none"); ok {
		t.Error("expected miss")
	}
}

func TestTypedCache_UndecodableIsMiss(t *testing.T) {
	mem := newTestMemoryCache(0)
	defer func() { _ = mem.Close() }()
	ctx := context.Background()

	_ = mem.Set(ctx, "p:bad", []byte("{not json"), 0)
	c := NewTypedCache[testProfile](mem, "p:", time.Hour)
	if _, ok := c.Get(ctx, "bad"); ok {
		t.Error("expected miss for invalid JSON")
	}
}

func TestTypedCache_Delete(t *testing.T) {
	mem := newTestMemoryCache(0)
	defer func() { _ = mem.Close() }()
	ctx := context.Background()

	c := NewTypedCache[testProfile](mem, "p:", time.Hour)
	_ = c.Set(ctx, "u1", &testProfile{ID: "u1"})
	if err := c.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := c.Get(ctx, "u1"); ok {
		t.Error("expected deleted")
	}
}
