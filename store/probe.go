// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// probePath is a scratch path used to verify read and write access
// before trusting the remote store.
const probePath = "test/connection-test"

// Probe round-trips a record through the store: one write, one read.
// Any failure means the store cannot be trusted for this client.
func Probe(ctx context.Context, s Store, userID string) error {
	record := map[string]any{
		"message":   "Connection test",
		"timestamp": time.Now().UnixMilli(),
		"userId":    userID,
	}
	if err := s.Put(ctx, probePath, record); err != nil {
		return fmt.Errorf("probe write: %w", err)
	}
	if _, err := s.Get(ctx, probePath); err != nil {
		return fmt.Errorf("probe read: %w", err)
	}
	return nil
}

// Select is the composition point for the dual-path design: it probes
// the remote store once and returns either it or the fallback for the
// lifetime of the client. The decision is never revisited; after this,
// store failures surface to callers instead of silently switching
// stores mid-flight.
func Select(ctx context.Context, remote Store, fallback Store, userID string, log *slog.Logger) Store {
	if remote == nil {
		log.Warn("no remote store configured, using in-memory fallback")
		return fallback
	}
	if err := Probe(ctx, remote, userID); err != nil {
		log.Warn("remote store probe failed, using in-memory fallback", "error", err)
		return fallback
	}
	log.Info("remote store selected")
	return remote
}
