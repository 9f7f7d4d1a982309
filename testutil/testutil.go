// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"livepoll/models"
	"livepoll/service"
	"livepoll/store"
	"livepoll/watch"
)

// DiscardLogger returns a logger whose output is thrown away.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestService builds a service over a fresh in-memory store.
func NewTestService(t *testing.T) (*service.Service, *store.MemoryStore) {
	t.Helper()

	mem := store.NewMemoryStore()
	svc := service.New(mem, DiscardLogger())
	return svc, mem
}

// NewTestMultiplexer builds a watch multiplexer over the given store.
func NewTestMultiplexer(t *testing.T, st store.Store) *watch.Multiplexer {
	t.Helper()
	return watch.New(st, DiscardLogger())
}

// CreateTestSession creates a session owned by userID and returns it.
func CreateTestSession(t *testing.T, svc *service.Service, title, userID string) models.Session {
	t.Helper()

	session, err := svc.CreateSession(context.Background(), title, userID)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return session
}

// CreateTestPoll creates a poll in the given session and returns it.
func CreateTestPoll(t *testing.T, svc *service.Service, sessionID, question string, options []string, userID string) models.Poll {
	t.Helper()

	poll, err := svc.CreatePoll(context.Background(), sessionID, question, options, userID)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll
}

// LaunchTestPoll activates a poll, failing the test on error.
func LaunchTestPoll(t *testing.T, svc *service.Service, pollID, sessionID string) {
	t.Helper()

	if err := svc.LaunchPoll(context.Background(), pollID, sessionID); err != nil {
		t.Fatalf("Failed to launch test poll: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
