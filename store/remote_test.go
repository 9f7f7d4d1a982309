// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livepoll/store"
	"livepoll/store/storetest"
	"livepoll/testutil"
)

func dialTest(t *testing.T, srv *storetest.Server) *store.RemoteStore {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rs, err := store.Dial(ctx, srv.URL())
	require.NoError(t, err)
	t.Cleanup(func() { rs.Close() })
	return rs
}

func waitFor(t *testing.T, ch <-chan json.RawMessage) json.RawMessage {
	t.Helper()

	select {
	case data := <-ch:
		return data
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for notification")
		return nil
	}
}

func TestRemoteStorePutGet(t *testing.T) {
	srv := storetest.NewServer()
	defer srv.Close()
	rs := dialTest(t, srv)
	ctx := context.Background()

	err := rs.Put(ctx, "sessions/s1", map[string]any{"title": "All Hands"})
	require.NoError(t, err)

	data, err := rs.Get(ctx, "sessions/s1")
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "All Hands", record["title"])
}

func TestRemoteStoreGetNotFound(t *testing.T) {
	srv := storetest.NewServer()
	defer srv.Close()
	rs := dialTest(t, srv)

	_, err := rs.Get(context.Background(), "sessions/missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRemoteStoreUpdateMergesFields(t *testing.T) {
	srv := storetest.NewServer()
	defer srv.Close()
	rs := dialTest(t, srv)
	ctx := context.Background()

	require.NoError(t, rs.Put(ctx, "polls/p1", map[string]any{"question": "A?", "isActive": false}))
	require.NoError(t, rs.Update(ctx, "polls/p1", map[string]any{"isActive": true}))

	data, err := rs.Get(ctx, "polls/p1")
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "A?", record["question"])
	assert.Equal(t, true, record["isActive"])
}

func TestRemoteStoreSubscribeInitialSnapshot(t *testing.T) {
	srv := storetest.NewServer()
	defer srv.Close()
	rs := dialTest(t, srv)
	ctx := context.Background()

	require.NoError(t, rs.Put(ctx, "sessions/s1", map[string]any{"title": "v1"}))

	changes := make(chan json.RawMessage, 8)
	cancel, err := rs.Subscribe("sessions/s1", func(data json.RawMessage) {
		changes <- data
	}, nil)
	require.NoError(t, err)
	defer cancel()

	var record map[string]any
	require.NoError(t, json.Unmarshal(waitFor(t, changes), &record))
	assert.Equal(t, "v1", record["title"])
}

func TestRemoteStoreFanOutAcrossConnections(t *testing.T) {
	srv := storetest.NewServer()
	defer srv.Close()
	writer := dialTest(t, srv)
	reader := dialTest(t, srv)
	ctx := context.Background()

	changes := make(chan json.RawMessage, 8)
	cancel, err := reader.Subscribe("polls", func(data json.RawMessage) {
		changes <- data
	}, nil)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, writer.Put(ctx, "polls/p1", map[string]any{"question": "A?"}))

	var collection map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(waitFor(t, changes), &collection))
	assert.Contains(t, collection, "p1")
}

func TestRemoteStoreUnsubscribeStopsDelivery(t *testing.T) {
	srv := storetest.NewServer()
	defer srv.Close()
	rs := dialTest(t, srv)
	ctx := context.Background()

	changes := make(chan json.RawMessage, 8)
	cancel, err := rs.Subscribe("polls", func(data json.RawMessage) {
		changes <- data
	}, nil)
	require.NoError(t, err)

	require.NoError(t, rs.Put(ctx, "polls/p1", map[string]any{"question": "A?"}))
	waitFor(t, changes)

	cancel()
	require.NoError(t, rs.Put(ctx, "polls/p2", map[string]any{"question": "B?"}))

	select {
	case <-changes:
		t.Fatal("notification delivered after unsubscribe")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRemoteStoreCloseFailsSubscriptions(t *testing.T) {
	srv := storetest.NewServer()
	defer srv.Close()
	rs := dialTest(t, srv)

	errs := make(chan error, 1)
	_, err := rs.Subscribe("polls", func(json.RawMessage) {}, func(err error) {
		errs <- err
	})
	require.NoError(t, err)

	rs.Close()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, store.ErrClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for subscription failure")
	}

	_, err = rs.Get(context.Background(), "polls/p1")
	assert.ErrorIs(t, err, store.ErrClosed)
}

func TestProbe(t *testing.T) {
	srv := storetest.NewServer()
	defer srv.Close()
	rs := dialTest(t, srv)

	assert.NoError(t, store.Probe(context.Background(), rs, "anon-probe"))
}

func TestSelect(t *testing.T) {
	log := testutil.DiscardLogger()
	fallback := store.NewMemoryStore()

	t.Run("no remote configured", func(t *testing.T) {
		selected := store.Select(context.Background(), nil, fallback, "anon-1", log)
		assert.Equal(t, store.Store(fallback), selected)
	})

	t.Run("healthy remote wins", func(t *testing.T) {
		srv := storetest.NewServer()
		defer srv.Close()
		rs := dialTest(t, srv)

		selected := store.Select(context.Background(), rs, fallback, "anon-1", log)
		assert.Equal(t, store.Store(rs), selected)
	})

	t.Run("unreachable remote falls back", func(t *testing.T) {
		srv := storetest.NewServer()
		rs := dialTest(t, srv)
		srv.Close()
		rs.Close()

		selected := store.Select(context.Background(), rs, fallback, "anon-1", log)
		assert.Equal(t, store.Store(fallback), selected)
	})
}
