// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package watch

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livepoll/models"
	"livepoll/store"
)

func newTestMultiplexer() (*Multiplexer, *store.MemoryStore) {
	mem := store.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(mem, log), mem
}

func putSession(t *testing.T, mem *store.MemoryStore, id string, s models.Session) {
	t.Helper()
	require.NoError(t, mem.Put(context.Background(), models.CollectionSessions+"/"+id, s))
}

func putPoll(t *testing.T, mem *store.MemoryStore, id string, p models.Poll) {
	t.Helper()
	require.NoError(t, mem.Put(context.Background(), models.CollectionPolls+"/"+id, p))
}

func TestWatchSessionDeliversChanges(t *testing.T) {
	m, mem := newTestMultiplexer()

	putSession(t, mem, "s1", models.Session{
		Code: "K3J9QX", Title: "v1", CreatedBy: "anon-1", IsActive: true,
	})

	var got []models.Session
	cancel, err := m.WatchSession("s1", func(s models.Session) { got = append(got, s) })
	require.NoError(t, err)
	defer cancel()

	require.Len(t, got, 1, "current record delivered on subscribe")
	assert.Equal(t, "v1", got[0].Title)
	assert.Equal(t, "s1", got[0].ID)

	require.NoError(t, mem.Update(context.Background(), "sessions/s1", map[string]any{"title": "v2"}))
	require.Len(t, got, 2)
	assert.Equal(t, "v2", got[1].Title)
}

func TestWatchSessionLateSubscriberGetsSnapshot(t *testing.T) {
	m, mem := newTestMultiplexer()

	putSession(t, mem, "s1", models.Session{Code: "AB12CD", Title: "x", CreatedBy: "anon-1"})

	first := 0
	cancel1, err := m.WatchSession("s1", func(models.Session) { first++ })
	require.NoError(t, err)
	defer cancel1()
	require.Equal(t, 1, first, "initial snapshot delivered exactly once")

	var late models.Session
	lateCalls := 0
	cancel2, err := m.WatchSession("s1", func(s models.Session) { late, lateCalls = s, lateCalls+1 })
	require.NoError(t, err)
	defer cancel2()

	assert.Equal(t, 1, lateCalls, "late subscriber primed from the shared feed")
	assert.Equal(t, "x", late.Title)
	assert.Equal(t, 1, first, "existing subscriber sees nothing on a new join")
}

func TestWatchSessionPollsFiltersAndSorts(t *testing.T) {
	m, mem := newTestMultiplexer()

	putPoll(t, mem, "p-old", models.Poll{SessionID: "s1", Question: "old", CreatedAt: 100})
	putPoll(t, mem, "p-new", models.Poll{SessionID: "s1", Question: "new", CreatedAt: 200})
	putPoll(t, mem, "p-other", models.Poll{SessionID: "s2", Question: "other", CreatedAt: 300})

	var got [][]models.Poll
	cancel, err := m.WatchSessionPolls("s1", func(polls []models.Poll) { got = append(got, polls) })
	require.NoError(t, err)
	defer cancel()

	require.Len(t, got, 1)
	require.Len(t, got[0], 2, "polls from other sessions are filtered out")
	assert.Equal(t, "p-new", got[0][0].ID, "newest poll first")
	assert.Equal(t, "p-old", got[0][1].ID)

	putPoll(t, mem, "p-newest", models.Poll{SessionID: "s1", Question: "newest", CreatedAt: 400})
	require.Len(t, got, 2)
	assert.Equal(t, "p-newest", got[1][0].ID)
}

func TestWatchUserSessionsFiltersByParticipant(t *testing.T) {
	m, mem := newTestMultiplexer()

	putSession(t, mem, "s1", models.Session{
		Code: "AAAAAA", CreatedBy: "anon-1", Participants: []string{"anon-1", "anon-2"}, CreatedAt: 100,
	})
	putSession(t, mem, "s2", models.Session{
		Code: "BBBBBB", CreatedBy: "anon-3", Participants: []string{"anon-3"}, CreatedAt: 200,
	})

	var got [][]models.Session
	cancel, err := m.WatchUserSessions("anon-2", func(s []models.Session) { got = append(got, s) })
	require.NoError(t, err)
	defer cancel()

	require.Len(t, got, 1)
	require.Len(t, got[0], 1)
	assert.Equal(t, "s1", got[0][0].ID)
}

func TestWatchSharedFeedTornDownWithLastSubscriber(t *testing.T) {
	m, mem := newTestMultiplexer()

	putSession(t, mem, "s1", models.Session{Code: "AB12CD", CreatedBy: "anon-1"})

	calls := 0
	cancel1, err := m.WatchSession("s1", func(models.Session) { calls++ })
	require.NoError(t, err)
	cancel2, err := m.WatchSession("s1", func(models.Session) { calls++ })
	require.NoError(t, err)

	cancel1()
	cancel1() // cancelling twice removes one subscriber only
	cancel2()

	before := calls
	require.NoError(t, mem.Update(context.Background(), "sessions/s1", map[string]any{"title": "z"}))
	assert.Equal(t, before, calls, "no delivery after the last subscriber leaves")

	m.mu.Lock()
	assert.Empty(t, m.feeds)
	m.mu.Unlock()
}

func TestWatchSessionRejectsBadRecord(t *testing.T) {
	m, mem := newTestMultiplexer()

	// Missing createdBy fails strict decoding and is dropped.
	require.NoError(t, mem.Put(context.Background(), "sessions/s1", map[string]any{"code": "AB12CD"}))

	calls := 0
	cancel, err := m.WatchSession("s1", func(models.Session) { calls++ })
	require.NoError(t, err)
	defer cancel()

	assert.Equal(t, 0, calls)
}

func TestSortPollsTieBreaksOnID(t *testing.T) {
	polls := []models.Poll{{ID: "b", CreatedAt: 100}, {ID: "a", CreatedAt: 100}}
	sortPolls(polls)
	assert.Equal(t, "a", polls[0].ID)
}
