// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package watch

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"livepoll/models"
	"livepoll/pubsub"
	"livepoll/store"
)

// Multiplexer turns the store's raw change events into the projections
// consumers subscribe to: one session's record, one session's polls,
// and the sessions a user participates in.
//
// Each topic holds a single underlying store subscription, shared by
// every callback on that topic and torn down when the last one leaves.
// On every change event the multiplexer re-derives the filtered view,
// decodes it strictly at the boundary, sorts multi-item results by
// creation time descending, and delivers the full snapshot to each
// registered callback. Late subscribers receive the last snapshot
// immediately.
type Multiplexer struct {
	store store.Store
	log   *slog.Logger

	sessions     *pubsub.Registry[models.Session]
	sessionPolls *pubsub.Registry[[]models.Poll]
	userSessions *pubsub.Registry[[]models.Session]

	mu    sync.Mutex
	feeds map[pubsub.Topic]*feed
}

// feed is one refcounted store subscription plus its last snapshot.
type feed struct {
	cancel func()
	count  int

	mu     sync.Mutex
	last   any
	primed bool
}

func (f *feed) remember(v any) {
	f.mu.Lock()
	f.last = v
	f.primed = true
	f.mu.Unlock()
}

func (f *feed) snapshot() (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last, f.primed
}

func New(st store.Store, log *slog.Logger) *Multiplexer {
	return &Multiplexer{
		store:        st,
		log:          log,
		sessions:     pubsub.NewRegistry[models.Session](),
		sessionPolls: pubsub.NewRegistry[[]models.Poll](),
		userSessions: pubsub.NewRegistry[[]models.Session](),
		feeds:        make(map[pubsub.Topic]*feed),
	}
}

// WatchSession delivers the session record on every change.
func (m *Multiplexer) WatchSession(sessionID string, fn func(models.Session)) (func(), error) {
	topic := pubsub.Topic{Kind: pubsub.KindSession, ID: sessionID}
	release := m.sessions.Subscribe(topic, fn)

	acquire := func(f *feed) (func(), error) {
		return m.store.Subscribe(models.CollectionSessions+"/"+sessionID, func(data json.RawMessage) {
			session, err := models.DecodeSession(sessionID, data)
			if err != nil {
				m.log.Error("session snapshot rejected", "error", err)
				return
			}
			f.remember(session)
			m.sessions.Publish(topic, session)
		}, m.feedError(topic))
	}

	cancel, created, err := m.attach(topic, acquire, release)
	if err != nil {
		return nil, err
	}
	if !created {
		if last, ok := m.primedSnapshot(topic); ok {
			fn(last.(models.Session))
		}
	}
	return cancel, nil
}

// WatchSessionPolls delivers the session's polls, newest first, on
// every change to any poll.
func (m *Multiplexer) WatchSessionPolls(sessionID string, fn func([]models.Poll)) (func(), error) {
	topic := pubsub.Topic{Kind: pubsub.KindSessionPolls, ID: sessionID}
	release := m.sessionPolls.Subscribe(topic, fn)

	acquire := func(f *feed) (func(), error) {
		return m.store.Subscribe(models.CollectionPolls, func(data json.RawMessage) {
			all, err := models.DecodePollMap(data)
			if err != nil {
				m.log.Error("polls snapshot rejected", "error", err)
				return
			}
			polls := make([]models.Poll, 0, len(all))
			for _, p := range all {
				if p.SessionID == sessionID {
					polls = append(polls, p)
				}
			}
			sortPolls(polls)
			f.remember(polls)
			m.sessionPolls.Publish(topic, polls)
		}, m.feedError(topic))
	}

	cancel, created, err := m.attach(topic, acquire, release)
	if err != nil {
		return nil, err
	}
	if !created {
		if last, ok := m.primedSnapshot(topic); ok {
			fn(last.([]models.Poll))
		}
	}
	return cancel, nil
}

// WatchUserSessions delivers the sessions the user participates in,
// newest first.
func (m *Multiplexer) WatchUserSessions(userID string, fn func([]models.Session)) (func(), error) {
	topic := pubsub.Topic{Kind: pubsub.KindUserSessions, ID: userID}
	release := m.userSessions.Subscribe(topic, fn)

	acquire := func(f *feed) (func(), error) {
		return m.store.Subscribe(models.CollectionSessions, func(data json.RawMessage) {
			all, err := models.DecodeSessionMap(data)
			if err != nil {
				m.log.Error("sessions snapshot rejected", "error", err)
				return
			}
			sessions := make([]models.Session, 0, len(all))
			for _, s := range all {
				if s.HasParticipant(userID) {
					sessions = append(sessions, s)
				}
			}
			sortSessions(sessions)
			f.remember(sessions)
			m.userSessions.Publish(topic, sessions)
		}, m.feedError(topic))
	}

	cancel, created, err := m.attach(topic, acquire, release)
	if err != nil {
		return nil, err
	}
	if !created {
		if last, ok := m.primedSnapshot(topic); ok {
			fn(last.([]models.Session))
		}
	}
	return cancel, nil
}

// attach joins the caller to the topic's shared feed, creating the
// underlying store subscription for the first subscriber. The returned
// cancel removes this subscriber only; the store subscription is torn
// down when the last one leaves. created tells the caller whether the
// immediate store snapshot already reached it through the registry.
func (m *Multiplexer) attach(topic pubsub.Topic, acquire func(*feed) (func(), error), release func()) (cancelFn func(), created bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := m.feeds[topic]
	if f == nil {
		f = &feed{}
		m.feeds[topic] = f
		cancel, err := acquire(f)
		if err != nil {
			delete(m.feeds, topic)
			release()
			return nil, false, err
		}
		f.cancel = cancel
		created = true
	}
	f.count++

	var once sync.Once
	return func() {
		once.Do(func() {
			release()
			m.mu.Lock()
			defer m.mu.Unlock()
			f.count--
			if f.count == 0 {
				f.cancel()
				delete(m.feeds, topic)
			}
		})
	}, created, nil
}

func (m *Multiplexer) primedSnapshot(topic pubsub.Topic) (any, bool) {
	m.mu.Lock()
	f := m.feeds[topic]
	m.mu.Unlock()
	if f == nil {
		return nil, false
	}
	return f.snapshot()
}

func (m *Multiplexer) feedError(topic pubsub.Topic) store.ErrorFunc {
	return func(err error) {
		m.log.Error("subscription feed lost", "kind", int(topic.Kind), "id", topic.ID, "error", err)
	}
}

func sortPolls(polls []models.Poll) {
	sort.Slice(polls, func(i, j int) bool {
		if polls[i].CreatedAt != polls[j].CreatedAt {
			return polls[i].CreatedAt > polls[j].CreatedAt
		}
		return polls[i].ID < polls[j].ID
	})
}

func sortSessions(sessions []models.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt != sessions[j].CreatedAt {
			return sessions[i].CreatedAt > sessions[j].CreatedAt
		}
		return sessions[i].ID < sessions[j].ID
	})
}
