// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pubsub

import "sync"

// Kind tags the subscription families the service fans out to.
type Kind int

const (
	KindSession Kind = iota + 1
	KindSessionPolls
	KindUserSessions
)

// Topic identifies one feed: a kind plus the session or user it is
// scoped to. Topics are values, not strings, so a session feed can
// never be confused with a user feed that happens to share an ID.
type Topic struct {
	Kind Kind
	ID   string
}

// Registry is a publish/subscribe fan-out for one snapshot type T.
// Publish delivers the snapshot to every callback registered for the
// topic, synchronously and in registration order; for a given topic,
// callbacks therefore observe publishes in publish order.
type Registry[T any] struct {
	mu   sync.Mutex
	subs map[Topic][]entry[T]
	next int
}

type entry[T any] struct {
	key int
	fn  func(T)
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{subs: make(map[Topic][]entry[T])}
}

// Subscribe registers fn for the topic. The returned function removes
// exactly this registration and leaves every other callback in place.
func (r *Registry[T]) Subscribe(topic Topic, fn func(T)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.next
	r.next++
	r.subs[topic] = append(r.subs[topic], entry[T]{key: key, fn: fn})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		entries := r.subs[topic]
		for i, e := range entries {
			if e.key == key {
				r.subs[topic] = append(entries[:i:i], entries[i+1:]...)
				break
			}
		}
		if len(r.subs[topic]) == 0 {
			delete(r.subs, topic)
		}
	}
}

// Publish delivers v to all subscribers of the topic.
func (r *Registry[T]) Publish(topic Topic, v T) {
	r.mu.Lock()
	entries := make([]entry[T], len(r.subs[topic]))
	copy(entries, r.subs[topic])
	r.mu.Unlock()

	for _, e := range entries {
		e.fn(v)
	}
}

// Active reports whether the topic still has subscribers.
func (r *Registry[T]) Active(topic Topic) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[topic]) > 0
}
