// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is the non-durable fallback used when the remote store is
// unreachable. It is an ordinary value with a constructor and no shared
// state: every instance owns its own records and subscribers, so tests
// can create isolated stores and an application discards the store at
// shutdown.
//
// Fan-out is process-local only. Mutations synchronously invoke every
// covering subscriber before returning, in mutation order; callbacks
// must not call back into the store. Multi-client consistency is not
// provided in fallback mode.
type MemoryStore struct {
	mu      sync.Mutex
	data    map[string]map[string]map[string]any // collection -> id -> fields
	subs    map[int]*memorySub
	nextSub int
}

type memorySub struct {
	path     string
	onChange ChangeFunc
}

// NewMemoryStore creates an empty fallback store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]map[string]any),
		subs: make(map[int]*memorySub),
	}
}

func (m *MemoryStore) Put(ctx context.Context, path string, value any) error {
	collection, id, err := splitPath(path)
	if err != nil {
		return err
	}
	if id == "" {
		return errRecordPath(path)
	}
	fields, err := normalize(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]map[string]any)
	}
	m.data[collection][id] = fields
	m.notifyLocked(path)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, path string, fields map[string]any) error {
	collection, id, err := splitPath(path)
	if err != nil {
		return err
	}
	if id == "" {
		return errRecordPath(path)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]map[string]any)
	}
	record := m.data[collection][id]
	if record == nil {
		record = make(map[string]any)
		m.data[collection][id] = record
	}
	for k, v := range fields {
		record[k] = v
	}
	m.notifyLocked(path)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, path string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.valueLocked(path)
}

func (m *MemoryStore) Subscribe(path string, onChange ChangeFunc, onError ErrorFunc) (func(), error) {
	if _, _, err := splitPath(path); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := m.nextSub
	m.nextSub++
	m.subs[key] = &memorySub{path: path, onChange: onChange}

	// Immediate one-shot delivery of current state, if any.
	if snapshot, err := m.valueLocked(path); err == nil {
		onChange(snapshot)
	}

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, key)
	}, nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = make(map[int]*memorySub)
	return nil
}

// notifyLocked delivers fresh snapshots to every subscriber covering the
// changed path. Caller holds m.mu.
func (m *MemoryStore) notifyLocked(changedPath string) {
	for _, sub := range m.subs {
		if !covers(sub.path, changedPath) {
			continue
		}
		snapshot, err := m.valueLocked(sub.path)
		if err != nil {
			continue
		}
		sub.onChange(snapshot)
	}
}

// valueLocked marshals the current value at path. Caller holds m.mu.
func (m *MemoryStore) valueLocked(path string) (json.RawMessage, error) {
	collection, id, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	children := m.data[collection]
	if id == "" {
		if len(children) == 0 {
			return nil, ErrNotFound
		}
		data, err := json.Marshal(children)
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	record, ok := children[id]
	if !ok {
		return nil, ErrNotFound
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func errRecordPath(path string) error {
	return &PathError{Path: path, Reason: "expected collection/id"}
}

// PathError reports a malformed store path.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return "store: bad path " + e.Path + ": " + e.Reason
}
