// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by Get when nothing exists at the path.
	ErrNotFound = errors.New("store: not found")
	// ErrClosed is returned once the underlying connection is gone.
	ErrClosed = errors.New("store: connection closed")
)

// ChangeFunc receives the fresh value at a subscribed path. For a
// collection path ("polls") the payload is a JSON object keyed by record
// ID; for a record path ("polls/{id}") it is the record itself.
type ChangeFunc func(data json.RawMessage)

// ErrorFunc receives subscription failures.
type ErrorFunc func(err error)

// Store is the key-path storage contract shared by the remote store and
// the in-memory fallback. Exactly one implementation is selected per
// client at composition time (see Select); operations are never retried
// against the other implementation mid-flight.
type Store interface {
	// Put writes the full value at path ("collection/id").
	Put(ctx context.Context, path string, value any) error
	// Update merges top-level fields into the record at path, creating
	// the record if absent.
	Update(ctx context.Context, path string, fields map[string]any) error
	// Get reads the value at path. Collection paths return the JSON
	// object of all child records. Absent paths return ErrNotFound.
	Get(ctx context.Context, path string) (json.RawMessage, error)
	// Subscribe registers onChange for path and its descendants. It
	// fires once immediately with the current value if one is present,
	// then on every subsequent mutation. The returned function removes
	// exactly this subscription.
	Subscribe(path string, onChange ChangeFunc, onError ErrorFunc) (func(), error)
	// Close releases the store's resources.
	Close() error
}

// splitPath breaks "collection/id" into its two segments. Collection-only
// paths return an empty id.
func splitPath(path string) (collection, id string, err error) {
	parts := strings.Split(path, "/")
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return "", "", fmt.Errorf("store: empty path")
		}
		return parts[0], "", nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return "", "", fmt.Errorf("store: invalid path %q", path)
		}
		return parts[0], parts[1], nil
	default:
		return "", "", fmt.Errorf("store: path %q is too deep", path)
	}
}

// covers reports whether a subscription at subPath observes a change at
// changedPath (same path, ancestor, or descendant).
func covers(subPath, changedPath string) bool {
	if subPath == changedPath {
		return true
	}
	if strings.HasPrefix(changedPath, subPath+"/") {
		return true
	}
	return strings.HasPrefix(subPath, changedPath+"/")
}

// normalize converts an arbitrary value into the generic field map the
// stores keep records as.
func normalize(value any) (map[string]any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("store: encode value: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("store: value is not a record: %w", err)
	}
	return fields, nil
}
