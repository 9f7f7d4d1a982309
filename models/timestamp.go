// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"time"
)

// Timestamp is a creation time in milliseconds since the Unix epoch.
//
// Records written by older clients carry the store's composite server
// timestamp ({"seconds": ..., "nanoseconds": ...}) instead of a plain
// number. Unmarshalling resolves both forms to milliseconds; anything
// unresolvable decodes as 0 so that ordering stays total.
type Timestamp int64

// Now returns the current time as a Timestamp.
func Now() Timestamp {
	return Timestamp(time.Now().UnixMilli())
}

// Time converts the timestamp back to a time.Time.
func (t Timestamp) Time() time.Time {
	return time.UnixMilli(int64(t))
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(t))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var ms int64
	if err := json.Unmarshal(data, &ms); err == nil {
		*t = Timestamp(ms)
		return nil
	}

	var composite struct {
		Seconds     int64 `json:"seconds"`
		Nanoseconds int64 `json:"nanoseconds"`
	}
	if err := json.Unmarshal(data, &composite); err == nil && composite.Seconds != 0 {
		*t = Timestamp(composite.Seconds*1000 + composite.Nanoseconds/int64(time.Millisecond))
		return nil
	}

	// Server placeholder values and other unknown shapes sort as 0.
	*t = 0
	return nil
}
