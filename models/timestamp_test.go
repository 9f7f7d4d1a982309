// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Timestamp
	}{
		{"plain milliseconds", `1719500000000`, 1719500000000},
		{"composite seconds and nanoseconds", `{"seconds": 1719500000, "nanoseconds": 500000000}`, 1719500000500},
		{"composite seconds only", `{"seconds": 1719500000}`, 1719500000000},
		{"null placeholder", `null`, 0},
		{"empty object placeholder", `{}`, 0},
		{"string garbage", `"yesterday"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.Equal(t, tt.want, ts)
		})
	}
}

func TestTimestampMarshal(t *testing.T) {
	data, err := json.Marshal(Timestamp(1719500000000))
	require.NoError(t, err)
	assert.Equal(t, `1719500000000`, string(data))
}

func TestTimestampTimeRoundTrip(t *testing.T) {
	ts := Now()
	assert.Equal(t, ts, Timestamp(ts.Time().UnixMilli()))
}
