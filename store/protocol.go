// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import "encoding/json"

// Wire protocol between RemoteStore and the hosted realtime store.
//
// Every client request carries a random ID and receives exactly one
// Frame with the same ID. Subscription traffic arrives as extra Frames
// carrying the subscription ID in Sub and no request ID.

const (
	MethodPut         = "put"
	MethodUpdate      = "update"
	MethodGet         = "get"
	MethodSubscribe   = "subscribe"
	MethodUnsubscribe = "unsubscribe"
)

// CodeNotFound marks a Get against an absent path.
const CodeNotFound = "not_found"

type Request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Path   string          `json:"path,omitempty"`
	Value  json.RawMessage `json:"value,omitempty"`
	Fields map[string]any  `json:"fields,omitempty"`
	Sub    string          `json:"sub,omitempty"`
}

type Frame struct {
	ID    string          `json:"id,omitempty"`
	OK    bool            `json:"ok,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Code  string          `json:"code,omitempty"`
	Error string          `json:"error,omitempty"`
	Sub   string          `json:"sub,omitempty"`
}
