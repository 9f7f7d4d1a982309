// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain records, API types, and store-boundary
decoding for the live polling service.

# Domain Types

  - Session: a poll-hosting room joined by a short code
  - Poll: one question with fixed options and per-option vote counts
  - Response: one user's single vote on one poll

Domain types use camelCase JSON tags: that is the wire format of the
remote key-path store ("sessions/{id}", "polls/{id}", "responses/{id}").

# Decoding

Raw store payloads pass through DecodeSession/DecodePoll/DecodeResponse
(or their *Map variants for whole-collection snapshots) before any other
code touches them. Decoding is strict: a record missing its
identity-bearing field is an error. Legacy-field defaulting is applied
explicitly there and nowhere else.

# Timestamps

Timestamp resolves both creation-time representations found in stored
records (integer epoch milliseconds and the composite server timestamp)
to a single comparable millisecond value.
*/
package models
