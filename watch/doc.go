// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package watch multiplexes the store's change feeds into the projections
consumers care about.

Three subscription families exist, identified by typed topics:

  - one session's record
  - one session's polls (newest first)
  - the sessions a user participates in (newest first)

Every change event re-derives the full filtered snapshot; subscribers
always receive complete state, never deltas. Unsubscribing removes one
callback without disturbing others on the same topic.
*/
package watch
