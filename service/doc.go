// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package service is the orchestration core: session lifecycle, poll
lifecycle, and vote recording against whichever store was selected at
startup.

# Operations

  - CreateSession / JoinSession / EndSession
  - CreatePoll / LaunchPoll / StopPoll
  - SubmitResponse

# Errors

Callers distinguish four failure families:

  - ValidationError: rejected input
  - NotFoundError: absent session or poll
  - DuplicateVoteError: second vote on the same poll by the same user
  - StoreError: the backing store failed; wraps the cause

Only the duplicate-vote rule is a guarantee the service enforces
itself; everything durable belongs to the store.
*/
package service
