// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the livepoll API server.

Livepoll is a live audience polling service. Presenters create sessions,
attach multiple-choice polls to them, and launch one poll at a time;
participants join a session by six-character code and submit a single
response per poll. Clients follow results over websocket live feeds.

# Starting the Server

	go run main.go

Configuration comes from the environment (a .env file is honored):

  - LIVEPOLL_PORT: server port (default: 8410)
  - LIVEPOLL_STORE_URL: websocket URL of the hosted realtime store (optional)

When LIVEPOLL_STORE_URL is unset or the remote store fails a startup
connectivity probe, the server runs on an in-memory store instead. The
choice is made once at startup and never revisited.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (sessions, polls, responses, identity, live feeds)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - service: Session and poll operations over the store
  - watch: Shared live-feed subscriptions over the store
  - store: Store interface, remote websocket client, in-memory fallback
  - pubsub: In-process subscriber registries used by watch
  - models: Store records and request/response types
  - auth: Identifier and session code generation
  - config: Configuration loading

See package documentation for each component.
*/
package main
