// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP surface of the service.

# Endpoints

Session lifecycle:

  - POST /sessions: create a session
  - POST /sessions/join: join by code
  - POST /sessions/{id}/end: end a session

Poll lifecycle:

  - POST /sessions/{id}/polls: create a poll
  - POST /polls/{id}/launch: make it the session's active poll
  - POST /polls/{id}/stop: deactivate it

Voting:

  - POST /polls/{id}/responses: record one vote per user per poll

Live feeds (websocket):

  - GET /sessions/{id}/live: session record + poll list snapshots
  - GET /users/{id}/sessions/live: the user's session list

Plus POST /identity for anonymous user IDs and GET /health.

Handlers translate between the snake_case request types and the
service; all domain decisions live in the service package.
*/
package handlers
