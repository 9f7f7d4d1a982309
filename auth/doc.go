// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth generates the identifiers used across the service: anonymous
user IDs, client-assigned entity IDs, random wire-protocol IDs, and the
short join codes participants type to enter a session.

The service does not authenticate anyone. Identity is an opaque
(userID, userName) pair issued here and cached by the client.
*/
package auth
