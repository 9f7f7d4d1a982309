// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package pubsub is a small typed publish/subscribe registry keyed by
// tagged topics, used by the watch package to fan snapshots out to
// subscribers.
package pubsub
