// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store reaches the hosted realtime key-path store and provides
the in-memory fallback used when it is unreachable.

Both implementations satisfy the same Store interface: Put, Update and
Get against "collection/id" paths, and Subscribe for change feeds that
fire once with current state and again on every mutation of the path or
its descendants.

RemoteStore is a websocket client. MemoryStore is a process-local,
non-durable substitute with no cross-client fan-out.

Select picks one of the two, exactly once per client, by probing the
remote store with a write/read round-trip at "test/connection-test".
The stores are never merged or reconciled afterwards.
*/
package store
