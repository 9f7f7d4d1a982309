// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package storetest runs an in-process stand-in for the hosted realtime
// store: a websocket server speaking the same wire protocol as
// store.RemoteStore, backed by a store.MemoryStore. Changes written by
// one connection fan out to subscribers on every connection, which is
// exactly the multi-client behavior the real service provides and the
// in-memory fallback does not.
//
// It exists for tests and local development; the production deployment
// talks to the hosted store.
package storetest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"livepoll/store"
)

// Server is an emulator instance. Create one per test with NewServer
// and Close it when done.
type Server struct {
	backend  *store.MemoryStore
	httpSrv  *httptest.Server
	upgrader websocket.Upgrader
}

func NewServer() *Server {
	s := &Server{
		backend: store.NewMemoryStore(),
	}
	s.httpSrv = httptest.NewServer(http.HandlerFunc(s.serveWS))
	return s
}

// URL returns the websocket endpoint clients dial.
func (s *Server) URL() string {
	return "ws" + strings.TrimPrefix(s.httpSrv.URL, "http")
}

// Backend exposes the shared state behind the emulator so tests can
// seed records or assert on what was written.
func (s *Server) Backend() *store.MemoryStore {
	return s.backend
}

func (s *Server) Close() {
	s.httpSrv.Close()
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &clientConn{conn: conn, backend: s.backend, cancels: make(map[string]func())}
	c.serve()
}

// clientConn handles one connected client. Notification callbacks run
// on the goroutines of whichever connection performed the mutation, so
// every write to the socket goes through writeMu.
type clientConn struct {
	conn    *websocket.Conn
	backend *store.MemoryStore

	writeMu sync.Mutex

	mu      sync.Mutex
	cancels map[string]func()
}

func (c *clientConn) serve() {
	defer c.teardown()

	for {
		var req store.Request
		if err := c.conn.ReadJSON(&req); err != nil {
			return
		}
		c.handle(req)
	}
}

func (c *clientConn) handle(req store.Request) {
	ctx := context.Background()

	switch req.Method {
	case store.MethodPut:
		c.reply(req.ID, c.backend.Put(ctx, req.Path, req.Value), nil)

	case store.MethodUpdate:
		c.reply(req.ID, c.backend.Update(ctx, req.Path, req.Fields), nil)

	case store.MethodGet:
		data, err := c.backend.Get(ctx, req.Path)
		c.reply(req.ID, err, data)

	case store.MethodSubscribe:
		subID := req.Sub
		cancel, err := c.backend.Subscribe(req.Path, func(data json.RawMessage) {
			c.write(store.Frame{Sub: subID, Data: data})
		}, nil)
		if err == nil {
			c.mu.Lock()
			c.cancels[subID] = cancel
			c.mu.Unlock()
		}
		c.reply(req.ID, err, nil)

	case store.MethodUnsubscribe:
		c.mu.Lock()
		cancel := c.cancels[req.Sub]
		delete(c.cancels, req.Sub)
		c.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		c.reply(req.ID, nil, nil)

	default:
		slog.Warn("storetest: unknown method", "method", req.Method)
		c.write(store.Frame{ID: req.ID, Error: "unknown method " + req.Method})
	}
}

func (c *clientConn) reply(id string, err error, data []byte) {
	frame := store.Frame{ID: id, Data: data}
	switch {
	case err == nil:
		frame.OK = true
	case errors.Is(err, store.ErrNotFound):
		frame.Code = store.CodeNotFound
		frame.Error = err.Error()
	default:
		frame.Error = err.Error()
	}
	c.write(frame)
}

func (c *clientConn) write(frame store.Frame) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.WriteJSON(frame)
}

func (c *clientConn) teardown() {
	c.mu.Lock()
	cancels := c.cancels
	c.cancels = map[string]func(){}
	c.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
	_ = c.conn.Close()
}
