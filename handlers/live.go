// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"livepoll/middleware"
	"livepoll/models"
	"livepoll/watch"
)

// LiveHandler streams subscription snapshots to UI clients over
// websockets. Each connected client gets full snapshots, never deltas,
// in the order the store delivered the underlying changes.
type LiveHandler struct {
	mux      *watch.Multiplexer
	upgrader websocket.Upgrader
}

func NewLiveHandler(mux *watch.Multiplexer) *LiveHandler {
	return &LiveHandler{
		mux: mux,
		upgrader: websocket.Upgrader{
			// Browsers connect straight from the frontend origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// SessionLive handles GET /sessions/{id}/live
//
// Streams two frame types: the session record and the session's polls.
func (h *LiveHandler) SessionLive(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &liveClient{conn: conn}

	cancelSession, err := h.mux.WatchSession(sessionID, func(s models.Session) {
		client.send(models.LiveFrame{Type: "session", Session: &s})
	})
	if err != nil {
		slog.Error("session watch failed", "session_id", sessionID, "error", err)
		conn.Close()
		return
	}
	cancelPolls, err := h.mux.WatchSessionPolls(sessionID, func(polls []models.Poll) {
		client.send(models.LiveFrame{Type: "polls", Polls: polls})
	})
	if err != nil {
		slog.Error("polls watch failed", "session_id", sessionID, "error", err)
		cancelSession()
		conn.Close()
		return
	}

	client.waitForClose()
	cancelSession()
	cancelPolls()
}

// UserSessionsLive handles GET /users/{id}/sessions/live
func (h *LiveHandler) UserSessionsLive(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user id is required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &liveClient{conn: conn}

	cancel, err := h.mux.WatchUserSessions(userID, func(sessions []models.Session) {
		client.send(models.LiveFrame{Type: "sessions", Sessions: sessions})
	})
	if err != nil {
		slog.Error("user sessions watch failed", "user_id", userID, "error", err)
		conn.Close()
		return
	}

	client.waitForClose()
	cancel()
}

// liveClient serializes writes; snapshot callbacks arrive on store
// goroutines.
type liveClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	dead    bool
}

func (c *liveClient) send(frame models.LiveFrame) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.dead {
		return
	}
	if err := c.conn.WriteJSON(frame); err != nil {
		c.dead = true
	}
}

// waitForClose blocks until the client hangs up, then closes the
// connection.
func (c *liveClient) waitForClose() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	c.writeMu.Lock()
	c.dead = true
	c.writeMu.Unlock()
	c.conn.Close()
}
