// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"livepoll/handlers"
	"livepoll/middleware"
	"livepoll/service"
	"livepoll/watch"
)

func NewRouter(svc *service.Service, mux *watch.Multiplexer, storeKind string) *http.ServeMux {
	m := http.NewServeMux()

	sessionHandler := handlers.NewSessionHandler(svc)
	pollHandler := handlers.NewPollHandler(svc)
	responseHandler := handlers.NewResponseHandler(svc)
	identityHandler := handlers.NewIdentityHandler()
	liveHandler := handlers.NewLiveHandler(mux)
	healthHandler := handlers.NewHealthHandler(storeKind)

	// Health check
	m.HandleFunc("GET /health", healthHandler.Health)

	// Identity
	m.HandleFunc("POST /identity", middleware.WithLogging(identityHandler.CreateIdentity))

	// Session lifecycle
	m.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.CreateSession))
	m.HandleFunc("POST /sessions/join", middleware.WithLogging(sessionHandler.JoinSession))
	m.HandleFunc("POST /sessions/{id}/end", middleware.WithLogging(sessionHandler.EndSession))

	// Poll lifecycle
	m.HandleFunc("POST /sessions/{id}/polls", middleware.WithLogging(pollHandler.CreatePoll))
	m.HandleFunc("POST /polls/{id}/launch", middleware.WithLogging(pollHandler.LaunchPoll))
	m.HandleFunc("POST /polls/{id}/stop", middleware.WithLogging(pollHandler.StopPoll))

	// Voting
	m.HandleFunc("POST /polls/{id}/responses", middleware.WithLogging(responseHandler.SubmitResponse))

	// Live feeds (websocket; logging middleware would break the upgrade)
	m.HandleFunc("GET /sessions/{id}/live", liveHandler.SessionLive)
	m.HandleFunc("GET /users/{id}/sessions/live", liveHandler.UserSessionsLive)

	// Root endpoint
	m.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("livepoll API v1"))
	})

	return m
}
