// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"livepoll/auth"
	"livepoll/config"
	"livepoll/middleware"
	"livepoll/router"
	"livepoll/service"
	"livepoll/store"
	"livepoll/watch"
)

func main() {
	// Best effort: a missing .env file is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading configuration", "error", err)
		os.Exit(1)
	}

	// Pick the store once at startup. A reachable remote wins; anything
	// else runs on the in-memory fallback for the life of the process.
	var remote store.Store
	storeKind := "memory"
	if cfg.StoreURL != "" {
		wsLog := zerolog.New(os.Stderr).With().Timestamp().Str("component", "store").Logger()
		dialCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		rs, err := store.Dial(dialCtx, cfg.StoreURL, store.WithLogger(wsLog))
		cancel()
		if err != nil {
			slog.Warn("remote store dial failed", "url", cfg.StoreURL, "error", err)
		} else {
			remote = rs
		}
	}

	probeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	selected := store.Select(probeCtx, remote, store.NewMemoryStore(), auth.NewUserID(), slog.Default())
	cancel()
	if selected == remote && remote != nil {
		storeKind = "remote"
	} else if remote != nil {
		remote.Close()
	}
	defer selected.Close()

	svc := service.New(selected, slog.Default())
	feeds := watch.New(selected, slog.Default())

	mux := router.NewRouter(svc, feeds, storeKind)

	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	slog.Info("Listening", "port", cfg.Port, "store", storeKind)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
