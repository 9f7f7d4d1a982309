// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package config

import (
	"github.com/spf13/viper"
)

// Config carries everything the server needs at startup.
type Config struct {
	// Port the HTTP API listens on.
	Port int
	// StoreURL is the websocket endpoint of the hosted realtime store.
	// Empty means no remote store: the client runs on the in-memory
	// fallback from the start.
	StoreURL string
}

// Load reads configuration from the environment:
//
//	LIVEPOLL_PORT       server port (default 8410)
//	LIVEPOLL_STORE_URL  remote store websocket URL (optional)
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("port", 8410)
	v.SetDefault("store_url", "")

	_ = v.BindEnv("port", "LIVEPOLL_PORT")
	_ = v.BindEnv("store_url", "LIVEPOLL_STORE_URL")

	return Config{
		Port:     v.GetInt("port"),
		StoreURL: v.GetString("store_url"),
	}, nil
}
