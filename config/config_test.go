// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 8410 {
		t.Errorf("Port = %d, want 8410", cfg.Port)
	}
	if cfg.StoreURL != "" {
		t.Errorf("StoreURL = %q, want empty", cfg.StoreURL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LIVEPOLL_PORT", "9000")
	t.Setenv("LIVEPOLL_STORE_URL", "ws://store.example.com/rpc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.StoreURL != "ws://store.example.com/rpc" {
		t.Errorf("StoreURL = %q, want ws://store.example.com/rpc", cfg.StoreURL)
	}
}
