// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package config loads server settings from the environment.
package config
