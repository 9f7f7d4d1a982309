// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package router wires the handlers onto Go 1.22+ method-and-pattern
// routes.
package router
