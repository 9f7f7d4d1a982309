// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"livepoll/auth"
	"livepoll/middleware"
	"livepoll/models"
)

type IdentityHandler struct{}

func NewIdentityHandler() *IdentityHandler {
	return &IdentityHandler{}
}

// CreateIdentity handles POST /identity
//
// Issues an anonymous user ID. The display name is whatever the client
// wants to be called; it travels with votes but identifies nothing.
func (h *IdentityHandler) CreateIdentity(w http.ResponseWriter, r *http.Request) {
	var req models.CreateIdentityRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = "Guest"
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateIdentityResponse{
		UserID:      auth.NewUserID(),
		DisplayName: name,
	})
}
