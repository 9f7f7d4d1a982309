// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"livepoll/middleware"
	"livepoll/models"
	"livepoll/service"
)

type ResponseHandler struct {
	svc *service.Service
}

func NewResponseHandler(svc *service.Service) *ResponseHandler {
	return &ResponseHandler{svc: svc}
}

// SubmitResponse handles POST /polls/{id}/responses
func (h *ResponseHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	var req models.SubmitResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	response, err := h.svc.SubmitResponse(r.Context(), pollID, req.SessionID, req.UserID, req.UserName, req.SelectedOption)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, response)
}
