// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"livepoll/middleware"
	"livepoll/service"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Validation and duplicate-vote failures carry their actionable message;
// store failures surface as a generic notice.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		validation *service.ValidationError
		notFound   *service.NotFoundError
		duplicate  *service.DuplicateVoteError
		storeFail  *service.StoreError
	)

	switch {
	case errors.As(err, &validation):
		middleware.ErrorResponse(w, http.StatusBadRequest, validation.Message)
	case errors.As(err, &notFound):
		middleware.ErrorResponse(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &duplicate):
		middleware.ErrorResponse(w, http.StatusConflict, duplicate.Error())
	case errors.As(err, &storeFail):
		slog.Error("store failure", "op", storeFail.Op, "error", storeFail.Err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "The store is temporarily unavailable")
	default:
		slog.Error("unexpected error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}
