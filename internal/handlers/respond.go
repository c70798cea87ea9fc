package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vidtube/backend/internal/apperror"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/repositories"
)

type apiResponse struct {
	Status  int    `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

type apiErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload := apiResponse{Status: status, Data: data, Message: message}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
	}
}

// respondError converts any error into the uniform failure envelope. Tagged
// application errors keep their kind-mapped status and client message;
// everything else becomes an opaque 500.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := apperror.From(err)
	status := appErr.Status()

	logger := logging.FromContext(ctx)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request returned client error", "status", status, "message", appErr.Message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload := apiErrorResponse{Status: status, Message: appErr.Message, Detail: appErr.Detail}
	if encodeErr := json.NewEncoder(w).Encode(payload); encodeErr != nil {
		logger.Error("encode error body", "status", status, "error", encodeErr)
	}
}

// repoError translates repository sentinels into tagged application errors.
func repoError(err error, resource string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return apperror.NotFound(resource)
	case errors.Is(err, repositories.ErrConflict):
		return apperror.Conflict(resource + " already exists")
	default:
		return err
	}
}
