package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/logging"
)

type successEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

type errorEnvelope struct {
	StatusCode int            `json:"statusCode"`
	Code       apperrors.Kind `json:"code"`
	Message    string         `json:"message"`
	Details    any            `json:"details,omitempty"`
	Success    bool           `json:"success"`
}

func respondData(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	respondJSON(ctx, w, status, successEnvelope{StatusCode: status, Data: data, Message: message, Success: true})
}

func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status, appErr := apperrors.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(ctx).Error("request failed", "status", status, "error", err)
	}
	respondJSON(ctx, w, status, errorEnvelope{
		StatusCode: status,
		Code:       appErr.Kind,
		Message:    appErr.Message,
		Details:    appErr.Details,
	})
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		logging.FromContext(ctx).Warn("request returned client error", "status", status, "response", payload)
	}
}
