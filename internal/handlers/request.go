package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/validation"
)

const maxJSONBody = 1 << 20

var validate = validation.New()

// requireActor returns the authenticated user of the request.
func requireActor(r *http.Request) (string, error) {
	actorID := logging.ActorIDFromContext(r.Context())
	if actorID == "" {
		return "", apperrors.Unauthorized("unauthorized request")
	}
	return actorID, nil
}

// decodeJSON reads a JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Validation("request body is required")
		}
		return apperrors.Validation("invalid request body")
	}
	return validate.Validate(dst)
}

// pageParams reads page and limit, defaulting to page 1 of defaultLimit.
func pageParams(r *http.Request, defaultLimit int) (int, int, error) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidPage(key + " must be an integer")
	}
	return n, nil
}
