// Package ids validates and generates the opaque identifiers used for users,
// videos, comments, tweets and relation records.
package ids

import (
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperrors"
)

// New returns a fresh identifier.
func New() string {
	return uuid.NewString()
}

// Parse normalises raw into canonical form. label names the entity in the
// returned InvalidIdentifier error, e.g. "video".
func Parse(label, raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", apperrors.InvalidIdentifier("invalid " + label + " ID")
	}
	return id.String(), nil
}
