// Package validation holds input checks shared by the HTTP handlers and the
// JSON-schema validation applied to untrusted external API payloads.
package validation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cinelog/recommender/models"
)

// ValidateUserID checks that a user id is a positive integer.
func ValidateUserID(id int) error {
	if id <= 0 {
		return fmt.Errorf("user id must be a positive integer, got %d", id)
	}
	return nil
}

// ValidateContentID checks that a content id is a positive integer.
func ValidateContentID(id int) error {
	if id <= 0 {
		return fmt.Errorf("content id must be a positive integer, got %d", id)
	}
	return nil
}

// ValidateContentType checks that t names a supported content type.
func ValidateContentType(t string) error {
	if !models.ValidContentType(t) {
		return fmt.Errorf("unsupported content type: %q", t)
	}
	return nil
}

// ValidateRatingValue checks that a rating value is within the 1-10 scale.
func ValidateRatingValue(value int) error {
	if value < 1 || value > 10 {
		return fmt.Errorf("rating value must be between 1 and 10, got %d", value)
	}
	return nil
}

// ValidateLimit checks that a requested result size is within bounds.
func ValidateLimit(limit int) error {
	if limit < 1 || limit > 100 {
		return fmt.Errorf("limit must be between 1 and 100, got %d", limit)
	}
	return nil
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	}); err != nil {
		slog.Error("Failed to encode error response", slog.Any("error", err))
	}
}
