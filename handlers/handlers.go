// Package handlers implements the JSON HTTP API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cinelog/recommender/lib/ratings"
	"github.com/cinelog/recommender/lib/recommend"
	"github.com/cinelog/recommender/lib/validation"
	"github.com/cinelog/recommender/models"
)

// RecommendationService is the part of the recommender the handlers need.
type RecommendationService interface {
	GetRecommendationsForUser(ctx context.Context, userID int, opts recommend.Options) ([]models.Recommendation, error)
}

// PlexImporter runs a Plex watch-history import for one user.
type PlexImporter interface {
	ImportWatchHistory(ctx context.Context, userID int) (int, error)
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", slog.Any("error", err))
	}
}

type recommendationsRequest struct {
	UserID      int    `json:"userId"`
	Limit       int    `json:"limit"`
	ContentType string `json:"contentType"`
}

// HandleRecommendations serves POST /recommendations.
func HandleRecommendations(svc RecommendationService) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body recommendationsRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			validation.WriteError(w, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
			return
		}

		if err := validation.ValidateUserID(body.UserID); err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}
		if body.Limit != 0 {
			if err := validation.ValidateLimit(body.Limit); err != nil {
				validation.WriteError(w, err, http.StatusBadRequest)
				return
			}
		}
		if body.ContentType != "" {
			if err := validation.ValidateContentType(body.ContentType); err != nil {
				validation.WriteError(w, err, http.StatusBadRequest)
				return
			}
		}

		recs, err := svc.GetRecommendationsForUser(req.Context(), body.UserID, recommend.Options{
			Limit:       body.Limit,
			ContentType: body.ContentType,
		})
		if err != nil {
			slog.Error("Failed to compute recommendations",
				slog.Int("user_id", body.UserID),
				slog.Any("error", err))
			validation.WriteError(w, errors.New("failed to compute recommendations"), http.StatusInternalServerError)
			return
		}

		writeJSON(w, recs, http.StatusOK)
	}
}

// HandleGetRating serves GET /ratings. It returns the aggregate summary for
// one content item, including the requesting user's own rating when a
// user_id query parameter is present.
func HandleGetRating(store *ratings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		contentID, err := strconv.Atoi(req.URL.Query().Get("content_id"))
		if err != nil {
			validation.WriteError(w, errors.New("content_id must be an integer"), http.StatusBadRequest)
			return
		}
		contentType := req.URL.Query().Get("content_type")

		userID := 0
		if raw := req.URL.Query().Get("user_id"); raw != "" {
			userID, err = strconv.Atoi(raw)
			if err != nil {
				validation.WriteError(w, errors.New("user_id must be an integer"), http.StatusBadRequest)
				return
			}
		}

		summary, err := store.Summary(req.Context(), contentID, contentType, userID)
		if err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}

		writeJSON(w, summary, http.StatusOK)
	}
}

type ratingRequest struct {
	UserID      int    `json:"user_id"`
	ContentID   int    `json:"content_id"`
	ContentType string `json:"content_type"`
	Value       int    `json:"value"`
}

// HandleSetRating serves POST /ratings, creating or updating a rating.
func HandleSetRating(store *ratings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body ratingRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			validation.WriteError(w, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
			return
		}

		rating, err := store.Set(req.Context(), models.Rating{
			UserID:      body.UserID,
			ContentID:   body.ContentID,
			ContentType: body.ContentType,
			Value:       body.Value,
		})
		if err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}

		writeJSON(w, rating, http.StatusOK)
	}
}

// HandleDeleteRating serves DELETE /ratings.
func HandleDeleteRating(store *ratings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body ratingRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			validation.WriteError(w, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
			return
		}

		err := store.Delete(req.Context(), body.UserID, body.ContentID, body.ContentType)
		if err != nil {
			if errors.Is(err, ratings.ErrNotFound) {
				validation.WriteError(w, err, http.StatusNotFound)
				return
			}
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type importRequest struct {
	UserID int `json:"user_id"`
}

// HandleImportPlex serves POST /import/plex. A nil importer means the Plex
// integration is disabled.
func HandleImportPlex(importer PlexImporter) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if importer == nil {
			validation.WriteError(w, errors.New("plex import is not configured"), http.StatusServiceUnavailable)
			return
		}

		var body importRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			validation.WriteError(w, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
			return
		}
		if err := validation.ValidateUserID(body.UserID); err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}

		imported, err := importer.ImportWatchHistory(req.Context(), body.UserID)
		if err != nil {
			slog.Error("Plex import failed",
				slog.Int("user_id", body.UserID),
				slog.Any("error", err))
			validation.WriteError(w, errors.New("plex import failed"), http.StatusBadGateway)
			return
		}

		writeJSON(w, map[string]int{"imported": imported}, http.StatusOK)
	}
}
