// Package recommend computes item-based collaborative-filtering
// recommendations from the ratings table.
//
// Each request takes a fresh snapshot of all ratings, turns it into a binary
// user x item interaction matrix, derives an item x item co-occurrence
// matrix, and ranks candidates for the target user. When personalization is
// impossible the ranking degrades to global popularity and finally to the
// TMDB trending list. Nothing is cached or shared between requests.
package recommend

import (
	"context"

	"log/slog"

	"github.com/cinelog/recommender/lib/config"
	"github.com/cinelog/recommender/lib/ratings"
	"github.com/cinelog/recommender/lib/tmdb"
	"github.com/cinelog/recommender/models"
)

// RatingSource supplies the rating rows the computation runs on.
type RatingSource interface {
	List(ctx context.Context, filter ratings.Filter) ([]models.Rating, error)
}

// TrendingSource supplies a best-effort list of currently popular external
// items. Failures are tolerated.
type TrendingSource interface {
	Trending(ctx context.Context, mediaType, timeWindow, language string) (*tmdb.TrendingResult, error)
}

// Options adjusts a single recommendation request.
type Options struct {
	// Limit bounds the result length. Zero means the configured default.
	Limit int

	// ContentType restricts the computation to one content type when set.
	ContentType string
}

// Recommender computes recommendations. It is stateless between calls and
// safe for concurrent use.
type Recommender struct {
	store    RatingSource
	trending TrendingSource
	logger   *slog.Logger
	cfg      config.RecommendConfig
}

func New(store RatingSource, trending TrendingSource, cfg config.RecommendConfig, logger *slog.Logger) *Recommender {
	return &Recommender{
		store:    store,
		trending: trending,
		logger:   logger,
		cfg:      cfg,
	}
}

// GetRecommendationsForUser returns a ranked list of content items for one
// user, at most opts.Limit long, with contiguous 1-based score ranks. Items
// the user has rated with any value are never returned. Validating userID is
// the caller's responsibility.
func (r *Recommender) GetRecommendationsForUser(ctx context.Context, userID int, opts Options) ([]models.Recommendation, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = r.cfg.DefaultLimit
	}

	snap, err := r.loadSnapshot(ctx, opts.ContentType)
	if err != nil {
		return nil, err
	}

	if len(snap.users) == 0 || len(snap.items) == 0 {
		return []models.Recommendation{}, nil
	}

	rated := snap.ratedKeys(userID)

	matrix := buildRatingMatrix(snap)
	if matrix == nil {
		return []models.Recommendation{}, nil
	}

	coMatrix := buildCoMatrix(matrix, r.cfg.NormalizeOnPopularity)

	selected := r.personalizedItems(userID, snap, matrix, coMatrix, rated)
	if len(selected) > limit {
		selected = selected[:limit]
	}

	if len(selected) < limit {
		exclude := make(map[string]bool, len(rated)+len(selected))
		for key := range rated {
			exclude[key] = true
		}
		for _, idx := range selected {
			exclude[snap.items[idx].key] = true
		}

		selected = append(selected, popularItems(snap, matrix, limit-len(selected), exclude)...)
	}

	result := make([]models.Recommendation, 0, limit)
	for rank, idx := range selected {
		result = append(result, models.Recommendation{
			ContentID:   snap.items[idx].contentID,
			ContentType: snap.items[idx].contentType,
			ScoreRank:   rank + 1,
		})
	}

	if len(result) < limit {
		exclude := make(map[string]bool, len(rated)+len(result))
		for key := range rated {
			exclude[key] = true
		}
		for _, rec := range result {
			exclude[models.ItemKey(rec.ContentID, rec.ContentType)] = true
		}

		baseRank := len(result)
		for i, t := range r.trendingItems(ctx, limit-len(result), exclude) {
			result = append(result, models.Recommendation{
				ContentID:   t.contentID,
				ContentType: t.contentType,
				ScoreRank:   baseRank + i + 1,
			})
		}
	}

	r.logger.Debug("Computed recommendations",
		slog.Int("user_id", userID),
		slog.Int("count", len(result)),
		slog.Int("limit", limit),
		slog.String("content_type", opts.ContentType))

	return result, nil
}
