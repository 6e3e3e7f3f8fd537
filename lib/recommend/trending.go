package recommend

import (
	"context"

	"log/slog"

	"github.com/cinelog/recommender/models"
)

// trendingItem is an externally sourced candidate mapped into the canonical
// item-key space.
type trendingItem struct {
	contentID   int
	contentType string
	key         string
}

// trendingItems asks the trending source for the weekly all-media list and
// maps the results into item keys, dropping excluded ones and truncating to
// limit. A failing trending source is logged and treated as having nothing
// to offer; it never fails the request.
func (r *Recommender) trendingItems(ctx context.Context, limit int, exclude map[string]bool) []trendingItem {
	res, err := r.trending.Trending(ctx, "all", "week", "en-US")
	if err != nil {
		r.logger.Error("Failed to fetch trending from TMDB", slog.Any("error", err))
		return nil
	}

	var out []trendingItem
	for _, entry := range res.Results {
		contentType := models.ContentTypeShow
		if entry.MediaType == "movie" {
			contentType = models.ContentTypeMovie
		}

		key := models.ItemKey(entry.ID, contentType)
		if exclude[key] {
			continue
		}

		out = append(out, trendingItem{
			contentID:   entry.ID,
			contentType: contentType,
			key:         key,
		})
		if len(out) == limit {
			break
		}
	}
	return out
}
