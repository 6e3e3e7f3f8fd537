package plex

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/cinelog/recommender/lib/lock"
	"github.com/cinelog/recommender/lib/tmdb"
	"github.com/cinelog/recommender/models"
)

// RatingWriter persists imported ratings.
type RatingWriter interface {
	Set(ctx context.Context, rating models.Rating) (*models.Rating, error)
}

// Importer converts a Plex server's watch history into ratings for one user.
// Watched items become implicit liked interactions; items already rated by
// the user are overwritten only by the upsert semantics of the store.
type Importer struct {
	plex           *Client
	tmdb           *tmdb.Client
	store          RatingWriter
	locks          *lock.FileLock
	logger         *slog.Logger
	implicitRating int
}

func NewImporter(plex *Client, tmdbClient *tmdb.Client, store RatingWriter, locks *lock.FileLock, implicitRating int, logger *slog.Logger) *Importer {
	return &Importer{
		plex:           plex,
		tmdb:           tmdbClient,
		store:          store,
		locks:          locks,
		logger:         logger,
		implicitRating: implicitRating,
	}
}

// ImportWatchHistory walks the Plex movie and show libraries, resolves each
// watched item to a TMDB id, and records an implicit rating for userID.
// Returns the number of ratings written. Only one import per user runs at a
// time; a second concurrent call fails immediately.
func (i *Importer) ImportWatchHistory(ctx context.Context, userID int) (int, error) {
	lockKey := fmt.Sprintf("plex-import-%d", userID)
	acquired, err := i.locks.TryLock(ctx, lockKey, 5*time.Second)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire import lock: %w", err)
	}
	if !acquired {
		return 0, fmt.Errorf("an import for user %d is already running", userID)
	}
	defer func() {
		if err := i.locks.Unlock(ctx, lockKey); err != nil {
			i.logger.Error("Failed to release import lock", slog.String("key", lockKey), slog.Any("error", err))
		}
	}()

	libraries, err := i.plex.GetAllLibraries(ctx)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, lib := range libraries.Object.MediaContainer.Directory {
		if lib.Type != "movie" && lib.Type != "show" {
			continue
		}

		items, err := i.plex.GetItems(ctx, lib.Key, lib.Type)
		if err != nil {
			return imported, fmt.Errorf("failed to read library %q: %w", lib.Title, err)
		}

		for _, item := range items {
			if item.ViewCount == nil || *item.ViewCount == 0 {
				continue
			}

			contentID, contentType, err := i.resolveContent(ctx, item, lib.Type)
			if err != nil {
				i.logger.Debug("Skipping unresolvable Plex item",
					slog.String("title", item.Title),
					slog.Any("error", err))
				continue
			}

			_, err = i.store.Set(ctx, models.Rating{
				UserID:      userID,
				ContentID:   contentID,
				ContentType: contentType,
				Value:       i.implicitRating,
			})
			if err != nil {
				return imported, fmt.Errorf("failed to store imported rating: %w", err)
			}
			imported++
		}
	}

	i.logger.Info("Imported Plex watch history",
		slog.Int("user_id", userID),
		slog.Int("imported", imported))
	return imported, nil
}

// resolveContent maps a Plex library item onto a TMDB content id by title
// and year.
func (i *Importer) resolveContent(ctx context.Context, item Item, libType string) (int, string, error) {
	year := 0
	if item.Year != nil {
		year = *item.Year
	}

	if libType == "movie" {
		result, err := i.tmdb.SearchMovie(ctx, item.Title, year)
		if err != nil {
			return 0, "", err
		}
		if len(result.Results) == 0 {
			return 0, "", fmt.Errorf("no TMDB match for movie %q (%d)", item.Title, year)
		}
		return result.Results[0].ID, models.ContentTypeMovie, nil
	}

	result, err := i.tmdb.SearchTVShow(ctx, item.Title, year)
	if err != nil {
		return 0, "", err
	}
	if len(result.Results) == 0 {
		return 0, "", fmt.Errorf("no TMDB match for show %q (%d)", item.Title, year)
	}
	return result.Results[0].ID, models.ContentTypeShow, nil
}
