package recommend

import (
	"context"
	"fmt"

	"github.com/cinelog/recommender/lib/ratings"
)

// item identifies one content item inside a snapshot.
type item struct {
	contentID   int
	contentType string
	key         string
}

// snapshot is an immutable view of the ratings table taken at the start of a
// request. Users and items keep their first-seen order; index assignment
// depends on it.
type snapshot struct {
	users []int
	items []item

	// likedByUser holds the item keys each user rated at or above the like
	// threshold; ratedByUser holds every item key the user rated at all.
	likedByUser map[int]map[string]bool
	ratedByUser map[int]map[string]bool
}

// loadSnapshot pulls every rating row (optionally filtered by content type)
// and derives the user set, item set and per-user interaction sets. An empty
// table yields an empty snapshot, not an error.
func (r *Recommender) loadSnapshot(ctx context.Context, contentType string) (*snapshot, error) {
	rows, err := r.store.List(ctx, ratings.Filter{ContentType: contentType})
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}

	snap := &snapshot{
		likedByUser: make(map[int]map[string]bool),
		ratedByUser: make(map[int]map[string]bool),
	}

	seenUsers := make(map[int]bool)
	seenItems := make(map[string]bool)

	for _, row := range rows {
		if !seenUsers[row.UserID] {
			seenUsers[row.UserID] = true
			snap.users = append(snap.users, row.UserID)
		}

		key := row.ItemKey()
		if !seenItems[key] {
			seenItems[key] = true
			snap.items = append(snap.items, item{
				contentID:   row.ContentID,
				contentType: row.ContentType,
				key:         key,
			})
		}

		if row.Value >= r.cfg.LikeThreshold {
			if snap.likedByUser[row.UserID] == nil {
				snap.likedByUser[row.UserID] = make(map[string]bool)
			}
			snap.likedByUser[row.UserID][key] = true
		}

		if snap.ratedByUser[row.UserID] == nil {
			snap.ratedByUser[row.UserID] = make(map[string]bool)
		}
		snap.ratedByUser[row.UserID][key] = true
	}

	return snap, nil
}

// ratedKeys returns the set of item keys a user has rated with any value.
// Unseen users get an empty set.
func (s *snapshot) ratedKeys(userID int) map[string]bool {
	if keys, ok := s.ratedByUser[userID]; ok {
		return keys
	}
	return map[string]bool{}
}
