// Package ratings is the persistence layer for user ratings. It is the only
// source of rating rows for the recommendation core.
package ratings

import (
	"context"
	"errors"
	"fmt"
	"math"

	"log/slog"

	"github.com/cinelog/recommender/lib/validation"
	"github.com/cinelog/recommender/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a rating that was asked for does not exist.
var ErrNotFound = errors.New("rating not found")

// Filter narrows a List call. The zero value matches every rating.
type Filter struct {
	ContentType string
}

// Store reads and writes rating rows backed by gorm.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewStore(db *gorm.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// List returns all ratings matching the filter, ordered by user id
// ascending. The recommendation core consumes the entire result; there is no
// pagination.
func (s *Store) List(ctx context.Context, filter Filter) ([]models.Rating, error) {
	q := s.db.WithContext(ctx).Model(&models.Rating{})
	if filter.ContentType != "" {
		q = q.Where("content_type = ?", filter.ContentType)
	}

	var rows []models.Rating
	if err := q.Order("user_id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return rows, nil
}

// Set creates or updates the rating for a (user, content, type) triple.
func (s *Store) Set(ctx context.Context, rating models.Rating) (*models.Rating, error) {
	if err := validation.ValidateUserID(rating.UserID); err != nil {
		return nil, err
	}
	if err := validation.ValidateContentID(rating.ContentID); err != nil {
		return nil, err
	}
	if err := validation.ValidateContentType(rating.ContentType); err != nil {
		return nil, err
	}
	if err := validation.ValidateRatingValue(rating.Value); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_id"}, {Name: "content_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rating).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert rating: %w", err)
	}

	s.logger.Debug("Stored rating",
		slog.Int("user_id", rating.UserID),
		slog.String("item", rating.ItemKey()),
		slog.Int("value", rating.Value))
	return &rating, nil
}

// Delete removes a user's rating of a content item. Deleting a rating that
// does not exist returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, userID, contentID int, contentType string) error {
	if err := validation.ValidateContentType(contentType); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ? AND content_type = ?", userID, contentID, contentType).
		Delete(&models.Rating{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete rating: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ContentSummary aggregates the ratings of one content item.
type ContentSummary struct {
	Average    float64 `json:"average"`
	Count      int     `json:"count"`
	UserRating *int    `json:"userRating"`
}

// Summary returns the average (rounded to one decimal), count and, when
// userID is non-zero, that user's own rating for a content item.
func (s *Store) Summary(ctx context.Context, contentID int, contentType string, userID int) (*ContentSummary, error) {
	if err := validation.ValidateContentID(contentID); err != nil {
		return nil, err
	}
	if err := validation.ValidateContentType(contentType); err != nil {
		return nil, err
	}

	var rows []models.Rating
	err := s.db.WithContext(ctx).
		Where("content_id = ? AND content_type = ?", contentID, contentType).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}

	summary := &ContentSummary{Count: len(rows)}
	if len(rows) > 0 {
		sum := 0
		for _, r := range rows {
			sum += r.Value
		}
		summary.Average = math.Round(float64(sum)/float64(len(rows))*10) / 10
	}

	if userID != 0 {
		for _, r := range rows {
			if r.UserID == userID {
				v := r.Value
				summary.UserRating = &v
				break
			}
		}
	}

	return summary, nil
}
