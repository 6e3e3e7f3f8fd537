package models

import (
	"fmt"
	"time"
)

// Content types supported by the catalog.
const (
	ContentTypeMovie = "movie"
	ContentTypeShow  = "show"
)

// Rating is a single user rating of a movie or show. The value is an
// integer from 1 to 10. One row exists per (user, content, type) triple.
// Rating deletes are hard deletes so a removed rating never blocks a
// later upsert on the same (user, content) pair.
type Rating struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	UserID      int    `gorm:"uniqueIndex:idx_ratings_user_content;index:idx_ratings_user" json:"user_id"`
	ContentID   int    `gorm:"uniqueIndex:idx_ratings_user_content" json:"content_id"`
	ContentType string `gorm:"uniqueIndex:idx_ratings_user_content;index:idx_ratings_content_type" json:"content_type"`
	Value       int    `json:"value"`
}

// ItemKey returns the canonical identity string for the rated item.
func (r Rating) ItemKey() string {
	return ItemKey(r.ContentID, r.ContentType)
}

// ItemKey builds the canonical "type::id" identity for a content item. Two
// ratings with the same content id and type refer to the same item no matter
// who rated it.
func ItemKey(contentID int, contentType string) string {
	return fmt.Sprintf("%s::%d", contentType, contentID)
}

// ValidContentType reports whether t is one of the supported content types.
func ValidContentType(t string) bool {
	return t == ContentTypeMovie || t == ContentTypeShow
}

// Recommendation is a single entry in a recommendation response. It is
// output-only and never written back to the database.
type Recommendation struct {
	ContentID   int    `json:"content_id"`
	ContentType string `json:"content_type"`
	ScoreRank   int    `json:"score_rank"`
}
