package ratings

import (
	"context"
	"errors"
	"io"
	"testing"

	"log/slog"

	"github.com/cinelog/recommender/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&models.Rating{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSetAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fixtures := []models.Rating{
		{UserID: 2, ContentID: 1, ContentType: models.ContentTypeMovie, Value: 9},
		{UserID: 1, ContentID: 1, ContentType: models.ContentTypeMovie, Value: 7},
		{UserID: 1, ContentID: 2, ContentType: models.ContentTypeShow, Value: 4},
	}
	for _, f := range fixtures {
		if _, err := store.Set(ctx, f); err != nil {
			t.Fatalf("failed to set rating %+v: %v", f, err)
		}
	}

	rows, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].UserID > rows[i].UserID {
			t.Fatalf("rows not ordered by user id: %v", rows)
		}
	}

	movies, err := store.List(ctx, Filter{ContentType: models.ContentTypeMovie})
	if err != nil {
		t.Fatalf("failed to list movies: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 movie rows, got %d", len(movies))
	}
}

func TestSetUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := models.Rating{UserID: 1, ContentID: 5, ContentType: models.ContentTypeMovie, Value: 6}
	if _, err := store.Set(ctx, base); err != nil {
		t.Fatalf("first set failed: %v", err)
	}

	base.Value = 9
	if _, err := store.Set(ctx, base); err != nil {
		t.Fatalf("second set failed: %v", err)
	}

	rows, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("upsert must not create a second row, got %d", len(rows))
	}
	if rows[0].Value != 9 {
		t.Fatalf("expected updated value 9, got %d", rows[0].Value)
	}
}

func TestSetValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		rating models.Rating
	}{
		{"zero user", models.Rating{ContentID: 1, ContentType: models.ContentTypeMovie, Value: 5}},
		{"zero content", models.Rating{UserID: 1, ContentType: models.ContentTypeMovie, Value: 5}},
		{"bad type", models.Rating{UserID: 1, ContentID: 1, ContentType: "song", Value: 5}},
		{"value too low", models.Rating{UserID: 1, ContentID: 1, ContentType: models.ContentTypeMovie, Value: 0}},
		{"value too high", models.Rating{UserID: 1, ContentID: 1, ContentType: models.ContentTypeMovie, Value: 11}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := store.Set(ctx, tc.rating); err == nil {
				t.Errorf("expected validation error for %+v", tc.rating)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Set(ctx, models.Rating{UserID: 1, ContentID: 1, ContentType: models.ContentTypeMovie, Value: 8}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := store.Delete(ctx, 1, 1, models.ContentTypeMovie); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	err := store.Delete(ctx, 1, 1, models.ContentTypeMovie)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a missing rating, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, f := range []models.Rating{
		{UserID: 1, ContentID: 7, ContentType: models.ContentTypeShow, Value: 7},
		{UserID: 2, ContentID: 7, ContentType: models.ContentTypeShow, Value: 8},
	} {
		if _, err := store.Set(ctx, f); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}

	summary, err := store.Summary(ctx, 7, models.ContentTypeShow, 2)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.Count != 2 {
		t.Errorf("expected count 2, got %d", summary.Count)
	}
	if summary.Average != 7.5 {
		t.Errorf("expected average 7.5, got %v", summary.Average)
	}
	if summary.UserRating == nil || *summary.UserRating != 8 {
		t.Errorf("expected user rating 8, got %v", summary.UserRating)
	}

	empty, err := store.Summary(ctx, 999, models.ContentTypeShow, 0)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if empty.Count != 0 || empty.Average != 0 || empty.UserRating != nil {
		t.Errorf("expected zero summary for unrated content, got %+v", empty)
	}
}
