package recommend

import (
	"testing"

	"github.com/cinelog/recommender/models"
)

func TestPopularItemsOrdering(t *testing.T) {
	snap, m := buildFixtureMatrix(t, sharedRows())

	// Likes per item: movie::1 = 2, show::2 = 2, movie::3 = 1. The two-way
	// tie keeps insertion order.
	got := popularItems(snap, m, 10, map[string]bool{})
	want := []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestPopularItemsExclusion(t *testing.T) {
	snap, m := buildFixtureMatrix(t, sharedRows())

	got := popularItems(snap, m, 10, map[string]bool{"movie::1": true})
	for _, idx := range got {
		if snap.items[idx].key == "movie::1" {
			t.Fatal("excluded item was returned")
		}
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items after exclusion, got %v", got)
	}
}

func TestPopularItemsLimit(t *testing.T) {
	snap, m := buildFixtureMatrix(t, sharedRows())

	got := popularItems(snap, m, 1, map[string]bool{})
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected just the most popular item, got %v", got)
	}
}

func TestPopularItemsNilMatrix(t *testing.T) {
	snap := &snapshot{users: []int{1}, items: []item{{key: "movie::1"}}}
	if got := popularItems(snap, nil, 5, map[string]bool{}); got != nil {
		t.Fatalf("expected nil for nil matrix, got %v", got)
	}
}

func TestPopularItemsIgnoresNonLikedRatings(t *testing.T) {
	snap, m := buildFixtureMatrix(t, []models.Rating{
		rating(1, 1, models.ContentTypeMovie, 2),
		rating(2, 1, models.ContentTypeMovie, 3),
		rating(1, 2, models.ContentTypeMovie, 9),
	})

	got := popularItems(snap, m, 10, map[string]bool{})
	// movie::2 has one like, movie::1 has none but still ranks (score 0).
	if len(got) != 2 || snap.items[got[0]].key != "movie::2" {
		t.Fatalf("expected movie::2 first, got %v", got)
	}
}
