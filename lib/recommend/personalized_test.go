package recommend

import (
	"testing"

	"github.com/cinelog/recommender/models"
)

func personalizedFixture(t *testing.T, cfg func(*Recommender)) (*Recommender, *snapshot, *ratingMatrix, [][]float64) {
	t.Helper()
	r := newTestRecommender(&fakeStore{rows: sharedRows()}, &fakeTrending{}, testConfig())
	if cfg != nil {
		cfg(r)
	}
	snap, m := buildFixtureMatrix(t, sharedRows())
	co := buildCoMatrix(m, r.cfg.NormalizeOnPopularity)
	return r, snap, m, co
}

func TestPersonalizedItemsUnseenUserFallsBackToPopularity(t *testing.T) {
	r, snap, m, co := personalizedFixture(t, nil)

	got := r.personalizedItems(999, snap, m, co, map[string]bool{})
	want := popularItems(snap, m, popularFallbackLimit, map[string]bool{})
	if len(got) != len(want) {
		t.Fatalf("expected popularity fallback %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected popularity fallback %v, got %v", want, got)
		}
	}
}

func TestPersonalizedItemsNilCoMatrixFallsBackToPopularity(t *testing.T) {
	r, snap, m, _ := personalizedFixture(t, nil)

	got := r.personalizedItems(1, snap, m, nil, map[string]bool{})
	want := popularItems(snap, m, popularFallbackLimit, map[string]bool{})
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected popularity fallback %v, got %v", want, got)
		}
	}
}

func TestPersonalizedItemsNoLikesFallsBackToPopularity(t *testing.T) {
	// User 9 rated one item below the threshold, so it has a matrix row of
	// zeros and must be treated as cold start, with the rated item excluded.
	rows := append(sharedRows(), rating(9, 1, models.ContentTypeMovie, 2))
	r := newTestRecommender(&fakeStore{rows: rows}, &fakeTrending{}, testConfig())
	snap, m := buildFixtureMatrix(t, rows)
	co := buildCoMatrix(m, true)

	got := r.personalizedItems(9, snap, m, co, snap.ratedKeys(9))
	for _, idx := range got {
		if snap.items[idx].key == "movie::1" {
			t.Fatal("rated item leaked into the popularity fallback")
		}
	}
	if len(got) != 2 {
		t.Fatalf("expected the two unrated items, got %v", got)
	}
}

func TestPersonalizedItemsRanksByAverageCoOccurrence(t *testing.T) {
	r, snap, m, co := personalizedFixture(t, nil)

	// User 1 liked movie::1 and show::2. Scores: movie::3 averages 1/6,
	// movie::1 and show::2 average 0.125 each. movie::3 ranks first and the
	// liked items are filtered by the rated set.
	got := r.personalizedItems(1, snap, m, co, snap.ratedKeys(1))
	if len(got) != 1 || snap.items[got[0]].key != "movie::3" {
		t.Fatalf("expected [movie::3], got %v", got)
	}
}

func TestPersonalizedItemsDropsZeroScoresWhenRestricted(t *testing.T) {
	// User 3 only liked show::2, which co-occurs with movie::1 but has no
	// relation to movie::3. With the similar-taste restriction on, movie::3
	// must not appear at all.
	r, snap, m, co := personalizedFixture(t, nil)

	got := r.personalizedItems(3, snap, m, co, snap.ratedKeys(3))
	if len(got) != 1 || snap.items[got[0]].key != "movie::1" {
		t.Fatalf("expected only movie::1, got %v", got)
	}
}

func TestPersonalizedItemsKeepsZeroScoresWhenUnrestricted(t *testing.T) {
	r, snap, m, co := personalizedFixture(t, func(r *Recommender) {
		r.cfg.OnlySimilarTaste = false
	})

	got := r.personalizedItems(3, snap, m, co, snap.ratedKeys(3))
	// movie::1 scores 0.25, movie::3 scores 0 but is still ranked.
	if len(got) != 2 || snap.items[got[0]].key != "movie::1" || snap.items[got[1]].key != "movie::3" {
		t.Fatalf("expected [movie::1 movie::3], got %v", got)
	}
}

func TestPersonalizedItemsTieBreakByItemOrder(t *testing.T) {
	// User 1 likes three items that all co-occur once with movie::10; for
	// user 2 the three candidates tie exactly, so they must come back in
	// snapshot insertion order.
	rows := []models.Rating{
		rating(1, 10, models.ContentTypeMovie, 9),
		rating(1, 20, models.ContentTypeMovie, 9),
		rating(1, 30, models.ContentTypeShow, 9),
		rating(2, 10, models.ContentTypeMovie, 8),
	}
	r := newTestRecommender(&fakeStore{rows: rows}, &fakeTrending{}, testConfig())
	r.cfg.NormalizeOnPopularity = false
	snap, m := buildFixtureMatrix(t, rows)
	co := buildCoMatrix(m, false)

	got := r.personalizedItems(2, snap, m, co, snap.ratedKeys(2))
	if len(got) != 2 {
		t.Fatalf("expected two tied candidates, got %v", got)
	}
	if snap.items[got[0]].key != "movie::20" || snap.items[got[1]].key != "show::30" {
		t.Fatalf("tie must preserve item order, got [%s %s]",
			snap.items[got[0]].key, snap.items[got[1]].key)
	}
}
