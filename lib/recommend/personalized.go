package recommend

import "sort"

// popularFallbackLimit is the result size used when personalization falls
// back to the popularity ranking.
const popularFallbackLimit = 100

// personalizedItems ranks item indices for one user by aggregating
// co-occurrence scores across the user's liked items. A user who is absent
// from the matrix, has no liked items, or has no co-occurrence matrix to draw
// from is a cold-start case and gets the popularity ranking instead. Items
// the user already rated never appear in the result.
func (r *Recommender) personalizedItems(userID int, snap *snapshot, m *ratingMatrix, co [][]float64, rated map[string]bool) []int {
	if m == nil || len(snap.items) == 0 || len(snap.users) == 0 {
		return nil
	}

	uIndex, ok := m.userIndexByID[userID]
	if !ok {
		return popularItems(snap, m, popularFallbackLimit, rated)
	}

	nItems := len(snap.items)
	var liked []int
	for j := 0; j < nItems; j++ {
		if m.rows[uIndex][j] == 1 {
			liked = append(liked, j)
		}
	}

	if len(liked) == 0 || co == nil {
		return popularItems(snap, m, popularFallbackLimit, rated)
	}

	// Aggregate score per item: the average of co-occurrence entries against
	// every item the user liked.
	scores := make([]float64, nItems)
	for _, likedIdx := range liked {
		for x := 0; x < nItems; x++ {
			scores[x] += co[likedIdx][x]
		}
	}
	for x := range scores {
		scores[x] /= float64(len(liked))
	}

	sorted := append([]float64(nil), scores...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	if r.cfg.OnlySimilarTaste {
		kept := sorted[:0]
		for _, v := range sorted {
			if v != 0 {
				kept = append(kept, v)
			}
		}
		sorted = kept
	}

	// Walk the descending score sequence and consume, for each value, the
	// first not-yet-consumed item index holding exactly that score. Ties are
	// therefore broken by original item order. Scores are compared for exact
	// floating-point equality on purpose: the ranked order is defined by
	// value lookup, not by index.
	consumed := make([]bool, nItems)
	order := make([]int, 0, len(sorted))
	for _, score := range sorted {
		for idx := 0; idx < nItems; idx++ {
			if !consumed[idx] && scores[idx] == score {
				consumed[idx] = true
				order = append(order, idx)
				break
			}
		}
	}

	var filtered []int
	for _, idx := range order {
		if !rated[snap.items[idx].key] {
			filtered = append(filtered, idx)
		}
	}
	return filtered
}
