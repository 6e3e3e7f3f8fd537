package recommend

import "sort"

// popularItems ranks items by how many users liked them and returns the top
// limit item indices, skipping anything in the exclusion set. The sort is
// stable over the score alone, so items with equal popularity keep their
// original snapshot order.
func popularItems(snap *snapshot, m *ratingMatrix, limit int, exclude map[string]bool) []int {
	if m == nil || len(snap.items) == 0 || len(snap.users) == 0 {
		return nil
	}

	type scoredItem struct {
		idx   int
		score float64
	}

	var pop []scoredItem
	for j, it := range snap.items {
		if exclude[it.key] {
			continue
		}

		var sum float64
		for i := range snap.users {
			sum += m.rows[i][j]
		}
		pop = append(pop, scoredItem{idx: j, score: sum})
	}

	sort.SliceStable(pop, func(a, b int) bool {
		return pop[a].score > pop[b].score
	})

	if limit > len(pop) {
		limit = len(pop)
	}

	indices := make([]int, 0, limit)
	for _, p := range pop[:limit] {
		indices = append(indices, p.idx)
	}
	return indices
}
