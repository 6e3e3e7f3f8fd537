package recommend

// ratingMatrix is the dense binary users x items interaction grid derived
// from a snapshot, together with the index bijections needed to map back to
// ids and keys. It is read-only after construction.
type ratingMatrix struct {
	rows           [][]float64
	userIndexByID  map[int]int
	itemIndexByKey map[string]int
}

// buildRatingMatrix converts a snapshot into an indexed matrix. Indices are
// assigned by position in the snapshot's ordered lists, which is first-seen
// order, not sorted order. Returns nil when there are no users or no items.
func buildRatingMatrix(snap *snapshot) *ratingMatrix {
	nUsers := len(snap.users)
	nItems := len(snap.items)
	if nUsers == 0 || nItems == 0 {
		return nil
	}

	m := &ratingMatrix{
		rows:           make([][]float64, nUsers),
		userIndexByID:  make(map[int]int, nUsers),
		itemIndexByKey: make(map[string]int, nItems),
	}

	for i, uid := range snap.users {
		m.userIndexByID[uid] = i
	}
	for j, it := range snap.items {
		m.itemIndexByKey[it.key] = j
	}

	for i, uid := range snap.users {
		m.rows[i] = make([]float64, nItems)
		for key := range snap.likedByUser[uid] {
			if j, ok := m.itemIndexByKey[key]; ok {
				m.rows[i][j] = 1
			}
		}
	}

	return m
}

// buildCoMatrix derives the symmetric item x item co-occurrence matrix from
// a rating matrix: cell (i,j) counts the users who liked both items. With
// normalize set, each cell is divided by the number of users who liked either
// item, on top of a baseline of one everywhere (plus one more on the
// diagonal) so no cell divides by zero. Returns nil for a nil or empty input.
func buildCoMatrix(m *ratingMatrix, normalize bool) [][]float64 {
	if m == nil {
		return nil
	}

	nUsers := len(m.rows)
	if nUsers == 0 {
		return nil
	}
	nItems := len(m.rows[0])
	if nItems == 0 {
		return nil
	}

	co := make([][]float64, nItems)
	for i := range co {
		co[i] = make([]float64, nItems)
	}

	var normalizer [][]float64
	if normalize {
		normalizer = make([][]float64, nItems)
		for i := range normalizer {
			normalizer[i] = make([]float64, nItems)
			for j := range normalizer[i] {
				normalizer[i][j] = 1
			}
			normalizer[i][i] = 2
		}
	}

	for u := 0; u < nUsers; u++ {
		var liked []int
		for i := 0; i < nItems; i++ {
			if m.rows[u][i] == 1 {
				liked = append(liked, i)
			}
		}

		for a := 0; a < len(liked); a++ {
			for b := a + 1; b < len(liked); b++ {
				i, j := liked[a], liked[b]
				co[i][j]++
				co[j][i]++
			}
		}

		if normalize {
			for i := 0; i < nItems; i++ {
				for j := i + 1; j < nItems; j++ {
					if m.rows[u][i] == 1 || m.rows[u][j] == 1 {
						normalizer[i][j]++
						normalizer[j][i]++
					}
				}
			}
		}
	}

	if normalize {
		for i := 0; i < nItems; i++ {
			for j := 0; j < nItems; j++ {
				co[i][j] /= normalizer[i][j]
			}
		}
	}

	return co
}
