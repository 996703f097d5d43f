package ranking

import "sort"

// TopKByVectorAndFTS produces up to k ids ordered by descending
// vectorScore + (ftsHit ? ftsBoost : 0), ties broken by ascending id for
// determinism.
func TopKByVectorAndFTS(vectorScores map[int]float64, ftsIDs map[int]struct{}, k int, ftsBoost float64) []int {
	type scored struct {
		id    int
		score float64
	}

	combined := make([]scored, 0, len(vectorScores))
	for id, v := range vectorScores {
		score := v
		if _, ok := ftsIDs[id]; ok {
			score += ftsBoost
		}
		combined = append(combined, scored{id: id, score: score})
	}

	sort.SliceStable(combined, func(i, j int) bool {
		if combined[i].score != combined[j].score {
			return combined[i].score > combined[j].score
		}
		return combined[i].id < combined[j].id
	})

	if k > len(combined) {
		k = len(combined)
	}

	ids := make([]int, k)
	for i := 0; i < k; i++ {
		ids[i] = combined[i].id
	}
	return ids
}
