package ranking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTopKByVectorAndFTSOrdersByBoostedScore(t *testing.T) {
	vectorScores := map[int]float64{1: 0.4, 2: 0.5, 3: 0.1}
	ftsIDs := map[int]struct{}{1: {}}

	got := TopKByVectorAndFTS(vectorScores, ftsIDs, 3, FTSBoost)

	// id 1: 0.4+0.5=0.9, id 2: 0.5, id 3: 0.1
	require.Equal(t, []int{1, 2, 3}, got)
}

func TestTopKByVectorAndFTSTruncates(t *testing.T) {
	vectorScores := map[int]float64{1: 0.9, 2: 0.8, 3: 0.7}
	got := TopKByVectorAndFTS(vectorScores, nil, 2, FTSBoost)
	require.Equal(t, []int{1, 2}, got)
}

func TestTopKByVectorAndFTSTieBreaksByID(t *testing.T) {
	vectorScores := map[int]float64{3: 0.5, 1: 0.5, 2: 0.5}
	got := TopKByVectorAndFTS(vectorScores, nil, 3, FTSBoost)
	require.Equal(t, []int{1, 2, 3}, got)
}
