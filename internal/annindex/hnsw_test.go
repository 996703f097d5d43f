package annindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHNSWIndexAddAndSearch(t *testing.T) {
	idx := New(3, 16, 64)

	require.NoError(t, idx.Add(1, []float32{1, 0, 0}))
	require.NoError(t, idx.Add(2, []float32{0, 1, 0}))
	require.NoError(t, idx.Add(3, []float32{0, 0, 1}))
	require.NoError(t, idx.Build())

	results, err := idx.Search([]float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, uint64(1), results[0].ID)
}

func TestHNSWIndexDimensionMismatch(t *testing.T) {
	idx := New(3, 16, 64)
	err := idx.Add(1, []float32{1, 0})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = idx.Search([]float32{1, 0}, 1)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestHNSWIndexEmptySearch(t *testing.T) {
	idx := New(3, 16, 64)
	results, err := idx.Search([]float32{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Empty(t, results)
}
