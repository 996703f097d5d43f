// Package annindex provides the approximate-nearest-neighbour capability
// used by the search engine to shortlist candidates by cosine similarity
// once a corpus grows past the linear-scan threshold.
package annindex

import (
	"errors"
	"fmt"
	"sync"

	"github.com/coder/hnsw"
)

// Result is one hit returned by a Search call: the entry id and the raw
// graph distance. The engine maps distance to score itself (score = 1 -
// distance for cosine), per the capability contract.
type Result struct {
	ID       uint64
	Distance float32
}

// Index is the capability required from an approximate-nearest-neighbour
// collaborator. Entry ids are used directly as graph keys since entry ids
// are already dense positive integers.
type Index interface {
	Add(id uint64, vector []float32) error
	Build() error
	Search(vector []float32, k int) ([]Result, error)
}

// ErrDimensionMismatch is returned when a vector's length does not match
// the index's configured dimension.
var ErrDimensionMismatch = errors.New("annindex: dimension mismatch")

// HNSWIndex implements Index with github.com/coder/hnsw, a pure-Go HNSW
// graph. Unlike a store that must map external string ids to internal
// graph keys, entry ids here are used as graph keys directly.
type HNSWIndex struct {
	mu    sync.RWMutex
	graph *hnsw.Graph[uint64]
	dim   int
	m     int
	ef    int
	built bool
}

// New creates an HNSWIndex configured with the given dimension, graph
// fan-out (M), and search-list width (ef).
func New(dim, m, ef int) *HNSWIndex {
	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = m
	graph.EfSearch = ef
	graph.Ml = 0.25

	return &HNSWIndex{
		graph: graph,
		dim:   dim,
		m:     m,
		ef:    ef,
	}
}

var _ Index = (*HNSWIndex)(nil)

// Add inserts a single vector under its entry id. A normalized copy of the
// vector is stored for cosine distance, mirroring the graph's distance
// function; the caller's slice is left unchanged.
func (idx *HNSWIndex) Add(id uint64, vector []float32) error {
	if len(vector) != idx.dim {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, idx.dim, len(vector))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	vec := make([]float32, len(vector))
	copy(vec, vector)
	normalizeInPlace(vec)

	idx.graph.Add(hnsw.MakeNode(id, vec))
	return nil
}

// Build finalizes the index. coder/hnsw builds incrementally on Add, so
// Build only flips the ready flag; it exists to mirror the capability
// contract and leaves room for a future batched-build implementation.
func (idx *HNSWIndex) Build() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.built = true
	return nil
}

// Search returns up to k nearest neighbours to vector by cosine distance.
func (idx *HNSWIndex) Search(vector []float32, k int) ([]Result, error) {
	if len(vector) != idx.dim {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, idx.dim, len(vector))
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.graph.Len() == 0 {
		return nil, nil
	}

	query := make([]float32, len(vector))
	copy(query, vector)
	normalizeInPlace(query)

	nodes := idx.graph.Search(query, k)
	results := make([]Result, 0, len(nodes))
	for _, node := range nodes {
		dist := idx.graph.Distance(query, node.Value)
		results = append(results, Result{ID: node.Key, Distance: dist})
	}
	return results, nil
}

func normalizeInPlace(v []float32) {
	var sumSq float32
	for _, x := range v {
		sumSq += x * x
	}
	if sumSq == 0 {
		return
	}
	norm := sqrt32(sumSq)
	for i := range v {
		v[i] /= norm
	}
}
