// Package search implements the hybrid search engine: it orchestrates an
// embedder, a lexical entry store, an optional ANN index, and a reranker
// into a single ordered result list per query.
package search

import (
	"github.com/hybridqa/kbsearch/internal/entrystore"
	"github.com/hybridqa/kbsearch/internal/ranking"
)

// Entry is a question/answer row, keyed by a dense positive 1-based id
// that joins to the corpus's embeddings.
type Entry = entrystore.Entry

// Candidate pairs an entry with its vector score and, optionally, its
// stored embedding. It is the input unit the reranker scores.
type Candidate struct {
	Entry       Entry
	VectorScore float64
	Embedding   []float32
}

// SearchResult is one ranked hit. Score is cosine plus additive boosts and
// is not clamped; it may exceed 1.0. Method tags which reranker produced
// the result ("heuristic" for the default). Explain is non-nil only on the
// first result of a call made with SearchOptions.Explain set.
type SearchResult struct {
	Entry   Entry
	Score   float64
	Method  string
	Explain *ExplainData
}

// SearchOptions configures one Search call beyond the result limit.
type SearchOptions struct {
	// Limit caps the number of returned results. Zero uses DefaultLimit.
	Limit int
	// Explain attaches an ExplainData to the first result describing the
	// pipeline's decisions for this query.
	Explain bool
}

// ExplainData captures the composition of one query's pipeline for
// diagnostic surfacing when SearchOptions.Explain is set.
type ExplainData struct {
	Query             string
	CandidatePoolSize int
	FTSHitCount       int
	TypoHitCount      int
	FTSRetried        bool
	UsedANN           bool
}

// EngineStats reports the corpus size and whether the ANN index is active,
// available through Engine.Stats at any point in the lifecycle.
type EngineStats struct {
	EntryCount int
	ANNActive  bool
}

// EngineConfig holds the immutable, per-instance tuning knobs named in the
// configuration table: pool sizes, ANN parameters, embedding dimension,
// and the store schema names forwarded to the entry store.
type EngineConfig struct {
	CandidatePoolSize int
	FTSLimit          int
	HNSWThreshold     int
	HNSWSearchK       int
	HNSWM             int
	HNSWEf            int
	EmbeddingDim      int

	ConciseMatchBoostCeiling float64
	MaxExtraWords            int
	PerfectScoreThreshold    float64

	Schema entrystore.Schema
}

// DefaultEngineConfig returns the documented defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		CandidatePoolSize:        50,
		FTSLimit:                 50,
		HNSWThreshold:            1000,
		HNSWSearchK:              100,
		HNSWM:                    16,
		HNSWEf:                   64,
		EmbeddingDim:             128,
		ConciseMatchBoostCeiling: ranking.ConciseMatchBoost,
		MaxExtraWords:            ranking.DefaultMaxExtraWords,
		PerfectScoreThreshold:    ranking.PerfectScoreThreshold,
		Schema:                   entrystore.DefaultSchema(),
	}
}
