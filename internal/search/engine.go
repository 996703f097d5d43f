package search

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/hybridqa/kbsearch/internal/annindex"
	"github.com/hybridqa/kbsearch/internal/embed"
	"github.com/hybridqa/kbsearch/internal/entrystore"
	"github.com/hybridqa/kbsearch/internal/ranking"
)

type lifecycleState int

const (
	stateConstructed lifecycleState = iota
	stateInitialised
	stateDisposed
)

// DefaultLimit is the result count used by Search when the caller does not
// specify one.
const DefaultLimit = 3

// Engine is the hybrid search orchestrator: it fuses dense-vector cosine
// similarity, lexical FTS hits, and 1-edit typo matches through a
// pluggable Reranker.
type Engine struct {
	store    entrystore.Store
	ann      annindex.Index
	embedder embed.Embedder
	reranker Reranker
	config   EngineConfig
	logger   *slog.Logger

	embeddings [][]float32
	norms      []float64

	mu          sync.RWMutex
	state       lifecycleState
	annActive   bool
	questionMap map[int]string
	initGroup   singleflight.Group
}

// EngineOption configures optional Engine collaborators at construction.
type EngineOption func(*Engine)

// WithReranker overrides the default HeuristicReranker.
func WithReranker(r Reranker) EngineOption {
	return func(e *Engine) { e.reranker = r }
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// New constructs an Engine over a corpus's precomputed embeddings plus its
// entry store, ANN index, and embedder collaborators. entryCount
// (len(embeddings)) is available immediately, before Initialize.
func New(store entrystore.Store, ann annindex.Index, embedder embed.Embedder, embeddings [][]float32, config EngineConfig, opts ...EngineOption) (*Engine, error) {
	if store == nil || ann == nil || embedder == nil {
		return nil, ErrNilDependency
	}

	if config.EmbeddingDim > 0 {
		for i, vec := range embeddings {
			if len(vec) != config.EmbeddingDim {
				return nil, fmt.Errorf("search: embedding %d has dimension %d, want %d: %w",
					i+1, len(vec), config.EmbeddingDim, ErrSchemaMismatch)
			}
		}
	}

	e := &Engine{
		store:      store,
		ann:        ann,
		embedder:   embedder,
		config:     config,
		embeddings: embeddings,
		logger:     slog.New(slog.DiscardHandler),
	}
	e.reranker = NewHeuristicReranker(config)

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// EntryCount returns the corpus size. Available before Initialize.
func (e *Engine) EntryCount() int {
	return len(e.embeddings)
}

// IsInitialised reports whether Initialize has completed successfully.
func (e *Engine) IsInitialised() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state == stateInitialised
}

// Stats reports corpus size and ANN activation.
func (e *Engine) Stats() EngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return EngineStats{EntryCount: len(e.embeddings), ANNActive: e.annActive}
}

// Initialize computes norms, optionally builds the ANN index, and
// materialises the question map. It is idempotent and safe for concurrent
// callers, who are coalesced onto a single underlying run.
func (e *Engine) Initialize() error {
	_, err, _ := e.initGroup.Do("init", func() (any, error) {
		e.mu.RLock()
		state := e.state
		e.mu.RUnlock()

		if state == stateDisposed {
			return nil, ErrAlreadyDisposed
		}
		if state == stateInitialised {
			return nil, nil
		}

		norms := make([]float64, len(e.embeddings))
		for i, vec := range e.embeddings {
			norms[i] = l2Norm(vec)
		}

		annActive := len(e.embeddings) >= e.config.HNSWThreshold
		if annActive {
			for i, vec := range e.embeddings {
				if err := e.ann.Add(uint64(i+1), vec); err != nil {
					return nil, fmt.Errorf("search: build ann index: %w", err)
				}
			}
			if err := e.ann.Build(); err != nil {
				return nil, fmt.Errorf("search: build ann index: %w", err)
			}
		}

		questionMap, err := e.store.LoadQuestions()
		if err != nil {
			return nil, fmt.Errorf("search: load questions: %w", err)
		}

		e.mu.Lock()
		e.norms = norms
		e.annActive = annActive
		e.questionMap = questionMap
		e.state = stateInitialised
		e.mu.Unlock()

		return nil, nil
	})
	return err
}

// Dispose releases the store capability. It is idempotent; after it,
// Search and Initialize fail with ErrAlreadyDisposed.
func (e *Engine) Dispose() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == stateDisposed {
		return nil
	}
	e.state = stateDisposed
	return e.store.Close()
}

// Search runs the hybrid pipeline and returns at most limit results, most
// relevant first. An empty result is a valid success.
func (e *Engine) Search(query string, limit int) ([]SearchResult, error) {
	return e.SearchWithOptions(query, SearchOptions{Limit: limit})
}

// SearchWithOptions runs the hybrid pipeline like Search, additionally
// honoring SearchOptions.Explain: when set, the first returned result
// carries a populated ExplainData describing the pipeline's decisions for
// this query (candidate pool composition, whether the FTS retry fired,
// whether the ANN index was used).
func (e *Engine) SearchWithOptions(query string, opts SearchOptions) ([]SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	e.mu.RLock()
	state := e.state
	norms := e.norms
	annActive := e.annActive
	questionMap := e.questionMap
	e.mu.RUnlock()

	switch state {
	case stateDisposed:
		return nil, ErrAlreadyDisposed
	case stateConstructed:
		return nil, ErrNotInitialised
	}

	// Step 1: embed.
	qVec, err := e.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("search: embed query: %w", err)
	}
	if e.config.EmbeddingDim > 0 && len(qVec) != e.config.EmbeddingDim {
		return nil, fmt.Errorf("search: query embedding has dimension %d, want %d: %w",
			len(qVec), e.config.EmbeddingDim, ErrSchemaMismatch)
	}
	qNorm := l2Norm(qVec)

	// Step 2: vector score.
	vectorScores := make(map[int]float64)
	if annActive {
		neighbours, err := e.ann.Search(qVec, e.config.HNSWSearchK)
		if err != nil {
			return nil, fmt.Errorf("search: ann search: %w", err)
		}
		for _, n := range neighbours {
			vectorScores[int(n.ID)] = 1 - float64(n.Distance)
		}
	} else {
		for i, vec := range e.embeddings {
			vectorScores[i+1] = cosine(qVec, qNorm, vec, norms[i])
		}
	}

	// Step 3: lexical score.
	words := e.embedder.ContentWords(query)
	ftsIDs := make(map[int]struct{})
	retried := false
	if len(words) > 0 {
		expr := ranking.FTSExpression(e.config.Schema.QuestionColumn, words)
		ids, err := e.store.FTSMatch(expr, e.config.FTSLimit)
		if err != nil {
			e.logger.Debug("fts match failed, degrading to no lexical hits", "error", err)
			ids = nil
		}
		if len(ids) == 0 && len(words) > 1 {
			retried = true
			singleExpr := ranking.FTSExpression(e.config.Schema.QuestionColumn, words[:1])
			ids, err = e.store.FTSMatch(singleExpr, e.config.FTSLimit)
			if err != nil {
				e.logger.Debug("fts retry failed, degrading to no lexical hits", "error", err)
				ids = nil
			}
		}
		for _, id := range ids {
			ftsIDs[id] = struct{}{}
		}
	}

	// Step 4: typo scan.
	typoHits := make(map[int]struct{})
	for id, question := range questionMap {
		lower := strings.ToLower(question)
		hit := false
		for _, w := range words {
			if strings.Contains(lower, w) {
				hit = true
				break
			}
		}
		if !hit {
			for _, w := range words {
				for _, t := range ranking.Tokens(question) {
					if ranking.Within1(w, t) {
						hit = true
						break
					}
				}
				if hit {
					break
				}
			}
		}
		if hit {
			typoHits[id] = struct{}{}
		}
	}

	keywordIDs := make(map[int]struct{}, len(ftsIDs)+len(typoHits))
	for id := range ftsIDs {
		keywordIDs[id] = struct{}{}
	}
	for id := range typoHits {
		keywordIDs[id] = struct{}{}
	}

	// Step 5: candidate pool.
	poolIDs := topIDsByScore(vectorScores, e.config.CandidatePoolSize)
	poolSet := make(map[int]struct{}, len(poolIDs)+len(keywordIDs))
	for _, id := range poolIDs {
		poolSet[id] = struct{}{}
	}
	for id := range keywordIDs {
		poolSet[id] = struct{}{}
	}
	if len(poolSet) == 0 {
		return nil, nil
	}

	// Step 6: score gap fill (ANN path only).
	if annActive {
		for id := range poolSet {
			if _, ok := vectorScores[id]; ok {
				continue
			}
			if id < 1 || id > len(e.embeddings) {
				return nil, fmt.Errorf("search: candidate id %d out of range [1,%d]: %w",
					id, len(e.embeddings), ErrSchemaMismatch)
			}
			vectorScores[id] = cosine(qVec, qNorm, e.embeddings[id-1], norms[id-1])
		}
	}

	// Step 7: fetch & rerank.
	ids := make([]int, 0, len(poolSet))
	for id := range poolSet {
		ids = append(ids, id)
	}
	entries, err := e.store.FetchEntries(ids)
	if err != nil {
		return nil, fmt.Errorf("search: fetch entries: %w", err)
	}

	entryByID := make(map[int]Entry, len(entries))
	for _, en := range entries {
		entryByID[en.ID] = en
	}

	candidates := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		if id < 1 || id > len(e.embeddings) {
			return nil, fmt.Errorf("search: candidate id %d out of range [1,%d]: %w",
				id, len(e.embeddings), ErrSchemaMismatch)
		}
		en, ok := entryByID[id]
		if !ok {
			return nil, fmt.Errorf("search: entry store has no entry for id %d: %w", id, ErrSchemaMismatch)
		}
		candidates = append(candidates, Candidate{
			Entry:       en,
			VectorScore: vectorScores[id],
			Embedding:   e.embeddings[id-1],
		})
	}

	results := e.reranker.Rerank(query, candidates, keywordIDs, limit, RerankOptions{
		QueryEmbedding: qVec,
		FTSIDs:         ftsIDs,
		ContentWords:   words,
	})

	// Step 8: keyword-overlap safety filter.
	queryTokens := ranking.Tokens(query)
	filtered := results[:0]
	for _, r := range results {
		if ranking.WordOverlapCount(queryTokens, r.Entry.Question) >= 1 {
			filtered = append(filtered, r)
		}
	}

	e.logger.Debug("search completed",
		"query", query,
		"pool_size", len(poolSet),
		"fts_hits", len(ftsIDs),
		"typo_hits", len(typoHits),
		"fts_retried", retried,
		"ann_active", annActive,
		"results", len(filtered))

	if opts.Explain && len(filtered) > 0 {
		filtered[0].Explain = &ExplainData{
			Query:             query,
			CandidatePoolSize: len(poolSet),
			FTSHitCount:       len(ftsIDs),
			TypoHitCount:      len(typoHits),
			FTSRetried:        retried,
			UsedANN:           annActive,
		}
	}

	return filtered, nil
}

func l2Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a []float32, aNorm float64, b []float32, bNorm float64) float64 {
	if aNorm == 0 || bNorm == 0 {
		return 0
	}
	var dot float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (aNorm * bNorm)
}

func topIDsByScore(scores map[int]float64, k int) []int {
	type pair struct {
		id    int
		score float64
	}
	pairs := make([]pair, 0, len(scores))
	for id, s := range scores {
		pairs = append(pairs, pair{id, s})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		return pairs[i].id < pairs[j].id
	})
	if k > len(pairs) {
		k = len(pairs)
	}
	ids := make([]int, k)
	for i := 0; i < k; i++ {
		ids[i] = pairs[i].id
	}
	return ids
}
