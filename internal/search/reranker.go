package search

// RerankOptions carries the optional signals a Reranker may use beyond the
// raw candidate list: the query's own embedding, the set of ids that hit
// via FTS (to distinguish FTS boosts from typo boosts), and the
// pre-tokenised content words of the query.
type RerankOptions struct {
	QueryEmbedding []float32
	FTSIDs         map[int]struct{}
	ContentWords   []string
}

// Reranker combines a candidate pool's vector scores with lexical/typo/
// concise-match boosts into a final ordered, deduplicated, limit-bounded
// result list.
type Reranker interface {
	Rerank(query string, candidates []Candidate, keywordMatchIDs map[int]struct{}, limit int, opts RerankOptions) []SearchResult
}
