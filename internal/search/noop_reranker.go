package search

// NoOpReranker passes candidates through unchanged except for truncation
// to limit, tagging each result "noop". It is the escape hatch for callers
// that want to disable heuristic reranking entirely.
type NoOpReranker struct{}

var _ Reranker = NoOpReranker{}

// Rerank implements Reranker.
func (NoOpReranker) Rerank(_ string, candidates []Candidate, _ map[int]struct{}, limit int, _ RerankOptions) []SearchResult {
	if limit > len(candidates) {
		limit = len(candidates)
	}

	results := make([]SearchResult, limit)
	for i := 0; i < limit; i++ {
		results[i] = SearchResult{
			Entry:  candidates[i].Entry,
			Score:  candidates[i].VectorScore,
			Method: "noop",
		}
	}
	return results
}
