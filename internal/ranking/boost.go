package ranking

// Boost constants shared by the reranker and the search engine. Typo is
// scarcer than a plain FTS hit and thus more discriminative.
const (
	FTSBoost              = 0.5
	TypoBoost             = 0.7
	ConciseMatchBoost     = 0.5
	PerfectScoreThreshold = 0.999

	// DefaultMaxExtraWords is the default allowance E for the concise-match
	// boost: a question may exceed the query's word count by this many
	// words and still qualify for a (reduced) boost.
	DefaultMaxExtraWords = 1
)

// ConciseMatchBoostFor rewards short questions that cover every content
// token of the query. ceiling is the configured boost ceiling (B);
// maxExtraWords is E.
func ConciseMatchBoostFor(queryWords []string, question string, ceiling float64, maxExtraWords int) float64 {
	if len(queryWords) == 0 {
		return 0
	}

	questionTokens := Tokens(question)
	if len(questionTokens) > len(queryWords)+maxExtraWords {
		return 0
	}

	count := WordOverlapCount(queryWords, question)
	if count < len(queryWords) {
		return 0
	}

	extra := len(questionTokens) - len(queryWords)
	switch {
	case extra <= 0:
		return ceiling
	case extra == 1:
		return 0.7 * ceiling
	default:
		return 0.4 * ceiling
	}
}

// PerfectMatchFilter implements the perfect-match shortcut: if exactly one
// result scores at or above threshold, return only that result; otherwise
// return results unchanged.
func PerfectMatchFilter[T any](results []T, score func(T) float64, threshold float64) []T {
	var above []T
	for _, r := range results {
		if score(r) >= threshold {
			above = append(above, r)
		}
	}
	if len(above) == 1 {
		return above
	}
	return results
}
