package search

import (
	"sort"

	"github.com/hybridqa/kbsearch/internal/ranking"
)

// HeuristicReranker is the default Reranker: an additive-boost scorer with
// no learned weights. It is stateless and safe for concurrent use.
type HeuristicReranker struct {
	ConciseMatchBoostCeiling float64
	MaxExtraWords            int
	PerfectScoreThreshold    float64
}

var _ Reranker = (*HeuristicReranker)(nil)

// NewHeuristicReranker builds a HeuristicReranker from an engine config.
func NewHeuristicReranker(cfg EngineConfig) *HeuristicReranker {
	return &HeuristicReranker{
		ConciseMatchBoostCeiling: cfg.ConciseMatchBoostCeiling,
		MaxExtraWords:            cfg.MaxExtraWords,
		PerfectScoreThreshold:    cfg.PerfectScoreThreshold,
	}
}

type scoredCandidate struct {
	candidate Candidate
	score     float64
	order     int
}

// Rerank implements the algorithm from the heuristic reranker contract:
// additive vector+fts+typo+concise score, stable sort, 2x-oversampled
// dedup by normalised question, truncate to limit, perfect-match shortcut.
func (h *HeuristicReranker) Rerank(query string, candidates []Candidate, keywordMatchIDs map[int]struct{}, limit int, opts RerankOptions) []SearchResult {
	if len(candidates) == 0 {
		return nil
	}

	words := opts.ContentWords
	if words == nil {
		words = ranking.Tokens(query)
	}

	typoOnly := make(map[int]struct{})
	for id := range keywordMatchIDs {
		if opts.FTSIDs == nil {
			typoOnly[id] = struct{}{}
			continue
		}
		if _, isFTS := opts.FTSIDs[id]; !isFTS {
			typoOnly[id] = struct{}{}
		}
	}

	scored := make([]scoredCandidate, len(candidates))
	for i, c := range candidates {
		var ftsComp, typoComp float64
		if opts.FTSIDs != nil {
			if _, ok := opts.FTSIDs[c.Entry.ID]; ok {
				ftsComp = ranking.FTSBoost
			}
		}
		if _, ok := typoOnly[c.Entry.ID]; ok {
			typoComp = ranking.TypoBoost
		}
		conciseComp := ranking.ConciseMatchBoostFor(words, c.Entry.Question, h.ConciseMatchBoostCeiling, h.MaxExtraWords)

		scored[i] = scoredCandidate{
			candidate: c,
			score:     c.VectorScore + ftsComp + typoComp + conciseComp,
			order:     i,
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	oversample := limit * 2
	if oversample > len(scored) {
		oversample = len(scored)
	}

	seen := make(map[string]struct{}, oversample)
	results := make([]SearchResult, 0, limit)
	for _, sc := range scored[:oversample] {
		key := ranking.NormalizedQuestion(sc.candidate.Entry.Question)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		results = append(results, SearchResult{
			Entry:  sc.candidate.Entry,
			Score:  sc.score,
			Method: "heuristic",
		})
		if len(results) == limit {
			break
		}
	}

	return ranking.PerfectMatchFilter(results, func(r SearchResult) float64 { return r.Score }, h.PerfectScoreThreshold)
}
