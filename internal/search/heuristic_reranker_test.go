package search

import (
	"testing"

	"github.com/hybridqa/kbsearch/internal/ranking"
	"github.com/stretchr/testify/require"
)

func entry(id int, category, question, answer string) Entry {
	return Entry{ID: id, Category: category, Question: question, Answer: answer}
}

func TestHeuristicRerankerEmptyCandidates(t *testing.T) {
	r := NewHeuristicReranker(DefaultEngineConfig())
	got := r.Rerank("dart", nil, nil, 3, RerankOptions{})
	require.Empty(t, got)
}

func TestHeuristicRerankerFTSBoostOutranksPlainVector(t *testing.T) {
	r := NewHeuristicReranker(DefaultEngineConfig())

	candidates := []Candidate{
		{Entry: entry(1, "Dart", "What is Dart?", "Dart is a language."), VectorScore: 0.5},
		{Entry: entry(2, "Flutter", "What is Flutter?", "Flutter is a UI toolkit."), VectorScore: 0.6},
	}
	keywordIDs := map[int]struct{}{1: {}}
	ftsIDs := map[int]struct{}{1: {}}

	got := r.Rerank("dart", candidates, keywordIDs, 2, RerankOptions{FTSIDs: ftsIDs, ContentWords: []string{"dart"}})
	require.NotEmpty(t, got)
	require.Equal(t, 1, got[0].Entry.ID)
}

func TestHeuristicRerankerTypoBoostAppliesWhenNotFTS(t *testing.T) {
	r := NewHeuristicReranker(DefaultEngineConfig())

	candidates := []Candidate{
		{Entry: entry(1, "Dart", "What is Dart?", "Dart is a language."), VectorScore: 0.1},
	}
	keywordIDs := map[int]struct{}{1: {}}

	got := r.Rerank("datt", candidates, keywordIDs, 1, RerankOptions{ContentWords: []string{"datt"}})
	require.Len(t, got, 1)
	require.GreaterOrEqual(t, got[0].Score, ranking.TypoBoost)
}

func TestHeuristicRerankerDeduplicatesByNormalizedQuestion(t *testing.T) {
	r := NewHeuristicReranker(DefaultEngineConfig())

	candidates := []Candidate{
		{Entry: entry(1, "Dart", "What is Dart?", "Answer one."), VectorScore: 0.9},
		{Entry: entry(4, "Dart", "  WHAT IS DART?  ", "Answer two."), VectorScore: 0.8},
	}

	got := r.Rerank("dart", candidates, nil, 3, RerankOptions{ContentWords: []string{"dart"}})
	require.Len(t, got, 1)
	require.Equal(t, 1, got[0].Entry.ID)
}

func TestHeuristicRerankerLimitObeyed(t *testing.T) {
	r := NewHeuristicReranker(DefaultEngineConfig())

	candidates := []Candidate{
		{Entry: entry(1, "Dart", "What is Dart?", "a"), VectorScore: 0.9},
		{Entry: entry(2, "Flutter", "What is Flutter?", "b"), VectorScore: 0.8},
		{Entry: entry(3, "Dart", "How do isolates work?", "c"), VectorScore: 0.7},
	}

	got := r.Rerank("x", candidates, nil, 2, RerankOptions{ContentWords: nil})
	require.Len(t, got, 2)
}

func TestHeuristicRerankerPerfectMatchShortcut(t *testing.T) {
	r := NewHeuristicReranker(DefaultEngineConfig())

	candidates := []Candidate{
		{Entry: entry(1, "Dart", "What is Dart?", "a"), VectorScore: 0.9999},
		{Entry: entry(2, "Flutter", "What is Flutter?", "b"), VectorScore: 0.5},
		{Entry: entry(3, "Dart", "How do isolates work?", "c"), VectorScore: 0.5},
	}

	got := r.Rerank("dart", candidates, nil, 3, RerankOptions{ContentWords: nil})
	require.Len(t, got, 1)
	require.Equal(t, 1, got[0].Entry.ID)
}

func TestNoOpRerankerTruncatesAndPreservesOrder(t *testing.T) {
	var r NoOpReranker
	candidates := []Candidate{
		{Entry: entry(1, "A", "Q1", "a"), VectorScore: 0.3},
		{Entry: entry(2, "B", "Q2", "b"), VectorScore: 0.9},
	}
	got := r.Rerank("x", candidates, nil, 1, RerankOptions{})
	require.Len(t, got, 1)
	require.Equal(t, 1, got[0].Entry.ID)
	require.Equal(t, "noop", got[0].Method)
}
