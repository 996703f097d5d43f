// Package embed provides the query-embedding capability consumed by the
// search engine: turning query text into a dense vector, and into the
// lowercased content tokens used by the lexical and typo signals.
package embed

import "github.com/hybridqa/kbsearch/internal/ranking"

// Embedder is the capability required from the host for turning query
// text into a vector and into content tokens. Embed may suspend (it
// performs I/O or offloads compute); ContentWords is pure and synchronous.
type Embedder interface {
	// Embed returns the dense vector for text. Its length must equal the
	// engine's configured embedding dimension.
	Embed(text string) ([]float32, error)

	// ContentWords returns the lowercased, stop-word-stripped tokens of
	// text used for lexical matching and the typo scan.
	ContentWords(text string) []string
}

// TokenEmbedder is a deterministic reference Embedder: it hashes the
// content tokens of the input text into a fixed-dimension vector. It has
// no external dependencies and is intended for tests, fixtures, and the
// CLI demo corpus, not for production relevance.
type TokenEmbedder struct {
	dim       int
	stopWords map[string]struct{}
}

var _ Embedder = (*TokenEmbedder)(nil)

// New creates a TokenEmbedder producing vectors of the given dimension.
func New(dim int) *TokenEmbedder {
	return &TokenEmbedder{dim: dim, stopWords: defaultStopWords}
}

// Embed hashes each content token into a bucket of the output vector and
// accumulates a signed weight, producing a stable bag-of-tokens vector.
func (e *TokenEmbedder) Embed(text string) ([]float32, error) {
	vec := make([]float32, e.dim)
	for _, tok := range e.ContentWords(text) {
		h := fnv32a(tok)
		bucket := int(h % uint32(e.dim))
		sign := float32(1)
		if h&1 == 1 {
			sign = -1
		}
		vec[bucket] += sign
	}
	return vec, nil
}

// ContentWords implements Embedder.
func (e *TokenEmbedder) ContentWords(text string) []string {
	tokens := ranking.Tokens(text)
	out := tokens[:0:0]
	for _, t := range tokens {
		if _, stop := e.stopWords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func fnv32a(s string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}

var defaultStopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "of": {}, "in": {},
	"to": {}, "and": {}, "do": {}, "does": {},
}
