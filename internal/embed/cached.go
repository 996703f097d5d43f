package embed

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of distinct query vectors a CachedEmbedder
// keeps in memory before evicting the least recently used entry.
const DefaultCacheSize = 512

// CachedEmbedder wraps an Embedder with an LRU cache keyed on the raw query
// text, avoiding redundant embedding computation for repeated queries.
type CachedEmbedder struct {
	inner Embedder
	cache *lru.Cache[string, []float32]
}

var _ Embedder = (*CachedEmbedder)(nil)

// NewCached wraps inner with an LRU cache of the given size. A non-positive
// size falls back to DefaultCacheSize.
func NewCached(inner Embedder, size int) *CachedEmbedder {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[string, []float32](size)
	return &CachedEmbedder{inner: inner, cache: cache}
}

// Embed returns the cached vector if present, otherwise delegates to inner
// and caches the result.
func (c *CachedEmbedder) Embed(text string) ([]float32, error) {
	if vec, ok := c.cache.Get(text); ok {
		return vec, nil
	}

	vec, err := c.inner.Embed(text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, vec)
	return vec, nil
}

// ContentWords passes through to inner; tokenisation is cheap enough not
// to need caching.
func (c *CachedEmbedder) ContentWords(text string) []string {
	return c.inner.ContentWords(text)
}
