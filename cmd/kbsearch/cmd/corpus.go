package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hybridqa/kbsearch/internal/codec"
	"github.com/hybridqa/kbsearch/internal/entrystore"
)

// corpusEntry is the on-disk JSON shape of one knowledge-base row.
type corpusEntry struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// loadEntries reads a JSON array of corpus rows.
func loadEntries(path string) ([]entrystore.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entries file: %w", err)
	}

	var raw []corpusEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse entries file: %w", err)
	}

	entries := make([]entrystore.Entry, len(raw))
	for i, r := range raw {
		entries[i] = entrystore.Entry{ID: r.ID, Category: r.Category, Question: r.Question, Answer: r.Answer}
	}
	return entries, nil
}

// loadEmbeddings reads a binary embedding file in the project's float16
// wire format and decodes it to single-precision vectors.
func loadEmbeddings(path string) ([][]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read embeddings file: %w", err)
	}

	vectors, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode embeddings file: %w", err)
	}
	return vectors, nil
}
