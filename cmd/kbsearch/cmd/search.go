package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hybridqa/kbsearch/internal/annindex"
	"github.com/hybridqa/kbsearch/internal/embed"
	"github.com/hybridqa/kbsearch/internal/entrystore"
	"github.com/hybridqa/kbsearch/internal/logging"
	"github.com/hybridqa/kbsearch/internal/search"
)

type searchOptions struct {
	entriesPath    string
	embeddingsPath string
	dbPath         string
	limit          int
	format         string
	explain        bool
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search a knowledge base corpus",
		Long: `Search loads a question/answer corpus and its precomputed embeddings,
then runs the hybrid vector + lexical + typo pipeline against the query.

Example:
  kbsearch search "what is dart" --entries corpus.json --embeddings corpus.f16`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd, query, opts)
		},
	}

	cmd.Flags().StringVar(&opts.entriesPath, "entries", "", "Path to the corpus entries JSON file (required)")
	cmd.Flags().StringVar(&opts.embeddingsPath, "embeddings", "", "Path to the corpus embeddings binary file (required)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "Path to the SQLite entry store (default: in-memory)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", search.DefaultLimit, "Maximum number of results")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "Log pipeline diagnostics at debug level")
	_ = cmd.MarkFlagRequired("entries")
	_ = cmd.MarkFlagRequired("embeddings")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	if opts.explain {
		logger, cleanup, err := logging.Setup(logging.DebugConfig())
		if err == nil {
			defer cleanup()
			slog.SetDefault(logger)
		}
	}

	entries, err := loadEntries(opts.entriesPath)
	if err != nil {
		return err
	}
	embeddings, err := loadEmbeddings(opts.embeddingsPath)
	if err != nil {
		return err
	}
	if len(entries) != len(embeddings) {
		return fmt.Errorf("entries count %d does not match embeddings count %d", len(entries), len(embeddings))
	}

	schema := entrystore.DefaultSchema()
	store, err := entrystore.Open(opts.dbPath, schema)
	if err != nil {
		return fmt.Errorf("open entry store: %w", err)
	}
	if err := store.Seed(entries); err != nil {
		return fmt.Errorf("seed entry store: %w", err)
	}

	config := search.DefaultEngineConfig()
	config.Schema = schema
	if len(embeddings) > 0 {
		config.EmbeddingDim = len(embeddings[0])
	}

	ann := annindex.New(config.EmbeddingDim, config.HNSWM, config.HNSWEf)
	embedder := embed.NewCached(embed.New(config.EmbeddingDim), embed.DefaultCacheSize)

	engine, err := search.New(store, ann, embedder, embeddings, config, search.WithLogger(slog.Default()))
	if err != nil {
		return fmt.Errorf("construct engine: %w", err)
	}
	defer engine.Dispose()

	if err := engine.Initialize(); err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}

	results, err := engine.SearchWithOptions(query, search.SearchOptions{Limit: opts.limit, Explain: opts.explain})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	return printResults(cmd, opts.format, results)
}

func printResults(cmd *cobra.Command, format string, results []search.SearchResult) error {
	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "no results")
		return nil
	}
	for i, r := range results {
		fmt.Fprintf(out, "%d. [%s] %s (score %.3f, %s)\n", i+1, r.Entry.Category, r.Entry.Question, r.Score, r.Method)
		fmt.Fprintf(out, "   %s\n", r.Entry.Answer)
		if r.Explain != nil {
			fmt.Fprintf(out, "   explain: pool=%d fts_hits=%d typo_hits=%d fts_retried=%t ann=%t\n",
				r.Explain.CandidatePoolSize, r.Explain.FTSHitCount, r.Explain.TypoHitCount,
				r.Explain.FTSRetried, r.Explain.UsedANN)
		}
	}
	return nil
}
