// Package cmd provides the CLI commands for kbsearch.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hybridqa/kbsearch/internal/logging"
	"github.com/hybridqa/kbsearch/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the kbsearch CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kbsearch",
		Short: "Hybrid question/answer search over a local knowledge base",
		Long: `kbsearch fuses dense-vector cosine similarity, lexical full-text
search, and 1-edit typo-tolerant matching to answer natural-language
questions against a local question/answer corpus.

It runs entirely locally with no network dependency.`,
		Version:           version.Version,
		PersistentPreRunE: setupDebugLogging,
		SilenceUsage:      true,
	}

	root.SetVersionTemplate("kbsearch version {{.Version}}\n")
	root.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.kbsearch/logs/")

	root.AddCommand(newSearchCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func setupDebugLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}

	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("debug logging enabled", slog.String("log_file", logging.DefaultLogPath()))
	return nil
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if loggingCleanup != nil {
			loggingCleanup()
		}
	}()
	return NewRootCmd().Execute()
}
