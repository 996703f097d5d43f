package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupWritesJSONLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	cfg := Config{
		Level:         "debug",
		FilePath:      path,
		WriteToStderr: false,
	}

	logger, cleanup, err := Setup(cfg)
	require.NoError(t, err)
	defer cleanup()

	logger.Info("hello", slog.String("k", "v"))
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"hello"`)
	require.Contains(t, string(data), `"k":"v"`)
}

func TestSetupAppendsAcrossInvocations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")
	cfg := Config{Level: "info", FilePath: path, WriteToStderr: false}

	logger1, cleanup1, err := Setup(cfg)
	require.NoError(t, err)
	logger1.Info("first invocation")
	cleanup1()

	logger2, cleanup2, err := Setup(cfg)
	require.NoError(t, err)
	logger2.Info("second invocation")
	cleanup2()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "first invocation")
	require.Contains(t, string(data), "second invocation")
}

func TestSetupRespectsLevelFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")
	cfg := Config{Level: "warn", FilePath: path, WriteToStderr: false}

	logger, cleanup, err := Setup(cfg)
	require.NoError(t, err)

	logger.Debug("should be filtered out")
	logger.Warn("should be kept")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "should be filtered out")
	require.Contains(t, string(data), "should be kept")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLevel("warning"))
	require.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestDefaultLogPathUnderLogDir(t *testing.T) {
	require.Equal(t, filepath.Join(DefaultLogDir(), "kbsearch.log"), DefaultLogPath())
}
