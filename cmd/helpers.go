package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/jcastellanos/legajo/internal/analysis"
	"github.com/jcastellanos/legajo/internal/config"
	"github.com/jcastellanos/legajo/internal/embeddings"
	"github.com/jcastellanos/legajo/internal/logger"
	"github.com/jcastellanos/legajo/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `legajo init` to create a config file", err)
	}
	return cfg, nil
}

// newLogger builds the process logger from config, with --verbose forcing
// debug level.
func newLogger(cfg *config.Config) zerolog.Logger {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logger.New(logger.Config{
		Level:  level,
		Pretty: cfg.Log.Pretty,
		Output: os.Stderr,
	})
}

// newOracles creates the extraction and embedding oracles from config.
func newOracles(cfg *config.Config) (analysis.Extractor, embeddings.Embedder, error) {
	extractor, err := analysis.New(cfg.Oracle)
	if err != nil {
		return nil, nil, fmt.Errorf("creating extraction oracle: %w", err)
	}
	embedder, err := embeddings.New(cfg.Oracle)
	if err != nil {
		return nil, nil, fmt.Errorf("creating embedding oracle: %w", err)
	}
	return extractor, embedder, nil
}

// openVectorStore creates the vector store and loads any persisted vectors
// from the data directory. A missing snapshot is not an error; the store
// starts empty and fills as documents are created or reindexed.
func openVectorStore(cfg *config.Config, dims int, log zerolog.Logger) (*vectordb.Store, string, error) {
	store, err := vectordb.New(dims)
	if err != nil {
		return nil, "", fmt.Errorf("creating vector store: %w", err)
	}

	vectorDir := filepath.Join(cfg.DataDir, "vectordb")
	if err := store.Load(vectorDir); err != nil {
		log.Warn().Err(err).Str("dir", vectorDir).
			Msg("could not load vector store, starting empty")
	}
	return store, vectorDir, nil
}

// dbPath returns the SQLite database path under the data directory.
func dbPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "legajo.db")
}
