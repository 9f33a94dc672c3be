// Package embeddings provides clients for the external embedding oracle.
package embeddings

import (
	"context"
	"fmt"
	"os"

	"github.com/jcastellanos/legajo/internal/config"
)

// Embedder is the embedding oracle: it turns a text into a fixed-length
// vector. Implementations wrap wall-clock-slow remote APIs and must honor
// ctx cancellation and deadlines.
type Embedder interface {
	// EmbedOne generates the embedding vector for a single text.
	EmbedOne(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the length of the vectors this oracle produces.
	Dimensions() int

	// Name returns the model identifier, for logging.
	Name() string
}

// New builds the embedder selected by the oracle configuration. Hosted
// providers read their API key from the environment.
func New(cfg config.OracleConfig) (Embedder, error) {
	_, dims := config.EmbeddingDefaults(cfg.Provider)

	switch cfg.Provider {
	case config.ProviderOllama:
		return NewOllama(cfg.BaseURL, cfg.EmbeddingModel, dims), nil

	case config.ProviderOpenAI:
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return NewOpenAI(key, cfg.EmbeddingModel, dims), nil

	case config.ProviderGoogle:
		key := os.Getenv("GOOGLE_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY is not set")
		}
		return NewGoogle(key, cfg.EmbeddingModel, dims), nil

	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.Provider)
	}
}
