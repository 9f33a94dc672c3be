// Package analysis wraps the external AI extraction oracle that reads a
// transcription and produces structured archival metadata.
package analysis

import (
	"context"
	"fmt"
	"os"

	"github.com/jcastellanos/legajo/internal/config"
	"github.com/jcastellanos/legajo/internal/document"
)

// Extractor is the extraction oracle. It is slow, remote and untrustworthy:
// calls must be bounded by the caller's context and failures reported as
// retryable, never fatal to document creation.
type Extractor interface {
	Extract(ctx context.Context, title, content string) (*document.Analysis, error)
}

// New builds the extractor for the configured provider. All three providers
// speak the OpenAI chat-completion dialect; ollama and google are reached
// through their compatibility endpoints.
func New(cfg config.OracleConfig) (Extractor, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return NewOpenAI("ollama", baseURL+"/v1", cfg.ExtractionModel), nil

	case config.ProviderOpenAI:
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return NewOpenAI(key, "", cfg.ExtractionModel), nil

	case config.ProviderGoogle:
		key := os.Getenv("GOOGLE_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY is not set")
		}
		return NewOpenAI(key, "https://generativelanguage.googleapis.com/v1beta/openai", cfg.ExtractionModel), nil

	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.Provider)
	}
}
