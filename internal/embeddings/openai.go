package embeddings

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI generates embeddings through the OpenAI API.
type OpenAI struct {
	client *openai.Client
	model  string
	dims   int
}

// NewOpenAI creates an OpenAI-backed embedder.
func NewOpenAI(apiKey, model string, dims int) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
		dims:   dims,
	}
}

func (e *OpenAI) Name() string { return e.model }

func (e *OpenAI) Dimensions() int { return e.dims }

func (e *OpenAI) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding request failed: %w", err)
	}

	if len(resp.Data) != 1 {
		return nil, fmt.Errorf("openai returned %d embeddings, expected 1", len(resp.Data))
	}

	vec := resp.Data[0].Embedding
	if len(vec) == 0 {
		return nil, fmt.Errorf("openai returned an empty embedding")
	}
	return vec, nil
}
