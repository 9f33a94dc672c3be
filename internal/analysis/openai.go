package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jcastellanos/legajo/internal/apperr"
	"github.com/jcastellanos/legajo/internal/document"
)

const extractionPrompt = `You are an archivist analyzing a historical manuscript transcription.
Return a single JSON object with this exact shape, no prose:
{
  "extractedFields": {
    "typology":        {"value": "...", "confidence": 0.0},
    "language":        {"value": "...", "confidence": 0.0},
    "scriptType":      {"value": "...", "confidence": 0.0},
    "suggestedSeries": {"value": "...", "confidence": 0.0},
    "summary":         {"value": "...", "confidence": 0.0},
    "titleSuggestion": {"value": "...", "confidence": 0.0}
  },
  "entities": {
    "people":        [{"value": "...", "confidence": 0.0}],
    "locations":     [{"value": "...", "confidence": 0.0}],
    "organizations": [{"value": "...", "confidence": 0.0}],
    "dates":         [{"value": "...", "confidence": 0.0}],
    "events":        [{"value": "...", "confidence": 0.0}],
    "keywords":      [{"value": "...", "confidence": 0.0}]
  },
  "geodata": [{"place": "...", "lat": 0.0, "lon": 0.0, "role": "origin", "confidence": 0.0}]
}
Confidence is your own certainty in (0, 1). Omit lat/lon when unknown.
Role is "origin" for the issuing place, "reference" for places mentioned.
Keep every repeated entity mention; do not deduplicate.`

// OpenAI is an Extractor speaking the OpenAI chat-completion API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an extractor. baseURL overrides the API endpoint for
// compatibility providers; empty means the OpenAI default.
func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Extract analyzes a transcription. Confidence values outside [0, 1] and
// human-reserved 1.0 are pulled back into the model range: the oracle never
// gets to claim human certainty.
func (e *OpenAI) Extract(ctx context.Context, title, content string) (*document.Analysis, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Title: %s\n\nTranscription:\n%s", title, content)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, &apperr.OracleError{Op: "extract", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &apperr.OracleError{Op: "extract", Err: fmt.Errorf("empty completion")}
	}

	var analysis document.Analysis
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &analysis); err != nil {
		return nil, &apperr.OracleError{Op: "extract", Err: fmt.Errorf("malformed oracle response: %w", err)}
	}

	clampConfidences(&analysis)
	return &analysis, nil
}

// clampConfidences bounds oracle confidences to (0, 1): exactly 1.0 is
// reserved for human corrections.
func clampConfidences(a *document.Analysis) {
	const oracleMax = 0.99

	for name, fv := range a.Fields {
		a.Fields[name] = document.FieldValue{Value: fv.Value, Confidence: clamp(fv.Confidence, oracleMax)}
	}
	for cat, mentions := range a.Entities {
		for i, m := range mentions {
			mentions[i] = document.EntityMention{Value: m.Value, Confidence: clamp(m.Confidence, oracleMax)}
		}
		a.Entities[cat] = mentions
	}
	for i, g := range a.Geodata {
		g.Confidence = clamp(g.Confidence, oracleMax)
		a.Geodata[i] = g
	}
}

func clamp(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
