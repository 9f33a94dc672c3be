package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jcastellanos/legajo/internal/apperr"
	"github.com/jcastellanos/legajo/internal/vectordb"
)

// QueryEmbedder is the slice of the embedding oracle the semantic ranker
// needs.
type QueryEmbedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex serves k-NN queries over stored document vectors.
type VectorIndex interface {
	QueryVector(ctx context.Context, ownerID string, vector []float32, limit int) ([]vectordb.Result, error)
}

// EmbeddedCounter reports how many of an owner's documents carry a vector,
// so the k-NN request can be clamped.
type EmbeddedCounter interface {
	CountEmbedded(ctx context.Context, ownerID string) (int, error)
}

// Semantic ranks documents by embedding similarity. When the embedding
// oracle fails or times out, the request degrades to the lexical ranker
// rather than failing; the degradation is reported to the caller.
type Semantic struct {
	embedder QueryEmbedder
	index    VectorIndex
	counter  EmbeddedCounter
	lexical  *Lexical
	timeout  time.Duration
	log      zerolog.Logger
}

// NewSemantic creates a semantic ranker. timeout bounds the embedding
// oracle call only; the vector query runs under the request context.
func NewSemantic(embedder QueryEmbedder, index VectorIndex, counter EmbeddedCounter, lexical *Lexical, timeout time.Duration, log zerolog.Logger) *Semantic {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Semantic{
		embedder: embedder,
		index:    index,
		counter:  counter,
		lexical:  lexical,
		timeout:  timeout,
		log:      log,
	}
}

// Search returns up to limit documents owned by ownerID ordered by
// descending similarity to the query. degraded is true when the lexical
// fallback served the request.
func (s *Semantic) Search(ctx context.Context, ownerID, query string, limit int) (results []Result, degraded bool, err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, apperr.Validationf("query must not be empty")
	}
	limit, err = NormalizeLimit(limit)
	if err != nil {
		return nil, false, err
	}

	vector, err := s.embedQuery(ctx, query)
	if err != nil {
		// A cancelled caller gets no results, stale or otherwise.
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		s.log.Warn().Err(err).Str("owner", ownerID).
			Msg("embedding oracle failed, serving lexical fallback")
		results, err = s.lexical.Search(ctx, ownerID, query, limit)
		return results, true, err
	}

	k := limit
	if count, err := s.counter.CountEmbedded(ctx, ownerID); err == nil && count < k {
		k = count
	}
	if k == 0 {
		return []Result{}, false, nil
	}

	hits, err := s.index.QueryVector(ctx, ownerID, vector, k)
	if err != nil {
		return nil, false, err
	}

	results = make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{
			ID:        h.Entry.ID,
			Title:     h.Entry.Title,
			Summary:   h.Entry.Summary,
			CreatedAt: h.Entry.CreatedAt,
			Score:     float64(h.Similarity),
		}
	}
	return results, false, nil
}

// embedQuery calls the embedding oracle under its own deadline so a slow
// oracle cannot hold the request longer than the fallback budget.
func (s *Semantic) embedQuery(ctx context.Context, query string) ([]float32, error) {
	embedCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	vector, err := s.embedder.EmbedOne(embedCtx, query)
	if err != nil {
		return nil, &apperr.OracleError{Op: "embed", Err: err}
	}
	if len(vector) == 0 {
		return nil, &apperr.OracleError{Op: "embed", Err: errors.New("oracle returned an empty vector")}
	}
	return vector, nil
}
