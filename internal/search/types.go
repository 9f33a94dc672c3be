// Package search ranks manuscripts against a query, lexically or
// semantically.
package search

import "time"

// Mode selects the ranking space.
type Mode string

const (
	ModeLexical  Mode = "lexical"
	ModeSemantic Mode = "semantic"
)

// Limits for the result window.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Result is one ranked hit, carrying enough of the document to render
// without a second fetch.
type Result struct {
	ID        string    `json:"documentId"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`

	// Score semantics depend on the mode: lexical relevance lives in
	// [0, 1] with 0 for substring-only hits; semantic similarity is
	// 1 - cosine distance, unclamped, so slightly negative values are
	// possible for unrelated content.
	Score float64 `json:"score"`
}

// Response is the search surface's answer.
type Response struct {
	Results []Result `json:"results"`
	Count   int      `json:"count"`

	// Degraded reports that a semantic request was served by the lexical
	// ranker after an embedding-oracle failure.
	Degraded bool `json:"degraded"`
}
