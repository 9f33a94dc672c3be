// Package stats reduces batches of document analyses into dashboard
// aggregates.
package stats

import (
	"sort"
	"strings"

	"github.com/jcastellanos/legajo/internal/apperr"
	"github.com/jcastellanos/legajo/internal/document"
)

// DefaultTopN bounds the entity rankings when the caller does not ask for a
// specific size.
const DefaultTopN = 10

// TopEntity is one ranked entity value.
type TopEntity struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Summary aggregates a document batch for the dashboard.
type Summary struct {
	Documents   int                                     `json:"documents"`
	Typologies  map[string]int                          `json:"typologies"`
	Languages   map[string]int                          `json:"languages"`
	TopEntities map[document.EntityCategory][]TopEntity `json:"topEntities"`
}

// DefaultCategories are the entity rankings computed when the caller does
// not name any.
var DefaultCategories = []document.EntityCategory{
	document.EntityKeywords,
	document.EntityPeople,
	document.EntityLocations,
}

// Reduce computes frequency distributions over a non-empty batch. Missing
// or empty categorical values are excluded rather than counted as a
// category. Entity rankings are ordered by (frequency desc, first-seen asc),
// where first-seen follows batch order; the ordering is fully deterministic.
func Reduce(batch []document.Document, categories []document.EntityCategory, topN int) (*Summary, error) {
	if len(batch) == 0 {
		return nil, apperr.Validationf("batch must not be empty")
	}
	if topN == 0 {
		topN = DefaultTopN
	}
	if topN < 1 {
		return nil, apperr.Validationf("top must be positive, got %d", topN)
	}
	if len(categories) == 0 {
		categories = DefaultCategories
	}

	s := &Summary{
		Documents:   len(batch),
		Typologies:  map[string]int{},
		Languages:   map[string]int{},
		TopEntities: map[document.EntityCategory][]TopEntity{},
	}

	for _, doc := range batch {
		countField(s.Typologies, doc.Field(document.FieldTypology).Value)
		countField(s.Languages, doc.Field(document.FieldLanguage).Value)
	}

	for _, cat := range categories {
		s.TopEntities[cat] = topEntities(batch, cat, topN)
	}

	return s, nil
}

func countField(freq map[string]int, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	freq[value]++
}

// topEntities flattens one category across the batch and ranks values by
// frequency, breaking ties by first appearance.
func topEntities(batch []document.Document, cat document.EntityCategory, topN int) []TopEntity {
	counts := map[string]int{}
	firstSeen := map[string]int{}
	order := 0

	for _, doc := range batch {
		for _, mention := range doc.Entities[cat] {
			value := strings.TrimSpace(mention.Value)
			if value == "" {
				continue
			}
			if _, seen := counts[value]; !seen {
				firstSeen[value] = order
			}
			counts[value]++
			order++
		}
	}

	ranked := make([]TopEntity, 0, len(counts))
	for value, count := range counts {
		ranked = append(ranked, TopEntity{Value: value, Count: count})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Value] < firstSeen[ranked[j].Value]
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
