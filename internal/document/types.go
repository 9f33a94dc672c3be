// Package document holds the manuscript record model and its SQLite store.
package document

import "time"

// FieldName identifies an extracted metadata field. The set is closed:
// corrections naming any other field are rejected as validation errors.
type FieldName string

const (
	FieldTypology        FieldName = "typology"
	FieldLanguage        FieldName = "language"
	FieldScriptType      FieldName = "scriptType"
	FieldSuggestedSeries FieldName = "suggestedSeries"
	FieldSummary         FieldName = "summary"
	FieldTitleSuggestion FieldName = "titleSuggestion"
)

// EditableFields is the closed set of field names a human correction may
// target.
var EditableFields = map[FieldName]bool{
	FieldTypology:        true,
	FieldLanguage:        true,
	FieldScriptType:      true,
	FieldSuggestedSeries: true,
	FieldSummary:         true,
	FieldTitleSuggestion: true,
}

// FieldValue is an extracted value with the oracle's self-reported
// confidence. Confidence 1.0 is reserved for human corrections and is never
// lowered automatically.
type FieldValue struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// HumanConfidence marks a field value as human-verified.
const HumanConfidence = 1.0

// EntityCategory identifies a class of named entities.
type EntityCategory string

const (
	EntityPeople        EntityCategory = "people"
	EntityLocations     EntityCategory = "locations"
	EntityOrganizations EntityCategory = "organizations"
	EntityDates         EntityCategory = "dates"
	EntityEvents        EntityCategory = "events"
	EntityKeywords      EntityCategory = "keywords"
)

// EntityMention is one occurrence of an entity in a manuscript. Repeated
// mentions of the same value are kept; the store never deduplicates them.
type EntityMention struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Entities maps categories to ordered mention lists.
type Entities map[EntityCategory][]EntityMention

// Values returns the mention values for a category, in order.
func (e Entities) Values(cat EntityCategory) []string {
	mentions := e[cat]
	if len(mentions) == 0 {
		return nil
	}
	out := make([]string, len(mentions))
	for i, m := range mentions {
		out[i] = m.Value
	}
	return out
}

// GeoRole distinguishes the place a manuscript was issued from places it
// merely mentions.
type GeoRole string

const (
	GeoOrigin    GeoRole = "origin"
	GeoReference GeoRole = "reference"
)

// GeoPoint is a place extracted from a manuscript. Coordinates may be absent.
type GeoPoint struct {
	Place      string   `json:"place"`
	Lat        *float64 `json:"lat,omitempty"`
	Lon        *float64 `json:"lon,omitempty"`
	Role       GeoRole  `json:"role"`
	Confidence float64  `json:"confidence"`
}

// Document is a manuscript record. Extracted fields, entities and geodata
// populate after the analysis oracle completes; until then they are empty.
type Document struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	Title   string `json:"title"`
	Content string `json:"content"`

	Fields   map[FieldName]FieldValue `json:"extractedFields"`
	Entities Entities                 `json:"entities"`
	Geodata  []GeoPoint               `json:"geodata"`

	// Embedded reports whether a vector for this document exists in the
	// vector store. EmbeddingStale is set when content is corrected without
	// re-embedding; stale vectors keep serving semantic search until a
	// reindex run.
	Embedded       bool `json:"embedded"`
	EmbeddingStale bool `json:"embeddingStale"`

	CreatedAt time.Time `json:"createdAt"`
}

// Field returns the value for a field name, or a zero FieldValue when the
// field is absent (analysis pending or never extracted).
func (d *Document) Field(name FieldName) FieldValue {
	if d.Fields == nil {
		return FieldValue{}
	}
	return d.Fields[name]
}

// Summary returns the extracted summary text, or "" when absent.
func (d *Document) Summary() string {
	return d.Field(FieldSummary).Value
}

// Analysis bundles everything the extraction oracle produces for one
// manuscript.
type Analysis struct {
	Fields   map[FieldName]FieldValue `json:"extractedFields"`
	Entities Entities                 `json:"entities"`
	Geodata  []GeoPoint               `json:"geodata"`
}

// RelationKind classifies how two manuscripts relate.
type RelationKind string

const (
	// KindDuplicate marks two records judged to be the same physical
	// manuscript (a re-upload).
	KindDuplicate RelationKind = "duplicate"
	// KindSameDossier marks records inferred to belong to the same
	// archival expediente.
	KindSameDossier RelationKind = "same_dossier"
)

// RelationMatch relates a target document to one candidate. It is derived
// on demand, never persisted.
type RelationMatch struct {
	TargetID    string       `json:"targetId"`
	CandidateID string       `json:"candidateId"`
	Score       int          `json:"score"`
	Kind        RelationKind `json:"kind"`
	Rationale   []string     `json:"rationale"`
}
