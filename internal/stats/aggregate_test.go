package stats

import (
	"reflect"
	"testing"

	"github.com/jcastellanos/legajo/internal/apperr"
	"github.com/jcastellanos/legajo/internal/document"
)

func docWithTypology(typology string) document.Document {
	return document.Document{
		Fields: map[document.FieldName]document.FieldValue{
			document.FieldTypology: {Value: typology, Confidence: 0.8},
		},
	}
}

func docWithEntities(cat document.EntityCategory, values ...string) document.Document {
	d := document.Document{Entities: document.Entities{}}
	for _, v := range values {
		d.Entities[cat] = append(d.Entities[cat], document.EntityMention{Value: v, Confidence: 0.9})
	}
	return d
}

func TestReduceEmptyBatchIsValidationError(t *testing.T) {
	_, err := Reduce(nil, nil, 0)
	if err == nil {
		t.Fatal("expected error for empty batch")
	}
	if !apperr.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestTypologyFrequency(t *testing.T) {
	batch := []document.Document{
		docWithTypology("Carta Real"),
		docWithTypology("Carta Real"),
		docWithTypology("Testamento"),
	}

	s, err := Reduce(batch, nil, 0)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}

	want := map[string]int{"Carta Real": 2, "Testamento": 1}
	if !reflect.DeepEqual(s.Typologies, want) {
		t.Errorf("Typologies = %v, want %v", s.Typologies, want)
	}
	if s.Documents != 3 {
		t.Errorf("Documents = %d, want 3", s.Documents)
	}
}

func TestMissingValuesAreExcluded(t *testing.T) {
	batch := []document.Document{
		docWithTypology("Carta Real"),
		docWithTypology(""),
		{}, // analysis pending, no fields at all
	}

	s, err := Reduce(batch, nil, 0)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}

	if len(s.Typologies) != 1 || s.Typologies["Carta Real"] != 1 {
		t.Errorf("Typologies = %v, want only Carta Real", s.Typologies)
	}
	if len(s.Languages) != 0 {
		t.Errorf("Languages = %v, want empty", s.Languages)
	}
}

func TestTopEntitiesRankedByFrequencyThenFirstSeen(t *testing.T) {
	batch := []document.Document{
		docWithEntities(document.EntityPeople, "Felipe II", "Juan de Mendoza"),
		docWithEntities(document.EntityPeople, "Juan de Mendoza", "Isabel"),
		docWithEntities(document.EntityPeople, "Juan de Mendoza"),
	}

	s, err := Reduce(batch, []document.EntityCategory{document.EntityPeople}, 0)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}

	want := []TopEntity{
		{Value: "Juan de Mendoza", Count: 3},
		{Value: "Felipe II", Count: 1},
		{Value: "Isabel", Count: 1},
	}
	if !reflect.DeepEqual(s.TopEntities[document.EntityPeople], want) {
		t.Errorf("TopEntities = %v, want %v", s.TopEntities[document.EntityPeople], want)
	}
}

func TestTopNTruncates(t *testing.T) {
	batch := []document.Document{
		docWithEntities(document.EntityLocations, "Sevilla", "Lima", "Potosí", "Madrid"),
	}

	s, err := Reduce(batch, []document.EntityCategory{document.EntityLocations}, 2)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if got := len(s.TopEntities[document.EntityLocations]); got != 2 {
		t.Errorf("got %d entries, want 2", got)
	}
}

func TestNegativeTopNIsValidationError(t *testing.T) {
	_, err := Reduce([]document.Document{{}}, nil, -3)
	if !apperr.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestReduceIsIdempotent(t *testing.T) {
	batch := []document.Document{
		docWithEntities(document.EntityPeople, "Felipe II", "Juan de Mendoza", "Felipe II"),
		docWithTypology("Carta Real"),
	}

	first, err := Reduce(batch, nil, 0)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	second, err := Reduce(batch, nil, 0)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated reduction differs:\nfirst  %+v\nsecond %+v", first, second)
	}
}
