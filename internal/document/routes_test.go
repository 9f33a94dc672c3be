package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jcastellanos/legajo/internal/audit"
	"github.com/jcastellanos/legajo/internal/db"
	"github.com/jcastellanos/legajo/internal/httpapi"
	"github.com/jcastellanos/legajo/internal/logger"
	"github.com/jcastellanos/legajo/internal/metrics"
	"github.com/jcastellanos/legajo/internal/vectordb"
)

type stubExtractor struct {
	analysis *Analysis
	err      error
}

func (s *stubExtractor) Extract(_ context.Context, _, _ string) (*Analysis, error) {
	return s.analysis, s.err
}

type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) EmbedOne(_ context.Context, _ string) ([]float32, error) {
	return s.vec, s.err
}

type stubVectors struct {
	added   map[string]vectordb.Entry
	deleted []string
}

func (s *stubVectors) Add(_ context.Context, entry vectordb.Entry, _ []float32) error {
	if s.added == nil {
		s.added = map[string]vectordb.Entry{}
	}
	s.added[entry.ID] = entry
	return nil
}

func (s *stubVectors) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

// noRelations stands in for the classifier when relations are not under test.
func noRelations(_ Document, _ []Document) []RelationMatch { return nil }

type routesFixture struct {
	router  chi.Router
	store   *Store
	vectors *stubVectors
}

func newRoutesFixture(t *testing.T, extractor Extractor, embedder Embedder, classify ClassifyFunc) *routesFixture {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := NewStore(database)
	vectors := &stubVectors{}

	r := chi.NewRouter()
	r.Use(httpapi.RequireOwner)
	RegisterRoutes(r, Deps{
		Store:     store,
		Extractor: extractor,
		Embedder:  embedder,
		Vectors:   vectors,
		Classify:  classify,
		Audit:     audit.NewStore(database),
		Metrics:   metrics.New(),
		Log:       logger.Nop(),
	})

	return &routesFixture{router: r, store: store, vectors: vectors}
}

func (f *routesFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(httpapi.OwnerHeader, "archivo")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCreateDocument(t *testing.T) {
	extractor := &stubExtractor{analysis: &Analysis{
		Fields: map[FieldName]FieldValue{
			FieldTypology: {Value: "carta", Confidence: 0.85},
			FieldSummary:  {Value: "Carta sobre el comercio.", Confidence: 0.8},
		},
		Entities: Entities{
			EntityPeople: {{Value: "Juan de Vargas", Confidence: 0.9}},
		},
	}}
	f := newRoutesFixture(t, extractor, &stubEmbedder{vec: []float32{0.1, 0.2}}, noRelations)

	w := f.do(t, "POST", "/api/documents", map[string]string{
		"title":   "Carta de relación",
		"content": "Muy poderoso señor, la presente es para dar relación del comercio.",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp createResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.AnalysisPending {
		t.Error("analysis should not be pending")
	}
	if got := resp.Document.Field(FieldTypology).Value; got != "carta" {
		t.Errorf("typology = %q", got)
	}
	if !resp.Document.Embedded {
		t.Error("document should be embedded")
	}
	if _, ok := f.vectors.added[resp.Document.ID]; !ok {
		t.Error("vector not stored")
	}
}

func TestCreateDocumentExtractionFails(t *testing.T) {
	extractor := &stubExtractor{err: errors.New("oracle down")}
	f := newRoutesFixture(t, extractor, &stubEmbedder{vec: []float32{0.1}}, noRelations)

	w := f.do(t, "POST", "/api/documents", map[string]string{
		"content": "Texto de la transcripción.",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 despite oracle failure, got %d", w.Code)
	}

	var resp createResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.AnalysisPending {
		t.Error("expected analysis pending")
	}
	if len(resp.Document.Fields) != 0 {
		t.Errorf("expected empty fields, got %v", resp.Document.Fields)
	}
}

func TestCreateDocumentEmbeddingFails(t *testing.T) {
	f := newRoutesFixture(t,
		&stubExtractor{analysis: &Analysis{}},
		&stubEmbedder{err: errors.New("oracle down")},
		noRelations)

	w := f.do(t, "POST", "/api/documents", map[string]string{"content": "Texto."})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 despite embedding failure, got %d", w.Code)
	}

	var resp createResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Document.Embedded {
		t.Error("document should not be embedded after oracle failure")
	}
	if len(f.vectors.added) != 0 {
		t.Error("no vector should be stored")
	}
}

func TestCreateDocumentValidation(t *testing.T) {
	f := newRoutesFixture(t, &stubExtractor{analysis: &Analysis{}}, &stubEmbedder{vec: []float32{0.1}}, noRelations)

	w := f.do(t, "POST", "/api/documents", map[string]string{"content": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty content, got %d", w.Code)
	}
}

func TestCreateReturnsRelations(t *testing.T) {
	classify := func(target Document, corpus []Document) []RelationMatch {
		matches := make([]RelationMatch, 0, len(corpus))
		for _, c := range corpus {
			matches = append(matches, RelationMatch{
				TargetID:    target.ID,
				CandidateID: c.ID,
				Score:       100,
				Kind:        KindDuplicate,
				Rationale:   []string{"identical leading content"},
			})
		}
		return matches
	}
	f := newRoutesFixture(t, &stubExtractor{analysis: &Analysis{}}, &stubEmbedder{vec: []float32{0.1}}, classify)

	first := f.do(t, "POST", "/api/documents", map[string]string{"content": "El mismo texto."})
	if first.Code != http.StatusCreated {
		t.Fatalf("first create: %d", first.Code)
	}

	second := f.do(t, "POST", "/api/documents", map[string]string{"content": "El mismo texto."})
	if second.Code != http.StatusCreated {
		t.Fatalf("second create: %d", second.Code)
	}

	var resp createResponse
	if err := json.Unmarshal(second.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Relations) != 1 {
		t.Fatalf("expected 1 relation, got %d", len(resp.Relations))
	}
	if resp.Relations[0].Kind != KindDuplicate {
		t.Errorf("Kind = %q", resp.Relations[0].Kind)
	}
}

func TestFieldCorrectionEndpoint(t *testing.T) {
	f := newRoutesFixture(t, &stubExtractor{analysis: &Analysis{}}, &stubEmbedder{vec: []float32{0.1}}, noRelations)

	created, err := f.store.Create(context.Background(), Document{OwnerID: "archivo", Content: "texto"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	w := f.do(t, "PUT", "/api/documents/"+created.ID+"/fields", map[string]string{
		"field": "language",
		"value": "castellano",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var doc Document
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fv := doc.Field(FieldLanguage); fv.Value != "castellano" || fv.Confidence != HumanConfidence {
		t.Errorf("field = %+v", fv)
	}

	w = f.do(t, "PUT", "/api/documents/"+created.ID+"/fields", map[string]string{
		"field": "notAField",
		"value": "x",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", w.Code)
	}
}

func TestContentCorrectionEndpoint(t *testing.T) {
	f := newRoutesFixture(t, &stubExtractor{analysis: &Analysis{}}, &stubEmbedder{vec: []float32{0.1}}, noRelations)

	created, err := f.store.Create(context.Background(), Document{OwnerID: "archivo", Content: "texto"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	w := f.do(t, "PUT", "/api/documents/"+created.ID+"/content", map[string]string{
		"content": "texto corregido",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var doc Document
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Content != "texto corregido" {
		t.Errorf("Content = %q", doc.Content)
	}
}

func TestGetMissingDocument(t *testing.T) {
	f := newRoutesFixture(t, &stubExtractor{analysis: &Analysis{}}, &stubEmbedder{vec: []float32{0.1}}, noRelations)

	w := f.do(t, "GET", "/api/documents/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteDocumentEndpoint(t *testing.T) {
	f := newRoutesFixture(t, &stubExtractor{analysis: &Analysis{}}, &stubEmbedder{vec: []float32{0.1}}, noRelations)

	created, err := f.store.Create(context.Background(), Document{OwnerID: "archivo", Content: "texto"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	w := f.do(t, "DELETE", "/api/documents/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(f.vectors.deleted) != 1 || f.vectors.deleted[0] != created.ID {
		t.Errorf("vector delete not propagated: %v", f.vectors.deleted)
	}

	w = f.do(t, "GET", fmt.Sprintf("/api/documents/%s", created.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}
