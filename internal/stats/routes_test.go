package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jcastellanos/legajo/internal/db"
	"github.com/jcastellanos/legajo/internal/document"
	"github.com/jcastellanos/legajo/internal/httpapi"
)

func newStatsRouter(t *testing.T) (chi.Router, *document.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := document.NewStore(database)
	r := chi.NewRouter()
	r.Use(httpapi.RequireOwner)
	RegisterRoutes(r, Deps{Store: store})
	return r, store
}

func postStats(t *testing.T, router chi.Router, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	req := httptest.NewRequest("POST", "/api/stats", &buf)
	req.Header.Set(httpapi.OwnerHeader, "archivo")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStatsRoute(t *testing.T) {
	router, store := newStatsRouter(t)
	ctx := context.Background()

	for _, typology := range []string{"carta", "carta", "testamento"} {
		doc, err := store.Create(ctx, document.Document{OwnerID: "archivo", Content: "texto"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := store.ApplyFieldCorrection(ctx, "archivo", doc.ID, document.FieldTypology, typology); err != nil {
			t.Fatalf("ApplyFieldCorrection: %v", err)
		}
	}

	w := postStats(t, router, map[string]any{})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var summary Summary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if summary.Documents != 3 {
		t.Errorf("Documents = %d, want 3", summary.Documents)
	}
	if summary.Typologies["carta"] != 2 {
		t.Errorf("Typologies[carta] = %d, want 2", summary.Typologies["carta"])
	}
}

func TestStatsRouteEmptyArchive(t *testing.T) {
	router, _ := newStatsRouter(t)

	w := postStats(t, router, map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty batch, got %d", w.Code)
	}
}

func TestStatsRouteUnknownID(t *testing.T) {
	router, _ := newStatsRouter(t)

	w := postStats(t, router, map[string]any{"ids": []string{"missing"}})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", w.Code)
	}
}
