package vectordb

import (
	"context"
	"testing"
	"time"
)

func addEntry(t *testing.T, store *Store, id, owner string, vector []float32) {
	t.Helper()
	err := store.Add(context.Background(), Entry{
		ID:        id,
		OwnerID:   owner,
		Title:     "Documento " + id,
		CreatedAt: time.Now().UTC(),
	}, vector)
	if err != nil {
		t.Fatalf("Add(%s): %v", id, err)
	}
}

func TestAddAndQuery(t *testing.T) {
	store, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	addEntry(t, store, "a", "archivo", []float32{1, 0, 0})
	addEntry(t, store, "b", "archivo", []float32{0, 1, 0})

	results, err := store.QueryVector(context.Background(), "archivo", []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("QueryVector: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}
	if results[0].Entry.ID != "a" {
		t.Errorf("closest = %q, want a", results[0].Entry.ID)
	}
	if results[0].Similarity <= results[1].Similarity {
		t.Error("results not ordered by similarity")
	}
}

func TestQueryScopedToOwner(t *testing.T) {
	store, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	addEntry(t, store, "a", "archivo", []float32{1, 0, 0})
	addEntry(t, store, "b", "otro", []float32{1, 0, 0})

	results, err := store.QueryVector(context.Background(), "archivo", []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("QueryVector: %v", err)
	}
	if len(results) != 1 || results[0].Entry.OwnerID != "archivo" {
		t.Fatalf("results = %+v, want only archivo's entry", results)
	}
}

func TestAddRejectsWrongDimensions(t *testing.T) {
	store, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = store.Add(context.Background(), Entry{ID: "a", OwnerID: "archivo"}, []float32{1, 0})
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestDelete(t *testing.T) {
	store, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	addEntry(t, store, "a", "archivo", []float32{1, 0, 0})
	if err := store.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.Count() != 0 {
		t.Errorf("Count = %d after delete", store.Count())
	}
}

func TestPersistAndLoad(t *testing.T) {
	dir := t.TempDir()

	store, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	addEntry(t, store, "a", "archivo", []float32{1, 0, 0})

	if err := store.Persist(dir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	restored, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := restored.Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if restored.Count() != 1 {
		t.Fatalf("Count = %d after load, want 1", restored.Count())
	}

	results, err := restored.QueryVector(context.Background(), "archivo", []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("QueryVector: %v", err)
	}
	if len(results) != 1 || results[0].Entry.ID != "a" {
		t.Fatalf("results = %+v", results)
	}
}
