package audit

import (
	"context"
	"testing"
	"time"

	"github.com/jcastellanos/legajo/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestLogAndQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		{OwnerID: "archivo", DocumentID: "doc-1", Action: ActionDocumentCreated, Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{OwnerID: "archivo", DocumentID: "doc-1", Action: ActionFieldCorrected, Detail: "language", Timestamp: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		{OwnerID: "otro", DocumentID: "doc-2", Action: ActionDocumentCreated, Timestamp: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, e := range entries {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	got, err := store.Query(ctx, QueryFilter{OwnerID: "archivo"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Action != ActionFieldCorrected {
		t.Errorf("expected most recent entry first, got %q", got[0].Action)
	}
	if got[0].ID == "" {
		t.Error("expected generated entry ID")
	}
}

func TestQueryFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i, action := range []Action{ActionDocumentCreated, ActionContentCorrected, ActionDocumentDeleted} {
		if err := store.Log(ctx, Entry{
			OwnerID:    "archivo",
			DocumentID: "doc-1",
			Action:     action,
			Timestamp:  time.Date(2026, 1, i+1, 0, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	got, err := store.Query(ctx, QueryFilter{OwnerID: "archivo", Action: ActionContentCorrected})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}

	got, err = store.Query(ctx, QueryFilter{OwnerID: "archivo", Limit: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 with limit", len(got))
	}
}
