// Package vectordb stores manuscript embeddings and serves k-NN queries.
package vectordb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	chromem "github.com/philippgille/chromem-go"
)

const collectionName = "manuscripts"

// Entry is the slice of a document the vector store keeps alongside its
// embedding: enough to render a search hit without a second fetch.
type Entry struct {
	ID        string
	OwnerID   string
	Title     string
	Summary   string
	CreatedAt time.Time
}

// Result pairs an entry with its similarity to the query vector
// (1 - cosine distance, unclamped).
type Result struct {
	Entry      Entry
	Similarity float32
}

// Store is a chromem-go backed vector index. Vectors are always supplied by
// the caller; the store never calls an embedding oracle itself.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	dims       int
}

// New creates an in-memory Store for vectors of the given dimensionality.
func New(dims int) (*Store, error) {
	db := chromem.NewDB()

	// Vectors are precomputed by the embedding oracle; reaching this
	// function means a document was added without one.
	noEmbed := func(ctx context.Context, text string) ([]float32, error) {
		return nil, fmt.Errorf("vector store requires precomputed embeddings")
	}

	col, err := db.GetOrCreateCollection(collectionName, nil, noEmbed)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Store{db: db, collection: col, dims: dims}, nil
}

// Add stores or replaces the vector for one document.
func (s *Store) Add(ctx context.Context, entry Entry, vector []float32) error {
	if len(vector) != s.dims {
		return fmt.Errorf("vector has %d dimensions, store expects %d", len(vector), s.dims)
	}

	doc := chromem.Document{
		ID:        entry.ID,
		Content:   entry.Title,
		Embedding: vector,
		Metadata: map[string]string{
			"owner_id":   entry.OwnerID,
			"title":      entry.Title,
			"summary":    entry.Summary,
			"created_at": entry.CreatedAt.Format(time.RFC3339Nano),
		},
	}

	return s.collection.AddDocument(ctx, doc)
}

// QueryVector returns up to limit entries owned by ownerID, ordered by
// descending similarity to the query vector. The caller must clamp limit to
// the number of embedded documents the owner has.
func (s *Store) QueryVector(ctx context.Context, ownerID string, vector []float32, limit int) ([]Result, error) {
	if limit <= 0 {
		return nil, nil
	}
	if count := s.collection.Count(); limit > count {
		limit = count
	}
	if limit == 0 {
		return nil, nil
	}

	where := map[string]string{"owner_id": ownerID}
	results, err := s.collection.QueryEmbedding(ctx, vector, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	out := make([]Result, len(results))
	for i, r := range results {
		createdAt, _ := time.Parse(time.RFC3339Nano, r.Metadata["created_at"])
		out[i] = Result{
			Entry: Entry{
				ID:        r.ID,
				OwnerID:   r.Metadata["owner_id"],
				Title:     r.Metadata["title"],
				Summary:   r.Metadata["summary"],
				CreatedAt: createdAt,
			},
			Similarity: r.Similarity,
		}
	}
	return out, nil
}

// Delete removes a document's vector. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.collection.Delete(ctx, nil, nil, id)
	if err != nil {
		return fmt.Errorf("vector delete: %w", err)
	}
	return nil
}

// Count returns the number of stored vectors across all owners.
func (s *Store) Count() int {
	return s.collection.Count()
}

// Persist saves the index to the given directory, creating it if needed.
func (s *Store) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create vector directory: %w", err)
	}
	return s.db.ExportToFile(filepath.Join(dir, "vectors.gob.gz"), true, "")
}

// Load restores the index from the given directory.
func (s *Store) Load(dir string) error {
	if err := s.db.ImportFromFile(filepath.Join(dir, "vectors.gob.gz"), ""); err != nil {
		return fmt.Errorf("import vector index: %w", err)
	}

	// Re-acquire the collection reference after import.
	col := s.db.GetCollection(collectionName, nil)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col
	return nil
}
