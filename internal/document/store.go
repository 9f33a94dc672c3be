package document

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcastellanos/legajo/internal/apperr"
	"github.com/jcastellanos/legajo/internal/db"
)

// Store provides owner-scoped CRUD over manuscript records. Every write also
// maintains the documents_fts full-text shadow row.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create persists a new document. If doc.ID is empty a UUID is generated;
// CreatedAt is stamped if zero. Returns the stored document.
func (s *Store) Create(ctx context.Context, doc Document) (*Document, error) {
	if strings.TrimSpace(doc.OwnerID) == "" {
		return nil, apperr.Validationf("ownerId is required")
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.Fields == nil {
		doc.Fields = map[FieldName]FieldValue{}
	}
	if doc.Entities == nil {
		doc.Entities = Entities{}
	}

	fields, entities, geodata, err := marshalAnalysis(doc.Fields, doc.Entities, doc.Geodata)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (
			id, owner_id, title, content, extracted_fields, entities,
			geodata, embedded, embedding_stale, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.OwnerID, doc.Title, doc.Content,
		fields, entities, geodata,
		boolToInt(doc.Embedded), boolToInt(doc.EmbeddingStale),
		doc.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting document: %w", err)
	}

	if err := upsertFTS(ctx, tx, &doc); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing document insert: %w", err)
	}
	return &doc, nil
}

// GetByID retrieves a document owned by ownerID. A missing row and a row
// owned by someone else are the same apperr.ErrNotFound: ownership is never
// revealed across users.
func (s *Store) GetByID(ctx context.Context, ownerID, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, content, extracted_fields, entities,
			   geodata, embedded, embedding_stale, created_at
		FROM documents WHERE id = ? AND owner_id = ?`, id, ownerID)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, apperr.ErrNotFound)
	}
	return doc, err
}

// ListByOwner returns all documents owned by ownerID, most recent first.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, title, content, extracted_fields, entities,
			   geodata, embedded, embedding_stale, created_at
		FROM documents WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// GetByIDs fetches a batch of owner-scoped documents. Any id that does not
// resolve yields apperr.ErrNotFound.
func (s *Store) GetByIDs(ctx context.Context, ownerID string, ids []string) ([]Document, error) {
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		doc, err := s.GetByID(ctx, ownerID, id)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// UpdateContent applies a user transcription correction. The stored
// embedding is left in place but flagged stale; semantic search keeps
// serving it until a reindex run.
func (s *Store) UpdateContent(ctx context.Context, ownerID, id, content string) (*Document, error) {
	doc, err := s.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	doc.Content = content
	if doc.Embedded {
		doc.EmbeddingStale = true
	}
	return doc, s.update(ctx, doc)
}

// ApplyFieldCorrection records a human correction on one extracted field.
// The field name must belong to the closed editable set; the corrected
// value carries confidence 1.0.
func (s *Store) ApplyFieldCorrection(ctx context.Context, ownerID, id string, field FieldName, value string) (*Document, error) {
	if !EditableFields[field] {
		return nil, apperr.Validationf("unknown field %q", field)
	}

	doc, err := s.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if doc.Fields == nil {
		doc.Fields = map[FieldName]FieldValue{}
	}
	doc.Fields[field] = FieldValue{Value: value, Confidence: HumanConfidence}
	return doc, s.update(ctx, doc)
}

// SetAnalysis writes the extraction oracle's output onto a document. Human
// corrections (confidence exactly 1.0) already present are preserved:
// confidence is never reset downward by the oracle.
func (s *Store) SetAnalysis(ctx context.Context, ownerID, id string, analysis Analysis) (*Document, error) {
	doc, err := s.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	merged := analysis.Fields
	if merged == nil {
		merged = map[FieldName]FieldValue{}
	}
	for name, fv := range doc.Fields {
		if fv.Confidence == HumanConfidence {
			merged[name] = fv
		}
	}

	doc.Fields = merged
	doc.Entities = analysis.Entities
	if doc.Entities == nil {
		doc.Entities = Entities{}
	}
	doc.Geodata = analysis.Geodata
	return doc, s.update(ctx, doc)
}

// CountEmbedded returns how many of an owner's documents carry a vector.
func (s *Store) CountEmbedded(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE owner_id = ? AND embedded = 1`,
		ownerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting embedded documents: %w", err)
	}
	return n, nil
}

// ListAll returns every document across owners, oldest first, for reindex
// runs.
func (s *Store) ListAll(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, title, content, extracted_fields, entities,
			   geodata, embedded, embedding_stale, created_at
		FROM documents ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing all documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// SetEmbedded flags whether a current vector exists for the document.
func (s *Store) SetEmbedded(ctx context.Context, ownerID, id string, embedded bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET embedded = ?, embedding_stale = 0
		WHERE id = ? AND owner_id = ?`,
		boolToInt(embedded), id, ownerID)
	if err != nil {
		return fmt.Errorf("updating embedded flag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("document %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// Delete removes a document and its full-text row.
func (s *Store) Delete(ctx context.Context, ownerID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM documents WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("document %s: %w", id, apperr.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM documents_fts WHERE doc_id = ?`, id); err != nil {
		return fmt.Errorf("deleting full-text row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

// update rewrites a document row and its full-text shadow.
func (s *Store) update(ctx context.Context, doc *Document) error {
	fields, entities, geodata, err := marshalAnalysis(doc.Fields, doc.Entities, doc.Geodata)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE documents SET
			title = ?, content = ?, extracted_fields = ?, entities = ?,
			geodata = ?, embedded = ?, embedding_stale = ?
		WHERE id = ? AND owner_id = ?`,
		doc.Title, doc.Content, fields, entities, geodata,
		boolToInt(doc.Embedded), boolToInt(doc.EmbeddingStale),
		doc.ID, doc.OwnerID)
	if err != nil {
		return fmt.Errorf("updating document: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM documents_fts WHERE doc_id = ?`, doc.ID); err != nil {
		return fmt.Errorf("clearing full-text row: %w", err)
	}
	if err := upsertFTS(ctx, tx, doc); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing document update: %w", err)
	}
	return nil
}

// upsertFTS inserts the full-text shadow row for a document.
func upsertFTS(ctx context.Context, tx *sql.Tx, doc *Document) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO documents_fts (doc_id, owner_id, title, content, summary)
		VALUES (?, ?, ?, ?, ?)`,
		doc.ID, doc.OwnerID, doc.Title, doc.Content, doc.Summary())
	if err != nil {
		return fmt.Errorf("writing full-text row: %w", err)
	}
	return nil
}

func marshalAnalysis(fields map[FieldName]FieldValue, entities Entities, geodata []GeoPoint) (string, string, string, error) {
	f, err := json.Marshal(fields)
	if err != nil {
		return "", "", "", fmt.Errorf("marshalling extracted fields: %w", err)
	}
	e, err := json.Marshal(entities)
	if err != nil {
		return "", "", "", fmt.Errorf("marshalling entities: %w", err)
	}
	if geodata == nil {
		geodata = []GeoPoint{}
	}
	g, err := json.Marshal(geodata)
	if err != nil {
		return "", "", "", fmt.Errorf("marshalling geodata: %w", err)
	}
	return string(f), string(e), string(g), nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*Document, error) {
	var (
		doc                       Document
		fields, entities, geodata string
		embedded, stale           int
		createdAt                 string
	)

	err := row.Scan(
		&doc.ID, &doc.OwnerID, &doc.Title, &doc.Content,
		&fields, &entities, &geodata, &embedded, &stale, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if err := json.Unmarshal([]byte(fields), &doc.Fields); err != nil {
		return nil, fmt.Errorf("unmarshalling extracted fields: %w", err)
	}
	if err := json.Unmarshal([]byte(entities), &doc.Entities); err != nil {
		return nil, fmt.Errorf("unmarshalling entities: %w", err)
	}
	if err := json.Unmarshal([]byte(geodata), &doc.Geodata); err != nil {
		return nil, fmt.Errorf("unmarshalling geodata: %w", err)
	}

	doc.Embedded = embedded != 0
	doc.EmbeddingStale = stale != 0

	doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}

	return &doc, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
