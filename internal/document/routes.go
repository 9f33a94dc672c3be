package document

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/jcastellanos/legajo/internal/apperr"
	"github.com/jcastellanos/legajo/internal/audit"
	"github.com/jcastellanos/legajo/internal/httpapi"
	"github.com/jcastellanos/legajo/internal/metrics"
	"github.com/jcastellanos/legajo/internal/vectordb"
)

// Extractor is the extraction oracle as the routes consume it.
type Extractor interface {
	Extract(ctx context.Context, title, content string) (*Analysis, error)
}

// Embedder is the embedding oracle as the routes consume it.
type Embedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex is the vector store surface the routes need.
type VectorIndex interface {
	Add(ctx context.Context, entry vectordb.Entry, vector []float32) error
	Delete(ctx context.Context, id string) error
}

// ClassifyFunc relates a target document to a candidate corpus. The corpus
// must not contain the target.
type ClassifyFunc func(target Document, corpus []Document) []RelationMatch

// Deps wires the document routes.
type Deps struct {
	Store     *Store
	Extractor Extractor
	Embedder  Embedder
	Vectors   VectorIndex
	Classify  ClassifyFunc
	Audit     *audit.Store
	Metrics   *metrics.Metrics
	Log       zerolog.Logger

	// OracleTimeout bounds each oracle call during document creation.
	OracleTimeout time.Duration
}

// RegisterRoutes mounts the document endpoints under /api/documents.
func RegisterRoutes(r chi.Router, deps Deps) {
	if deps.OracleTimeout <= 0 {
		deps.OracleTimeout = 8 * time.Second
	}

	r.Route("/api/documents", func(r chi.Router) {
		r.Post("/", handleCreate(deps))
		r.Get("/", handleList(deps))
		r.Get("/{id}", handleGet(deps))
		r.Delete("/{id}", handleDelete(deps))
		r.Put("/{id}/content", handleContentCorrection(deps))
		r.Put("/{id}/fields", handleFieldCorrection(deps))
		r.Get("/{id}/relations", handleRelations(deps))
	})
}

type createRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type createResponse struct {
	Document        *Document       `json:"document"`
	Relations       []RelationMatch `json:"relations"`
	AnalysisPending bool            `json:"analysisPending"`
}

// handleCreate persists a new manuscript and runs the downstream pipeline:
// extraction, embedding, relation classification. Oracle failures degrade
// the result (analysis pending, no vector) but never fail the creation.
func handleCreate(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpapi.WriteError(w, apperr.Validationf("malformed body: %v", err))
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			httpapi.WriteError(w, apperr.Validationf("content must not be empty"))
			return
		}

		owner := httpapi.Owner(r)
		ctx := r.Context()

		doc, err := deps.Store.Create(ctx, Document{
			OwnerID: owner,
			Title:   req.Title,
			Content: req.Content,
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		deps.Metrics.DocumentsCreatedTotal.Inc()

		analysisPending := !deps.runExtraction(ctx, doc)
		deps.runEmbedding(ctx, doc)

		relations, err := deps.relationsFor(ctx, doc)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}

		if err := deps.Audit.Log(ctx, audit.Entry{
			OwnerID:    owner,
			DocumentID: doc.ID,
			Action:     audit.ActionDocumentCreated,
			Detail:     doc.Title,
		}); err != nil {
			deps.Log.Error().Err(err).Msg("audit log failed")
		}

		httpapi.WriteJSON(w, http.StatusCreated, createResponse{
			Document:        doc,
			Relations:       relations,
			AnalysisPending: analysisPending,
		})
	}
}

// runExtraction calls the extraction oracle and stores its output. Returns
// false when analysis is still pending after a failure.
func (deps Deps) runExtraction(ctx context.Context, doc *Document) bool {
	oracleCtx, cancel := context.WithTimeout(ctx, deps.OracleTimeout)
	defer cancel()

	analysis, err := deps.Extractor.Extract(oracleCtx, doc.Title, doc.Content)
	if err != nil {
		deps.Log.Warn().Err(err).Str("document", doc.ID).
			Msg("extraction failed, analysis pending")
		return false
	}

	updated, err := deps.Store.SetAnalysis(ctx, doc.OwnerID, doc.ID, *analysis)
	if err != nil {
		deps.Log.Error().Err(err).Str("document", doc.ID).Msg("storing analysis failed")
		return false
	}
	*doc = *updated

	if suggestion := doc.Field(FieldTitleSuggestion).Value; doc.Title == "" && suggestion != "" {
		doc.Title = suggestion
		if err := deps.Store.update(ctx, doc); err != nil {
			deps.Log.Error().Err(err).Str("document", doc.ID).Msg("applying title suggestion failed")
		}
	}
	return true
}

// runEmbedding embeds the content and stores the vector. Failures leave the
// document out of semantic search until a reindex run.
func (deps Deps) runEmbedding(ctx context.Context, doc *Document) {
	oracleCtx, cancel := context.WithTimeout(ctx, deps.OracleTimeout)
	defer cancel()

	vector, err := deps.Embedder.EmbedOne(oracleCtx, doc.Content)
	if err != nil || len(vector) == 0 {
		deps.Log.Warn().Err(err).Str("document", doc.ID).
			Msg("embedding failed, document excluded from semantic search")
		return
	}

	entry := vectordb.Entry{
		ID:        doc.ID,
		OwnerID:   doc.OwnerID,
		Title:     doc.Title,
		Summary:   doc.Summary(),
		CreatedAt: doc.CreatedAt,
	}
	if err := deps.Vectors.Add(ctx, entry, vector); err != nil {
		deps.Log.Error().Err(err).Str("document", doc.ID).Msg("storing vector failed")
		return
	}
	if err := deps.Store.SetEmbedded(ctx, doc.OwnerID, doc.ID, true); err != nil {
		deps.Log.Error().Err(err).Str("document", doc.ID).Msg("flagging embedding failed")
	} else {
		doc.Embedded = true
		doc.EmbeddingStale = false
	}
}

// relationsFor classifies a document against the rest of the owner's corpus.
func (deps Deps) relationsFor(ctx context.Context, doc *Document) ([]RelationMatch, error) {
	all, err := deps.Store.ListByOwner(ctx, doc.OwnerID)
	if err != nil {
		return nil, err
	}

	corpus := make([]Document, 0, len(all))
	for _, d := range all {
		if d.ID != doc.ID {
			corpus = append(corpus, d)
		}
	}

	relations := deps.Classify(*doc, corpus)
	if relations == nil {
		relations = []RelationMatch{}
	}
	deps.Metrics.RelationsComputed.Observe(float64(len(relations)))
	return relations, nil
}

func handleList(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := deps.Store.ListByOwner(r.Context(), httpapi.Owner(r))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		if docs == nil {
			docs = []Document{}
		}
		httpapi.WriteJSON(w, http.StatusOK, docs)
	}
}

func handleGet(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := deps.Store.GetByID(r.Context(), httpapi.Owner(r), chi.URLParam(r, "id"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, doc)
	}
}

func handleDelete(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := httpapi.Owner(r)
		id := chi.URLParam(r, "id")
		ctx := r.Context()

		if err := deps.Store.Delete(ctx, owner, id); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		if err := deps.Vectors.Delete(ctx, id); err != nil {
			deps.Log.Error().Err(err).Str("document", id).Msg("deleting vector failed")
		}

		if err := deps.Audit.Log(ctx, audit.Entry{
			OwnerID:    owner,
			DocumentID: id,
			Action:     audit.ActionDocumentDeleted,
		}); err != nil {
			deps.Log.Error().Err(err).Msg("audit log failed")
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type contentCorrectionRequest struct {
	Content string `json:"content"`
}

func handleContentCorrection(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contentCorrectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpapi.WriteError(w, apperr.Validationf("malformed body: %v", err))
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			httpapi.WriteError(w, apperr.Validationf("content must not be empty"))
			return
		}

		owner := httpapi.Owner(r)
		id := chi.URLParam(r, "id")
		ctx := r.Context()

		doc, err := deps.Store.UpdateContent(ctx, owner, id, req.Content)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}

		if err := deps.Audit.Log(ctx, audit.Entry{
			OwnerID:    owner,
			DocumentID: id,
			Action:     audit.ActionContentCorrected,
		}); err != nil {
			deps.Log.Error().Err(err).Msg("audit log failed")
		}

		httpapi.WriteJSON(w, http.StatusOK, doc)
	}
}

type fieldCorrectionRequest struct {
	Field FieldName `json:"field"`
	Value string    `json:"value"`
}

func handleFieldCorrection(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fieldCorrectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpapi.WriteError(w, apperr.Validationf("malformed body: %v", err))
			return
		}

		owner := httpapi.Owner(r)
		id := chi.URLParam(r, "id")
		ctx := r.Context()

		doc, err := deps.Store.ApplyFieldCorrection(ctx, owner, id, req.Field, req.Value)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}

		if err := deps.Audit.Log(ctx, audit.Entry{
			OwnerID:    owner,
			DocumentID: id,
			Action:     audit.ActionFieldCorrected,
			Detail:     string(req.Field),
		}); err != nil {
			deps.Log.Error().Err(err).Msg("audit log failed")
		}

		httpapi.WriteJSON(w, http.StatusOK, doc)
	}
}

type relationsResponse struct {
	Relations []RelationMatch `json:"relations"`
}

func handleRelations(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := deps.Store.GetByID(r.Context(), httpapi.Owner(r), chi.URLParam(r, "id"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}

		relations, err := deps.relationsFor(r.Context(), doc)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}

		httpapi.WriteJSON(w, http.StatusOK, relationsResponse{Relations: relations})
	}
}
