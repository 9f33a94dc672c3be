package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jcastellanos/legajo/internal/document"
	"github.com/jcastellanos/legajo/internal/search"
	"github.com/jcastellanos/legajo/internal/stats"
)

// handleSearchDocuments runs a lexical or semantic search over one archive.
func (s *Server) handleSearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, err := request.RequireString("owner")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: owner"), nil
	}
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	mode := request.GetString("mode", string(search.ModeLexical))
	limit := request.GetInt("limit", search.DefaultLimit)

	var (
		results  []search.Result
		degraded bool
	)
	switch search.Mode(mode) {
	case search.ModeLexical:
		results, err = s.lexical.Search(ctx, owner, query, limit)
	case search.ModeSemantic:
		if s.semantic == nil {
			results, err = s.lexical.Search(ctx, owner, query, limit)
			degraded = true
			break
		}
		results, degraded, err = s.semantic.Search(ctx, owner, query, limit)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown mode %q", mode)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No results found."), nil
	}

	return mcp.NewToolResultText(formatSearchResults(results, degraded)), nil
}

// handleGetDocument returns one manuscript's full record.
func (s *Server) handleGetDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, err := request.RequireString("owner")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: owner"), nil
	}
	id, err := request.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: document_id"), nil
	}

	doc, err := s.store.GetByID(ctx, owner, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetch failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatDocument(doc)), nil
}

// handleGetRelations classifies one manuscript against its archive.
func (s *Server) handleGetRelations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, err := request.RequireString("owner")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: owner"), nil
	}
	id, err := request.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: document_id"), nil
	}

	doc, err := s.store.GetByID(ctx, owner, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetch failed: %v", err)), nil
	}

	all, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing archive failed: %v", err)), nil
	}
	corpus := make([]document.Document, 0, len(all))
	for _, d := range all {
		if d.ID != doc.ID {
			corpus = append(corpus, d)
		}
	}

	relations := s.classify(*doc, corpus)
	if len(relations) == 0 {
		return mcp.NewToolResultText("No related documents found."), nil
	}

	return mcp.NewToolResultText(formatRelations(relations)), nil
}

// handleArchiveStats aggregates one archive for a dashboard-style summary.
func (s *Server) handleArchiveStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, err := request.RequireString("owner")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: owner"), nil
	}
	top := request.GetInt("top", stats.DefaultTopN)

	batch, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing archive failed: %v", err)), nil
	}
	if len(batch) == 0 {
		return mcp.NewToolResultText("The archive is empty."), nil
	}

	summary, err := stats.Reduce(batch, nil, top)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("aggregation failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatStats(summary)), nil
}

// formatSearchResults converts ranked hits into a text block for agent
// consumption.
func formatSearchResults(results []search.Result, degraded bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n", len(results)))
	if degraded {
		sb.WriteString("(semantic search unavailable, served lexically)\n")
	}

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Document: %s\n", r.ID))
		if r.Title != "" {
			sb.WriteString(fmt.Sprintf("Title: %s\n", r.Title))
		}
		sb.WriteString(fmt.Sprintf("Score: %.3f\n", r.Score))
		if r.Summary != "" {
			sb.WriteString("\n")
			sb.WriteString(r.Summary)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func formatDocument(doc *document.Document) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Document: %s\n", doc.ID))
	sb.WriteString(fmt.Sprintf("Title: %s\n", doc.Title))
	sb.WriteString(fmt.Sprintf("Created: %s\n", doc.CreatedAt.Format("2006-01-02")))

	if len(doc.Fields) > 0 {
		sb.WriteString("\nFields:\n")
		for _, name := range []document.FieldName{
			document.FieldTypology,
			document.FieldLanguage,
			document.FieldScriptType,
			document.FieldSuggestedSeries,
			document.FieldSummary,
		} {
			if fv, ok := doc.Fields[name]; ok && fv.Value != "" {
				sb.WriteString(fmt.Sprintf("  %s: %s (confidence %.2f)\n", name, fv.Value, fv.Confidence))
			}
		}
	}

	for _, cat := range []document.EntityCategory{
		document.EntityPeople,
		document.EntityLocations,
		document.EntityOrganizations,
		document.EntityDates,
		document.EntityEvents,
		document.EntityKeywords,
	} {
		if values := doc.Entities.Values(cat); len(values) > 0 {
			sb.WriteString(fmt.Sprintf("%s: %s\n", cat, strings.Join(values, ", ")))
		}
	}

	sb.WriteString("\nTranscription:\n")
	sb.WriteString(doc.Content)
	sb.WriteString("\n")
	return sb.String()
}

func formatRelations(relations []document.RelationMatch) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d related document(s):\n", len(relations)))
	for i, rel := range relations {
		sb.WriteString(fmt.Sprintf("\n--- Relation %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Document: %s\n", rel.CandidateID))
		sb.WriteString(fmt.Sprintf("Kind: %s\n", rel.Kind))
		sb.WriteString(fmt.Sprintf("Score: %d\n", rel.Score))
		if len(rel.Rationale) > 0 {
			sb.WriteString(fmt.Sprintf("Because: %s\n", strings.Join(rel.Rationale, "; ")))
		}
	}
	return sb.String()
}

func formatStats(summary *stats.Summary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Documents: %d\n", summary.Documents))

	if len(summary.Typologies) > 0 {
		sb.WriteString("\nTypologies:\n")
		for value, count := range summary.Typologies {
			sb.WriteString(fmt.Sprintf("  %s: %d\n", value, count))
		}
	}
	if len(summary.Languages) > 0 {
		sb.WriteString("\nLanguages:\n")
		for value, count := range summary.Languages {
			sb.WriteString(fmt.Sprintf("  %s: %d\n", value, count))
		}
	}
	for cat, ranked := range summary.TopEntities {
		if len(ranked) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\nTop %s:\n", cat))
		for _, entry := range ranked {
			sb.WriteString(fmt.Sprintf("  %s (%d)\n", entry.Value, entry.Count))
		}
	}
	return sb.String()
}
