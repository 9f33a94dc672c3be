package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchDocumentsTool defines the search_documents MCP tool.
var searchDocumentsTool = mcp.NewTool("search_documents",
	mcp.WithDescription("Search an archive's manuscripts. Lexical mode matches transcription text; semantic mode ranks by embedding similarity and falls back to lexical when the embedding service is unavailable."),
	mcp.WithString("owner",
		mcp.Required(),
		mcp.Description("Archive owner identifier"),
	),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Search query text"),
	),
	mcp.WithString("mode",
		mcp.Description("Ranking mode (default lexical)"),
		mcp.Enum("lexical", "semantic"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10, max 50)"),
	),
)

// getDocumentTool defines the get_document MCP tool.
var getDocumentTool = mcp.NewTool("get_document",
	mcp.WithDescription("Get a manuscript's full record: transcription, extracted fields, entities and geodata."),
	mcp.WithString("owner",
		mcp.Required(),
		mcp.Description("Archive owner identifier"),
	),
	mcp.WithString("document_id",
		mcp.Required(),
		mcp.Description("Document identifier"),
	),
)

// getRelationsTool defines the get_relations MCP tool.
var getRelationsTool = mcp.NewTool("get_relations",
	mcp.WithDescription("Classify a manuscript against the rest of its archive and return likely duplicates and same-dossier documents with scores and rationales."),
	mcp.WithString("owner",
		mcp.Required(),
		mcp.Description("Archive owner identifier"),
	),
	mcp.WithString("document_id",
		mcp.Required(),
		mcp.Description("Document identifier"),
	),
)

// archiveStatsTool defines the archive_stats MCP tool.
var archiveStatsTool = mcp.NewTool("archive_stats",
	mcp.WithDescription("Aggregate an archive: document count, typology and language distributions, and top entities."),
	mcp.WithString("owner",
		mcp.Required(),
		mcp.Description("Archive owner identifier"),
	),
	mcp.WithNumber("top",
		mcp.Description("Size of each entity ranking (default 10)"),
	),
)
