// Package mcp exposes the archive over the Model Context Protocol so AI
// agents can search manuscripts and inspect their relations.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/jcastellanos/legajo/internal/document"
	"github.com/jcastellanos/legajo/internal/search"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes archive search tools.
type Server struct {
	store    *document.Store
	lexical  *search.Lexical
	semantic *search.Semantic
	classify document.ClassifyFunc
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies. The
// semantic ranker may be nil when no embedding oracle is configured; the
// search tool then serves every query lexically.
func NewServer(store *document.Store, lexical *search.Lexical, semantic *search.Semantic, classify document.ClassifyFunc) *Server {
	s := &Server{
		store:    store,
		lexical:  lexical,
		semantic: semantic,
		classify: classify,
	}

	s.mcp = server.NewMCPServer(
		"legajo",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchDocumentsTool, s.handleSearchDocuments)
	s.mcp.AddTool(getDocumentTool, s.handleGetDocument)
	s.mcp.AddTool(getRelationsTool, s.handleGetRelations)
	s.mcp.AddTool(archiveStatsTool, s.handleArchiveStats)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
