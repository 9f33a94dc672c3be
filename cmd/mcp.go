package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcastellanos/legajo/internal/db"
	"github.com/jcastellanos/legajo/internal/document"
	mcpserver "github.com/jcastellanos/legajo/internal/mcp"
	"github.com/jcastellanos/legajo/internal/relation"
	"github.com/jcastellanos/legajo/internal/search"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing archive search and relation tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		database, err := db.Open(dbPath(cfg))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		docs := document.NewStore(database)
		lexical := search.NewLexical(database)

		// Semantic search is offered only when the embedding oracle can be
		// created; otherwise every query is served lexically.
		var semantic *search.Semantic
		_, embedder, err := newOracles(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\nSemantic search disabled.\n", err)
		} else {
			store, _, err := openVectorStore(cfg, embedder.Dimensions(), log)
			if err != nil {
				return err
			}
			timeout := time.Duration(cfg.Oracle.TimeoutSeconds) * time.Second
			semantic = search.NewSemantic(embedder, store, docs, lexical, timeout, log)
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "legajo MCP server started on stdio (database=%s)\n", dbPath(cfg))

		srv := mcpserver.NewServer(docs, lexical, semantic, relation.Classify)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
