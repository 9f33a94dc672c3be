package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcastellanos/legajo/internal/audit"
	"github.com/jcastellanos/legajo/internal/db"
	"github.com/jcastellanos/legajo/internal/document"
	"github.com/jcastellanos/legajo/internal/metrics"
	"github.com/jcastellanos/legajo/internal/relation"
	"github.com/jcastellanos/legajo/internal/search"
	"github.com/jcastellanos/legajo/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the legajo archive server",
	Long:  `Starts the legajo HTTP server: document CRUD, relation detection, lexical and semantic search, statistics and the audit trail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		extractor, embedder, err := newOracles(cfg)
		if err != nil {
			return err
		}

		store, vectorDir, err := openVectorStore(cfg, embedder.Dimensions(), log)
		if err != nil {
			return err
		}

		database, err := db.Open(dbPath(cfg))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		m := metrics.New()
		docs := document.NewStore(database)
		auditStore := audit.NewStore(database)
		lexical := search.NewLexical(database)
		oracleTimeout := time.Duration(cfg.Oracle.TimeoutSeconds) * time.Second
		semantic := search.NewSemantic(embedder, store, docs, lexical, oracleTimeout, log)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := server.New(server.Config{
			Port:     port,
			AllowAll: cfg.Server.AllowAll,
		}, server.Deps{
			DB: database,
			Documents: document.Deps{
				Store:         docs,
				Extractor:     extractor,
				Embedder:      embedder,
				Vectors:       store,
				Classify:      relation.Classify,
				Audit:         auditStore,
				Metrics:       m,
				Log:           log,
				OracleTimeout: oracleTimeout,
			},
			Search: search.Deps{
				Lexical:  lexical,
				Semantic: semantic,
				Metrics:  m,
				Log:      log,
			},
			Audit:   auditStore,
			Metrics: m,
			Log:     log,
		})

		// Graceful shutdown; vectors are persisted before the process exits.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			log.Info().Msg("shutting down server")
			if err := srv.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("shutdown failed")
			}
			if err := store.Persist(vectorDir); err != nil {
				log.Error().Err(err).Msg("persisting vector store failed")
			}
		}()

		log.Info().
			Str("version", Version).
			Int("port", port).
			Str("database", dbPath(cfg)).
			Int("vectors", store.Count()).
			Msg("legajo server starting")

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
