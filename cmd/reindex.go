package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jcastellanos/legajo/internal/audit"
	"github.com/jcastellanos/legajo/internal/db"
	"github.com/jcastellanos/legajo/internal/document"
	"github.com/jcastellanos/legajo/internal/progress"
	"github.com/jcastellanos/legajo/internal/vectordb"
)

var reindexStaleOnly bool

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Re-embed documents into the vector store",
	Long: `Re-embeds document transcriptions with the configured embedding oracle
and rebuilds the vector store. Use --stale to only re-embed documents whose
content was corrected since their last embedding.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		_, embedder, err := newOracles(cfg)
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

		docs := document.NewStore(database)
		auditStore := audit.NewStore(database)
		ctx := context.Background()

		all, err := docs.ListAll(ctx)
		if err != nil {
			return err
		}

		batch := all
		if reindexStaleOnly {
			batch = batch[:0]
			for _, doc := range all {
				if doc.EmbeddingStale || !doc.Embedded {
					batch = append(batch, doc)
				}
			}
		}
		if len(batch) == 0 {
			fmt.Println("Nothing to reindex.")
			return nil
		}

		reporter := progress.NewReporter()
		reporter.Start(len(batch))

		var failed int
		perOwner := map[string]int{}
		for i, doc := range batch {
			reporter.Update(i+1, doc.Title)

			vector, err := embedder.EmbedOne(ctx, doc.Content)
			if err != nil {
				failed++
				log.Warn().Err(err).Str("document", doc.ID).Msg("embedding failed")
				continue
			}

			entry := vectordb.Entry{
				ID:        doc.ID,
				OwnerID:   doc.OwnerID,
				Title:     doc.Title,
				Summary:   doc.Summary(),
				CreatedAt: doc.CreatedAt,
			}
			if err := store.Add(ctx, entry, vector); err != nil {
				failed++
				log.Error().Err(err).Str("document", doc.ID).Msg("storing vector failed")
				continue
			}
			if err := docs.SetEmbedded(ctx, doc.OwnerID, doc.ID, true); err != nil {
				log.Error().Err(err).Str("document", doc.ID).Msg("flagging embedding failed")
			}
			perOwner[doc.OwnerID]++
		}
		reporter.Finish()

		if err := store.Persist(vectorDir); err != nil {
			return fmt.Errorf("persisting vector store: %w", err)
		}

		for owner, count := range perOwner {
			if err := auditStore.Log(ctx, audit.Entry{
				OwnerID: owner,
				Action:  audit.ActionReindexed,
				Detail:  fmt.Sprintf("%d documents", count),
			}); err != nil {
				log.Error().Err(err).Msg("audit log failed")
			}
		}

		fmt.Printf("Reindexed %d documents (%d failed).\n", len(batch)-failed, failed)
		return nil
	},
}

func init() {
	reindexCmd.Flags().BoolVar(&reindexStaleOnly, "stale", false, "only re-embed stale or missing vectors")
	rootCmd.AddCommand(reindexCmd)
}
