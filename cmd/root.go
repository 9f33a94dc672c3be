package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "legajo",
	Short: "Document management for historical manuscript archives",
	Long: `Legajo manages digitized historical manuscripts: it extracts archival
metadata and entities from transcriptions using AI, detects duplicates
and same-dossier relations between documents, and serves lexical and
semantic search over each archive.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".legajo.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
