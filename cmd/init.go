package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jcastellanos/legajo/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize legajo configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure legajo for your archive and generates a .legajo.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
