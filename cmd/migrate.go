package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"belcit-backend/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		database.Connect()
		if err := database.Migrate(); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
