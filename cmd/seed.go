package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"belcit-backend/database"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the chart of accounts, payment methods and admin user",
	RunE: func(cmd *cobra.Command, args []string) error {
		database.Connect()
		if err := database.Migrate(); err != nil {
			return err
		}
		if err := database.Seed(); err != nil {
			return err
		}
		log.Info().Msg("seed complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
