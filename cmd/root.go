package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "belcit",
	Short: "BelCit back-office API and ledger",
	Long: `BelCit runs the market back-office: bill generation, payments,
double-entry ledger postings and reporting. Subcommands run the API
server, apply database migrations and seed reference data.`,
}

func Execute() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
