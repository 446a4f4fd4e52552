// Package main provides the paper-catalog server and maintenance commands.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "paper-catalog",
	Short: "Research paper catalog backed by OpenAlex",
	Long: `paper-catalog keeps a personal catalog of research papers.

Papers can be added by hand or imported from OpenAlex. Running without a
subcommand starts the HTTP API, the same as "paper-catalog serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.Version = Version
}
