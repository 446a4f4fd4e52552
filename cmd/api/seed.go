package main

import (
	"errors"
	"fmt"

	"paper_catalog_go_backend/internal/services"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	seedQuery string
	seedCount int
)

func init() {
	seedCmd.Flags().StringVar(&seedQuery, "query", services.DefaultSeedQuery, "OpenAlex search used to pick papers")
	seedCmd.Flags().IntVar(&seedCount, "count", services.DefaultSeedCount, "number of most cited works to insert")
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty catalog with highly cited OpenAlex works",
	Long: `Fill an empty catalog with the most cited OpenAlex works for a query.

Nothing happens when the catalog already holds papers.`,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := log.Logger.WithContext(cmd.Context())
	result, err := services.NewSeedService(a.openalex, a.papers).Seed(ctx, seedQuery, seedCount)
	switch {
	case errors.Is(err, services.ErrNothingToSeed):
		fmt.Fprintf(cmd.OutOrStdout(), "No OpenAlex works found for %q\n", seedQuery)
		return nil
	case err != nil:
		return err
	case result.Skipped:
		fmt.Fprintf(cmd.OutOrStdout(), "Database already has %d papers. Skipping seed.\n", result.Existing)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d papers to the catalog.\n", result.Inserted)
	}
	return nil
}
