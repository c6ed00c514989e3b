package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/movieetl/internal/moviecmd"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movieetl",
		Short: "Movie metadata ETL and KPI tool",
		Long: `movieetl fetches movie metadata from the TMDB API, cleans it into a tabular
dataset, and reports rankings and aggregates over it.

Settings are read from the environment (API_KEY, TMDB_BASE_URL, RAW_DATA_DIR)
and from a .env file in the working directory when present.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(moviecmd.NewFetchCmd())
	cmd.AddCommand(moviecmd.NewCleanCmd())
	cmd.AddCommand(moviecmd.NewKPICmd())
	cmd.AddCommand(moviecmd.NewSearchCmd())
	cmd.AddCommand(moviecmd.NewRunCmd())

	return cmd
}
