package moviecmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/movieetl/internal/cleaning"
	"github.com/lehigh-university-libraries/movieetl/internal/config"
	"github.com/lehigh-university-libraries/movieetl/internal/kpi"
	"github.com/lehigh-university-libraries/movieetl/internal/report"
)

// fetchFlags are the settings overrides shared by fetch and run.
type fetchFlags struct {
	apiKey      string
	baseURL     string
	rawDataDir  string
	timeout     time.Duration
	concurrency int
}

func (f *fetchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "TMDB API key (default $API_KEY)")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "TMDB movie endpoint (default $TMDB_BASE_URL or "+config.DefaultBaseURL+")")
	cmd.Flags().StringVar(&f.rawDataDir, "raw-dir", "", "Directory for raw JSON records (default $RAW_DATA_DIR or "+config.DefaultRawDataDir+")")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Per-request timeout (default 30s)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Concurrent requests (default 4)")
}

// settings resolves the environment after .env has been loaded, then
// applies any flags the user set.
func (f *fetchFlags) settings(cmd *cobra.Command) (config.Settings, error) {
	s, err := config.Load()
	if err != nil {
		return s, err
	}
	if cmd.Flags().Changed("api-key") {
		s.APIKey = f.apiKey
	}
	if cmd.Flags().Changed("base-url") {
		s.BaseURL = f.baseURL
	}
	if cmd.Flags().Changed("raw-dir") {
		s.RawDataDir = f.rawDataDir
	}
	if cmd.Flags().Changed("timeout") {
		s.Timeout = f.timeout
	}
	if cmd.Flags().Changed("concurrency") {
		s.Concurrency = f.concurrency
	}
	return s, nil
}

// NewFetchCmd creates the fetch command
func NewFetchCmd() *cobra.Command {
	var flags fetchFlags
	var verbose bool

	cmd := &cobra.Command{
		Use:   "fetch [movie-id...]",
		Short: "Download movie records from the TMDB API",
		Long: `Download movie-detail records, with credits, from the TMDB API and save each
one as pretty-printed JSON named movie_<id>.json.

Ids may be given as arguments, separately or comma separated. Without ids the
stock list is fetched. Ids the API does not know are logged and skipped.`,
		Example: `  # Fetch the stock list into ./raw_data
  movieetl fetch

  # Fetch two movies into a custom directory
  movieetl fetch 299534,19995 --raw-dir ./data/raw`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(verbose)

			ids, err := config.ParseIDs(args)
			if err != nil {
				return err
			}
			settings, err := flags.settings(cmd)
			if err != nil {
				return err
			}

			n, err := executeFetch(cmd.Context(), settings, ids)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d movies to %s\n", n, settings.RawDataDir)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	return cmd
}

// NewCleanCmd creates the clean command
func NewCleanCmd() *cobra.Command {
	var opts cleanOptions
	var verbose bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean raw movie records into a tabular dataset",
		Long: `Normalize, coerce, sanitize, filter and project raw TMDB records.

The cleaned dataset is written to Parquet and, optionally, to a SQLite table.
Input is a directory of movie_<id>.json files, a JSONL file, or a JSON file.`,
		Example: `  # Clean ./raw_data into movies.parquet
  movieetl clean --input raw_data --output movies.parquet

  # Also load the result into SQLite
  movieetl clean --input raw_data --sqlite movies.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(verbose)

			if opts.input == "" {
				s, err := config.Load()
				if err != nil {
					return err
				}
				opts.input = s.RawDataDir
			}
			_, err := executeClean(cmd.Context(), cmd.OutOrStdout(), opts)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Raw records: directory, .jsonl or .json (default $RAW_DATA_DIR)")
	cmd.Flags().StringVar(&opts.output, "output", "movies.parquet", "Parquet output path (empty to skip)")
	cmd.Flags().StringVar(&opts.sqliteDSN, "sqlite", "", "SQLite database to load the cleaned dataset into")
	cmd.Flags().IntVar(&opts.threshold, "threshold", cleaning.DefaultThreshold, "Minimum present attributes per record")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	return cmd
}

// NewKPICmd creates the kpi command
func NewKPICmd() *cobra.Command {
	var opts kpiOptions
	var verbose bool

	cmd := &cobra.Command{
		Use:   "kpi",
		Short: "Compute rankings and aggregates over the cleaned dataset",
		Long: `Compute the KPI report: highest and lowest revenue, budget, profit, ROI and
rating, the most voted and most popular movies, franchise vs. standalone
comparison, and the franchise and director leaderboards.

Input may be raw records (cleaned on the fly), a Parquet file written by
clean, or a SQLite database (path ending in .db/.sqlite, or sqlite:<dsn>).`,
		Example: `  # Text report from the cleaned parquet file
  movieetl kpi --input movies.parquet

  # JSON report with the top 5 of each ranking and chart data
  movieetl kpi --input raw_data --format json --limit 5 --charts

  # Keep a timestamped YAML copy
  movieetl kpi --input movies.parquet --save-yaml reports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(verbose)
			return executeKPI(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "movies.parquet", "Dataset: .parquet, SQLite, raw directory, .jsonl or .json")
	cmd.Flags().StringVar(&opts.format, "format", report.FormatText, "Output format (text, json, yaml, csv)")
	cmd.Flags().IntVar(&opts.limit, "limit", kpi.DefaultLimit, "Rows per ranking (-1 for all)")
	cmd.Flags().IntVar(&opts.threshold, "threshold", cleaning.DefaultThreshold, "Minimum present attributes per record when cleaning raw input")
	cmd.Flags().BoolVar(&opts.charts, "charts", false, "Include chart data in the report")
	cmd.Flags().StringVar(&opts.saveYAML, "save-yaml", "", "Directory to save a timestamped YAML copy of the report")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	return cmd
}

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	var opts searchOptions
	var verbose bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the cleaned dataset",
		Long: `Find movies by title substring (ignoring case and accents), genre, release
year, director or cast member. All given criteria must match.`,
		Example: `  # Science fiction action movies starring Bruce Willis, best rated first
  movieetl search --genre "Science Fiction" --genre Action --cast "Bruce Willis" --sort vote_average

  # Uma Thurman movies directed by Quentin Tarantino, shortest first
  movieetl search --cast "Uma Thurman" --director "Quentin Tarantino" --sort runtime --asc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(verbose)
			return executeSearch(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "movies.parquet", "Dataset: .parquet, SQLite, raw directory, .jsonl or .json")
	cmd.Flags().StringVar(&opts.format, "format", report.FormatText, "Output format (text, json, yaml, csv)")
	cmd.Flags().IntVar(&opts.threshold, "threshold", cleaning.DefaultThreshold, "Minimum present attributes per record when cleaning raw input")
	cmd.Flags().StringVar(&opts.criteria.TitleContains, "title", "", "Title contains")
	cmd.Flags().StringSliceVar(&opts.criteria.Genres, "genre", nil, "Genre (repeatable, all must match)")
	cmd.Flags().IntVar(&opts.criteria.Year, "year", 0, "Release year")
	cmd.Flags().StringVar(&opts.criteria.Director, "director", "", "Director")
	cmd.Flags().StringVar(&opts.criteria.Cast, "cast", "", "Cast member")
	cmd.Flags().StringSliceVar(&opts.criteria.SortBy, "sort", nil, "Sort fields, most significant first")
	cmd.Flags().BoolVar(&opts.criteria.Ascending, "asc", false, "Sort ascending")
	cmd.Flags().IntVar(&opts.criteria.Limit, "limit", 0, "Maximum results (0 for all)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	return cmd
}

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var flags fetchFlags
	var kopts kpiOptions
	var output string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run [movie-id...]",
		Short: "Fetch, clean and report in one go",
		Long: `Run the whole pipeline: fetch records from TMDB, save them as raw JSON,
clean them into a Parquet dataset and print the KPI report.`,
		Example: `  movieetl run --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(verbose)

			ids, err := config.ParseIDs(args)
			if err != nil {
				return err
			}
			settings, err := flags.settings(cmd)
			if err != nil {
				return err
			}
			if _, err := executeFetch(cmd.Context(), settings, ids); err != nil {
				return err
			}

			if output == "" {
				output = filepath.Join(settings.RawDataDir, "..", "movies.parquet")
			}
			ds, err := executeClean(cmd.Context(), cmd.ErrOrStderr(), cleanOptions{
				input:     settings.RawDataDir,
				output:    output,
				threshold: kopts.threshold,
			})
			if err != nil {
				return err
			}
			return writeKPIs(cmd.OutOrStdout(), ds, kopts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&output, "output", "", "Parquet output path (default movies.parquet next to the raw directory)")
	cmd.Flags().StringVar(&kopts.format, "format", report.FormatText, "Output format (text, json, yaml, csv)")
	cmd.Flags().IntVar(&kopts.limit, "limit", kpi.DefaultLimit, "Rows per ranking (-1 for all)")
	cmd.Flags().IntVar(&kopts.threshold, "threshold", cleaning.DefaultThreshold, "Minimum present attributes per record")
	cmd.Flags().BoolVar(&kopts.charts, "charts", false, "Include chart data in the report")
	cmd.Flags().StringVar(&kopts.saveYAML, "save-yaml", "", "Directory to save a timestamped YAML copy of the report")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	return cmd
}
