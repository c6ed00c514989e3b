package moviecmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/movieetl/internal/config"
	"github.com/lehigh-university-libraries/movieetl/internal/rawdata"
	"github.com/lehigh-university-libraries/movieetl/internal/tmdb"
)

// executeFetch downloads ids and saves each record under settings.RawDataDir.
// It returns the number of records saved.
func executeFetch(ctx context.Context, settings config.Settings, ids []int64) (int, error) {
	if err := settings.Validate(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		ids = config.DefaultMovieIDs
	}

	slog.Info("Fetching movies", "count", len(ids), "base_url", settings.BaseURL, "concurrency", settings.Concurrency)

	client := tmdb.NewClient(settings.BaseURL, settings.APIKey, settings.Timeout)
	client.Concurrency = settings.Concurrency

	fetched, err := client.FetchMovies(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch movies: %w", err)
	}

	for _, m := range fetched {
		path, err := rawdata.SaveRaw(settings.RawDataDir, m.ID, m.Raw)
		if err != nil {
			return 0, err
		}
		slog.Debug("Saved raw record", "id", m.ID, "path", path)
	}

	slog.Info("Fetch complete", "saved", len(fetched), "skipped", len(ids)-len(fetched), "dir", settings.RawDataDir)
	return len(fetched), nil
}
