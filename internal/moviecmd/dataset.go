package moviecmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/movieetl/internal/cleaning"
	"github.com/lehigh-university-libraries/movieetl/internal/movies"
	"github.com/lehigh-university-libraries/movieetl/internal/rawdata"
	"github.com/lehigh-university-libraries/movieetl/internal/store"
)

// sqlitePrefix marks an --input that names a SQLite database.
const sqlitePrefix = "sqlite:"

// loadDataset returns a cleaned dataset from a parquet file, a SQLite
// database ("sqlite:<dsn>", .db or .sqlite) or raw JSON, cleaning the latter.
func loadDataset(ctx context.Context, input string, threshold int) (*movies.Dataset, error) {
	switch ext := strings.ToLower(filepath.Ext(input)); {
	case strings.HasPrefix(input, sqlitePrefix):
		return loadSQLite(ctx, strings.TrimPrefix(input, sqlitePrefix))
	case ext == ".db" || ext == ".sqlite":
		return loadSQLite(ctx, input)
	case ext == ".parquet":
		ds, err := store.LoadParquet(input)
		if err != nil {
			return nil, fmt.Errorf("failed to load parquet dataset: %w", err)
		}
		slog.Info("Dataset loaded", "path", input, "records", ds.Len())
		return ds, nil
	}

	res, err := cleanRaw(input, threshold)
	if err != nil {
		return nil, err
	}
	return movies.FromResult(res)
}

func loadSQLite(ctx context.Context, dsn string) (*movies.Dataset, error) {
	repo, err := store.NewRepository(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	ds, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sqlite dataset: %w", err)
	}
	slog.Info("Dataset loaded", "dsn", dsn, "records", ds.Len())
	return ds, nil
}

func cleanRaw(input string, threshold int) (*cleaning.Result, error) {
	raws, err := rawdata.Load(input)
	if err != nil {
		return nil, fmt.Errorf("failed to load raw records: %w", err)
	}
	slog.Info("Raw records loaded", "path", input, "records", len(raws))

	p := cleaning.New()
	if threshold > 0 {
		p.Threshold = threshold
	}
	return p.Run(raws)
}
