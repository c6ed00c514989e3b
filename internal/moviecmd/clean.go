package moviecmd

import (
	"context"
	"fmt"
	"io"

	"github.com/lehigh-university-libraries/movieetl/internal/movies"
	"github.com/lehigh-university-libraries/movieetl/internal/store"
)

type cleanOptions struct {
	input     string
	output    string
	sqliteDSN string
	threshold int
}

func executeClean(ctx context.Context, w io.Writer, opts cleanOptions) (*movies.Dataset, error) {
	res, err := cleanRaw(opts.input, opts.threshold)
	if err != nil {
		return nil, err
	}
	ds, err := movies.FromResult(res)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset: %w", err)
	}

	if opts.output != "" {
		if err := store.SaveParquet(opts.output, ds); err != nil {
			return nil, err
		}
	}
	if opts.sqliteDSN != "" {
		repo, err := store.NewRepository(ctx, opts.sqliteDSN)
		if err != nil {
			return nil, err
		}
		defer repo.Close()
		if _, err := repo.Save(ctx, ds); err != nil {
			return nil, fmt.Errorf("failed to save sqlite dataset: %w", err)
		}
	}

	fmt.Fprintf(w, "Cleaned %d movies\n", ds.Len())
	if opts.output != "" {
		fmt.Fprintf(w, "Parquet: %s\n", opts.output)
	}
	if opts.sqliteDSN != "" {
		fmt.Fprintf(w, "SQLite:  %s\n", opts.sqliteDSN)
	}
	return ds, nil
}
