package moviecmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/lehigh-university-libraries/movieetl/internal/kpi"
	"github.com/lehigh-university-libraries/movieetl/internal/report"
)

type searchOptions struct {
	input     string
	format    string
	threshold int
	criteria  kpi.Criteria
}

func executeSearch(ctx context.Context, w io.Writer, opts searchOptions) error {
	ds, err := loadDataset(ctx, opts.input, opts.threshold)
	if err != nil {
		return err
	}

	found, err := kpi.Search(ds, opts.criteria)
	if errors.Is(err, kpi.ErrNoMatch) {
		fmt.Fprintln(w, "No movies match the search criteria.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return report.WriteMovies(w, found, opts.format)
}
