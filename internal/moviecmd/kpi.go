package moviecmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/movieetl/internal/kpi"
	"github.com/lehigh-university-libraries/movieetl/internal/movies"
	"github.com/lehigh-university-libraries/movieetl/internal/report"
)

type kpiOptions struct {
	input     string
	format    string
	limit     int
	threshold int
	charts    bool
	saveYAML  string
}

func executeKPI(ctx context.Context, w io.Writer, opts kpiOptions) error {
	ds, err := loadDataset(ctx, opts.input, opts.threshold)
	if err != nil {
		return err
	}
	return writeKPIs(w, ds, opts)
}

func writeKPIs(w io.Writer, ds *movies.Dataset, opts kpiOptions) error {
	r, err := kpi.Compute(ds, kpi.Options{Limit: opts.limit, Charts: opts.charts})
	if err != nil {
		return fmt.Errorf("failed to compute KPIs: %w", err)
	}

	if opts.saveYAML != "" {
		path, err := report.SaveYAML(opts.saveYAML, r)
		if err != nil {
			return err
		}
		slog.Info("Saved KPI report", "path", path)
	}
	return report.Write(w, r, opts.format)
}
