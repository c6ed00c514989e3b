package kpi

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/movieetl/internal/movies"
)

// Report bundles every KPI view of a dataset.
type Report struct {
	GeneratedAt           time.Time        `json:"generated_at" yaml:"generated_at"`
	Records               int              `json:"records" yaml:"records"`
	Rankings              []*Ranking       `json:"rankings" yaml:"rankings"`
	FranchiseVsStandalone []GroupSummary   `json:"franchise_vs_standalone" yaml:"franchise_vs_standalone"`
	Franchises            []FranchiseStats `json:"franchises" yaml:"franchises"`
	Directors             []DirectorStats  `json:"directors" yaml:"directors"`
	Charts                []ChartConfig    `json:"charts,omitempty" yaml:"charts,omitempty"`
}

// Ranking returns the named ranking, or nil.
func (r *Report) Ranking(name string) *Ranking {
	for _, rk := range r.Rankings {
		if rk.Label == name {
			return rk
		}
	}
	return nil
}

// Options tunes Compute.
type Options struct {
	// Limit is the length of each ranking; zero means DefaultLimit.
	Limit int
	// Charts adds chart configurations to the report.
	Charts bool
}

// ComputeKPIs computes the full report with default options.
func ComputeKPIs(ds *movies.Dataset) (*Report, error) {
	return Compute(ds, Options{Charts: true})
}

// Compute builds the report for ds.
func Compute(ds *movies.Dataset, opts Options) (*Report, error) {
	if ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	start := time.Now()
	report := &Report{
		GeneratedAt: start.UTC(),
		Records:     ds.Len(),
	}

	for _, nr := range NamedRankings {
		r, err := Rank(ds, nr.Measure.Query(nr.Ascending, opts.Limit, nr.Name))
		if err != nil {
			return nil, fmt.Errorf("failed to compute %s: %w", nr.Name, err)
		}
		report.Rankings = append(report.Rankings, r)
	}

	report.FranchiseVsStandalone = FranchiseVsStandalone(ds)
	report.Franchises = FranchiseLeaderboard(ds)
	report.Directors = DirectorLeaderboard(ds)
	if opts.Charts {
		report.Charts = Charts(ds)
	}

	slog.Info("Computed KPIs",
		"records", report.Records,
		"rankings", len(report.Rankings),
		"franchises", len(report.Franchises),
		"directors", len(report.Directors),
		"duration", time.Since(start))
	return report, nil
}
