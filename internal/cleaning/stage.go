// Package cleaning turns raw catalog records into the cleaned movie dataset.
//
// The pipeline is an ordered chain of stages, each taking a frame snapshot and
// returning a new one:
//
//	normalize -> coerce -> sanitize -> dedup -> require -> threshold -> status -> project
//
// Per-field problems never fail a stage; the field becomes Missing and the
// problem is logged with the column name and record id.
package cleaning

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/movieetl/internal/frame"
)

// ErrNoRecords is returned when the pipeline is invoked without input.
var ErrNoRecords = errors.New("no input records")

// Stage is a single cleaning step.
type Stage interface {
	Name() string
	Apply(in *frame.Frame) (*frame.Frame, error)
}

// Chain is an ordered list of stages.
type Chain []Stage

// Apply runs every stage in order. The first failing stage stops the chain.
func (c Chain) Apply(in *frame.Frame) (*frame.Frame, error) {
	if in == nil {
		return nil, fmt.Errorf("cleaning: nil frame")
	}
	out := in
	for _, s := range c {
		before := out.Len()
		next, err := s.Apply(out)
		if err != nil {
			return nil, fmt.Errorf("stage %s failed: %w", s.Name(), err)
		}
		out = next
		slog.Debug("Cleaning stage complete", "stage", s.Name(), "rows_in", before, "rows_out", out.Len())
	}
	return out, nil
}

// recordID renders a row's id for log context.
func recordID(row frame.Row) string {
	id := row.Get("id")
	if id.IsMissing() {
		return "unknown"
	}
	return id.String()
}
