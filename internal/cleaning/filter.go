package cleaning

import (
	"log/slog"

	"github.com/lehigh-university-libraries/movieetl/internal/frame"
)

const (
	// DefaultThreshold is the minimum number of present attributes a record
	// needs to be kept.
	DefaultThreshold = 10

	StatusColumn   = "status"
	StatusReleased = "Released"
)

// RequiredColumns must be present on every kept record.
var RequiredColumns = []string{"id", "title"}

// Require drops records missing any of Fields.
type Require struct {
	Fields []string
}

func (Require) Name() string { return "require" }

func (r Require) Apply(in *frame.Frame) (*frame.Frame, error) {
	return in.Filter(func(row frame.Row) bool {
		for _, f := range r.Fields {
			if row.Get(f).IsMissing() {
				slog.Debug("Dropping record missing required field", "field", f, "id", recordID(row))
				return false
			}
		}
		return true
	}), nil
}

// Threshold drops records with fewer than Min present attributes, counted
// across every column of the incoming frame. Columns in Grouped count as a
// single attribute when any of them is present.
type Threshold struct {
	Min     int
	Grouped []string
}

func (Threshold) Name() string { return "threshold" }

func (t Threshold) Apply(in *frame.Frame) (*frame.Frame, error) {
	return in.Filter(func(row frame.Row) bool {
		n := t.present(in, row)
		if n < t.Min {
			slog.Debug("Dropping sparse record", "id", recordID(row), "present", n, "min", t.Min)
			return false
		}
		return true
	}), nil
}

// ReleasedOnly keeps records whose status is Released and drops the status
// column. A frame without a status column has already been filtered and is
// returned unchanged.
type ReleasedOnly struct{}

func (ReleasedOnly) Name() string { return "status" }

func (ReleasedOnly) Apply(in *frame.Frame) (*frame.Frame, error) {
	if !in.HasColumn(StatusColumn) {
		return in, nil
	}
	kept := in.Filter(func(row frame.Row) bool {
		s, _ := row.Get(StatusColumn).Str()
		return s == StatusReleased
	})
	return kept.DropColumns(StatusColumn), nil
}

func (t Threshold) present(in *frame.Frame, row frame.Row) int {
	n := in.NonMissing(row)
	grouped := 0
	for _, col := range t.Grouped {
		if in.HasColumn(col) && !row.Get(col).IsMissing() {
			grouped++
		}
	}
	if grouped > 1 {
		n -= grouped - 1
	}
	return n
}
