// Package kpi ranks, filters and summarizes the cleaned movie dataset.
package kpi

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/lehigh-university-libraries/movieetl/internal/frame"
	"github.com/lehigh-university-libraries/movieetl/internal/movies"
)

// DefaultLimit is the number of rows a ranking returns when Limit is unset.
const DefaultLimit = 10

// ColumnKPI labels each display row with the ranking it came from.
const ColumnKPI = "kpi"

var (
	// ErrEmptyDataset is returned when there is nothing to analyze.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrUnknownField is returned for sort or filter fields movies do not carry.
	ErrUnknownField = errors.New("unknown field")
)

// displayColumns are appended to every ranking after the sort keys.
var displayColumns = []string{
	"budget_musd", "revenue_musd", movies.FieldProfit, movies.FieldROI,
	"vote_count", "vote_average", "popularity",
}

// Predicate decides whether a movie takes part in a ranking.
type Predicate func(movies.Movie) bool

// Query describes one ranking.
type Query struct {
	// By lists sort keys, most significant first.
	By        []string
	Ascending bool
	// Limit caps the result; zero means DefaultLimit, negative means all.
	Limit int
	Where Predicate
	Label string
}

// Ranking is an ordered selection of movies plus its display rows.
type Ranking struct {
	Label     string           `json:"label,omitempty" yaml:"label,omitempty"`
	By        []string         `json:"by" yaml:"by"`
	Ascending bool             `json:"ascending" yaml:"ascending"`
	Columns   []string         `json:"columns" yaml:"columns"`
	Rows      []map[string]any `json:"rows" yaml:"rows"`
	Movies    []movies.Movie   `json:"-" yaml:"-"`
}

// Len is the number of ranked movies.
func (r *Ranking) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Movies)
}

// IDs returns the ranked movie ids in order.
func (r *Ranking) IDs() []int64 {
	ids := make([]int64, 0, r.Len())
	for _, m := range r.Movies {
		ids = append(ids, m.ID)
	}
	return ids
}

// Rank orders the dataset by q.By. Movies whose primary key is unknown, or
// that fail q.Where, are excluded. Ties break on id ascending, and descending
// order is the exact reverse of ascending order.
func Rank(ds *movies.Dataset, q Query) (*Ranking, error) {
	if len(q.By) == 0 {
		return nil, fmt.Errorf("ranking needs at least one sort key")
	}
	if err := validateFields(q.By); err != nil {
		return nil, err
	}

	var selected []movies.Movie
	if ds != nil {
		for _, m := range ds.Movies {
			if m.Value(q.By[0]).IsMissing() {
				continue
			}
			if q.Where != nil && !q.Where(m) {
				continue
			}
			selected = append(selected, m)
		}
	}

	sortMovies(selected, q.By, q.Ascending)
	selected = limit(selected, q.Limit)

	r := &Ranking{
		Label:     q.Label,
		By:        slices.Clone(q.By),
		Ascending: q.Ascending,
		Columns:   rankingColumns(q),
		Movies:    selected,
	}
	for _, m := range selected {
		r.Rows = append(r.Rows, displayRow(m, r.Columns, q.Label))
	}
	return r, nil
}

func validateFields(fields []string) error {
	for _, f := range fields {
		if !slices.Contains(movies.Fields, f) {
			return fmt.Errorf("%w: %q", ErrUnknownField, f)
		}
	}
	return nil
}

func limit(ms []movies.Movie, n int) []movies.Movie {
	if n == 0 {
		n = DefaultLimit
	}
	if n < 0 || n >= len(ms) {
		return ms
	}
	return ms[:n]
}

// sortMovies applies a total order: sort keys in turn, then id. Missing
// secondary keys sort below every known value.
func sortMovies(ms []movies.Movie, by []string, ascending bool) {
	slices.SortStableFunc(ms, func(a, b movies.Movie) int {
		c := compareMovies(a, b, by)
		if !ascending {
			c = -c
		}
		return c
	})
}

func compareMovies(a, b movies.Movie, by []string) int {
	for _, key := range by {
		if c := compareValues(a.Value(key), b.Value(key)); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.ID, b.ID)
}

func compareValues(a, b frame.Value) int {
	switch {
	case a.IsMissing() && b.IsMissing():
		return 0
	case a.IsMissing():
		return -1
	case b.IsMissing():
		return 1
	}
	if x, ok := a.Number(); ok {
		if y, ok := b.Number(); ok {
			return cmp.Compare(x, y)
		}
	}
	if x, ok := a.DateVal(); ok {
		if y, ok := b.DateVal(); ok {
			return x.Compare(y)
		}
	}
	return strings.Compare(a.String(), b.String())
}

func rankingColumns(q Query) []string {
	var cols []string
	if q.Label != "" {
		cols = append(cols, ColumnKPI)
	}
	cols = append(cols, "id", "title")
	for _, c := range append(slices.Clone(q.By), displayColumns...) {
		if !slices.Contains(cols, c) {
			cols = append(cols, c)
		}
	}
	return cols
}

func displayRow(m movies.Movie, cols []string, label string) map[string]any {
	row := make(map[string]any, len(cols))
	for _, c := range cols {
		if c == ColumnKPI {
			row[c] = label
			continue
		}
		row[c] = displayValue(m.Value(c))
	}
	return row
}

// displayValue renders a value for reports, rounding floats to two places.
func displayValue(v frame.Value) any {
	switch v.Kind() {
	case frame.KindMissing:
		return nil
	case frame.KindFloat:
		f, _ := v.Number()
		return RoundTo2(f)
	case frame.KindInt:
		n, _ := v.IntVal()
		return n
	default:
		return v.String()
	}
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
