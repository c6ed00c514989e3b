package cleaning

import (
	"strings"

	"github.com/lehigh-university-libraries/movieetl/internal/frame"
)

// PositiveColumns cannot legitimately be zero; zero means unknown.
var PositiveColumns = []string{"budget_musd", "revenue_musd", "runtime"}

// TextColumns are free-text fields subject to placeholder removal.
var TextColumns = []string{"overview", "tagline"}

// Placeholders are free-text values that carry no data.
var Placeholders = map[string]bool{
	"No Data": true,
	"None":    true,
	"":        true,
}

// Sanitizer rewrites semantically invalid values to Missing.
type Sanitizer struct{}

func (Sanitizer) Name() string { return "sanitize" }

func (Sanitizer) Apply(in *frame.Frame) (*frame.Frame, error) {
	return in.Map(sanitizeRow), nil
}

func sanitizeRow(row frame.Row) frame.Row {
	for _, col := range PositiveColumns {
		v, ok := row[col]
		if !ok {
			continue
		}
		if n, ok := v.Number(); ok && n <= 0 {
			row[col] = frame.Missing()
		}
	}

	// A rating without votes is noise.
	if _, ok := row["vote_average"]; ok {
		votes, ok := row.Get("vote_count").Number()
		if !ok || votes <= 0 {
			row["vote_average"] = frame.Missing()
		}
	}

	for _, col := range TextColumns {
		v, ok := row[col]
		if !ok {
			continue
		}
		if s, ok := v.Str(); ok && Placeholders[strings.TrimSpace(s)] {
			row[col] = frame.Missing()
		}
	}
	return row
}
