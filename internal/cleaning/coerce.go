package cleaning

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/movieetl/internal/frame"
)

// Numeric columns and how they are parsed.
var (
	FloatColumns    = []string{"budget", "revenue", "popularity", "vote_average", "runtime"}
	IntegralColumns = []string{"id", "vote_count"}
)

// Rescaled pairs each raw money column with its million-unit column.
var Rescaled = [][2]string{
	{"budget", "budget_musd"},
	{"revenue", "revenue_musd"},
}

const (
	ReleaseDateColumn = "release_date"
	millionUnits      = 1_000_000
)

// ParseFloat converts a value to Float, or Missing when it is not a number.
func ParseFloat(v frame.Value) frame.Value {
	switch v.Kind() {
	case frame.KindFloat:
		return v
	case frame.KindInt:
		n, _ := v.Number()
		return frame.Float(n)
	case frame.KindString:
		s, _ := v.Str()
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return frame.Missing()
		}
		return frame.Float(f)
	default:
		return frame.Missing()
	}
}

// ParseInt converts a value to Int. Non-integral numbers are Missing.
func ParseInt(v frame.Value) frame.Value {
	if v.Kind() == frame.KindInt {
		return v
	}
	if v.Kind() == frame.KindString {
		s, _ := v.Str()
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return frame.Int(i)
		}
	}
	f, ok := ParseFloat(v).Number()
	if !ok || f != math.Trunc(f) || f >= 1<<63 || f < -(1<<63) {
		return frame.Missing()
	}
	return frame.Int(int64(f))
}

// ParseDate converts a value to Date using frame.DateLayout.
func ParseDate(v frame.Value) frame.Value {
	switch v.Kind() {
	case frame.KindDate:
		return v
	case frame.KindString:
		s, _ := v.Str()
		t, err := time.Parse(frame.DateLayout, strings.TrimSpace(s))
		if err != nil {
			return frame.Missing()
		}
		return frame.Date(t)
	default:
		return frame.Missing()
	}
}

// Coercer converts numeric and date columns to strict types and rescales the
// money columns to million units. Values that fail to parse become Missing;
// the record is kept.
type Coercer struct{}

func (Coercer) Name() string { return "coerce" }

func (Coercer) Apply(in *frame.Frame) (*frame.Frame, error) {
	out := in.Map(func(row frame.Row) frame.Row {
		for _, col := range FloatColumns {
			coerceField(row, col, ParseFloat)
		}
		for _, col := range IntegralColumns {
			coerceField(row, col, ParseInt)
		}
		coerceField(row, ReleaseDateColumn, ParseDate)

		for _, pair := range Rescaled {
			src, dst := pair[0], pair[1]
			if _, ok := row[src]; ok {
				v := row.Get(src)
				if n, ok := v.Number(); ok {
					row[dst] = frame.Float(n / millionUnits)
				} else {
					row[dst] = frame.Missing()
				}
				delete(row, src)
				continue
			}
			// Already rescaled by an earlier run.
			coerceField(row, dst, ParseFloat)
		}
		return row
	})

	for _, pair := range Rescaled {
		if out.HasColumn(pair[0]) {
			out = out.DropColumns(pair[0]).WithColumn(pair[1])
		}
	}
	return out, nil
}

func coerceField(row frame.Row, col string, parse func(frame.Value) frame.Value) {
	v, ok := row[col]
	if !ok || v.IsMissing() {
		return
	}
	parsed := parse(v)
	if parsed.IsMissing() {
		slog.Debug("Invalid value treated as missing", "field", col, "id", recordID(row), "value", v.String())
	}
	row[col] = parsed
}
