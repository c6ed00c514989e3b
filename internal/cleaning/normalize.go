package cleaning

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/movieetl/internal/frame"
)

const (
	// Delimiter joins the names extracted from list-shaped fields.
	Delimiter = "|"

	// DefaultNameKey is the key read from each nested object.
	DefaultNameKey = "name"
)

// NestedColumns are the raw fields that hold an object or a list of objects.
var NestedColumns = []string{
	"belongs_to_collection",
	"genres",
	"production_countries",
	"production_companies",
	"spoken_languages",
}

// Columns produced from the raw credits object.
const (
	ColumnDirector = "director"
	ColumnCast     = "cast"
	ColumnCastSize = "cast_size"
	ColumnCrewSize = "crew_size"

	creditsColumn = "credits"
	castLimit     = 5
)

// CreditDerivedColumns are the columns flattenCredits produces from a single
// raw credits object.
var CreditDerivedColumns = []string{ColumnDirector, ColumnCast, ColumnCastSize, ColumnCrewSize}

// ExtractName flattens a nested field into a single value:
//
//   - a map yields the string at key ("" when the key is absent)
//   - a list yields the key of every map element joined with Delimiter;
//     non-map elements and elements without the key are skipped
//   - a string is returned unchanged
//   - anything else yields Missing
func ExtractName(v frame.Value, key string) frame.Value {
	switch v.Kind() {
	case frame.KindString:
		return v
	case frame.KindMap:
		raw, ok := v.Fields()[key]
		if !ok {
			return frame.String("")
		}
		s, ok := scalarString(raw)
		if !ok {
			return frame.Missing()
		}
		return frame.String(s)
	case frame.KindList:
		names := make([]string, 0, len(v.Items()))
		for _, item := range v.Items() {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			s, ok := scalarString(obj[key])
			if !ok {
				continue
			}
			names = append(names, s)
		}
		return frame.String(strings.Join(names, Delimiter))
	default:
		return frame.Missing()
	}
}

// scalarString renders a decoded JSON scalar. nil and nested values are not
// names.
func scalarString(x any) (string, bool) {
	switch t := x.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case map[string]any, []any:
		return "", false
	default:
		return fmt.Sprint(t), true
	}
}

// Normalizer flattens the nested columns of every record and reduces the raw
// credits object to director, cast and size columns.
type Normalizer struct {
	Columns []string
	Key     string
}

// NewNormalizer returns a normalizer over NestedColumns using DefaultNameKey.
func NewNormalizer() Normalizer {
	return Normalizer{Columns: NestedColumns, Key: DefaultNameKey}
}

func (Normalizer) Name() string { return "normalize" }

func (n Normalizer) Apply(in *frame.Frame) (*frame.Frame, error) {
	key := n.Key
	if key == "" {
		key = DefaultNameKey
	}

	hasCredits := in.HasColumn(creditsColumn)

	out := in.Map(func(row frame.Row) frame.Row {
		for _, col := range n.Columns {
			if _, ok := row[col]; !ok {
				continue
			}
			row[col] = safeExtract(row, col, key)
		}
		if hasCredits {
			flattenCredits(row)
		}
		return row
	})

	if hasCredits {
		out = out.DropColumns(creditsColumn)
		for _, col := range CreditDerivedColumns {
			out = out.WithColumn(col)
		}
	}
	return out, nil
}

// safeExtract runs ExtractName and turns any failure into Missing.
func safeExtract(row frame.Row, col, key string) (out frame.Value) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Failed to extract nested field", "field", col, "id", recordID(row), "err", r)
			out = frame.Missing()
		}
	}()

	v := row.Get(col)
	out = ExtractName(v, key)
	if out.IsMissing() && !v.IsMissing() {
		slog.Debug("Unrecognized nested field shape", "field", col, "id", recordID(row), "kind", v.Kind())
	}
	return out
}

// flattenCredits replaces the credits object with director, cast, cast_size
// and crew_size.
func flattenCredits(row frame.Row) {
	credits := row.Get(creditsColumn).Fields()
	delete(row, creditsColumn)
	if credits == nil {
		return
	}

	cast, _ := credits["cast"].([]any)
	crew, _ := credits["crew"].([]any)

	var directors []string
	for _, member := range crew {
		obj, ok := member.(map[string]any)
		if !ok {
			continue
		}
		if job, _ := obj["job"].(string); job != "Director" {
			continue
		}
		if name, ok := scalarString(obj["name"]); ok {
			directors = append(directors, name)
		}
	}
	if len(directors) > 0 {
		row[ColumnDirector] = frame.String(strings.Join(directors, Delimiter))
	}

	if len(cast) > 0 {
		top := cast
		if len(top) > castLimit {
			top = top[:castLimit]
		}
		row[ColumnCast] = ExtractName(frame.List(top), DefaultNameKey)
	}

	row[ColumnCastSize] = frame.Int(int64(len(cast)))
	row[ColumnCrewSize] = frame.Int(int64(len(crew)))
}
