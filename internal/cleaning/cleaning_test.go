package cleaning

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/movieetl/internal/frame"
)

// decodeRaw decodes a JSON object the same way the raw data loader does.
func decodeRaw(t *testing.T, doc string) frame.Raw {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(doc)))
	dec.UseNumber()
	var raw frame.Raw
	require.NoError(t, dec.Decode(&raw))
	return raw
}

const avengersDoc = `{
	"adult": false,
	"id": 24428,
	"title": "The Avengers",
	"tagline": "Some assembly required.",
	"status": "Released",
	"release_date": "2012-04-25",
	"genres": [{"id": 878, "name": "Science Fiction"}, {"id": 28, "name": "Action"}],
	"belongs_to_collection": {"id": 86311, "name": "The Avengers Collection"},
	"original_language": "en",
	"budget": 220000000,
	"revenue": 1518815515,
	"production_companies": [{"id": 420, "name": "Marvel Studios"}],
	"production_countries": [{"iso_3166_1": "US", "name": "United States of America"}],
	"vote_count": 31000,
	"vote_average": 7.7,
	"popularity": 98.08,
	"runtime": 143,
	"overview": "Earth's mightiest heroes must come together.",
	"spoken_languages": [{"english_name": "English", "name": "English"}, {"name": "Pусский"}],
	"poster_path": "/RYMX2wcKCBAr24UyPD7xwmjaTn.jpg",
	"credits": {
		"cast": [{"name": "Robert Downey Jr."}, {"name": "Chris Evans"}],
		"crew": [{"name": "Joss Whedon", "job": "Director"}, {"name": "Kevin Feige", "job": "Producer"}]
	}
}`

func avengers(t *testing.T) frame.Raw { return decodeRaw(t, avengersDoc) }

func TestExtractName(t *testing.T) {
	tests := []struct {
		name     string
		in       frame.Value
		expected frame.Value
	}{
		{
			name:     "single object",
			in:       frame.Map(map[string]any{"id": 1, "name": "Collection"}),
			expected: frame.String("Collection"),
		},
		{
			name:     "object without key",
			in:       frame.Map(map[string]any{"id": 1}),
			expected: frame.String(""),
		},
		{
			name:     "object with null name",
			in:       frame.Map(map[string]any{"name": nil}),
			expected: frame.Missing(),
		},
		{
			name: "list of objects",
			in: frame.List([]any{
				map[string]any{"name": "Action"},
				map[string]any{"name": "Drama"},
			}),
			expected: frame.String("Action|Drama"),
		},
		{
			name:     "list skips non objects",
			in:       frame.List([]any{"bogus", map[string]any{"name": "Action"}, 7}),
			expected: frame.String("Action"),
		},
		{
			name:     "empty list is empty string not missing",
			in:       frame.List([]any{}),
			expected: frame.String(""),
		},
		{
			name:     "string passes through",
			in:       frame.String("Action|Drama"),
			expected: frame.String("Action|Drama"),
		},
		{
			name:     "missing stays missing",
			in:       frame.Missing(),
			expected: frame.Missing(),
		},
		{
			name:     "number is unrecognized",
			in:       frame.Float(3.5),
			expected: frame.Missing(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractName(tt.in, DefaultNameKey)
			assert.True(t, tt.expected.Equal(got), "expected %s %q, got %s %q",
				tt.expected.Kind(), tt.expected.String(), got.Kind(), got.String())
		})
	}
}

func TestExtractNameSegmentCount(t *testing.T) {
	items := []any{
		map[string]any{"name": "a"},
		map[string]any{"iso": "x"},
		"not an object",
		map[string]any{"name": "b"},
		map[string]any{"name": nil},
		map[string]any{"name": "c"},
	}

	got, ok := ExtractName(frame.List(items), DefaultNameKey).Str()
	require.True(t, ok)
	assert.Len(t, strings.Split(got, Delimiter), 3)
}

func TestExtractNameSingleObjectNeverPanics(t *testing.T) {
	shapes := []map[string]any{
		{"name": "x"},
		{"name": 12},
		{"name": []any{"nested"}},
		{"name": map[string]any{"deep": true}},
		{},
	}
	for _, m := range shapes {
		assert.NotPanics(t, func() {
			got := ExtractName(frame.Map(m), DefaultNameKey)
			assert.Contains(t, []frame.Kind{frame.KindString, frame.KindMissing}, got.Kind())
		})
	}
}

func TestNormalizerFlattensCredits(t *testing.T) {
	f := frame.FromRaw([]frame.Raw{avengers(t)})
	out, err := NewNormalizer().Apply(f)
	require.NoError(t, err)

	row := out.Row(0)
	assert.False(t, out.HasColumn("credits"))
	assert.Equal(t, "Joss Whedon", row.Get(ColumnDirector).String())
	assert.Equal(t, "Robert Downey Jr.|Chris Evans", row.Get(ColumnCast).String())
	assert.Equal(t, "2", row.Get(ColumnCastSize).String())
	assert.Equal(t, "2", row.Get(ColumnCrewSize).String())
	assert.Equal(t, "Science Fiction|Action", row.Get("genres").String())
	assert.Equal(t, "The Avengers Collection", row.Get("belongs_to_collection").String())
	assert.Equal(t, "English|Pусский", row.Get("spoken_languages").String())
}

func TestCoercer(t *testing.T) {
	f := frame.New([]string{"id", "budget", "revenue", "popularity", "vote_count", "release_date", "runtime"}, []frame.Row{
		{
			"id":           frame.String("12"),
			"budget":       frame.Int(30_000_000),
			"revenue":      frame.String("not a number"),
			"popularity":   frame.String(" 4.5 "),
			"vote_count":   frame.Float(12.5),
			"release_date": frame.String("2019-13-40"),
			"runtime":      frame.Bool(true),
		},
	})

	out, err := Coercer{}.Apply(f)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())

	row := out.Row(0)
	id, ok := row.Get("id").IntVal()
	require.True(t, ok)
	assert.Equal(t, int64(12), id)

	budget, ok := row.Get("budget_musd").Number()
	require.True(t, ok)
	assert.InDelta(t, 30.0, budget, 1e-9)

	assert.True(t, row.Get("revenue_musd").IsMissing())
	assert.True(t, row.Get("vote_count").IsMissing(), "non-integral vote count")
	assert.True(t, row.Get("release_date").IsMissing())
	assert.True(t, row.Get("runtime").IsMissing())

	pop, _ := row.Get("popularity").Number()
	assert.InDelta(t, 4.5, pop, 1e-9)

	assert.False(t, out.HasColumn("budget"))
	assert.True(t, out.HasColumn("budget_musd"))
}

func TestParseIntRange(t *testing.T) {
	tests := []struct {
		name string
		in   frame.Value
		want frame.Value
	}{
		{name: "integral float", in: frame.Float(42), want: frame.Int(42)},
		{name: "fractional", in: frame.Float(4.5), want: frame.Missing()},
		{name: "two to the 63", in: frame.Float(math.Ldexp(1, 63)), want: frame.Missing()},
		{name: "beyond int64", in: frame.Float(1e19), want: frame.Missing()},
		{name: "min int64", in: frame.Float(math.Ldexp(-1, 63)), want: frame.Int(math.MinInt64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInt(tt.in))
		})
	}
}

func TestSanitizer(t *testing.T) {
	f := frame.New([]string{"budget_musd", "revenue_musd", "runtime", "vote_count", "vote_average", "overview", "tagline"}, []frame.Row{
		{
			"budget_musd":  frame.Float(0),
			"revenue_musd": frame.Float(-3),
			"runtime":      frame.Float(0),
			"vote_count":   frame.Int(0),
			"vote_average": frame.Float(8.1),
			"overview":     frame.String("No Data"),
			"tagline":      frame.String("None"),
		},
		{
			"budget_musd":  frame.Float(12),
			"runtime":      frame.Float(95),
			"vote_average": frame.Float(6),
			"overview":     frame.String("A real overview."),
			"tagline":      frame.String(""),
		},
	})

	out, err := Sanitizer{}.Apply(f)
	require.NoError(t, err)

	first := out.Row(0)
	for _, col := range []string{"budget_musd", "revenue_musd", "runtime", "vote_average", "overview", "tagline"} {
		assert.True(t, first.Get(col).IsMissing(), col)
	}

	second := out.Row(1)
	assert.False(t, second.Get("budget_musd").IsMissing())
	assert.False(t, second.Get("runtime").IsMissing())
	assert.True(t, second.Get("vote_average").IsMissing(), "rating without a vote count")
	assert.Equal(t, "A real overview.", second.Get("overview").String())
	assert.True(t, second.Get("tagline").IsMissing())
}

func TestDeDupKeepsFirst(t *testing.T) {
	first := avengers(t)
	first["id"] = json.Number("100")
	first["title"] = "X"
	first["popularity"] = json.Number("1.5")

	second := avengers(t)
	second["id"] = json.Number("100")
	second["title"] = "X"
	second["popularity"] = json.Number("99.0")

	out, err := NormalizeAndClean([]frame.Raw{first, second})
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())

	pop, _ := out.Row(0).Get("popularity").Number()
	assert.InDelta(t, 1.5, pop, 1e-9)
}

func TestZeroBudgetScenario(t *testing.T) {
	raw := avengers(t)
	raw["budget"] = json.Number("0")
	raw["revenue"] = json.Number("5000000")

	out, err := NormalizeAndClean([]frame.Raw{raw})
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())

	row := out.Row(0)
	assert.True(t, row.Get("budget_musd").IsMissing())
	revenue, ok := row.Get("revenue_musd").Number()
	require.True(t, ok)
	assert.InDelta(t, 5.0, revenue, 1e-9)
}

func TestThresholdBoundary(t *testing.T) {
	ten := frame.Raw{
		"id":                json.Number("1"),
		"title":             "Ten",
		"status":            "Released",
		"overview":          "o",
		"tagline":           "t",
		"original_language": "en",
		"poster_path":       "/p.jpg",
		"popularity":        json.Number("1.5"),
		"vote_count":        json.Number("5"),
		"runtime":           json.Number("120"),
	}
	nine := frame.Raw{}
	for k, v := range ten {
		nine[k] = v
	}
	nine["id"] = json.Number("2")
	nine["title"] = "Nine"
	delete(nine, "runtime")

	out, err := NormalizeAndClean([]frame.Raw{ten, nine})
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "Ten", out.Row(0).Get("title").String())
}

func TestThresholdCountsCreditsOnce(t *testing.T) {
	credits := map[string]any{
		"cast": []any{map[string]any{"name": "Lead"}},
		"crew": []any{map[string]any{"name": "Someone", "job": "Director"}},
	}
	sparse := frame.Raw{
		"id":         json.Number("1"),
		"title":      "Sparse",
		"status":     "Released",
		"overview":   "o",
		"popularity": json.Number("1.5"),
		"vote_count": json.Number("5"),
		"credits":    credits,
	}
	ten := frame.Raw{
		"id":                json.Number("2"),
		"title":             "Ten",
		"status":            "Released",
		"overview":          "o",
		"tagline":           "t",
		"original_language": "en",
		"poster_path":       "/p.jpg",
		"popularity":        json.Number("1.5"),
		"vote_count":        json.Number("5"),
		"credits":           credits,
	}

	res, err := New().Run([]frame.Raw{sparse, ten})
	require.NoError(t, err)
	require.Equal(t, 1, res.Frame.Len())
	assert.Equal(t, "Ten", res.Frame.Row(0).Get("title").String())
	assert.Equal(t, "Someone", res.Credits.Row(0).Get(ColumnDirector).String())
}

func TestThresholdGroupedColumns(t *testing.T) {
	cols := []string{"a", "b", "c", "x", "y"}
	grouped := frame.Row{"a": frame.String("a"), "x": frame.Int(1), "y": frame.Int(2)}
	plain := frame.Row{"a": frame.String("a"), "b": frame.String("b"), "c": frame.String("c")}

	out, err := Threshold{Min: 3, Grouped: []string{"x", "y"}}.Apply(frame.New(cols, []frame.Row{grouped, plain}))
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "c", out.Row(0).Get("c").String())
}

func TestRecleaningDropsRecordsKeptByExtras(t *testing.T) {
	raw := frame.Raw{
		"id":                json.Number("1"),
		"title":             "Extras",
		"status":            "Released",
		"overview":          "o",
		"tagline":           "t",
		"original_language": "en",
		"poster_path":       "/p.jpg",
		"popularity":        json.Number("1.5"),
		"homepage":          "https://example.com",
		"imdb_id":           "tt0000001",
	}

	once, err := NormalizeAndClean([]frame.Raw{raw})
	require.NoError(t, err)
	require.Equal(t, 1, once.Len())

	twice, err := NormalizeAndClean(once.ToRaw())
	require.NoError(t, err)
	assert.Equal(t, 0, twice.Len())
}

func TestThresholdStage(t *testing.T) {
	cols := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
	full := frame.Row{}
	for _, c := range cols[:10] {
		full[c] = frame.String(c)
	}
	short := full.Clone()
	delete(short, "j")

	out, err := Threshold{Min: 10}.Apply(frame.New(cols, []frame.Row{full, short}))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
}

func TestFilterDropsUnreleasedAndIncomplete(t *testing.T) {
	rumored := avengers(t)
	rumored["id"] = json.Number("2")
	rumored["status"] = "Rumored"

	untitled := avengers(t)
	untitled["id"] = json.Number("3")
	delete(untitled, "title")

	badID := avengers(t)
	badID["id"] = "abc"

	out, err := NormalizeAndClean([]frame.Raw{avengers(t), rumored, untitled, badID})
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.False(t, out.HasColumn(StatusColumn))
}

func TestProjectionOrder(t *testing.T) {
	raw := avengers(t)
	delete(raw, "poster_path")

	out, err := NormalizeAndClean([]frame.Raw{raw})
	require.NoError(t, err)
	assert.Equal(t, Columns, out.Columns())
	assert.True(t, out.Row(0).Get("poster_path").IsMissing())
	_, hasAdult := out.Row(0)["adult"]
	assert.False(t, hasAdult)
}

func TestInvariantsAfterCleaning(t *testing.T) {
	noVotes := avengers(t)
	noVotes["id"] = json.Number("7")
	noVotes["vote_count"] = json.Number("0")
	noVotes["vote_average"] = json.Number("9.9")
	noVotes["runtime"] = json.Number("0")

	out, err := NormalizeAndClean([]frame.Raw{avengers(t), noVotes})
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())

	for _, row := range out.Rows() {
		votes, _ := row.Get("vote_count").Number()
		if votes == 0 {
			assert.True(t, row.Get("vote_average").IsMissing())
		}
		for _, col := range PositiveColumns {
			if n, ok := row.Get(col).Number(); ok {
				assert.Greater(t, n, 0.0, col)
			} else {
				assert.True(t, row.Get(col).IsMissing(), col)
			}
		}
	}
}

func TestPipelineIsIdempotent(t *testing.T) {
	second := avengers(t)
	second["id"] = json.Number("99861")
	second["title"] = "Avengers: Age of Ultron"
	second["budget"] = json.Number("0")
	second["tagline"] = "No Data"

	once, err := NormalizeAndClean([]frame.Raw{avengers(t), second})
	require.NoError(t, err)
	require.Equal(t, 2, once.Len())

	twice, err := NormalizeAndClean(once.ToRaw())
	require.NoError(t, err)
	assert.True(t, once.Equal(twice))
}

func TestCreditsFollowCleanedRows(t *testing.T) {
	dropped := avengers(t)
	dropped["id"] = json.Number("5")
	dropped["status"] = "Planned"

	res, err := New().Run([]frame.Raw{dropped, avengers(t)})
	require.NoError(t, err)
	require.Equal(t, res.Frame.Len(), res.Credits.Len())
	assert.Equal(t, CreditColumns, res.Credits.Columns())
	assert.Equal(t, "Joss Whedon", res.Credits.Row(0).Get(ColumnDirector).String())
}

func TestNoRecords(t *testing.T) {
	out, err := NormalizeAndClean(nil)
	assert.True(t, errors.Is(err, ErrNoRecords))
	require.NotNil(t, out)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, Columns, out.Columns())
}
