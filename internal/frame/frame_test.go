package frame

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind Kind
	}{
		{name: "nil is missing", in: nil, kind: KindMissing},
		{name: "string", in: "x", kind: KindString},
		{name: "empty string is not missing", in: "", kind: KindString},
		{name: "json integer", in: json.Number("42"), kind: KindInt},
		{name: "json float", in: json.Number("4.2"), kind: KindFloat},
		{name: "float64", in: 1.5, kind: KindFloat},
		{name: "int64", in: int64(3), kind: KindInt},
		{name: "bool", in: true, kind: KindBool},
		{name: "time", in: time.Date(2019, 4, 24, 0, 0, 0, 0, time.UTC), kind: KindDate},
		{name: "list", in: []any{map[string]any{"name": "a"}}, kind: KindList},
		{name: "map", in: map[string]any{"name": "a"}, kind: KindMap},
		{name: "unknown shape", in: struct{}{}, kind: KindMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, FromAny(tt.in).Kind())
		})
	}
}

func TestFloatRejectsNaN(t *testing.T) {
	assert.True(t, Float(math.NaN()).IsMissing())
	assert.True(t, Float(math.Inf(1)).IsMissing())
	assert.False(t, Float(0).IsMissing())
}

func TestFromRawColumnsAndRows(t *testing.T) {
	f := FromRaw([]Raw{
		{"title": "A", "id": json.Number("1")},
		{"id": json.Number("2"), "status": "Released"},
	})

	assert.Equal(t, []string{"id", "title", "status"}, f.Columns())
	require.Equal(t, 2, f.Len())
	assert.True(t, f.Row(1).Get("title").IsMissing())

	id, ok := f.Row(1).Get("id").IntVal()
	require.True(t, ok)
	assert.Equal(t, int64(2), id)
}

func TestMapDoesNotMutateSource(t *testing.T) {
	src := New([]string{"a"}, []Row{{"a": Int(1)}})
	out := src.Map(func(r Row) Row {
		r["a"] = Int(2)
		return r
	})

	v, _ := src.Row(0).Get("a").IntVal()
	assert.Equal(t, int64(1), v)
	v, _ = out.Row(0).Get("a").IntVal()
	assert.Equal(t, int64(2), v)
}

func TestSelectFillsAbsentColumns(t *testing.T) {
	f := New([]string{"a", "b"}, []Row{{"a": Int(1), "b": String("x")}})
	out := f.Select([]string{"c", "a"})

	assert.Equal(t, []string{"c", "a"}, out.Columns())
	assert.True(t, out.Row(0).Get("c").IsMissing())
	_, hasB := out.Row(0)["b"]
	assert.False(t, hasB)
}

func TestNonMissingCountsFrameColumnsOnly(t *testing.T) {
	f := New([]string{"a", "b", "c"}, nil)
	row := Row{"a": String(""), "b": Missing(), "z": Int(1)}
	assert.Equal(t, 1, f.NonMissing(row))
}

func TestToRawRoundTrip(t *testing.T) {
	day := time.Date(2015, 6, 9, 0, 0, 0, 0, time.UTC)
	f := New([]string{"id", "release_date", "tagline"}, []Row{
		{"id": Int(7), "release_date": Date(day)},
	})

	back := FromRaw(f.ToRaw()).Select(f.Columns())
	assert.True(t, f.Select(f.Columns()).Equal(back))
}
