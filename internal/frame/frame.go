package frame

import (
	"slices"
	"sort"
)

// Raw is one loosely structured record as decoded from the movie API.
type Raw map[string]any

// Row is one record of a Frame. Absent keys read as Missing.
type Row map[string]Value

// Get returns the value stored under col, or Missing.
func (r Row) Get(col string) Value {
	v, ok := r[col]
	if !ok {
		return Missing()
	}
	return v
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Frame is an ordered set of columns plus the rows holding them. Frames are
// treated as immutable snapshots: every transformation returns a new Frame.
type Frame struct {
	columns []string
	rows    []Row
}

// New builds a Frame from a column list and rows. Rows are not copied.
func New(columns []string, rows []Row) *Frame {
	return &Frame{columns: slices.Clone(columns), rows: rows}
}

// Empty returns a Frame with the given columns and no rows.
func Empty(columns []string) *Frame {
	return New(columns, nil)
}

// FromRaw wraps raw records. Columns are the union of record keys in first
// seen order; keys within a single record are taken alphabetically because
// decoded maps carry no order.
func FromRaw(raws []Raw) *Frame {
	seen := make(map[string]bool)
	var columns []string
	rows := make([]Row, 0, len(raws))

	for _, raw := range raws {
		keys := make([]string, 0, len(raw))
		for k := range raw {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		row := make(Row, len(raw))
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
			row[k] = FromAny(raw[k])
		}
		rows = append(rows, row)
	}

	return &Frame{columns: columns, rows: rows}
}

// ToRaw converts the frame back into raw records, one per row, restricted to
// the frame's columns. Missing values become nil.
func (f *Frame) ToRaw() []Raw {
	out := make([]Raw, 0, len(f.rows))
	for _, row := range f.rows {
		raw := make(Raw, len(f.columns))
		for _, col := range f.columns {
			raw[col] = row.Get(col).Native()
		}
		out = append(out, raw)
	}
	return out
}

func (f *Frame) Len() int { return len(f.rows) }

// Columns returns a copy of the column order.
func (f *Frame) Columns() []string { return slices.Clone(f.columns) }

// Rows exposes the rows. Callers must not mutate them.
func (f *Frame) Rows() []Row { return f.rows }

// Row returns row i.
func (f *Frame) Row(i int) Row { return f.rows[i] }

func (f *Frame) HasColumn(col string) bool {
	return slices.Contains(f.columns, col)
}

// Column returns every row's value for col.
func (f *Frame) Column(col string) []Value {
	out := make([]Value, len(f.rows))
	for i, row := range f.rows {
		out[i] = row.Get(col)
	}
	return out
}

// NonMissing counts the values of row that are present across the frame's
// columns.
func (f *Frame) NonMissing(row Row) int {
	n := 0
	for _, col := range f.columns {
		if !row.Get(col).IsMissing() {
			n++
		}
	}
	return n
}

// Map returns a new frame whose rows are fn applied to a clone of each row.
func (f *Frame) Map(fn func(Row) Row) *Frame {
	rows := make([]Row, 0, len(f.rows))
	for _, row := range f.rows {
		rows = append(rows, fn(row.Clone()))
	}
	return New(f.columns, rows)
}

// Filter returns a new frame holding the rows for which keep returns true.
func (f *Frame) Filter(keep func(Row) bool) *Frame {
	rows := make([]Row, 0, len(f.rows))
	for _, row := range f.rows {
		if keep(row) {
			rows = append(rows, row)
		}
	}
	return New(f.columns, rows)
}

// WithColumn appends col to the column list when it is not already present.
func (f *Frame) WithColumn(col string) *Frame {
	if f.HasColumn(col) {
		return f
	}
	return New(append(f.Columns(), col), f.rows)
}

// DropColumns removes cols from the schema and from every row.
func (f *Frame) DropColumns(cols ...string) *Frame {
	drop := make(map[string]bool, len(cols))
	for _, c := range cols {
		drop[c] = true
	}

	columns := make([]string, 0, len(f.columns))
	for _, c := range f.columns {
		if !drop[c] {
			columns = append(columns, c)
		}
	}

	rows := make([]Row, 0, len(f.rows))
	for _, row := range f.rows {
		out := make(Row, len(row))
		for k, v := range row {
			if !drop[k] {
				out[k] = v
			}
		}
		rows = append(rows, out)
	}
	return New(columns, rows)
}

// Select returns a frame with exactly cols, in that order. Columns absent
// from f appear as all-Missing.
func (f *Frame) Select(cols []string) *Frame {
	rows := make([]Row, 0, len(f.rows))
	for _, row := range f.rows {
		out := make(Row, len(cols))
		for _, c := range cols {
			out[c] = row.Get(c)
		}
		rows = append(rows, out)
	}
	return New(cols, rows)
}

// Equal reports whether both frames have the same columns and row values.
func (f *Frame) Equal(o *Frame) bool {
	if !slices.Equal(f.columns, o.columns) || len(f.rows) != len(o.rows) {
		return false
	}
	for i := range f.rows {
		for _, c := range f.columns {
			if !f.rows[i].Get(c).Equal(o.rows[i].Get(c)) {
				return false
			}
		}
	}
	return true
}
