// Package frame holds the untyped tabular model the cleaning pipeline works on:
// a tagged Value variant, rows keyed by column name, and an ordered Frame.
package frame

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// DateLayout is the layout used for release dates everywhere in the dataset.
const DateLayout = "2006-01-02"

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindMissing Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindDate
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a single cell. The zero Value is Missing, which is distinct from
// an empty string.
type Value struct {
	kind  Kind
	s     string
	i     int64
	f     float64
	b     bool
	t     time.Time
	items []any
	obj   map[string]any
}

// Missing returns the explicit "no data" marker.
func Missing() Value { return Value{} }

func String(s string) Value   { return Value{kind: KindString, s: s} }
func Int(i int64) Value       { return Value{kind: KindInt, i: i} }
func Bool(b bool) Value       { return Value{kind: KindBool, b: b} }
func Date(t time.Time) Value  { return Value{kind: KindDate, t: t} }
func List(items []any) Value  { return Value{kind: KindList, items: items} }
func Map(m map[string]any) Value {
	if m == nil {
		return Missing()
	}
	return Value{kind: KindMap, obj: m}
}

// Float wraps f. NaN and infinities carry no information and become Missing.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Missing()
	}
	return Value{kind: KindFloat, f: f}
}

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Str returns the string payload.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// IntVal returns the integer payload.
func (v Value) IntVal() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// Number returns the numeric payload of an Int or Float value.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

func (v Value) BoolVal() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) DateVal() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.t, true
}

// Items returns the elements of a List value, nil otherwise.
func (v Value) Items() []any {
	if v.kind != KindList {
		return nil
	}
	return v.items
}

// Fields returns the entries of a Map value, nil otherwise.
func (v Value) Fields() map[string]any {
	if v.kind != KindMap {
		return nil
	}
	return v.obj
}

// String renders the value for display and for keys. Missing renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDate:
		return v.t.Format(DateLayout)
	case KindList, KindMap:
		data, err := json.Marshal(v.Native())
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}

// Native converts the value back to a plain Go value (nil for Missing).
func (v Value) Native() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindDate:
		return v.t
	case KindList:
		return v.items
	case KindMap:
		return v.obj
	default:
		return nil
	}
}

// Equal reports whether two values hold the same variant and payload.
// Nested List and Map payloads are compared by their JSON encoding.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindMissing:
		return true
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	case KindDate:
		return v.t.Equal(o.t)
	default:
		return v.String() == o.String()
	}
}

// FromAny wraps a decoded JSON value (or a value produced by Native).
// Shapes it does not recognise become Missing.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Missing()
	case Value:
		return t
	case string:
		return String(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i)
		}
		if f, err := t.Float64(); err == nil {
			return Float(f)
		}
		return String(t.String())
	case float64:
		return Float(t)
	case float32:
		return Float(float64(t))
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case bool:
		return Bool(t)
	case time.Time:
		return Date(t)
	case []any:
		return List(t)
	case map[string]any:
		return Map(t)
	default:
		return Missing()
	}
}
