// Package options models rule option payloads and opaque settings as a tagged union.
//
// A Value is one of null, bool, number, string, array or map. The composer never looks
// inside a Value: it only stores, compares and serialises it. Map keys keep their
// declaration order.
package options

import (
	"fmt"
	"math"
	"strconv"

	"github.com/StimulCross/configs/sequencedmap"
)

// Kind identifies which member of the union a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is an immutable structured value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	// num holds the canonical literal: base 10 for integers, shortest 'g' form for floats.
	num   string
	isInt bool
	s     string
	arr   []Value
	m     *sequencedmap.Map[string, Value]
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integral number value.
func Int(i int64) Value {
	return Value{kind: KindNumber, num: strconv.FormatInt(i, 10), isInt: true}
}

// Float returns a floating point number value. Integral floats stay floats.
func Float(f float64) Value {
	return Value{kind: KindNumber, num: strconv.FormatFloat(f, 'g', -1, 64)}
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns an array value holding items.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// Map returns a map value holding elems in the given order.
func Map(elems ...*sequencedmap.Element[string, Value]) Value {
	return Value{kind: KindMap, m: sequencedmap.New(elems...)}
}

// MapOf wraps an existing ordered map. The map must not be modified afterwards.
func MapOf(m *sequencedmap.Map[string, Value]) Value {
	if m == nil {
		m = sequencedmap.New[string, Value]()
	}
	return Value{kind: KindMap, m: m}
}

// Kind returns which member of the union v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsInt returns the integer held by v. Floats without a fractional part convert.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	if v.isInt {
		i, err := strconv.ParseInt(v.num, 10, 64)
		return i, err == nil
	}
	f, err := strconv.ParseFloat(v.num, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

// AsFloat returns the number held by v as a float64.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.num, 64)
	return f, err == nil
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsArray returns the items held by v. The slice must be treated as read-only.
func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == KindArray
}

// AsMap returns the ordered map held by v. The map must be treated as read-only.
func (v Value) AsMap() (*sequencedmap.Map[string, Value], bool) {
	return v.m, v.kind == KindMap
}

// Equal reports whether v and other hold structurally identical values.
// Map comparison ignores key order; array comparison does not.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.isInt == other.isInt && v.num == other.num
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.m.IsEqualFunc(other.m, Value.Equal)
	default:
		return false
	}
}

// Interface converts v into plain Go values: nil, bool, int64, float64, string,
// []any and map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if i, ok := v.AsInt(); ok && v.isInt {
			return i
		}
		f, _ := v.AsFloat()
		return f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, v.m.Len())
		for k, item := range v.m.All() {
			out[k] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// String renders v in its JSON form for diagnostics.
func (v Value) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%s>", v.kind)
	}
	return string(data)
}
