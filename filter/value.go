// Package filter provides a closed set of typed filter values for binding.
//
// A Value is exactly one of: String, Integer, Float, Boolean, StringArray,
// IntegerArray, FloatArray, StringRange, IntegerRange, FloatRange or Null.
// Scalar values render to a single bind parameter; arrays and ranges render
// to several. Asking a value for the wrong shape fails with a *TypeError
// instead of silently mis-binding parameters.
//
// Example usage:
//
//	v := filter.Strings("active", "low_stock")
//	ss, err := v.AsStringArray()     // ["active", "low_stock"], nil
//	_, err = v.ToStringValue()       // errors.Is(err, filter.ErrNotScalar)
package filter

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/nrfta/records-paging/enum"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInteger
	KindFloat
	KindBoolean
	KindStringArray
	KindIntegerArray
	KindFloatArray
	KindStringRange
	KindIntegerRange
	KindFloatRange
)

// Kinds is the enumeration of Kind names.
var Kinds = enum.New(map[Kind]string{
	KindNull:         "null",
	KindString:       "string",
	KindInteger:      "integer",
	KindFloat:        "float",
	KindBoolean:      "boolean",
	KindStringArray:  "string_array",
	KindIntegerArray: "integer_array",
	KindFloatArray:   "float_array",
	KindStringRange:  "string_range",
	KindIntegerRange: "integer_range",
	KindFloatRange:   "float_range",
})

func (k Kind) String() string {
	return Kinds.String(k)
}

// IsScalar reports whether the kind binds to exactly one parameter.
func (k Kind) IsScalar() bool {
	switch k {
	case KindString, KindInteger, KindFloat, KindBoolean:
		return true
	}
	return false
}

// IsArray reports whether the kind is one of the array variants.
func (k Kind) IsArray() bool {
	return k == KindStringArray || k == KindIntegerArray || k == KindFloatArray
}

// IsRange reports whether the kind is one of the range variants.
func (k Kind) IsRange() bool {
	return k == KindStringRange || k == KindIntegerRange || k == KindFloatRange
}

var (
	ErrNotScalar = errors.New("filter value is not a scalar")
	ErrNotArray  = errors.New("filter value is not an array")
	ErrNotRange  = errors.New("filter value is not a range")
	ErrNull      = errors.New("filter value is null")
)

// TypeError is returned when a value is projected to a shape it does not have.
type TypeError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("filter: %s on %s value: %v", e.Op, e.Kind, e.Err)
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// Value is an immutable tagged filter value. The zero Value is Null.
type Value struct {
	kind Kind

	s string
	i int64
	f float64
	b bool

	ss []string
	is []int64
	fs []float64
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string scalar.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Integer returns an integer scalar.
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }

// Float returns a float scalar.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Boolean returns a boolean scalar.
func Boolean(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Strings returns a string array.
func Strings(ss ...string) Value {
	return Value{kind: KindStringArray, ss: append([]string(nil), ss...)}
}

// Integers returns an integer array.
func Integers(is ...int64) Value {
	return Value{kind: KindIntegerArray, is: append([]int64(nil), is...)}
}

// Floats returns a float array.
func Floats(fs ...float64) Value {
	return Value{kind: KindFloatArray, fs: append([]float64(nil), fs...)}
}

// StringRange returns an inclusive string range.
func StringRange(from, to string) Value {
	return Value{kind: KindStringRange, ss: []string{from, to}}
}

// IntegerRange returns an inclusive integer range.
func IntegerRange(from, to int64) Value {
	return Value{kind: KindIntegerRange, is: []int64{from, to}}
}

// FloatRange returns an inclusive float range.
func FloatRange(from, to float64) Value {
	return Value{kind: KindFloatRange, fs: []float64{from, to}}
}

// From converts a native Go value into the matching variant.
// Supported inputs are nil, string, bool, the signed and unsigned integer
// types, float32, float64, and slices of string, int, int64 and float64.
func From(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Boolean(x), nil
	case int:
		return Integer(int64(x)), nil
	case int8:
		return Integer(int64(x)), nil
	case int16:
		return Integer(int64(x)), nil
	case int32:
		return Integer(int64(x)), nil
	case int64:
		return Integer(x), nil
	case uint8:
		return Integer(int64(x)), nil
	case uint16:
		return Integer(int64(x)), nil
	case uint32:
		return Integer(int64(x)), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case []string:
		return Strings(x...), nil
	case []int64:
		return Integers(x...), nil
	case []int:
		is := make([]int64, len(x))
		for i, n := range x {
			is[i] = int64(n)
		}
		return Integers(is...), nil
	case []float64:
		return Floats(x...), nil
	}
	return Value{}, fmt.Errorf("filter: unsupported value type %T", v)
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// ToStringValue renders a scalar to its bind text. Booleans render as "1"
// and "0" to match SQLite integer affinity. Arrays, ranges and null fail.
func (v Value) ToStringValue() (string, error) {
	switch v.kind {
	case KindString:
		return v.s, nil
	case KindInteger:
		return strconv.FormatInt(v.i, 10), nil
	case KindFloat:
		return formatFloat(v.f), nil
	case KindBoolean:
		if v.b {
			return "1", nil
		}
		return "0", nil
	case KindNull:
		return "", &TypeError{Op: "ToStringValue", Kind: v.kind, Err: ErrNull}
	}
	return "", &TypeError{Op: "ToStringValue", Kind: v.kind, Err: ErrNotScalar}
}

// AsStringArray renders an array to one bind text per element.
func (v Value) AsStringArray() ([]string, error) {
	switch v.kind {
	case KindStringArray:
		return append([]string(nil), v.ss...), nil
	case KindIntegerArray:
		out := make([]string, len(v.is))
		for i, n := range v.is {
			out[i] = strconv.FormatInt(n, 10)
		}
		return out, nil
	case KindFloatArray:
		out := make([]string, len(v.fs))
		for i, f := range v.fs {
			out[i] = formatFloat(f)
		}
		return out, nil
	}
	return nil, &TypeError{Op: "AsStringArray", Kind: v.kind, Err: ErrNotArray}
}

// AsRangeStrings renders a range to its (from, to) bind texts.
func (v Value) AsRangeStrings() (string, string, error) {
	switch v.kind {
	case KindStringRange:
		return v.ss[0], v.ss[1], nil
	case KindIntegerRange:
		return strconv.FormatInt(v.is[0], 10), strconv.FormatInt(v.is[1], 10), nil
	case KindFloatRange:
		return formatFloat(v.fs[0]), formatFloat(v.fs[1]), nil
	}
	return "", "", &TypeError{Op: "AsRangeStrings", Kind: v.kind, Err: ErrNotRange}
}

func (v Value) String() string {
	switch {
	case v.kind.IsScalar():
		s, _ := v.ToStringValue()
		return s
	case v.kind.IsArray():
		ss, _ := v.AsStringArray()
		return fmt.Sprint(ss)
	case v.kind.IsRange():
		from, to, _ := v.AsRangeStrings()
		return from + ".." + to
	}
	return "NULL"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
