package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the scalar type carried by a Value.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

// String returns the schema name of the kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a tagged scalar. The zero Value is the empty string.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
}

// String builds a string value
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int builds an integer value
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float builds a floating point value
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Kind returns the value's tag
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload, or the text form for numeric values.
func (v Value) Str() string {
	if v.kind == KindString {
		return v.s
	}
	return v.Text()
}

// Int returns the value as an integer. Floats are truncated.
func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return int64(v.f)
	default:
		return 0
	}
}

// Float returns the value as a float64
func (v Value) Float() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindFloat:
		return v.f
	default:
		return 0
	}
}

// IsNumeric reports whether the value carries a number
func (v Value) IsNumeric() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// IsBlank reports whether the value is the empty string, which is also how
// a missing float cell is loaded
func (v Value) IsBlank() bool {
	return v.kind == KindString && v.s == ""
}

// Text renders the value the way it is persisted. Integral floats render
// without a fractional part ("15", not "15.0").
func (v Value) Text() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	default:
		return v.s
	}
}

// Equal is structural equality. Numbers compare by value across int and
// float; a string never equals a number.
func (v Value) Equal(o Value) bool {
	return Compare(v, o) == 0
}

// Compare orders two values: strings byte-wise, numbers by value, and any
// string after any number.
func Compare(a, b Value) int {
	an, bn := a.IsNumeric(), b.IsNumeric()
	switch {
	case an && bn:
		if a.kind == KindInt && b.kind == KindInt {
			switch {
			case a.i < b.i:
				return -1
			case a.i > b.i:
				return 1
			}
			return 0
		}
		af, bf := a.Float(), b.Float()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	case an:
		return -1
	case bn:
		return 1
	default:
		return strings.Compare(a.s, b.s)
	}
}

// Add sums two numeric values. Int+Int stays integral; anything else is
// promoted to float.
func Add(a, b Value) Value {
	if a.kind == KindInt && b.kind == KindInt {
		return Int(a.i + b.i)
	}
	return Float(a.Float() + b.Float())
}

// Coerce parses raw text into a value of the requested kind. A blank float
// cell is missing and loads as the empty string; a blank int cell is an
// error.
func Coerce(raw string, kind Kind) (Value, error) {
	switch kind {
	case KindString:
		return String(raw), nil
	case KindInt:
		s := strings.TrimSpace(raw)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
		// integral floats such as "3.0" are accepted
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return Value{}, fmt.Errorf("%q is not an integer", raw)
		}
		return Int(int64(f)), nil
	case KindFloat:
		s := strings.TrimSpace(raw)
		if s == "" {
			return String(""), nil
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("%q is not a number", raw)
		}
		return Float(f), nil
	default:
		return Value{}, fmt.Errorf("unsupported kind %s", kind)
	}
}
