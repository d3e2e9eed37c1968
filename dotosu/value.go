package dotosu

import (
	"encoding/json"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "string"
	}
}

// Value is a decoded field: exactly one of int, float, string, bool or list.
// The zero Value is the empty string.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
	list []string
}

func Int(v int64) Value      { return Value{kind: KindInt, i: v} }
func Float(v float64) Value  { return Value{kind: KindFloat, f: v} }
func String(v string) Value  { return Value{kind: KindString, s: v} }
func Bool(v bool) Value      { return Value{kind: KindBool, b: v} }
func List(v ...string) Value { return Value{kind: KindList, list: append([]string{}, v...)} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
		return true
	default:
		return v.s == o.s
	}
}

func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInt
}

func (v Value) Float() (float64, bool) {
	return v.f, v.kind == KindFloat
}

func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// List returns a copy of the list elements.
func (v Value) List() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return append([]string(nil), v.list...), true
}

// Truthy follows the usual truthiness of the underlying value: non-zero
// numbers, non-empty strings and lists, and true are truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindBool:
		return v.b
	case KindList:
		return len(v.list) > 0
	default:
		return v.s != ""
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		return strings.Join(v.list, ",")
	default:
		return v.s
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return json.Marshal(v.s)
	}
}

// Classify infers the type of a raw field: unsigned digit runs become Int,
// "digits.digits" becomes Float, and everything else stays a String.
// Signs and exponents are deliberately not recognised.
func Classify(raw string) Value {
	if isDigits(raw) {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return String(raw)
		}
		return Int(n)
	}
	if whole, frac, ok := strings.Cut(raw, "."); ok && isDigits(whole) && isDigits(frac) {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return String(raw)
		}
		return Float(f)
	}
	return String(raw)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
