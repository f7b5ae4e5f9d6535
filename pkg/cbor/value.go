// Package cbor decodes the small CBOR subset used by Matter factory data
// records: integers, byte and text strings, arrays, maps and the simple
// values false, true, null and undefined.
//
// Anything else (tags, floats, indefinite lengths, 64-bit arguments) is
// rejected rather than skipped.
package cbor

import "fmt"

// Value is a decoded CBOR data item. It is one of Unsigned, Negative,
// Bytes, Text, Array, Map, Bool, Null or Undefined.
type Value interface {
	cborValue()
}

// Unsigned is major type 0.
type Unsigned uint64

// Negative is major type 1, holding the decoded value -1-n.
type Negative int64

// Bytes is major type 2.
type Bytes []byte

// Text is major type 3. Its bytes are kept as-is, without UTF-8 validation.
type Text string

// Array is major type 4.
type Array []Value

// Pair is one key/value entry of a Map.
type Pair struct {
	Key   Value
	Value Value
}

// Map is major type 5. Entries keep their encoded order.
type Map []Pair

// Bool is simple value 20 (false) or 21 (true).
type Bool bool

// Null is simple value 22.
type Null struct{}

// Undefined is simple value 23.
type Undefined struct{}

func (Unsigned) cborValue()  {}
func (Negative) cborValue()  {}
func (Bytes) cborValue()     {}
func (Text) cborValue()      {}
func (Array) cborValue()     {}
func (Map) cborValue()       {}
func (Bool) cborValue()      {}
func (Null) cborValue()      {}
func (Undefined) cborValue() {}

// Get returns the value stored under the text key. When a key appears more
// than once the last entry wins.
func (m Map) Get(key string) (Value, bool) {
	for i := len(m) - 1; i >= 0; i-- {
		if k, ok := m[i].Key.(Text); ok && string(k) == key {
			return m[i].Value, true
		}
	}
	return nil, false
}

// ToGo converts v to plain Go values: uint64, int64, []byte, string, []any,
// map[string]any, bool or nil. Non-text map keys are formatted with
// fmt.Sprint; for duplicate keys the last entry wins.
func ToGo(v Value) any {
	switch v := v.(type) {
	case Unsigned:
		return uint64(v)
	case Negative:
		return int64(v)
	case Bytes:
		return []byte(v)
	case Text:
		return string(v)
	case Array:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = ToGo(e)
		}
		return out
	case Map:
		out := make(map[string]any, len(v))
		for _, p := range v {
			out[keyString(p.Key)] = ToGo(p.Value)
		}
		return out
	case Bool:
		return bool(v)
	}
	return nil
}

func keyString(k Value) string {
	if t, ok := k.(Text); ok {
		return string(t)
	}
	return fmt.Sprint(ToGo(k))
}
