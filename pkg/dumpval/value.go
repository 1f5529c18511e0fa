// Package dumpval models one dumped data structure as a closed tagged
// tree. Object members keep their wire order and numbers keep their exact
// source text, so a dump renders the way the sender wrote it.
package dumpval

import (
	"bytes"
	"encoding/json"
)

// Kind tags a Value variant.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

// String returns a string representation of the kind
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
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Member is one ordered (key, value) pair of an object. Keys are unique by
// occurrence, not by semantics; duplicates from the wire are kept.
type Member struct {
	Key   string
	Value Value
}

// Value is a node of a dump tree. Exactly the fields selected by Kind are
// meaningful. A Value is never mutated after construction.
type Value struct {
	Kind    Kind
	Bool    bool
	Number  json.Number
	Str     string
	Members []Member
	Elems   []Value
}

// Null returns the null value.
func Null() Value {
	return Value{Kind: KindNull}
}

// NewBool returns a boolean value.
func NewBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// NewNumber returns a numeric value carrying its textual representation.
func NewNumber(n json.Number) Value {
	return Value{Kind: KindNumber, Number: n}
}

// NewString returns a string value.
func NewString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// NewObject returns an object value with members in the given order.
func NewObject(members []Member) Value {
	return Value{Kind: KindObject, Members: members}
}

// NewArray returns an array value.
func NewArray(elems []Value) Value {
	return Value{Kind: KindArray, Elems: elems}
}

// Lookup returns the value of the first member with the given key.
func (v Value) Lookup(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// MarshalJSON re-serializes the tree preserving member order and the
// original number text.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(v.Number.String())
	case KindString:
		b, err := json.Marshal(v.Str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.Elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}
	return nil
}
