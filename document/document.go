// Package document defines Document, the in-memory JSON value exchanged
// between the YAML codec, the jq runner and the stream normalizer.
//
// A Document is a tagged variant: its Kind says which of the accessors are
// meaningful.  Object members keep their insertion order so that a YAML
// mapping survives a round trip through jq with its keys in the same order.
package document

import (
	"math/big"
	"strconv"
)

// Kind is the tag of a Document.
type Kind uint8

const (
	Null Kind = iota
	Boolean
	Number
	String
	Object
	Array
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Object:
		return "object"
	case Array:
		return "array"
	default:
		return "invalid"
	}
}

// Document is a JSON value.  The zero value is null.
type Document struct {
	kind Kind

	// For Boolean: "true" or "false".  For Number: the JSON literal.  For
	// String: the decoded string.
	scalar string

	members []Member
	items   []Document
}

// Member is a key-value pair of an Object.
type Member struct {
	Key   string
	Value Document
}

func NewNull() Document {
	return Document{}
}

func NewBool(b bool) Document {
	return Document{kind: Boolean, scalar: strconv.FormatBool(b)}
}

// NewNumber returns a Number holding the given JSON number literal.  The
// literal is not validated; use ParseNumber for untrusted input.
func NewNumber(literal string) Document {
	return Document{kind: Number, scalar: literal}
}

// ParseNumber returns a Number if literal is a valid JSON number.
func ParseNumber(literal string) (Document, bool) {
	if !IsNumberLiteral(literal) {
		return Document{}, false
	}
	return NewNumber(literal), true
}

func NewInt(n int64) Document {
	return NewNumber(strconv.FormatInt(n, 10))
}

func NewFloat(x float64) Document {
	return NewNumber(strconv.FormatFloat(x, 'g', -1, 64))
}

func NewString(s string) Document {
	return Document{kind: String, scalar: s}
}

// NewObject returns an Object with the given members.  Later members replace
// earlier ones with the same key.
func NewObject(members ...Member) Document {
	d := Document{kind: Object, members: make([]Member, 0, len(members))}
	for _, m := range members {
		d.Set(m.Key, m.Value)
	}
	return d
}

func NewArray(items ...Document) Document {
	if items == nil {
		items = []Document{}
	}
	return Document{kind: Array, items: items}
}

func (d Document) Kind() Kind {
	return d.kind
}

func (d Document) IsNull() bool {
	return d.kind == Null
}

// Bool returns the value of a Boolean.
func (d Document) Bool() bool {
	return d.kind == Boolean && d.scalar == "true"
}

// Literal returns the JSON literal of a Number.
func (d Document) Literal() string {
	if d.kind != Number {
		return ""
	}
	return d.scalar
}

// Str returns the value of a String.
func (d Document) Str() string {
	if d.kind != String {
		return ""
	}
	return d.scalar
}

// Int64 returns the value of a Number if it is an integer that fits in 64 bits.
func (d Document) Int64() (int64, bool) {
	if d.kind != Number {
		return 0, false
	}
	n, err := strconv.ParseInt(d.scalar, 10, 64)
	return n, err == nil
}

// Float64 returns the value of a Number as a float64.
func (d Document) Float64() (float64, bool) {
	if d.kind != Number {
		return 0, false
	}
	x, err := strconv.ParseFloat(d.scalar, 64)
	return x, err == nil
}

// IsInteger reports whether the literal of a Number has no fraction or
// exponent part.
func (d Document) IsInteger() bool {
	if d.kind != Number {
		return false
	}
	for i := 0; i < len(d.scalar); i++ {
		switch d.scalar[i] {
		case '.', 'e', 'E':
			return false
		}
	}
	return true
}

// Members returns the members of an Object in order.  The slice must not be
// modified.
func (d Document) Members() []Member {
	return d.members
}

// Items returns the items of an Array in order.  The slice must not be
// modified.
func (d Document) Items() []Document {
	return d.items
}

// Len returns the number of members of an Object or items of an Array.
func (d Document) Len() int {
	switch d.kind {
	case Object:
		return len(d.members)
	case Array:
		return len(d.items)
	default:
		return 0
	}
}

// Get returns the value associated with key in an Object.
func (d Document) Get(key string) (Document, bool) {
	for _, m := range d.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Document{}, false
}

// Set associates key with value in an Object, keeping the position of an
// existing key.  It panics if d is not an Object.
func (d *Document) Set(key string, value Document) {
	if d.kind != Object {
		panic("Set called on " + d.kind.String())
	}
	for i := range d.members {
		if d.members[i].Key == key {
			d.members[i].Value = value
			return
		}
	}
	d.members = append(d.members, Member{Key: key, Value: value})
}

// Append adds an item at the end of an Array.  It panics if d is not an Array.
func (d *Document) Append(item Document) {
	if d.kind != Array {
		panic("Append called on " + d.kind.String())
	}
	d.items = append(d.items, item)
}

// Equal reports whether d and e represent the same JSON value.  Numbers are
// compared by value, object members are compared in order.
func (d Document) Equal(e Document) bool {
	if d.kind != e.kind {
		return false
	}
	switch d.kind {
	case Null:
		return true
	case Boolean, String:
		return d.scalar == e.scalar
	case Number:
		return numbersEqual(d.scalar, e.scalar)
	case Object:
		if len(d.members) != len(e.members) {
			return false
		}
		for i, m := range d.members {
			n := e.members[i]
			if m.Key != n.Key || !m.Value.Equal(n.Value) {
				return false
			}
		}
		return true
	case Array:
		if len(d.items) != len(e.items) {
			return false
		}
		for i, item := range d.items {
			if !item.Equal(e.items[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func numbersEqual(a, b string) bool {
	if a == b {
		return true
	}
	x, okx := new(big.Float).SetString(a)
	y, oky := new(big.Float).SetString(b)
	return okx && oky && x.Cmp(y) == 0
}

// String returns the compact JSON encoding of d.
func (d Document) String() string {
	return string(d.AppendJSON(nil))
}

// MarshalJSON returns the compact JSON encoding of d.
func (d Document) MarshalJSON() ([]byte, error) {
	return d.AppendJSON(nil), nil
}
