// Package jsonvalue models parsed JSON as a closed set of value variants.
//
// Objects keep their keys in document order, which the table conversion
// relies on for stable column ordering. Values are never mutated once
// decoding returns.
package jsonvalue

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind enumerates the JSON value variants.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a parsed JSON value. The variant set is closed: Null, Bool,
// Number, String, Array and *Object.
type Value interface {
	Kind() Kind
	sealed()
}

// Null is the JSON null literal.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number, kept as the literal text from the document so
// that no precision or formatting is lost.
type Number string

// String is a JSON string.
type String string

// Array is an ordered JSON array.
type Array []Value

// Object is a JSON object whose keys keep insertion order.
type Object struct {
	fields *orderedmap.OrderedMap[string, Value]
}

func (Null) Kind() Kind    { return KindNull }
func (Bool) Kind() Kind    { return KindBool }
func (Number) Kind() Kind  { return KindNumber }
func (String) Kind() Kind  { return KindString }
func (Array) Kind() Kind   { return KindArray }
func (*Object) Kind() Kind { return KindObject }

func (Null) sealed()    {}
func (Bool) sealed()    {}
func (Number) sealed()  {}
func (String) sealed()  {}
func (Array) sealed()   {}
func (*Object) sealed() {}

// NewObject returns an empty object ready for Set.
func NewObject() *Object {
	return &Object{fields: orderedmap.New[string, Value]()}
}

// Set stores key. A repeated key keeps its first position and takes the new
// value. Set returns the receiver so literals can be built fluently.
func (o *Object) Set(key string, v Value) *Object {
	if o.fields == nil {
		o.fields = orderedmap.New[string, Value]()
	}
	o.fields.Set(key, v)
	return o
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil || o.fields == nil {
		return nil, false
	}
	return o.fields.Get(key)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil || o.fields == nil {
		return 0
	}
	return o.fields.Len()
}

// Each calls fn for every key in insertion order until fn returns false.
func (o *Object) Each(fn func(key string, v Value) bool) {
	if o == nil || o.fields == nil {
		return
	}
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Keys returns all keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	o.Each(func(key string, _ Value) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// IsEmpty reports whether v is null or a structurally empty object, array
// or string.
func IsEmpty(v Value) bool {
	switch t := v.(type) {
	case nil, Null:
		return true
	case *Object:
		return t.Len() == 0
	case Array:
		return len(t) == 0
	case String:
		return len(t) == 0
	default:
		return false
	}
}
