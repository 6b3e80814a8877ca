// Package value implements the dynamic, mutable value tree that scripts read
// from and write into.
//
// A [Value] is a tagged sum: null, string, number, boolean, object, or array.
// Containers exclusively own their children and navigation is always by key
// or index, never through parent pointers. Objects remember the order in
// which keys were first inserted so that encoded output is stable.
package value

import (
	"slices"
)

// Kind identifies the variant held by a [Value].
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a node of the value tree. The zero Value is null.
type Value struct {
	kind  Kind
	text  string // string contents, or the literal text of a number
	flag  bool
	keys  []string
	props map[string]*Value
	items []*Value
}

// Null returns a new null value.
func Null() *Value { return &Value{} }

// String returns a new string value.
func String(s string) *Value { return &Value{kind: KindString, text: s} }

// Number returns a new number value holding the literal text of a number.
func Number(literal string) *Value { return &Value{kind: KindNumber, text: literal} }

// Bool returns a new boolean value.
func Bool(b bool) *Value { return &Value{kind: KindBool, flag: b} }

// Object returns a new, empty object value.
func Object() *Value {
	return &Value{kind: KindObject, props: make(map[string]*Value)}
}

// Array returns a new array value owning the given items.
func Array(items ...*Value) *Value {
	return &Value{kind: KindArray, items: items}
}

// Kind returns the variant held by v. A nil Value is null.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}

	return v.kind
}

// IsObject reports whether v is an object.
func (v *Value) IsObject() bool { return v.Kind() == KindObject }

// Str returns the contents of a string value.
func (v *Value) Str() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}

	return v.text, true
}

// Literal returns the text of a number value.
func (v *Value) Literal() (string, bool) {
	if v.Kind() != KindNumber {
		return "", false
	}

	return v.text, true
}

// Truth returns the contents of a boolean value.
func (v *Value) Truth() (bool, bool) {
	if v.Kind() != KindBool {
		return false, false
	}

	return v.flag, true
}

// Get returns the child of an object stored under key.
func (v *Value) Get(key string) (*Value, bool) {
	if v.Kind() != KindObject {
		return nil, false
	}

	child, ok := v.props[key]

	return child, ok
}

// Set stores child under key, replacing any existing child.
// It reports false and does nothing if v is not an object.
func (v *Value) Set(key string, child *Value) bool {
	if v.Kind() != KindObject {
		return false
	}

	if child == nil {
		child = Null()
	}

	if _, exists := v.props[key]; !exists {
		v.keys = append(v.keys, key)
	}

	v.props[key] = child

	return true
}

// Delete removes the child stored under key, if any.
func (v *Value) Delete(key string) {
	if v.Kind() != KindObject {
		return
	}

	if _, exists := v.props[key]; !exists {
		return
	}

	delete(v.props, key)
	v.keys = slices.DeleteFunc(v.keys, func(k string) bool { return k == key })
}

// Keys returns the keys of an object in insertion order.
func (v *Value) Keys() []string {
	if v.Kind() != KindObject {
		return nil
	}

	return slices.Clone(v.keys)
}

// Index returns the i-th item of an array.
func (v *Value) Index(i int) (*Value, bool) {
	if v.Kind() != KindArray || i < 0 || i >= len(v.items) {
		return nil, false
	}

	return v.items[i], true
}

// Append adds items to the end of an array.
// It reports false and does nothing if v is not an array.
func (v *Value) Append(items ...*Value) bool {
	if v.Kind() != KindArray {
		return false
	}

	v.items = append(v.items, items...)

	return true
}

// Len returns the number of children of an object or array, the length of a
// string, and zero otherwise.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindObject:
		return len(v.keys)
	case KindArray:
		return len(v.items)
	case KindString:
		return len(v.text)
	default:
		return 0
	}
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return Null()
	}

	c := &Value{kind: v.kind, text: v.text, flag: v.flag}

	switch v.kind {
	case KindObject:
		c.keys = slices.Clone(v.keys)
		c.props = make(map[string]*Value, len(v.props))

		for k, child := range v.props {
			c.props[k] = child.Clone()
		}

	case KindArray:
		c.items = make([]*Value, len(v.items))
		for i, item := range v.items {
			c.items[i] = item.Clone()
		}
	}

	return c
}

// Equal reports whether v and w hold the same tree. Object key order is not
// significant.
func (v *Value) Equal(w *Value) bool {
	if v.Kind() != w.Kind() {
		return false
	}

	switch v.Kind() {
	case KindNull:
		return true

	case KindString, KindNumber:
		return v.text == w.text

	case KindBool:
		return v.flag == w.flag

	case KindObject:
		if len(v.props) != len(w.props) {
			return false
		}

		for k, child := range v.props {
			other, ok := w.props[k]
			if !ok || !child.Equal(other) {
				return false
			}
		}

		return true

	case KindArray:
		return slices.EqualFunc(v.items, w.items, (*Value).Equal)
	}

	return false
}
