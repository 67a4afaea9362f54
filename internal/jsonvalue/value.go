// Package jsonvalue models JSON as an explicit tagged variant.
//
// A *Value is one of null, boolean, number, string, array or object. Object
// members keep their document order and number literals keep their original
// text, so a parse followed by MarshalIndent only changes whitespace.
// Container navigation goes through checked accessors that report failure
// with an ok flag instead of panicking.
package jsonvalue

import (
	"math"
	"strconv"
)

// Kind is the tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the type name used in node field rows.
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
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// IsContainer reports whether k is KindArray or KindObject.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindObject
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value *Value
}

// Value is a JSON value. The nil *Value reads as null.
type Value struct {
	kind    Kind
	b       bool
	s       string // string contents, or the number literal
	elems   []*Value
	members []Member
}

func Null() *Value { return &Value{kind: KindNull} }

func Bool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// Number wraps a JSON number literal. The literal is not re-validated.
func Number(literal string) *Value { return &Value{kind: KindNumber, s: literal} }

func Int(i int64) *Value { return Number(strconv.FormatInt(i, 10)) }

// Float returns a number value for f, or false for NaN and infinities.
func Float(f float64) (*Value, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return Int(int64(f)), true
	}
	return Number(strconv.FormatFloat(f, 'g', -1, 64)), true
}

func String(s string) *Value { return &Value{kind: KindString, s: s} }

func Array(elems ...*Value) *Value {
	return &Value{kind: KindArray, elems: append([]*Value(nil), elems...)}
}

// Object builds an object; a repeated key keeps its first position and the
// last value.
func Object(members ...Member) *Value {
	v := &Value{kind: KindObject}
	index := make(map[string]int, len(members))
	for _, m := range members {
		v.setIndexed(index, m.Key, m.Value)
	}
	return v
}

// Kind returns the tag of v.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

func (v *Value) Bool() (bool, bool) {
	if v.Kind() != KindBool {
		return false, false
	}
	return v.b, true
}

// Str returns the contents of a string value.
func (v *Value) Str() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}
	return v.s, true
}

// NumberText returns the literal of a number value.
func (v *Value) NumberText() (string, bool) {
	if v.Kind() != KindNumber {
		return "", false
	}
	return v.s, true
}

// Len returns the number of elements or members, 0 for scalars.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.elems)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Index returns element i of an array.
func (v *Value) Index(i int) (*Value, bool) {
	if v.Kind() != KindArray || i < 0 || i >= len(v.elems) {
		return nil, false
	}
	return v.elems[i], true
}

// Field returns the member named key of an object.
func (v *Value) Field(key string) (*Value, bool) {
	if v.Kind() != KindObject {
		return nil, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Elems returns a copy of the element slice of an array.
func (v *Value) Elems() []*Value {
	if v.Kind() != KindArray {
		return nil
	}
	return append([]*Value(nil), v.elems...)
}

// Members returns a copy of the member slice of an object.
func (v *Value) Members() []Member {
	if v.Kind() != KindObject {
		return nil
	}
	return append([]Member(nil), v.members...)
}

// SetIndex replaces element i of an array, or appends when i == Len().
func (v *Value) SetIndex(i int, elem *Value) bool {
	if v.Kind() != KindArray || i < 0 || i > len(v.elems) {
		return false
	}
	if i == len(v.elems) {
		v.elems = append(v.elems, elem)
		return true
	}
	v.elems[i] = elem
	return true
}

// SetField replaces the member named key in place, or appends it.
func (v *Value) SetField(key string, val *Value) bool {
	if v.Kind() != KindObject {
		return false
	}
	for i := range v.members {
		if v.members[i].Key == key {
			v.members[i].Value = val
			return true
		}
	}
	v.members = append(v.members, Member{Key: key, Value: val})
	return true
}

// setIndexed is SetField for bulk construction; index maps each key already
// in v to its member position.
func (v *Value) setIndexed(index map[string]int, key string, val *Value) {
	if i, ok := index[key]; ok {
		v.members[i].Value = val
		return
	}
	index[key] = len(v.members)
	v.members = append(v.members, Member{Key: key, Value: val})
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return Null()
	}
	out := &Value{kind: v.kind, b: v.b, s: v.s}
	if v.elems != nil {
		out.elems = make([]*Value, len(v.elems))
		for i, e := range v.elems {
			out.elems[i] = e.Clone()
		}
	}
	if v.members != nil {
		out.members = make([]Member, len(v.members))
		for i, m := range v.members {
			out.members[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		}
	}
	return out
}

// Text is the canonical display text of a scalar: the number literal,
// true/false, null, or the raw string contents. Containers render as
// compact JSON.
func (v *Value) Text() string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber, KindString:
		return v.s
	default:
		return Marshal(v)
	}
}

// String implements fmt.Stringer with compact JSON.
func (v *Value) String() string {
	return Marshal(v)
}

// Equal reports deep equality. Object member order is ignored; numbers are
// compared by value when both literals fit a float64.
func Equal(a, b *Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindNumber:
		if a.s == b.s {
			return true
		}
		fa, errA := strconv.ParseFloat(a.s, 64)
		fb, errB := strconv.ParseFloat(b.s, 64)
		return errA == nil && errB == nil && fa == fb
	case KindArray:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], b.elems[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.members) != len(b.members) {
			return false
		}
		for _, m := range a.members {
			other, ok := b.Field(m.Key)
			if !ok || !Equal(m.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}
