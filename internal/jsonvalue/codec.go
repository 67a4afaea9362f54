package jsonvalue

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ErrEmpty is returned by Parse for input holding no JSON value.
var ErrEmpty = errors.New("empty JSON document")

// Parse decodes exactly one JSON value from text. Object member order and
// number literals are preserved; for a repeated key the first position wins
// and the last value wins.
func Parse(text string) (*Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, syntaxError(dec, err)
	}
	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("unexpected %v after top-level value", tok)
		}
		return nil, syntaxError(dec, err)
	}
	return v, nil
}

// SyntaxError is a Parse failure with the byte offset it was detected at.
type SyntaxError struct {
	Offset int64
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v (offset %d)", e.Err, e.Offset)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func syntaxError(dec *json.Decoder, err error) error {
	off := dec.InputOffset()
	// Offsets from a failed value decode count from the value's start.
	var syn *json.SyntaxError
	if errors.As(err, &syn) && syn.Offset > off {
		off = syn.Offset
	}
	return &SyntaxError{Offset: off, Err: err}
}

func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected %q", rune(t))
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String()), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	}
	return nil, fmt.Errorf("unexpected token %T", tok)
}

func decodeObject(dec *json.Decoder) (*Value, error) {
	obj := &Value{kind: KindObject, members: []Member{}}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key %v is not a string", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		obj.setIndexed(index, key, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, unexpectedEOF(err)
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) (*Value, error) {
	arr := &Value{kind: KindArray, elems: []*Value{}}
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		arr.elems = append(arr.elems, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, unexpectedEOF(err)
	}
	return arr, nil
}

// unexpectedEOF keeps a truncated container from reading as an empty input.
func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Marshal renders v as compact JSON.
func Marshal(v *Value) string {
	var b strings.Builder
	writeValue(&b, v, "", "")
	return b.String()
}

// MarshalIndent renders v with two-space indentation and `"key": value`
// members. Empty containers stay `{}` and `[]`.
func MarshalIndent(v *Value) string {
	var b strings.Builder
	writeValue(&b, v, "\n", "  ")
	return b.String()
}

func writeValue(b *strings.Builder, v *Value, prefix, indent string) {
	switch v.Kind() {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		b.WriteString(v.s)
	case KindString:
		writeString(b, v.s)
	case KindArray:
		if len(v.elems) == 0 {
			b.WriteString("[]")
			return
		}
		inner := prefix + indent
		b.WriteByte('[')
		for i, e := range v.elems {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(inner)
			writeValue(b, e, inner, indent)
		}
		b.WriteString(prefix)
		b.WriteByte(']')
	case KindObject:
		if len(v.members) == 0 {
			b.WriteString("{}")
			return
		}
		inner := prefix + indent
		b.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(inner)
			writeString(b, m.Key)
			b.WriteByte(':')
			if indent != "" {
				b.WriteByte(' ')
			}
			writeValue(b, m.Value, inner, indent)
		}
		b.WriteString(prefix)
		b.WriteByte('}')
	}
}

// writeString escapes only what JSON requires; HTML characters and
// non-ASCII text are written as is.
func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}

// Quote returns s as a JSON string literal.
func Quote(s string) string {
	var b strings.Builder
	writeString(&b, s)
	return b.String()
}

// FromAny converts a decoded Go tree (encoding/json or ojg shapes) into a
// Value. Map keys are sorted since Go maps carry no order.
func FromAny(x any) (*Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case *Value:
		return t.Clone(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String()), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case int32:
		return Int(int64(t)), nil
	case uint:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint64:
		return Number(strconv.FormatUint(t, 10)), nil
	case float32:
		return fromFloat(float64(t))
	case float64:
		return fromFloat(t)
	case []any:
		arr := &Value{kind: KindArray, elems: make([]*Value, 0, len(t))}
		for i, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr.elems = append(arr.elems, ev)
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := &Value{kind: KindObject, members: make([]Member, 0, len(t))}
		for _, k := range keys {
			mv, err := FromAny(t[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", Quote(k), err)
			}
			obj.members = append(obj.members, Member{Key: k, Value: mv})
		}
		return obj, nil
	}
	return nil, fmt.Errorf("unsupported JSON type %T", x)
}

func fromFloat(f float64) (*Value, error) {
	v, ok := Float(f)
	if !ok {
		return nil, fmt.Errorf("number %v has no JSON form", f)
	}
	return v, nil
}

// ToAny converts v into plain Go values: map[string]any, []any, string,
// bool, nil, and int64 or float64 for numbers.
func (v *Value) ToAny() any {
	switch v.Kind() {
	case KindBool:
		return v.b
	case KindNumber:
		if i, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			return i
		}
		f, _ := strconv.ParseFloat(v.s, 64)
		return f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.elems))
		for i, e := range v.elems {
			out[i] = e.ToAny()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = m.Value.ToAny()
		}
		return out
	}
	return nil
}
