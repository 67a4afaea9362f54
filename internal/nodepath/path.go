// Package nodepath addresses a node inside a JSON document.
//
// A Path is an ordered list of steps from the document root, each step an
// object key or an array index. Paths render as bracket strings:
//
//	$                       // root
//	$["customer"][0]["id"]  // object key, array index, object key
//
// The same path can be handed to ojg as a JSONPath expression (Expr) or
// rendered as an RFC 6901 JSON Pointer (Pointer). A path is only meaningful
// against the document snapshot it was computed from.
package nodepath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/ryanping/jsoncrack.com/internal/jsonvalue"
)

// Step is one object key or one array index.
type Step struct {
	key     string
	index   int
	isIndex bool
}

// Key returns an object-key step.
func Key(k string) Step { return Step{key: k} }

// Index returns an array-index step.
func Index(i int) Step { return Step{index: i, isIndex: true} }

// IsIndex reports whether s addresses an array element.
func (s Step) IsIndex() bool { return s.isIndex }

// Key returns the object key, or false for an index step.
func (s Step) Key() (string, bool) {
	if s.isIndex {
		return "", false
	}
	return s.key, true
}

// Index returns the array index, or false for a key step.
func (s Step) Index() (int, bool) {
	if !s.isIndex {
		return 0, false
	}
	return s.index, true
}

// String renders the step as one bracket segment.
func (s Step) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return "[" + jsonvalue.Quote(s.key) + "]"
}

// Path locates a value relative to the document root. The empty path is the
// root itself.
type Path []Step

// Of builds a path from strings (keys) and ints (indexes). It panics on any
// other type; use it for literals.
func Of(steps ...any) Path {
	p := make(Path, 0, len(steps))
	for _, s := range steps {
		switch t := s.(type) {
		case string:
			p = append(p, Key(t))
		case int:
			p = append(p, Index(t))
		default:
			panic(fmt.Sprintf("nodepath.Of: step %v has type %T", s, s))
		}
	}
	return p
}

// Format renders p as "$" followed by one bracket segment per step: index
// steps as bare digits, key steps as double-quoted strings.
func Format(p Path) string {
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range p {
		b.WriteString(s.String())
	}
	return b.String()
}

func (p Path) String() string { return Format(p) }

// IsRoot reports whether p addresses the whole document.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Parent returns p without its last step. The root is its own parent.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return append(Path{}, p[:len(p)-1]...)
}

// Last returns the final step, or false for the root.
func (p Path) Last() (Step, bool) {
	if len(p) == 0 {
		return Step{}, false
	}
	return p[len(p)-1], true
}

// Append returns a new path; p is never aliased.
func (p Path) Append(steps ...Step) Path {
	out := make(Path, 0, len(p)+len(steps))
	out = append(out, p...)
	return append(out, steps...)
}

// Equal reports whether both paths have the same steps.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Expr returns p as an ojg JSONPath expression.
func (p Path) Expr() jp.Expr {
	x := jp.R()
	for _, s := range p {
		if s.isIndex {
			x = x.N(s.index)
		} else {
			x = x.C(s.key)
		}
	}
	return x
}

// Pointer renders p as an RFC 6901 JSON Pointer. The root is "".
func (p Path) Pointer() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('/')
		if s.isIndex {
			b.WriteString(strconv.Itoa(s.index))
			continue
		}
		b.WriteString(strings.NewReplacer("~", "~0", "/", "~1").Replace(s.key))
	}
	return b.String()
}

// Parse reads a concrete JSONPath such as `$["customer"][0]["id"]` or
// `$.customer[0].id`. Wildcards, filters, slices, unions, recursive descent
// and negative indexes do not name a single node and are rejected. The empty
// string and "$" are the root.
func Parse(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "$" {
		return Path{}, nil
	}
	x, err := jp.ParseString(s)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", s, err)
	}
	p := Path{}
	for _, frag := range x {
		switch f := frag.(type) {
		case jp.Root, jp.Bracket:
			continue
		case jp.Child:
			p = append(p, Key(string(f)))
		case jp.Nth:
			if f < 0 {
				return nil, fmt.Errorf("parse path %q: negative index %d", s, int(f))
			}
			p = append(p, Index(int(f)))
		default:
			return nil, fmt.Errorf("parse path %q: %T does not address a single node", s, frag)
		}
	}
	return p, nil
}
