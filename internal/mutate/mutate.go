// Package mutate replaces the value at a path inside a JSON document.
//
// Every call parses its own private copy of the document, edits that copy
// and re-serializes it in full; the caller commits the returned text only on
// success. Formatting of the input is not preserved beyond what
// jsonvalue.MarshalIndent produces.
package mutate

import (
	"errors"
	"fmt"

	"github.com/ryanping/jsoncrack.com/internal/jsonvalue"
	"github.com/ryanping/jsoncrack.com/internal/nodepath"
)

// ApplyAtPath returns document with the value at p replaced by newValue.
// An empty path replaces the whole document. A missing final object key is
// appended to its object and a final array index equal to the array length
// appends; every other unresolved step is PathNotFound.
func ApplyAtPath(document string, p nodepath.Path, newValue *jsonvalue.Value) (string, error) {
	root, err := jsonvalue.Parse(document)
	if err != nil {
		return "", &Error{Kind: DocumentUnparseable, Path: p, Err: err}
	}
	if p.IsRoot() {
		return jsonvalue.MarshalIndent(newValue), nil
	}

	parent, err := walk(root, p.Parent())
	if err != nil {
		return "", &Error{Kind: PathNotFound, Path: p, Err: err}
	}
	last, _ := p.Last()
	if err := set(parent, last, newValue.Clone()); err != nil {
		return "", &Error{Kind: PathNotFound, Path: p, Err: err}
	}
	return jsonvalue.MarshalIndent(root), nil
}

// Lookup returns the value at p. Unlike ApplyAtPath every step, including
// the last, must already exist.
func Lookup(document string, p nodepath.Path) (*jsonvalue.Value, error) {
	root, err := jsonvalue.Parse(document)
	if err != nil {
		return nil, &Error{Kind: DocumentUnparseable, Path: p, Err: err}
	}
	v, err := walk(root, p)
	if err != nil {
		return nil, &Error{Kind: PathNotFound, Path: p, Err: err}
	}
	return v, nil
}

// walk follows p from root. It fails on a missing key, an index out of
// range, a non-container, or a step whose kind does not match the container.
func walk(root *jsonvalue.Value, p nodepath.Path) (*jsonvalue.Value, error) {
	cur := root
	for i, s := range p {
		next, err := child(cur, s)
		if err != nil {
			return nil, fmt.Errorf("step %d %s: %w", i, s, err)
		}
		cur = next
	}
	return cur, nil
}

var (
	errNotContainer = errors.New("not a container")
	errKindMismatch = errors.New("step kind does not match container")
	errMissing      = errors.New("no such member")
)

func child(v *jsonvalue.Value, s nodepath.Step) (*jsonvalue.Value, error) {
	if err := checkStep(v, s); err != nil {
		return nil, err
	}
	if i, ok := s.Index(); ok {
		c, found := v.Index(i)
		if !found {
			return nil, fmt.Errorf("index %d of %d: %w", i, v.Len(), errMissing)
		}
		return c, nil
	}
	k, _ := s.Key()
	c, found := v.Field(k)
	if !found {
		return nil, fmt.Errorf("key %s: %w", jsonvalue.Quote(k), errMissing)
	}
	return c, nil
}

func set(parent *jsonvalue.Value, s nodepath.Step, v *jsonvalue.Value) error {
	if err := checkStep(parent, s); err != nil {
		return fmt.Errorf("final step %s: %w", s, err)
	}
	if i, ok := s.Index(); ok {
		if !parent.SetIndex(i, v) {
			return fmt.Errorf("final step %s: index %d of %d: %w", s, i, parent.Len(), errMissing)
		}
		return nil
	}
	k, _ := s.Key()
	parent.SetField(k, v)
	return nil
}

func checkStep(v *jsonvalue.Value, s nodepath.Step) error {
	kind := v.Kind()
	if !kind.IsContainer() {
		return fmt.Errorf("%s is %w", kind, errNotContainer)
	}
	if s.IsIndex() != (kind == jsonvalue.KindArray) {
		return fmt.Errorf("%w: %s", errKindMismatch, kind)
	}
	return nil
}

// ReplacePatch describes the same edit as ApplyAtPath(doc, p, v) as an
// RFC 6902 patch with a single replace operation. RFC 6902 requires the
// target to exist, so the patch only matches edits of existing values.
func ReplacePatch(p nodepath.Path, v *jsonvalue.Value) string {
	op := jsonvalue.Object(
		jsonvalue.Member{Key: "op", Value: jsonvalue.String("replace")},
		jsonvalue.Member{Key: "path", Value: jsonvalue.String(p.Pointer())},
		jsonvalue.Member{Key: "value", Value: v},
	)
	return "[" + jsonvalue.Marshal(op) + "]"
}
