// Package ingest decomposes a JSON document into graph nodes.
//
// Decomposition rules:
//   - an object is one node, with one field row per member; scalar members
//     carry their value inline, container members carry only their type and
//     are decomposed as children of the object's node
//   - an array is not a node: each element is decomposed under the nearest
//     enclosing node (or as a root)
//   - a scalar that is an array element or the whole document is a node with
//     a single unkeyed row
//
// Node IDs are "1", "2", ... in depth-first document order.
package ingest

import (
	"fmt"
	"strconv"

	"github.com/ryanping/jsoncrack.com/internal/graph"
	"github.com/ryanping/jsoncrack.com/internal/jsonvalue"
	"github.com/ryanping/jsoncrack.com/internal/nodepath"
	"github.com/ryanping/jsoncrack.com/internal/normalize"
)

// Engine drives the decomposition. It holds no state between calls and is
// safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Ingest parses text and decomposes it into a new MemoryStore.
func (e *Engine) Ingest(text string) (*graph.MemoryStore, error) {
	root, err := jsonvalue.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return e.IngestValue(root), nil
}

// IngestValue decomposes an already parsed document.
func (e *Engine) IngestValue(root *jsonvalue.Value) *graph.MemoryStore {
	b := &builder{store: graph.NewMemoryStore()}
	b.visit(root, nodepath.Path{}, "")
	return b.store
}

type builder struct {
	store  *graph.MemoryStore
	nextID int
}

func (b *builder) newID() string {
	b.nextID++
	return strconv.Itoa(b.nextID)
}

func (b *builder) visit(v *jsonvalue.Value, p nodepath.Path, parentID string) {
	switch v.Kind() {
	case jsonvalue.KindArray:
		for i, elem := range v.Elems() {
			b.visit(elem, p.Append(nodepath.Index(i)), parentID)
		}
	case jsonvalue.KindObject:
		members := v.Members()
		n := &graph.Node{ID: b.newID(), Path: p, Fields: make([]normalize.FieldRow, 0, len(members))}
		for _, m := range members {
			n.Fields = append(n.Fields, normalize.Field(m.Key, m.Value))
		}
		b.attach(n, parentID)
		for _, m := range members {
			if m.Value.Kind().IsContainer() {
				b.visit(m.Value, p.Append(nodepath.Key(m.Key)), n.ID)
			}
		}
	default:
		b.attach(&graph.Node{
			ID:     b.newID(),
			Path:   p,
			Fields: []normalize.FieldRow{normalize.Bare(v)},
		}, parentID)
	}
}

func (b *builder) attach(n *graph.Node, parentID string) {
	if parentID == "" {
		b.store.AddRoot(n)
		return
	}
	b.store.AddNode(n)
	// parentID was attached earlier in this walk, so AddChild cannot miss.
	_ = b.store.AddChild(parentID, n.ID)
}
