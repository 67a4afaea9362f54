package graph

import (
	"errors"
	"strings"
	"sync"

	"github.com/ryanping/jsoncrack.com/internal/nodepath"
	"github.com/ryanping/jsoncrack.com/internal/normalize"
)

var ErrNotFound = errors.New("node not found")

// Node is one box of the document graph: an object with its inline fields,
// or a single array element / root scalar.
type Node struct {
	ID       string
	Path     nodepath.Path        // Location of the node's value in the document
	Fields   []normalize.FieldRow // Flattened fields, container rows included
	Children []string             // Child node IDs, in document order
}

// Graph is the read side used by sessions, the CLI and the MCP server.
// This allows us to swap the whole decomposition after each commit.
type Graph interface {
	GetNode(id string) (*Node, error)
	ListChildren(id string) ([]string, error)
	FindByPath(p nodepath.Path) (*Node, error)
	Len() int
}

// MemoryStore is an in-memory Graph filled by the ingest engine.
type MemoryStore struct {
	mu     sync.RWMutex
	nodes  map[string]*Node
	order  []string          // insertion order, for stable listings
	roots  []string          // Top-level nodes
	byPath map[string]string // formatted path -> node ID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes:  make(map[string]*Node),
		roots:  []string{},
		byPath: make(map[string]string),
	}
}

// AddRoot registers a node as a top-level root and adds it to the store.
func (s *MemoryStore) AddRoot(n *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(n)
	for _, r := range s.roots {
		if r == n.ID {
			return
		}
	}
	s.roots = append(s.roots, n.ID)
}

// AddNode adds a non-root node to the store.
func (s *MemoryStore) AddNode(n *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(n)
}

// AddChild appends childID to the children of parentID.
func (s *MemoryStore) AddChild(parentID, childID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.nodes[parentID]
	if !ok {
		return ErrNotFound
	}
	p.Children = append(p.Children, childID)
	return nil
}

// addLocked must be called with s.mu held.
func (s *MemoryStore) addLocked(n *Node) {
	if _, exists := s.nodes[n.ID]; !exists {
		s.order = append(s.order, n.ID)
	}
	s.nodes[n.ID] = n
	s.byPath[nodepath.Format(n.Path)] = n.ID
}

// GetNode implements Graph.
func (s *MemoryStore) GetNode(id string) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[strings.TrimPrefix(id, "/")]
	if !ok {
		return nil, ErrNotFound
	}
	return n, nil
}

// ListChildren implements Graph. "" and "/" list the roots.
func (s *MemoryStore) ListChildren(id string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id == "" || id == "/" {
		return append([]string(nil), s.roots...), nil
	}
	n, ok := s.nodes[strings.TrimPrefix(id, "/")]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]string(nil), n.Children...), nil
}

// FindByPath implements Graph.
func (s *MemoryStore) FindByPath(p nodepath.Path) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPath[nodepath.Format(p)]
	if !ok {
		return nil, ErrNotFound
	}
	return s.nodes[id], nil
}

// Len implements Graph.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// All returns every node in insertion order.
func (s *MemoryStore) All() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}
