package graph

import (
	"sync"

	"github.com/ryanping/jsoncrack.com/internal/nodepath"
)

// HotSwapGraph is a thread-safe wrapper that allows swapping the underlying
// graph instance. Readers see either the old or the new decomposition, never
// a mix.
type HotSwapGraph struct {
	mu      sync.RWMutex
	current Graph
}

func NewHotSwapGraph(initial Graph) *HotSwapGraph {
	return &HotSwapGraph{current: initial}
}

// Swap atomically replaces the current graph with a new one.
func (h *HotSwapGraph) Swap(newGraph Graph) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = newGraph
}

// Current returns the graph in use right now.
func (h *HotSwapGraph) Current() Graph {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// GetNode delegates to current graph.
func (h *HotSwapGraph) GetNode(id string) (*Node, error) {
	return h.Current().GetNode(id)
}

// ListChildren delegates to current graph.
func (h *HotSwapGraph) ListChildren(id string) ([]string, error) {
	return h.Current().ListChildren(id)
}

// FindByPath delegates to current graph.
func (h *HotSwapGraph) FindByPath(p nodepath.Path) (*Node, error) {
	return h.Current().FindByPath(p)
}

// Len delegates to current graph.
func (h *HotSwapGraph) Len() int {
	return h.Current().Len()
}
