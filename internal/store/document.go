// Package store holds the canonical document text and persists the working
// copy after each commit.
package store

import "sync"

// MemoryDocument is the shared document store. It holds the canonical JSON
// text; readers never observe a partially written document.
type MemoryDocument struct {
	mu      sync.RWMutex
	text    string
	version uint64
}

func NewMemoryDocument(text string) *MemoryDocument {
	return &MemoryDocument{text: text}
}

// Document returns the current canonical text.
func (d *MemoryDocument) Document() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// SetDocument commits a new canonical text and bumps the version.
func (d *MemoryDocument) SetDocument(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = text
	d.version++
}

// Version counts SetDocument calls since creation.
func (d *MemoryDocument) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}
