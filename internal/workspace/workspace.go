// Package workspace ties one JSON file to its document store, graph and
// working copy.
package workspace

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ryanping/jsoncrack.com/internal/graph"
	"github.com/ryanping/jsoncrack.com/internal/ingest"
	"github.com/ryanping/jsoncrack.com/internal/jsonvalue"
	"github.com/ryanping/jsoncrack.com/internal/nodepath"
	"github.com/ryanping/jsoncrack.com/internal/session"
	"github.com/ryanping/jsoncrack.com/internal/store"
)

type Workspace struct {
	path      string
	doc       *store.MemoryDocument
	graph     *graph.HotSwapGraph
	engine    *ingest.Engine
	persister store.Persister
	notifier  session.Notifier
	logger    *log.Logger

	mu sync.Mutex // serializes updates
}

type Option func(*Workspace)

// WithPersister replaces the default file write-back.
func WithPersister(p store.Persister) Option {
	return func(w *Workspace) { w.persister = p }
}

func WithNotifier(n session.Notifier) Option {
	return func(w *Workspace) { w.notifier = n }
}

func WithLogger(l *log.Logger) Option {
	return func(w *Workspace) { w.logger = l }
}

// Open reads the JSON file at path and decomposes it.
func Open(ctx context.Context, path string, opts ...Option) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return New(path, string(data), opts...)
}

// New builds a workspace over already loaded text. path names the document
// for the default file persister.
func New(path, text string, opts ...Option) (*Workspace, error) {
	w := &Workspace{
		path:   path,
		doc:    store.NewMemoryDocument(text),
		engine: ingest.NewEngine(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.persister == nil {
		w.persister = store.NewFileWorkingCopy(path)
	}
	if w.notifier == nil {
		w.notifier = session.LogNotifier{Logger: w.logger}
	}

	g, err := w.engine.Ingest(text)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", path, err)
	}
	w.graph = graph.NewHotSwapGraph(g)
	w.logger.Debug("opened document", "path", path, "nodes", g.Len())
	return w, nil
}

func (w *Workspace) Path() string { return w.path }

// Document returns the canonical document text.
func (w *Workspace) Document() string { return w.doc.Document() }

func (w *Workspace) Graph() graph.Graph { return w.graph }

// Nodes returns every node in depth-first document order.
func (w *Workspace) Nodes() []*graph.Node {
	if ms, ok := w.graph.Current().(*graph.MemoryStore); ok {
		return ms.All()
	}
	return nil
}

// Node resolves ref, either a node ID or a path such as $["a"][0] or $.a[0].
func (w *Workspace) Node(ref string) (*graph.Node, error) {
	if !strings.HasPrefix(ref, "$") {
		n, err := w.graph.GetNode(ref)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", ref, err)
		}
		return n, nil
	}
	p, err := nodepath.Parse(ref)
	if err != nil {
		return nil, err
	}
	n, err := w.graph.FindByPath(p)
	if err != nil {
		return nil, fmt.Errorf("node at %s: %w", nodepath.Format(p), err)
	}
	return n, nil
}

// View returns the display of the node at ref.
func (w *Workspace) View(ref string) (*graph.Node, session.View, error) {
	n, err := w.Node(ref)
	if err != nil {
		return nil, session.View{}, err
	}
	return n, w.session(n, store.Discard{}).View(), nil
}

// Preview runs a save against a scratch copy of the document and returns the
// text that Update would commit. Nothing is stored or persisted.
func (w *Workspace) Preview(ctx context.Context, ref, buffer string) (string, error) {
	n, err := w.Node(ref)
	if err != nil {
		return "", err
	}
	scratch := store.NewMemoryDocument(w.doc.Document())
	s := session.New(scratch, selection(n),
		session.WithNotifier(discardNotifier{}), session.WithLogger(w.logger))
	return save(ctx, s, buffer)
}

// Update edits the node at ref with buffer, commits and persists the
// document, and re-ingests the graph. It returns the new document text.
func (w *Workspace) Update(ctx context.Context, ref, buffer string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.Node(ref)
	if err != nil {
		return "", err
	}
	result, err := save(ctx, w.session(n, w.persister), buffer)
	if result == "" {
		return "", err
	}

	// The document was committed even if persisting failed.
	g, ierr := w.engine.Ingest(result)
	if ierr != nil {
		return "", fmt.Errorf("re-ingest: %w", ierr)
	}
	w.graph.Swap(g)
	w.logger.Debug("graph swapped", "nodes", g.Len(), "version", w.doc.Version())
	return result, err
}

// Value returns the parsed current document.
func (w *Workspace) Value() (*jsonvalue.Value, error) {
	return jsonvalue.Parse(w.doc.Document())
}

func (w *Workspace) session(n *graph.Node, p store.Persister) *session.Session {
	return session.New(w.doc, selection(n),
		session.WithPersister(p),
		session.WithNotifier(w.notifier),
		session.WithLogger(w.logger))
}

func selection(n *graph.Node) session.Selection {
	return session.Selection{Path: n.Path, Fields: n.Fields}
}

func save(ctx context.Context, s *session.Session, buffer string) (string, error) {
	s.Edit()
	if err := s.SetBuffer(buffer); err != nil {
		return "", err
	}
	return s.Save(ctx)
}

type discardNotifier struct{}

func (discardNotifier) Notify(session.Notification) {}
