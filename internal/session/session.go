// Package session drives one node's view → edit → save/cancel cycle against
// an injected document store.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ryanping/jsoncrack.com/internal/jsonvalue"
	"github.com/ryanping/jsoncrack.com/internal/mutate"
	"github.com/ryanping/jsoncrack.com/internal/nodepath"
	"github.com/ryanping/jsoncrack.com/internal/normalize"
	"github.com/ryanping/jsoncrack.com/internal/store"
	"github.com/ryanping/jsoncrack.com/internal/writeback"
)

// ErrNotEditing is returned by buffer operations outside an edit.
var ErrNotEditing = errors.New("session is not editing")

// State is the session's place in the view/edit cycle.
type State int

const (
	Viewing State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// DocumentStore is the canonical document holder the session commits to.
type DocumentStore interface {
	Document() string
	SetDocument(text string)
}

// Selection is the currently selected node as produced by the graph layer.
type Selection struct {
	Path   nodepath.Path
	Fields []normalize.FieldRow
}

// View is what the user sees for the selected node.
type View struct {
	Path    string
	Content string
}

// Session is the edit session for one selected node. It is safe for
// concurrent use.
type Session struct {
	mu        sync.Mutex
	doc       DocumentStore
	persister store.Persister
	notifier  Notifier
	logger    *log.Logger

	sel    Selection
	stale  bool
	state  State
	buffer string
}

// Option configures a Session.
type Option func(*Session)

// WithPersister sets where committed documents are written. The default
// discards them.
func WithPersister(p store.Persister) Option {
	return func(s *Session) { s.persister = p }
}

// WithNotifier sets the receiver of save outcomes. The default logs them.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New returns a viewing session for sel that commits to doc.
func New(doc DocumentStore, sel Selection, opts ...Option) *Session {
	s := &Session{
		doc:       doc,
		persister: store.Discard{},
		logger:    log.Default(),
		sel:       sel,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = LogNotifier{Logger: s.logger}
	}
	return s
}

// Select replaces the selection and drops any edit in progress.
func (s *Session) Select(sel Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = sel
	s.stale = false
	s.state = Viewing
	s.buffer = ""
}

// Stale reports whether the document changed since the selection was made.
func (s *Session) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}

// State returns whether the session is viewing or editing.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View renders the selected node.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	return View{
		Path:    nodepath.Format(s.sel.Path),
		Content: normalize.Normalize(s.sel.Fields),
	}
}

// Edit enters editing and seeds the buffer with the current view content.
func (s *Session) Edit() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Editing
	s.buffer = s.viewLocked().Content
	return s.buffer
}

// SetBuffer replaces the edit buffer. It fails with ErrNotEditing unless
// the session is editing.
func (s *Session) SetBuffer(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Editing {
		return ErrNotEditing
	}
	s.buffer = text
	return nil
}

// Buffer returns the edit buffer, or "" when not editing.
func (s *Session) Buffer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer
}

// Cancel discards the buffer without touching the document.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	s.state = Viewing
	s.buffer = ""
}

// Save merges the edit buffer into the document at the selected path and
// commits the result. It returns the new document text.
//
// The buffer must be JSON, except on a node that is a bare string: there an
// unchanged buffer keeps the original string, and text that is not JSON and
// does not start with '{' or '[' is saved as a new string.
//
// An unparseable buffer keeps the session editing. Any other failure closes
// it and leaves the document store untouched.
func (s *Session) Save(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Editing {
		return "", ErrNotEditing
	}
	p := s.sel.Path

	newValue, err := s.parseBuffer()
	if err != nil {
		s.logger.Debug("rejected edit buffer", "path", p, "err", err)
		s.notifier.Notify(Notification{Level: Failure, Message: MsgInvalidJSON, Err: err})
		return "", &mutate.Error{Kind: mutate.EditBufferInvalid, Path: p, Err: err}
	}

	document := s.doc.Document()
	if !normalize.IsBareScalar(s.sel.Fields) && newValue.Kind() == jsonvalue.KindObject {
		if target, err := mutate.Lookup(document, p); err == nil {
			newValue = carryContainers(target, newValue)
		}
	}

	result, err := mutate.ApplyAtPath(document, p, newValue)
	if err != nil {
		s.logger.Debug("update failed", "path", p, "kind", mutate.KindOf(err))
		s.notifier.Notify(Notification{Level: Failure, Message: MsgUpdateFailed, Err: err})
		s.closeLocked()
		return "", err
	}

	s.doc.SetDocument(result)
	s.closeLocked()
	s.stale = true

	if err := s.persister.SetContents(ctx, result, true); err != nil {
		s.logger.Error("persist failed", "path", p, "err", err)
		s.notifier.Notify(Notification{Level: Failure, Message: MsgUpdateFailed, Err: err})
		return result, fmt.Errorf("persist document: %w", err)
	}

	s.logger.Debug("saved node", "path", p, "bytes", len(result))
	s.notifier.Notify(Notification{Level: Success, Message: MsgUpdated})
	return result, nil
}

// parseBuffer parses the edit buffer. A bare string node shows its raw
// contents, so for such a node an unchanged buffer keeps the string, and a
// buffer that is not JSON and does not open a container becomes the new
// string.
func (s *Session) parseBuffer() (*jsonvalue.Value, error) {
	bareString := normalize.IsBareScalar(s.sel.Fields) && s.sel.Fields[0].Type == jsonvalue.KindString
	if bareString && s.buffer == normalize.Normalize(s.sel.Fields) {
		return jsonvalue.String(s.buffer), nil
	}
	v, err := writeback.Validate([]byte(s.buffer))
	if err == nil {
		return v, nil
	}
	if bareString {
		trimmed := strings.TrimSpace(s.buffer)
		if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
			return jsonvalue.String(s.buffer), nil
		}
	}
	return nil, err
}

// carryContainers returns edited with the members of target that the node
// display omitted, kept at their original positions. The display omits
// container members only, so a scalar member missing from edited was deleted
// by the user and is not carried.
func carryContainers(target, edited *jsonvalue.Value) *jsonvalue.Value {
	if target.Kind() != jsonvalue.KindObject {
		return edited
	}
	merged := jsonvalue.Object()
	for _, m := range target.Members() {
		if v, ok := edited.Field(m.Key); ok {
			merged.SetField(m.Key, v)
		} else if m.Value.Kind().IsContainer() {
			merged.SetField(m.Key, m.Value)
		}
	}
	for _, m := range edited.Members() {
		if _, ok := target.Field(m.Key); !ok {
			merged.SetField(m.Key, m.Value)
		}
	}
	return merged
}
