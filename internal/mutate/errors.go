package mutate

import (
	"errors"
	"fmt"

	"github.com/ryanping/jsoncrack.com/internal/nodepath"
)

// Kind classifies a failed save.
type Kind string

const (
	// EditBufferInvalid: the edited text is not JSON. The document is untouched
	// and the edit can be corrected and retried.
	EditBufferInvalid Kind = "EDIT_BUFFER_INVALID"
	// DocumentUnparseable: the stored document itself is not JSON.
	DocumentUnparseable Kind = "DOCUMENT_UNPARSEABLE"
	// PathNotFound: the path does not resolve against the document, or a step
	// kind does not match its container.
	PathNotFound Kind = "PATH_NOT_FOUND"
)

// Error is a failed read or mutation of a document at a path.
type Error struct {
	Kind Kind
	Path nodepath.Path
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s at %s", e.Kind, e.Path)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
