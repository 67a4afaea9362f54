package writeback

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ryanping/jsoncrack.com/internal/jsonvalue"
)

// ValidationError contains structured information about a syntax error.
type ValidationError struct {
	Line    uint32 // 0-indexed
	Column  uint32 // 0-indexed
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line+1, e.Column+1, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate parses an edit buffer and returns its value, or a
// *ValidationError locating the first syntax error.
func Validate(content []byte) (*jsonvalue.Value, error) {
	v, err := jsonvalue.Parse(string(content))
	if err == nil {
		return v, nil
	}

	offset := len(content)
	var syn *jsonvalue.SyntaxError
	if errors.As(err, &syn) && int(syn.Offset) < offset {
		offset = int(syn.Offset)
	}
	line, col := position(content[:offset])
	return nil, &ValidationError{
		Line:    line,
		Column:  col,
		Message: err.Error(),
		Err:     err,
	}
}

// position returns the 0-indexed line and column just past prefix.
func position(prefix []byte) (line, col uint32) {
	s := string(prefix)
	line = uint32(strings.Count(s, "\n"))
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return line, uint32(len(s))
}
