package store

import (
	"context"
	"fmt"

	"github.com/ryanping/jsoncrack.com/internal/writeback"
)

// Persister receives the new document text right after each commit.
type Persister interface {
	SetContents(ctx context.Context, text string, changed bool) error
}

// FileWorkingCopy writes committed documents back to their source file.
type FileWorkingCopy struct {
	Path string
}

func NewFileWorkingCopy(path string) *FileWorkingCopy {
	return &FileWorkingCopy{Path: path}
}

// SetContents implements Persister. Unchanged contents are not written.
func (f *FileWorkingCopy) SetContents(ctx context.Context, text string, changed bool) error {
	if !changed {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeback.WriteAtomic(f.Path, []byte(text)); err != nil {
		return fmt.Errorf("persist %s: %w", f.Path, err)
	}
	return nil
}

// Discard is a Persister that keeps nothing.
type Discard struct{}

func (Discard) SetContents(context.Context, string, bool) error { return nil }
