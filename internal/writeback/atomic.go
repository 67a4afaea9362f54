package writeback

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteAtomic replaces the contents of path with data.
// The write is atomic: content is written to a temp file first, then renamed.
func WriteAtomic(path string, data []byte) error {
	// Atomic write: temp file in same dir, then rename
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsoncrack-write-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("close temp: %w", err)
	}

	// Preserve original file permissions
	info, err := os.Stat(path)
	if err == nil {
		_ = os.Chmod(tmpName, info.Mode()) // best-effort permission sync
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("rename temp to %s: %w", path, err)
	}

	return nil
}
