package writeback

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "write-test-*.json")
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestWriteAtomic_PreservesPermissions(t *testing.T) {
	path := tempFile(t, `{}`)
	require.NoError(t, os.Chmod(path, 0o600))

	require.NoError(t, WriteAtomic(path, []byte(`[]`)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	got, _ := os.ReadFile(path)
	assert.Equal(t, `[]`, string(got))
}

func TestWriteAtomic_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, WriteAtomic(path, []byte(`{}`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "doc.json", entries[0].Name())
}

func TestWriteAtomic_MissingDir(t *testing.T) {
	err := WriteAtomic(filepath.Join(t.TempDir(), "nope", "doc.json"), []byte(`{}`))
	assert.Error(t, err)
}
