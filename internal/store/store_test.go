package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDocument(t *testing.T) {
	d := NewMemoryDocument(`{"a":1}`)
	assert.Equal(t, `{"a":1}`, d.Document())
	assert.Zero(t, d.Version())

	d.SetDocument(`{"a":2}`)
	assert.Equal(t, `{"a":2}`, d.Document())
	assert.Equal(t, uint64(1), d.Version())
}

func TestMemoryDocument_ConcurrentReaders(t *testing.T) {
	d := NewMemoryDocument("1")
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if s := d.Document(); s != "1" && s != "2" {
					t.Errorf("torn read %q", s)
				}
			}
		}()
	}
	d.SetDocument("2")
	wg.Wait()
}

func TestFileWorkingCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	ctx := context.Background()
	wc := NewFileWorkingCopy(path)

	t.Run("unchanged is not written", func(t *testing.T) {
		require.NoError(t, wc.SetContents(ctx, `ignored`, false))
		got, _ := os.ReadFile(path)
		assert.Equal(t, `{}`, string(got))
	})

	t.Run("changed is written", func(t *testing.T) {
		require.NoError(t, wc.SetContents(ctx, `{"a": 1}`, true))
		got, _ := os.ReadFile(path)
		assert.Equal(t, `{"a": 1}`, string(got))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, wc.SetContents(cctx, `[]`, true), context.Canceled)
	})
}

func TestSQLiteWorkingCopy(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "wc.db")

	wc, err := OpenSQLiteWorkingCopy(dbPath, "doc.json")
	require.NoError(t, err)

	_, _, err = wc.Contents(ctx)
	assert.ErrorIs(t, err, ErrNoContents)

	require.NoError(t, wc.SetContents(ctx, `{"a": 1}`, true))
	require.NoError(t, wc.SetContents(ctx, `{"a": 2}`, true))

	text, changed, err := wc.Contents(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 2}`, text)
	assert.True(t, changed)
	require.NoError(t, wc.Close())

	// Reopen: contents survive, other documents are separate rows.
	wc, err = OpenSQLiteWorkingCopy(dbPath, "doc.json")
	require.NoError(t, err)
	defer func() { _ = wc.Close() }()
	text, _, err = wc.Contents(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 2}`, text)

	other, err := OpenSQLiteWorkingCopy(dbPath, "other.json")
	require.NoError(t, err)
	defer func() { _ = other.Close() }()
	_, _, err = other.Contents(ctx)
	assert.ErrorIs(t, err, ErrNoContents)
}

func TestSQLiteWorkingCopy_InMemory(t *testing.T) {
	ctx := context.Background()
	wc, err := OpenSQLiteWorkingCopy(":memory:", "x")
	require.NoError(t, err)
	defer func() { _ = wc.Close() }()

	require.NoError(t, wc.SetContents(ctx, `[]`, false))
	text, changed, err := wc.Contents(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[]`, text)
	assert.False(t, changed)
}

func TestPersisterImplementations(t *testing.T) {
	var _ Persister = (*FileWorkingCopy)(nil)
	var _ Persister = (*SQLiteWorkingCopy)(nil)
	var _ Persister = Discard{}
	assert.NoError(t, Discard{}.SetContents(context.Background(), "", true))
}
