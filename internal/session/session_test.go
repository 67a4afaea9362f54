package session

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanping/jsoncrack.com/internal/graph"
	"github.com/ryanping/jsoncrack.com/internal/ingest"
	"github.com/ryanping/jsoncrack.com/internal/jsonvalue"
	"github.com/ryanping/jsoncrack.com/internal/mutate"
	"github.com/ryanping/jsoncrack.com/internal/nodepath"
	"github.com/ryanping/jsoncrack.com/internal/normalize"
	"github.com/ryanping/jsoncrack.com/internal/store"
)

const fixture = `{
  "name": "shop \"north\"",
  "rating": 4.50,
  "open": true,
  "closed": null,
  "empty": {},
  "none": [],
  "customer": [
    {"id": 1, "tags": ["vip", "42", "true", " padded "]},
    {"id": 2, "address": {"city": "Oslo", "geo": {"lat": 59.9}}, "notes": null}
  ],
  "matrix": [[1, 2], [3]],
  "wrapper": {"inner": [{"deep": "x"}]}
}`

type recordingPersister struct {
	texts   []string
	changed []bool
	err     error
}

func (p *recordingPersister) SetContents(_ context.Context, text string, changed bool) error {
	p.texts = append(p.texts, text)
	p.changed = append(p.changed, changed)
	return p.err
}

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{})
}

func selectionAt(t *testing.T, document string, p nodepath.Path) Selection {
	t.Helper()
	g, err := ingest.NewEngine().Ingest(document)
	require.NoError(t, err)
	n, err := g.FindByPath(p)
	require.NoError(t, err)
	return Selection{Path: n.Path, Fields: n.Fields}
}

func mustParse(t *testing.T, s string) *jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse(s)
	require.NoError(t, err)
	return v
}

func TestSession_ViewAndEdit(t *testing.T) {
	doc := store.NewMemoryDocument(fixture)
	s := New(doc, selectionAt(t, fixture, nodepath.Of("customer", 1, "address")), WithLogger(quietLogger()))

	v := s.View()
	assert.Equal(t, `$["customer"][1]["address"]`, v.Path)
	assert.Equal(t, "{\n  \"city\": \"Oslo\"\n}", v.Content)

	assert.Equal(t, Viewing, s.State())
	assert.Equal(t, v.Content, s.Edit())
	assert.Equal(t, Editing, s.State())
	assert.Equal(t, v.Content, s.Buffer())
}

func TestSession_NoOpSaveRoundTripsEveryNode(t *testing.T) {
	documents := map[string]string{
		"fixture":             fixture,
		"empty key only":      `{"wrap":{"":1}}`,
		"empty key and other": `{"wrap":{"":1,"b":2}}`,
		"nested empty keys":   `{"":{"":[{"":"x"},""],"k":null}}`,
		"empty key root":      `{"":true}`,
	}
	for name, document := range documents {
		t.Run(name, func(t *testing.T) {
			assertNoOpSavesKeepDocument(t, document)
		})
	}
}

func assertNoOpSavesKeepDocument(t *testing.T, document string) {
	t.Helper()
	g, err := ingest.NewEngine().Ingest(document)
	require.NoError(t, err)
	original := mustParse(t, document)

	for _, n := range g.All() {
		t.Run(nodepath.Format(n.Path), func(t *testing.T) {
			doc := store.NewMemoryDocument(document)
			rec := &Recorder{}
			s := New(doc, Selection{Path: n.Path, Fields: n.Fields},
				WithNotifier(rec), WithLogger(quietLogger()))

			s.Edit()
			result, err := s.Save(context.Background())
			require.NoError(t, err)

			got := mustParse(t, result)
			assert.True(t, jsonvalue.Equal(original, got), "document changed:\n%s", result)
			assert.Equal(t, result, doc.Document())

			last, ok := rec.Last()
			require.True(t, ok)
			assert.Equal(t, MsgUpdated, last.Message)
		})
	}
}

func TestSession_EmptyKeyMemberIsEditable(t *testing.T) {
	document := `{"wrap":{"":1,"b":2}}`
	doc := store.NewMemoryDocument(document)
	s := New(doc, selectionAt(t, document, nodepath.Of("wrap")), WithLogger(quietLogger()))

	assert.Equal(t, "{\n  \"\": 1,\n  \"b\": 2\n}", s.Edit())
	require.NoError(t, s.SetBuffer(`{"": 5, "b": 2}`))
	result, err := s.Save(context.Background())
	require.NoError(t, err)
	assert.True(t, jsonvalue.Equal(mustParse(t, `{"wrap":{"":5,"b":2}}`), mustParse(t, result)), result)
}

func TestSession_SaveCommitsAndPersists(t *testing.T) {
	doc := store.NewMemoryDocument(`{"a":{"x":1,"y":2}}`)
	p := &recordingPersister{}
	rec := &Recorder{}
	s := New(doc, selectionAt(t, doc.Document(), nodepath.Of("a")),
		WithPersister(p), WithNotifier(rec), WithLogger(quietLogger()))

	s.Edit()
	require.NoError(t, s.SetBuffer(`{"x": 99, "y": 2}`))
	result, err := s.Save(context.Background())
	require.NoError(t, err)

	assert.True(t, jsonvalue.Equal(mustParse(t, `{"a":{"x":99,"y":2}}`), mustParse(t, result)))
	assert.Equal(t, result, doc.Document())
	assert.Equal(t, []string{result}, p.texts)
	assert.Equal(t, []bool{true}, p.changed)

	assert.Equal(t, Viewing, s.State())
	assert.Empty(t, s.Buffer())
	assert.True(t, s.Stale())

	s.Select(selectionAt(t, result, nodepath.Of("a")))
	assert.False(t, s.Stale())
	assert.Equal(t, "{\n  \"x\": 99,\n  \"y\": 2\n}", s.View().Content)
}

func TestSession_InvalidBufferKeepsEditing(t *testing.T) {
	original := `{"a":{"x":1}}`
	doc := store.NewMemoryDocument(original)
	p := &recordingPersister{}
	rec := &Recorder{}
	s := New(doc, selectionAt(t, original, nodepath.Of("a")),
		WithPersister(p), WithNotifier(rec), WithLogger(quietLogger()))

	s.Edit()
	require.NoError(t, s.SetBuffer(`{invalid`))
	_, err := s.Save(context.Background())
	require.Error(t, err)
	assert.True(t, mutate.IsKind(err, mutate.EditBufferInvalid))

	assert.Equal(t, original, doc.Document())
	assert.Zero(t, doc.Version())
	assert.Empty(t, p.texts)
	assert.Equal(t, Editing, s.State())
	assert.Equal(t, `{invalid`, s.Buffer())

	last, _ := rec.Last()
	assert.Equal(t, MsgInvalidJSON, last.Message)
	assert.Equal(t, Failure, last.Level)
}

func TestSession_FailuresCloseSession(t *testing.T) {
	cases := []struct {
		name     string
		document string
		path     nodepath.Path
		kind     mutate.Kind
	}{
		{"stale path", `{"a":1}`, nodepath.Of("missing", "x"), mutate.PathNotFound},
		{"kind mismatch", `{"a":[1]}`, nodepath.Of("a", "k", "z"), mutate.PathNotFound},
		{"unparseable document", `{"a":`, nodepath.Of("a"), mutate.DocumentUnparseable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := store.NewMemoryDocument(tc.document)
			p := &recordingPersister{}
			rec := &Recorder{}
			sel := Selection{Path: tc.path, Fields: []normalize.FieldRow{
				normalize.Field("v", jsonvalue.Int(1)),
			}}
			s := New(doc, sel, WithPersister(p), WithNotifier(rec), WithLogger(quietLogger()))

			s.Edit()
			_, err := s.Save(context.Background())
			require.Error(t, err)
			assert.True(t, mutate.IsKind(err, tc.kind), "got %v", err)

			assert.Equal(t, tc.document, doc.Document())
			assert.Empty(t, p.texts)
			assert.Equal(t, Viewing, s.State())
			last, _ := rec.Last()
			assert.Equal(t, MsgUpdateFailed, last.Message)
		})
	}
}

func TestSession_SaveKeepsHiddenContainers(t *testing.T) {
	original := `{"a":1,"kids":[{"n":1}],"b":2,"meta":{"v":true}}`
	doc := store.NewMemoryDocument(original)
	s := New(doc, selectionAt(t, original, nil), WithLogger(quietLogger()))

	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": 2\n}", s.Edit())
	require.NoError(t, s.SetBuffer(`{"c": 3, "a": 5}`))
	result, err := s.Save(context.Background())
	require.NoError(t, err)

	// b was deleted by the edit; kids and meta were never shown and survive.
	assert.Equal(t, "{\n"+
		"  \"a\": 5,\n"+
		"  \"kids\": [\n"+
		"    {\n"+
		"      \"n\": 1\n"+
		"    }\n"+
		"  ],\n"+
		"  \"meta\": {\n"+
		"    \"v\": true\n"+
		"  },\n"+
		"  \"c\": 3\n"+
		"}", result)
}

func TestSession_ScalarNodeReplacedByContainer(t *testing.T) {
	original := `{"tags":["a","b"]}`
	doc := store.NewMemoryDocument(original)
	s := New(doc, selectionAt(t, original, nodepath.Of("tags", 1)), WithLogger(quietLogger()))

	assert.Equal(t, "b", s.Edit())
	require.NoError(t, s.SetBuffer(`{"name": "b"}`))
	result, err := s.Save(context.Background())
	require.NoError(t, err)
	assert.True(t, jsonvalue.Equal(mustParse(t, `{"tags":["a",{"name":"b"}]}`), mustParse(t, result)))
}

func TestSession_BareStringBuffer(t *testing.T) {
	original := `["x", 1]`

	t.Run("raw text becomes a string", func(t *testing.T) {
		doc := store.NewMemoryDocument(original)
		s := New(doc, selectionAt(t, original, nodepath.Of(0)), WithLogger(quietLogger()))
		s.Edit()
		require.NoError(t, s.SetBuffer("hello world"))
		result, err := s.Save(context.Background())
		require.NoError(t, err)
		assert.True(t, jsonvalue.Equal(mustParse(t, `["hello world", 1]`), mustParse(t, result)))
	})

	t.Run("JSON text is parsed", func(t *testing.T) {
		doc := store.NewMemoryDocument(original)
		s := New(doc, selectionAt(t, original, nodepath.Of(0)), WithLogger(quietLogger()))
		s.Edit()
		require.NoError(t, s.SetBuffer(`"quoted"`))
		result, err := s.Save(context.Background())
		require.NoError(t, err)
		assert.True(t, jsonvalue.Equal(mustParse(t, `["quoted", 1]`), mustParse(t, result)))
	})

	t.Run("broken container is invalid", func(t *testing.T) {
		doc := store.NewMemoryDocument(original)
		s := New(doc, selectionAt(t, original, nodepath.Of(0)), WithLogger(quietLogger()))
		s.Edit()
		require.NoError(t, s.SetBuffer(`{invalid`))
		_, err := s.Save(context.Background())
		assert.True(t, mutate.IsKind(err, mutate.EditBufferInvalid))
		assert.Equal(t, original, doc.Document())
	})

	t.Run("number node rejects raw text", func(t *testing.T) {
		doc := store.NewMemoryDocument(original)
		s := New(doc, selectionAt(t, original, nodepath.Of(1)), WithLogger(quietLogger()))
		s.Edit()
		require.NoError(t, s.SetBuffer("one"))
		_, err := s.Save(context.Background())
		assert.True(t, mutate.IsKind(err, mutate.EditBufferInvalid))
	})
}

func TestSession_NotEditing(t *testing.T) {
	doc := store.NewMemoryDocument(`{}`)
	s := New(doc, Selection{}, WithLogger(quietLogger()))

	_, err := s.Save(context.Background())
	assert.ErrorIs(t, err, ErrNotEditing)
	assert.ErrorIs(t, s.SetBuffer("x"), ErrNotEditing)
}

func TestSession_Cancel(t *testing.T) {
	doc := store.NewMemoryDocument(`{"a":1}`)
	p := &recordingPersister{}
	s := New(doc, selectionAt(t, doc.Document(), nil), WithPersister(p), WithLogger(quietLogger()))

	s.Edit()
	require.NoError(t, s.SetBuffer(`{"a": 2}`))
	s.Cancel()

	assert.Equal(t, Viewing, s.State())
	assert.Empty(t, s.Buffer())
	assert.Equal(t, `{"a":1}`, doc.Document())
	assert.Empty(t, p.texts)

	_, err := s.Save(context.Background())
	assert.ErrorIs(t, err, ErrNotEditing)
}

func TestSession_PersistFailureAfterCommit(t *testing.T) {
	doc := store.NewMemoryDocument(`{"a":1}`)
	boom := errors.New("disk full")
	rec := &Recorder{}
	s := New(doc, selectionAt(t, doc.Document(), nil),
		WithPersister(&recordingPersister{err: boom}), WithNotifier(rec), WithLogger(quietLogger()))

	s.Edit()
	require.NoError(t, s.SetBuffer(`{"a": 2}`))
	result, err := s.Save(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, result, doc.Document())

	last, _ := rec.Last()
	assert.Equal(t, MsgUpdateFailed, last.Message)
}

func TestSession_FixtureNodeCount(t *testing.T) {
	g, err := ingest.NewEngine().Ingest(fixture)
	require.NoError(t, err)
	var _ graph.Graph = g
	// root, empty, 2 customers, 4 tags, address, geo, 3 matrix scalars,
	// wrapper, inner[0]
	assert.Equal(t, 15, g.Len())
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := LogNotifier{Logger: log.New(&buf)}

	n.Notify(Notification{Level: Success, Message: MsgUpdated})
	n.Notify(Notification{Level: Failure, Message: MsgUpdateFailed, Err: errors.New("boom")})

	out := buf.String()
	assert.Contains(t, out, MsgUpdated)
	assert.Contains(t, out, MsgUpdateFailed)
	assert.Contains(t, out, "boom")
}

func TestMessageFor(t *testing.T) {
	assert.Equal(t, MsgUpdated, MessageFor(nil))
	assert.Equal(t, MsgInvalidJSON, MessageFor(&mutate.Error{Kind: mutate.EditBufferInvalid}))
	assert.Equal(t, MsgUpdateFailed, MessageFor(&mutate.Error{Kind: mutate.PathNotFound}))
	assert.Equal(t, MsgUpdateFailed, MessageFor(errors.New("disk full")))
}
