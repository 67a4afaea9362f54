package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanping/jsoncrack.com/api"
	"github.com/ryanping/jsoncrack.com/internal/session"
	"github.com/ryanping/jsoncrack.com/internal/workspace"
)

const doc = `{"name":"shop","customer":[{"id":1},{"id":2}]}`

func newServer(t *testing.T) (*Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	logger := log.New(&bytes.Buffer{})
	ws, err := workspace.Open(context.Background(), path,
		workspace.WithLogger(logger), workspace.WithNotifier(&session.Recorder{}))
	require.NoError(t, err)
	return New(ws, "test", logger), path
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	return res, text.Text
}

func TestTools_Registered(t *testing.T) {
	s, _ := newServer(t)
	tools := s.MCPServer().ListTools()
	for _, name := range []string{ToolListNodes, ToolViewNode, ToolUpdateNode} {
		assert.Contains(t, tools, name)
	}
}

func TestListNodes(t *testing.T) {
	s, _ := newServer(t)
	res, body := call(t, s.handleListNodes, nil)
	assert.False(t, res.IsError)

	var nodes []api.NodeSummary
	require.NoError(t, json.Unmarshal([]byte(body), &nodes))
	require.Len(t, nodes, 3)
	assert.Equal(t, "$", nodes[0].Path)
	assert.Equal(t, `$["customer"][1]`, nodes[2].Path)
}

func TestViewNode(t *testing.T) {
	s, _ := newServer(t)

	res, body := call(t, s.handleViewNode, map[string]any{"node": `$.customer[0]`})
	require.False(t, res.IsError, body)
	var v api.NodeView
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	assert.Equal(t, "2", v.ID)
	assert.Equal(t, "/customer/0", v.Pointer)
	assert.Equal(t, "{\n  \"id\": 1\n}", v.Content)

	res, _ = call(t, s.handleViewNode, map[string]any{"node": "42"})
	assert.True(t, res.IsError)

	res, _ = call(t, s.handleViewNode, map[string]any{})
	assert.True(t, res.IsError)
}

func TestUpdateNode(t *testing.T) {
	s, path := newServer(t)

	res, body := call(t, s.handleUpdateNode, map[string]any{"node": "3", "value": `{"id": 20}`})
	require.False(t, res.IsError, body)

	var r api.UpdateResult
	require.NoError(t, json.Unmarshal([]byte(body), &r))
	assert.Equal(t, session.MsgUpdated, r.Message)
	assert.Contains(t, r.Document, `"id": 20`)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, r.Document, string(onDisk))
}

func TestUpdateNode_InvalidJSON(t *testing.T) {
	s, path := newServer(t)

	res, body := call(t, s.handleUpdateNode, map[string]any{"node": "1", "value": `{invalid`})
	require.True(t, res.IsError)

	var r api.UpdateResult
	require.NoError(t, json.Unmarshal([]byte(body), &r))
	assert.Equal(t, session.MsgInvalidJSON, r.Message)
	assert.Contains(t, r.Error, "EDIT_BUFFER_INVALID")

	onDisk, _ := os.ReadFile(path)
	assert.Equal(t, doc, string(onDisk))
}

func TestUpdateNode_MissingValue(t *testing.T) {
	s, _ := newServer(t)
	res, _ := call(t, s.handleUpdateNode, map[string]any{"node": "1"})
	assert.True(t, res.IsError)
}
