// Package mcpserver exposes a workspace's nodes as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ryanping/jsoncrack.com/api"
	"github.com/ryanping/jsoncrack.com/internal/workspace"
)

const (
	ToolListNodes  = "list_nodes"
	ToolViewNode   = "view_node"
	ToolUpdateNode = "update_node"
)

type Server struct {
	ws     *workspace.Workspace
	mcp    *server.MCPServer
	logger *log.Logger
}

func New(ws *workspace.Workspace, version string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		ws:     ws,
		mcp:    server.NewMCPServer("jsoncrack", version, server.WithToolCapabilities(false)),
		logger: logger,
	}

	s.mcp.AddTool(mcp.NewTool(ToolListNodes,
		mcp.WithDescription("List every node of the document with its path"),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleListNodes)

	s.mcp.AddTool(mcp.NewTool(ToolViewNode,
		mcp.WithDescription("Show the normalized content of one node"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("node", mcp.Required(),
			mcp.Description(`Node ID or path, e.g. "3" or $["customer"][0]`)),
	), s.handleViewNode)

	s.mcp.AddTool(mcp.NewTool(ToolUpdateNode,
		mcp.WithDescription("Replace one node with new JSON content and save the document"),
		mcp.WithString("node", mcp.Required(),
			mcp.Description(`Node ID or path, e.g. "3" or $["customer"][0]`)),
		mcp.WithString("value", mcp.Required(),
			mcp.Description("New JSON content for the node, as shown by view_node")),
	), s.handleUpdateNode)

	return s
}

// MCPServer returns the underlying server, for custom transports.
func (s *Server) MCPServer() *server.MCPServer { return s.mcp }

// ServeStdio serves MCP over stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP on stdio", "document", s.ws.Path())
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleListNodes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodes := s.ws.Nodes()
	out := make([]api.NodeSummary, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, workspace.SummaryOf(n))
	}
	return jsonResult(out)
}

func (s *Server) handleViewNode(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("node")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, v, err := s.ws.View(ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(workspace.ViewOf(n, v))
}

func (s *Server) handleUpdateNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("node")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	document, err := s.ws.Update(ctx, ref, value)
	result := workspace.ResultOf(ref, document, err)
	if err != nil {
		s.logger.Warn("update_node failed", "node", ref, "err", err)
		body, merr := json.Marshal(result)
		if merr != nil {
			return nil, merr
		}
		return mcp.NewToolResultError(string(body)), nil
	}
	return jsonResult(result)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(body)), nil
}
