package notetools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/minglog/minglog/internal/store"
)

// ─── GraphCreateTool ────────────────────────────────────────────────────────

// GraphCreateTool handles the graph_create MCP tool.
type GraphCreateTool struct {
	store *store.Store
}

// NewGraphCreateTool creates a GraphCreateTool.
func NewGraphCreateTool(s *store.Store) *GraphCreateTool {
	return &GraphCreateTool{store: s}
}

// Definition returns the MCP tool definition for graph_create.
func (t *GraphCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("graph_create",
		mcp.WithDescription("Create a graph, the root container for pages and blocks."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Graph name")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Filesystem location associated with the graph")),
		mcp.WithObject("settings", mcp.Description("Free-form settings object")),
	)
}

// Handle processes the graph_create tool call.
func (t *GraphCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return required("name"), nil
	}
	settings, err := rawArg(req, "settings")
	if err != nil {
		return errorResult("create graph", err), nil
	}
	g, err := t.store.CreateGraph(store.CreateGraphRequest{
		Name:     name,
		Path:     req.GetString("path", ""),
		Settings: settings,
	})
	if err != nil {
		return errorResult("create graph", err), nil
	}
	return jsonResult(g), nil
}

// ─── GraphGetTool ───────────────────────────────────────────────────────────

// GraphGetTool handles the graph_get MCP tool.
type GraphGetTool struct {
	store *store.Store
}

// NewGraphGetTool creates a GraphGetTool.
func NewGraphGetTool(s *store.Store) *GraphGetTool {
	return &GraphGetTool{store: s}
}

// Definition returns the MCP tool definition for graph_get.
func (t *GraphGetTool) Definition() mcp.Tool {
	return mcp.NewTool("graph_get",
		mcp.WithDescription("Get a graph by ID."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Graph ID")),
	)
}

// Handle processes the graph_get tool call.
func (t *GraphGetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return required("id"), nil
	}
	g, err := t.store.GetGraph(id)
	if err != nil {
		return errorResult("get graph", err), nil
	}
	return jsonResult(g), nil
}

// ─── GraphUpdateTool ────────────────────────────────────────────────────────

// GraphUpdateTool handles the graph_update MCP tool.
type GraphUpdateTool struct {
	store *store.Store
}

// NewGraphUpdateTool creates a GraphUpdateTool.
func NewGraphUpdateTool(s *store.Store) *GraphUpdateTool {
	return &GraphUpdateTool{store: s}
}

// Definition returns the MCP tool definition for graph_update.
func (t *GraphUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("graph_update",
		mcp.WithDescription("Update a graph. Only provided fields are changed."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Graph ID")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("path", mcp.Description("New path")),
		mcp.WithObject("settings", mcp.Description("Replacement settings object")),
	)
}

// Handle processes the graph_update tool call.
func (t *GraphUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return required("id"), nil
	}
	settings, err := optRaw(req, "settings")
	if err != nil {
		return errorResult("update graph", err), nil
	}
	g, err := t.store.UpdateGraph(store.UpdateGraphRequest{
		ID:       id,
		Name:     optString(req, "name"),
		Path:     optString(req, "path"),
		Settings: settings,
	})
	if err != nil {
		return errorResult("update graph", err), nil
	}
	return jsonResult(g), nil
}

// ─── GraphDeleteTool ────────────────────────────────────────────────────────

// GraphDeleteTool handles the graph_delete MCP tool.
type GraphDeleteTool struct {
	store *store.Store
}

// NewGraphDeleteTool creates a GraphDeleteTool.
func NewGraphDeleteTool(s *store.Store) *GraphDeleteTool {
	return &GraphDeleteTool{store: s}
}

// Definition returns the MCP tool definition for graph_delete.
func (t *GraphDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("graph_delete",
		mcp.WithDescription("Delete a graph together with all of its pages and blocks."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Graph ID")),
	)
}

// Handle processes the graph_delete tool call.
func (t *GraphDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return required("id"), nil
	}
	if err := t.store.DeleteGraph(id); err != nil {
		return errorResult("delete graph", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Graph %s deleted", id)), nil
}

// ─── GraphListTool ──────────────────────────────────────────────────────────

// GraphListTool handles the graph_list MCP tool.
type GraphListTool struct {
	store *store.Store
}

// NewGraphListTool creates a GraphListTool.
func NewGraphListTool(s *store.Store) *GraphListTool {
	return &GraphListTool{store: s}
}

// Definition returns the MCP tool definition for graph_list.
func (t *GraphListTool) Definition() mcp.Tool {
	return mcp.NewTool("graph_list",
		mcp.WithDescription("List all graphs, most recently updated first."),
	)
}

// Handle processes the graph_list tool call.
func (t *GraphListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	graphs, err := t.store.ListGraphs()
	if err != nil {
		return errorResult("list graphs", err), nil
	}
	if len(graphs) == 0 {
		return mcp.NewToolResultText("No graphs yet."), nil
	}
	return jsonResult(graphs), nil
}
