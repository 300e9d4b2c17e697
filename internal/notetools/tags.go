package notetools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/minglog/minglog/internal/store"
)

// ─── TagCreateTool ──────────────────────────────────────────────────────────

// TagCreateTool handles the tag_create MCP tool.
type TagCreateTool struct {
	store *store.Store
}

// NewTagCreateTool creates a TagCreateTool.
func NewTagCreateTool(s *store.Store) *TagCreateTool {
	return &TagCreateTool{store: s}
}

// Definition returns the MCP tool definition for tag_create.
func (t *TagCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("tag_create",
		mcp.WithDescription("Create a tag. Tag names are unique."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Tag name")),
		mcp.WithString("color", mcp.Description("Display color (default: "+store.DefaultTagColor+")")),
	)
}

// Handle processes the tag_create tool call.
func (t *TagCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return required("name"), nil
	}
	tag, err := t.store.CreateTag(store.CreateTagRequest{Name: name, Color: optString(req, "color")})
	if err != nil {
		return errorResult("create tag", err), nil
	}
	return jsonResult(tag), nil
}

// ─── TagUpdateTool ──────────────────────────────────────────────────────────

// TagUpdateTool handles the tag_update MCP tool.
type TagUpdateTool struct {
	store *store.Store
}

// NewTagUpdateTool creates a TagUpdateTool.
func NewTagUpdateTool(s *store.Store) *TagUpdateTool {
	return &TagUpdateTool{store: s}
}

// Definition returns the MCP tool definition for tag_update.
func (t *TagUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("tag_update",
		mcp.WithDescription("Rename or recolor a tag."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Tag ID")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("color", mcp.Description("New color")),
	)
}

// Handle processes the tag_update tool call.
func (t *TagUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return required("id"), nil
	}
	tag, err := t.store.UpdateTag(store.UpdateTagRequest{
		ID:    id,
		Name:  optString(req, "name"),
		Color: optString(req, "color"),
	})
	if err != nil {
		return errorResult("update tag", err), nil
	}
	return jsonResult(tag), nil
}

// ─── TagDeleteTool ──────────────────────────────────────────────────────────

// TagDeleteTool handles the tag_delete MCP tool.
type TagDeleteTool struct {
	store *store.Store
}

// NewTagDeleteTool creates a TagDeleteTool.
func NewTagDeleteTool(s *store.Store) *TagDeleteTool {
	return &TagDeleteTool{store: s}
}

// Definition returns the MCP tool definition for tag_delete.
func (t *TagDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("tag_delete",
		mcp.WithDescription("Delete a tag."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Tag ID")),
	)
}

// Handle processes the tag_delete tool call.
func (t *TagDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return required("id"), nil
	}
	if err := t.store.DeleteTag(id); err != nil {
		return errorResult("delete tag", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Tag %s deleted", id)), nil
}

// ─── TagListTool ────────────────────────────────────────────────────────────

// TagListTool handles the tag_list MCP tool.
type TagListTool struct {
	store *store.Store
}

// NewTagListTool creates a TagListTool.
func NewTagListTool(s *store.Store) *TagListTool {
	return &TagListTool{store: s}
}

// Definition returns the MCP tool definition for tag_list.
func (t *TagListTool) Definition() mcp.Tool {
	return mcp.NewTool("tag_list",
		mcp.WithDescription("List all tags by name."),
	)
}

// Handle processes the tag_list tool call.
func (t *TagListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := t.store.ListTags()
	if err != nil {
		return errorResult("list tags", err), nil
	}
	if len(tags) == 0 {
		return mcp.NewToolResultText("No tags yet."), nil
	}
	return jsonResult(tags), nil
}
