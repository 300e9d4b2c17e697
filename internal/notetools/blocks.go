package notetools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/minglog/minglog/internal/store"
)

// ─── BlockCreateTool ────────────────────────────────────────────────────────

// BlockCreateTool handles the block_create MCP tool.
type BlockCreateTool struct {
	store *store.Store
}

// NewBlockCreateTool creates a BlockCreateTool.
func NewBlockCreateTool(s *store.Store) *BlockCreateTool {
	return &BlockCreateTool{store: s}
}

// Definition returns the MCP tool definition for block_create.
func (t *BlockCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("block_create",
		mcp.WithDescription("Add a block to a page. Without an order the block is appended after its last sibling."),
		mcp.WithString("page_id", mcp.Required(), mcp.Description("Owning page ID")),
		mcp.WithString("content", mcp.Description("Block text")),
		mcp.WithString("parent_id", mcp.Description("Parent block on the same page")),
		mcp.WithNumber("order", mcp.Description("Position among siblings")),
		mcp.WithArray("refs", mcp.WithStringItems(), mcp.Description("Referenced page or block IDs")),
		mcp.WithObject("properties", mcp.Description("Free-form properties object")),
	)
}

// Handle processes the block_create tool call.
func (t *BlockCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("page_id", "")
	if pageID == "" {
		return required("page_id"), nil
	}
	props, err := rawArg(req, "properties")
	if err != nil {
		return errorResult("create block", err), nil
	}
	b, err := t.store.CreateBlock(store.CreateBlockRequest{
		Content:    req.GetString("content", ""),
		ParentID:   optString(req, "parent_id"),
		Properties: props,
		Refs:       stringsArg(req, "refs"),
		Order:      optInt(req, "order"),
		PageID:     pageID,
	})
	if err != nil {
		return errorResult("create block", err), nil
	}
	return jsonResult(b), nil
}

// ─── BlockUpdateTool ────────────────────────────────────────────────────────

// BlockUpdateTool handles the block_update MCP tool.
type BlockUpdateTool struct {
	store *store.Store
}

// NewBlockUpdateTool creates a BlockUpdateTool.
func NewBlockUpdateTool(s *store.Store) *BlockUpdateTool {
	return &BlockUpdateTool{store: s}
}

// Definition returns the MCP tool definition for block_update.
func (t *BlockUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("block_update",
		mcp.WithDescription("Update a block. Only provided fields are changed; an empty parent_id moves the block to the page root."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Block ID")),
		mcp.WithString("content", mcp.Description("New text")),
		mcp.WithString("parent_id", mcp.Description("New parent block, or empty for root")),
		mcp.WithNumber("order", mcp.Description("New position among siblings")),
		mcp.WithBoolean("collapsed", mcp.Description("Collapse state")),
		mcp.WithArray("refs", mcp.WithStringItems(), mcp.Description("Replacement reference list")),
		mcp.WithObject("properties", mcp.Description("Replacement properties object")),
	)
}

// Handle processes the block_update tool call.
func (t *BlockUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return required("id"), nil
	}
	props, err := optRaw(req, "properties")
	if err != nil {
		return errorResult("update block", err), nil
	}
	b, err := t.store.UpdateBlock(store.UpdateBlockRequest{
		ID:         id,
		Content:    optString(req, "content"),
		ParentID:   optString(req, "parent_id"),
		Properties: props,
		Refs:       optStrings(req, "refs"),
		Order:      optInt(req, "order"),
		Collapsed:  optBool(req, "collapsed"),
	})
	if err != nil {
		return errorResult("update block", err), nil
	}
	return jsonResult(b), nil
}

// ─── BlockDeleteTool ────────────────────────────────────────────────────────

// BlockDeleteTool handles the block_delete MCP tool.
type BlockDeleteTool struct {
	store *store.Store
}

// NewBlockDeleteTool creates a BlockDeleteTool.
func NewBlockDeleteTool(s *store.Store) *BlockDeleteTool {
	return &BlockDeleteTool{store: s}
}

// Definition returns the MCP tool definition for block_delete.
func (t *BlockDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("block_delete",
		mcp.WithDescription("Delete a block and its descendants. Sibling order values are left untouched."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Block ID")),
	)
}

// Handle processes the block_delete tool call.
func (t *BlockDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return required("id"), nil
	}
	if err := t.store.DeleteBlock(id); err != nil {
		return errorResult("delete block", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Block %s deleted", id)), nil
}

// ─── BlockListTool ──────────────────────────────────────────────────────────

// BlockListTool handles the block_list MCP tool.
type BlockListTool struct {
	store *store.Store
}

// NewBlockListTool creates a BlockListTool.
func NewBlockListTool(s *store.Store) *BlockListTool {
	return &BlockListTool{store: s}
}

// Definition returns the MCP tool definition for block_list.
func (t *BlockListTool) Definition() mcp.Tool {
	return mcp.NewTool("block_list",
		mcp.WithDescription("List the blocks of a page in display order, flat or as a tree."),
		mcp.WithString("page_id", mcp.Required(), mcp.Description("Page ID")),
		mcp.WithBoolean("tree", mcp.Description("Nest children under their parents (default: false)")),
	)
}

// Handle processes the block_list tool call.
func (t *BlockListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("page_id", "")
	if pageID == "" {
		return required("page_id"), nil
	}
	if boolArg(req, "tree", false) {
		tree, err := t.store.PageTree(pageID)
		if err != nil {
			return errorResult("list blocks", err), nil
		}
		return jsonResult(tree), nil
	}
	blocks, err := t.store.ListBlocks(pageID)
	if err != nil {
		return errorResult("list blocks", err), nil
	}
	return jsonResult(blocks), nil
}
