package notetools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/minglog/minglog/internal/store"
)

// ─── PageCreateTool ─────────────────────────────────────────────────────────

// PageCreateTool handles the page_create MCP tool.
type PageCreateTool struct {
	store *store.Store
}

// NewPageCreateTool creates a PageCreateTool.
func NewPageCreateTool(s *store.Store) *PageCreateTool {
	return &PageCreateTool{store: s}
}

// Definition returns the MCP tool definition for page_create.
func (t *PageCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("page_create",
		mcp.WithDescription("Create a page inside a graph."),
		mcp.WithString("graph_id", mcp.Required(), mcp.Description("Owning graph ID")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Page name")),
		mcp.WithString("title", mcp.Description("Display title (defaults to the name)")),
		mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Tag names")),
		mcp.WithObject("properties", mcp.Description("Free-form properties object")),
		mcp.WithBoolean("is_journal", mcp.Description("Mark the page as a journal entry")),
		mcp.WithString("journal_date", mcp.Description("Journal date, e.g. 2024-03-01")),
	)
}

// Handle processes the page_create tool call.
func (t *PageCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	graphID := req.GetString("graph_id", "")
	if graphID == "" {
		return required("graph_id"), nil
	}
	name := req.GetString("name", "")
	if name == "" {
		return required("name"), nil
	}
	props, err := rawArg(req, "properties")
	if err != nil {
		return errorResult("create page", err), nil
	}
	p, err := t.store.CreatePage(store.CreatePageRequest{
		Name:        name,
		Title:       optString(req, "title"),
		Properties:  props,
		Tags:        stringsArg(req, "tags"),
		IsJournal:   optBool(req, "is_journal"),
		JournalDate: optString(req, "journal_date"),
		GraphID:     graphID,
	})
	if err != nil {
		return errorResult("create page", err), nil
	}
	return jsonResult(p), nil
}

// ─── PageGetTool ────────────────────────────────────────────────────────────

// PageGetTool handles the page_get MCP tool.
type PageGetTool struct {
	store *store.Store
}

// NewPageGetTool creates a PageGetTool.
func NewPageGetTool(s *store.Store) *PageGetTool {
	return &PageGetTool{store: s}
}

// Definition returns the MCP tool definition for page_get.
func (t *PageGetTool) Definition() mcp.Tool {
	return mcp.NewTool("page_get",
		mcp.WithDescription("Get a page by ID, or by name within a graph. Optionally include its block tree."),
		mcp.WithString("id", mcp.Description("Page ID")),
		mcp.WithString("graph_id", mcp.Description("Graph to look the name up in")),
		mcp.WithString("name", mcp.Description("Page name (used with graph_id when id is absent)")),
		mcp.WithBoolean("include_blocks", mcp.Description("Also return the page's blocks as a tree (default: false)")),
	)
}

type pageWithBlocks struct {
	*store.Page
	Blocks []*store.BlockNode `json:"blocks"`
}

// Handle processes the page_get tool call.
func (t *PageGetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	graphID := req.GetString("graph_id", "")
	name := req.GetString("name", "")

	var (
		p   *store.Page
		err error
	)
	switch {
	case id != "":
		p, err = t.store.GetPage(id)
	case graphID != "" && name != "":
		p, err = t.store.FindPageByName(graphID, name)
	default:
		return mcp.NewToolResultError("either 'id' or 'graph_id' with 'name' is required"), nil
	}
	if err != nil {
		return errorResult("get page", err), nil
	}

	if !boolArg(req, "include_blocks", false) {
		return jsonResult(p), nil
	}
	tree, err := t.store.PageTree(p.ID)
	if err != nil {
		return errorResult("load blocks", err), nil
	}
	return jsonResult(pageWithBlocks{Page: p, Blocks: tree}), nil
}

// ─── PageUpdateTool ─────────────────────────────────────────────────────────

// PageUpdateTool handles the page_update MCP tool.
type PageUpdateTool struct {
	store *store.Store
}

// NewPageUpdateTool creates a PageUpdateTool.
func NewPageUpdateTool(s *store.Store) *PageUpdateTool {
	return &PageUpdateTool{store: s}
}

// Definition returns the MCP tool definition for page_update.
func (t *PageUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("page_update",
		mcp.WithDescription("Update a page. Only provided fields are changed."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Page ID")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Replacement tag list")),
		mcp.WithObject("properties", mcp.Description("Replacement properties object")),
		mcp.WithBoolean("is_journal", mcp.Description("Journal flag")),
		mcp.WithString("journal_date", mcp.Description("Journal date")),
	)
}

// Handle processes the page_update tool call.
func (t *PageUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return required("id"), nil
	}
	props, err := optRaw(req, "properties")
	if err != nil {
		return errorResult("update page", err), nil
	}
	p, err := t.store.UpdatePage(store.UpdatePageRequest{
		ID:          id,
		Name:        optString(req, "name"),
		Title:       optString(req, "title"),
		Properties:  props,
		Tags:        optStrings(req, "tags"),
		IsJournal:   optBool(req, "is_journal"),
		JournalDate: optString(req, "journal_date"),
	})
	if err != nil {
		return errorResult("update page", err), nil
	}
	return jsonResult(p), nil
}

// ─── PageDeleteTool ─────────────────────────────────────────────────────────

// PageDeleteTool handles the page_delete MCP tool.
type PageDeleteTool struct {
	store *store.Store
}

// NewPageDeleteTool creates a PageDeleteTool.
func NewPageDeleteTool(s *store.Store) *PageDeleteTool {
	return &PageDeleteTool{store: s}
}

// Definition returns the MCP tool definition for page_delete.
func (t *PageDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("page_delete",
		mcp.WithDescription("Delete a page and all of its blocks."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Page ID")),
	)
}

// Handle processes the page_delete tool call.
func (t *PageDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return required("id"), nil
	}
	if err := t.store.DeletePage(id); err != nil {
		return errorResult("delete page", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Page %s deleted", id)), nil
}

// ─── PageListTool ───────────────────────────────────────────────────────────

// PageListTool handles the page_list MCP tool.
type PageListTool struct {
	store *store.Store
}

// NewPageListTool creates a PageListTool.
func NewPageListTool(s *store.Store) *PageListTool {
	return &PageListTool{store: s}
}

// Definition returns the MCP tool definition for page_list.
func (t *PageListTool) Definition() mcp.Tool {
	return mcp.NewTool("page_list",
		mcp.WithDescription("List the pages of a graph, most recently updated first."),
		mcp.WithString("graph_id", mcp.Required(), mcp.Description("Graph ID")),
		mcp.WithNumber("limit", mcp.Description("Page size (default: 50)")),
		mcp.WithNumber("offset", mcp.Description("Items to skip (default: 0)")),
	)
}

// Handle processes the page_list tool call.
func (t *PageListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	graphID := req.GetString("graph_id", "")
	if graphID == "" {
		return required("graph_id"), nil
	}
	res, err := t.store.ListPages(graphID, optInt(req, "limit"), optInt(req, "offset"))
	if err != nil {
		return errorResult("list pages", err), nil
	}
	return jsonResult(res), nil
}
