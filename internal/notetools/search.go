package notetools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/minglog/minglog/internal/store"
)

// ─── NoteSearchTool ─────────────────────────────────────────────────────────

// NoteSearchTool handles the note_search MCP tool.
type NoteSearchTool struct {
	store *store.Store
}

// NewNoteSearchTool creates a NoteSearchTool.
func NewNoteSearchTool(s *store.Store) *NoteSearchTool {
	return &NoteSearchTool{store: s}
}

// Definition returns the MCP tool definition for note_search.
func (t *NoteSearchTool) Definition() mcp.Tool {
	return mcp.NewTool("note_search",
		mcp.WithDescription(
			"Search notes by free text, tags and creation date. All filters are optional and combine with AND. "+
				"Archived notes are excluded unless include_archived is true.",
		),
		mcp.WithString("query", mcp.Description("Words to match in title or content (prefix match per word)")),
		mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Match notes carrying any of these tag IDs")),
		mcp.WithString("date_from", mcp.Description("Earliest creation date, RFC 3339 or YYYY-MM-DD")),
		mcp.WithString("date_to", mcp.Description("Latest creation date, RFC 3339 or YYYY-MM-DD (whole day)")),
		mcp.WithBoolean("include_archived", mcp.Description("Include archived notes (default: false)")),
		mcp.WithNumber("limit", mcp.Description("Page size (default: 50)")),
		mcp.WithNumber("offset", mcp.Description("Items to skip (default: 0)")),
	)
}

// Handle processes the note_search tool call.
func (t *NoteSearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := t.store.SearchNotes(store.SearchRequest{
		Query:           req.GetString("query", ""),
		Tags:            stringsArg(req, "tags"),
		DateFrom:        optString(req, "date_from"),
		DateTo:          optString(req, "date_to"),
		IncludeArchived: optBool(req, "include_archived"),
		Limit:           optInt(req, "limit"),
		Offset:          optInt(req, "offset"),
	})
	if err != nil {
		return errorResult("search notes", err), nil
	}
	return jsonResult(res), nil
}

// ─── BlockSearchTool ────────────────────────────────────────────────────────

// BlockSearchTool handles the block_search MCP tool.
type BlockSearchTool struct {
	store *store.Store
}

// NewBlockSearchTool creates a BlockSearchTool.
func NewBlockSearchTool(s *store.Store) *BlockSearchTool {
	return &BlockSearchTool{store: s}
}

// Definition returns the MCP tool definition for block_search.
func (t *BlockSearchTool) Definition() mcp.Tool {
	return mcp.NewTool("block_search",
		mcp.WithDescription("Search page names, titles and block content. Results are ranked best first with an excerpt around the match."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search words")),
		mcp.WithString("graph_id", mcp.Description("Restrict to one graph")),
		mcp.WithString("page_id", mcp.Description("Restrict to one page")),
		mcp.WithBoolean("include_pages", mcp.Description("Search page names and titles (default: true)")),
		mcp.WithBoolean("include_blocks", mcp.Description("Search block content (default: true)")),
		mcp.WithNumber("limit", mcp.Description("Max results (default: 50)")),
	)
}

// Handle processes the block_search tool call.
func (t *BlockSearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return required("query"), nil
	}
	res, err := t.store.SearchBlocks(store.BlockSearchRequest{
		Query:         query,
		GraphID:       req.GetString("graph_id", ""),
		PageID:        req.GetString("page_id", ""),
		IncludePages:  optBool(req, "include_pages"),
		IncludeBlocks: optBool(req, "include_blocks"),
		Limit:         optInt(req, "limit"),
	})
	if err != nil {
		return errorResult("search blocks", err), nil
	}
	if len(res.Results) == 0 {
		return mcp.NewToolResultText("No pages or blocks found matching your query."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d results", res.Total)
	if len(res.Results) < res.Total {
		fmt.Fprintf(&b, " (showing %d)", len(res.Results))
	}
	b.WriteString(":\n\n")
	for i, r := range res.Results {
		fmt.Fprintf(&b, "[%d] %s %s (page: %s)\n    %s\n    %s\n\n",
			i+1, r.Type, r.ID, r.PageName, r.Title, r.Excerpt)
	}
	return mcp.NewToolResultText(b.String()), nil
}
