package notetools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/minglog/minglog/internal/store"
)

// ─── NoteCreateTool ─────────────────────────────────────────────────────────

// NoteCreateTool handles the note_create MCP tool.
type NoteCreateTool struct {
	store *store.Store
}

// NewNoteCreateTool creates a NoteCreateTool.
func NewNoteCreateTool(s *store.Store) *NoteCreateTool {
	return &NoteCreateTool{store: s}
}

// Definition returns the MCP tool definition for note_create.
func (t *NoteCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("note_create",
		mcp.WithDescription("Create a note."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("content", mcp.Description("Note body")),
		mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Tag IDs")),
	)
}

// Handle processes the note_create tool call.
func (t *NoteCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return required("title"), nil
	}
	n, err := t.store.CreateNote(store.CreateNoteRequest{
		Title:   title,
		Content: req.GetString("content", ""),
		Tags:    stringsArg(req, "tags"),
	})
	if err != nil {
		return errorResult("create note", err), nil
	}
	return jsonResult(n), nil
}

// ─── NoteGetTool ────────────────────────────────────────────────────────────

// NoteGetTool handles the note_get MCP tool.
type NoteGetTool struct {
	store *store.Store
}

// NewNoteGetTool creates a NoteGetTool.
func NewNoteGetTool(s *store.Store) *NoteGetTool {
	return &NoteGetTool{store: s}
}

// Definition returns the MCP tool definition for note_get.
func (t *NoteGetTool) Definition() mcp.Tool {
	return mcp.NewTool("note_get",
		mcp.WithDescription("Get a note by ID."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note ID")),
	)
}

// Handle processes the note_get tool call.
func (t *NoteGetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return required("id"), nil
	}
	n, err := t.store.GetNote(id)
	if err != nil {
		return errorResult("get note", err), nil
	}
	return jsonResult(n), nil
}

// ─── NoteUpdateTool ─────────────────────────────────────────────────────────

// NoteUpdateTool handles the note_update MCP tool.
type NoteUpdateTool struct {
	store *store.Store
}

// NewNoteUpdateTool creates a NoteUpdateTool.
func NewNoteUpdateTool(s *store.Store) *NoteUpdateTool {
	return &NoteUpdateTool{store: s}
}

// Definition returns the MCP tool definition for note_update.
func (t *NoteUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("note_update",
		mcp.WithDescription("Update a note. Only provided fields are changed."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note ID")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New body")),
		mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Replacement tag ID list")),
		mcp.WithBoolean("is_favorite", mcp.Description("Favorite flag")),
		mcp.WithBoolean("is_archived", mcp.Description("Archived flag")),
	)
}

// Handle processes the note_update tool call.
func (t *NoteUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return required("id"), nil
	}
	n, err := t.store.UpdateNote(store.UpdateNoteRequest{
		ID:         id,
		Title:      optString(req, "title"),
		Content:    optString(req, "content"),
		Tags:       optStrings(req, "tags"),
		IsFavorite: optBool(req, "is_favorite"),
		IsArchived: optBool(req, "is_archived"),
	})
	if err != nil {
		return errorResult("update note", err), nil
	}
	return jsonResult(n), nil
}

// ─── NoteDeleteTool ─────────────────────────────────────────────────────────

// NoteDeleteTool handles the note_delete MCP tool.
type NoteDeleteTool struct {
	store *store.Store
}

// NewNoteDeleteTool creates a NoteDeleteTool.
func NewNoteDeleteTool(s *store.Store) *NoteDeleteTool {
	return &NoteDeleteTool{store: s}
}

// Definition returns the MCP tool definition for note_delete.
func (t *NoteDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("note_delete",
		mcp.WithDescription("Delete a note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note ID")),
	)
}

// Handle processes the note_delete tool call.
func (t *NoteDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return required("id"), nil
	}
	if err := t.store.DeleteNote(id); err != nil {
		return errorResult("delete note", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Note %s deleted", id)), nil
}

// ─── NoteListTool ───────────────────────────────────────────────────────────

// NoteListTool handles the note_list MCP tool.
type NoteListTool struct {
	store *store.Store
}

// NewNoteListTool creates a NoteListTool.
func NewNoteListTool(s *store.Store) *NoteListTool {
	return &NoteListTool{store: s}
}

// Definition returns the MCP tool definition for note_list.
func (t *NoteListTool) Definition() mcp.Tool {
	return mcp.NewTool("note_list",
		mcp.WithDescription("List notes, most recently updated first."),
		mcp.WithNumber("limit", mcp.Description("Page size (default: 50)")),
		mcp.WithNumber("offset", mcp.Description("Items to skip (default: 0)")),
	)
}

// Handle processes the note_list tool call.
func (t *NoteListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := t.store.ListNotes(optInt(req, "limit"), optInt(req, "offset"))
	if err != nil {
		return errorResult("list notes", err), nil
	}
	return jsonResult(res), nil
}
