package notetools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/minglog/minglog/internal/transfer"
)

// ─── ImportTool ─────────────────────────────────────────────────────────────

// ImportTool handles the markdown_import MCP tool.
type ImportTool struct {
	svc *transfer.Service
}

// NewImportTool creates an ImportTool.
func NewImportTool(svc *transfer.Service) *ImportTool {
	return &ImportTool{svc: svc}
}

// Definition returns the MCP tool definition for markdown_import.
func (t *ImportTool) Definition() mcp.Tool {
	return mcp.NewTool("markdown_import",
		mcp.WithDescription(
			"Import markdown files into a graph. Each file becomes a page and each paragraph, heading "+
				"or code block becomes a block. Give either 'path' (one file), 'paths' or 'dir' (every .md file in it).",
		),
		mcp.WithString("graph_id", mcp.Required(), mcp.Description("Target graph ID")),
		mcp.WithString("path", mcp.Description("Markdown file to import")),
		mcp.WithArray("paths", mcp.WithStringItems(), mcp.Description("Markdown files to import")),
		mcp.WithString("dir", mcp.Description("Directory whose .md files are imported")),
	)
}

// Handle processes the markdown_import tool call.
func (t *ImportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	graphID := req.GetString("graph_id", "")
	if graphID == "" {
		return required("graph_id"), nil
	}

	var (
		res *transfer.ImportResult
		err error
	)
	switch {
	case req.GetString("path", "") != "":
		res, err = t.svc.ImportFile(req.GetString("path", ""), graphID)
	case len(stringsArg(req, "paths")) > 0:
		res = t.svc.ImportFiles(stringsArg(req, "paths"), graphID)
	case req.GetString("dir", "") != "":
		res, err = t.svc.ImportDir(req.GetString("dir", ""), graphID)
	default:
		return mcp.NewToolResultError("one of 'path', 'paths' or 'dir' is required"), nil
	}
	if err != nil {
		return errorResult("import markdown", err), nil
	}
	return jsonResult(res), nil
}

// ─── ExportTool ─────────────────────────────────────────────────────────────

// ExportTool handles the markdown_export MCP tool.
type ExportTool struct {
	svc *transfer.Service
}

// NewExportTool creates an ExportTool.
func NewExportTool(svc *transfer.Service) *ExportTool {
	return &ExportTool{svc: svc}
}

// Definition returns the MCP tool definition for markdown_export.
func (t *ExportTool) Definition() mcp.Tool {
	return mcp.NewTool("markdown_export",
		mcp.WithDescription(
			"Export pages as markdown files. Give 'page_id' for one page, 'page_ids' for several, "+
				"or 'graph_id' for every page of a graph.",
		),
		mcp.WithString("output_dir", mcp.Required(), mcp.Description("Directory to write into")),
		mcp.WithString("page_id", mcp.Description("Single page to export")),
		mcp.WithArray("page_ids", mcp.WithStringItems(), mcp.Description("Pages to export")),
		mcp.WithString("graph_id", mcp.Description("Graph whose pages are exported")),
	)
}

// Handle processes the markdown_export tool call.
func (t *ExportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := req.GetString("output_dir", "")
	if out == "" {
		return required("output_dir"), nil
	}

	if pageID := req.GetString("page_id", ""); pageID != "" {
		path, err := t.svc.ExportPage(pageID, out)
		if err != nil {
			return errorResult("export page", err), nil
		}
		return jsonResult(map[string]string{"path": path}), nil
	}

	var (
		res *transfer.ExportResult
		err error
	)
	if ids := stringsArg(req, "page_ids"); len(ids) > 0 {
		res, err = t.svc.ExportPages(ids, out)
	} else if graphID := req.GetString("graph_id", ""); graphID != "" {
		res, err = t.svc.ExportAll(graphID, out)
	} else {
		return mcp.NewToolResultError("one of 'page_id', 'page_ids' or 'graph_id' is required"), nil
	}
	if err != nil {
		return errorResult("export pages", err), nil
	}
	return jsonResult(res), nil
}

// ─── BackupTool ─────────────────────────────────────────────────────────────

// BackupTool handles the backup_create MCP tool.
type BackupTool struct {
	svc *transfer.Service
}

// NewBackupTool creates a BackupTool.
func NewBackupTool(svc *transfer.Service) *BackupTool {
	return &BackupTool{svc: svc}
}

// Definition returns the MCP tool definition for backup_create.
func (t *BackupTool) Definition() mcp.Tool {
	return mcp.NewTool("backup_create",
		mcp.WithDescription("Write every graph, page, block and tag to a JSON backup file."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Backup file to write")),
	)
}

// Handle processes the backup_create tool call.
func (t *BackupTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return required("path"), nil
	}
	b, err := t.svc.CreateBackup(path)
	if err != nil {
		return errorResult("create backup", err), nil
	}
	return jsonResult(map[string]any{
		"path":   path,
		"graphs": len(b.Graphs),
		"pages":  len(b.Pages),
		"blocks": len(b.Blocks),
		"tags":   len(b.Tags),
	}), nil
}

// ─── RestoreTool ────────────────────────────────────────────────────────────

// RestoreTool handles the backup_restore MCP tool.
type RestoreTool struct {
	svc *transfer.Service
}

// NewRestoreTool creates a RestoreTool.
func NewRestoreTool(svc *transfer.Service) *RestoreTool {
	return &RestoreTool{svc: svc}
}

// Definition returns the MCP tool definition for backup_restore.
func (t *RestoreTool) Definition() mcp.Tool {
	return mcp.NewTool("backup_restore",
		mcp.WithDescription("Restore a JSON backup next to the existing data. Restored items get new IDs; nothing is overwritten."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Backup file to read")),
	)
}

// Handle processes the backup_restore tool call.
func (t *RestoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return required("path"), nil
	}
	res, err := t.svc.RestoreBackup(path)
	if err != nil {
		return errorResult("restore backup", err), nil
	}
	return jsonResult(res), nil
}

// ─── NotesTransferTool ──────────────────────────────────────────────────────

// NotesTransferTool handles the notes_transfer MCP tool.
type NotesTransferTool struct {
	svc *transfer.Service
}

// NewNotesTransferTool creates a NotesTransferTool.
func NewNotesTransferTool(svc *transfer.Service) *NotesTransferTool {
	return &NotesTransferTool{svc: svc}
}

// Definition returns the MCP tool definition for notes_transfer.
func (t *NotesTransferTool) Definition() mcp.Tool {
	return mcp.NewTool("notes_transfer",
		mcp.WithDescription("Export all notes, tags and settings to a JSON file, or import such a file."),
		mcp.WithString("direction", mcp.Required(), mcp.Description("'export' or 'import'")),
		mcp.WithString("path", mcp.Required(), mcp.Description("JSON file to write or read")),
	)
}

// Handle processes the notes_transfer tool call.
func (t *NotesTransferTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return required("path"), nil
	}
	switch req.GetString("direction", "") {
	case "export":
		dump, err := t.svc.ExportNotes(path)
		if err != nil {
			return errorResult("export notes", err), nil
		}
		return jsonResult(map[string]any{
			"path":     path,
			"notes":    len(dump.Notes),
			"tags":     len(dump.Tags),
			"settings": len(dump.Settings),
		}), nil
	case "import":
		res, err := t.svc.ImportNotes(path)
		if err != nil {
			return errorResult("import notes", err), nil
		}
		return jsonResult(res), nil
	default:
		return mcp.NewToolResultError("'direction' must be 'export' or 'import'"), nil
	}
}
