package notetools

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/minglog/minglog/internal/store"
	"github.com/minglog/minglog/internal/transfer"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

// newTestStore creates a store.Store in a temp directory for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(store.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestService(t *testing.T, s *store.Store) *transfer.Service {
	t.Helper()
	return transfer.New(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func mustNotError(t *testing.T, r *mcp.CallToolResult, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	if r.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(r))
	}
}

// mustBeToolError asserts the Handle call returns a tool error (not a Go error).
func mustBeToolError(t *testing.T, r *mcp.CallToolResult, err error, wantSubstr string) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	if !r.IsError {
		t.Fatalf("expected tool error containing %q, got success: %s", wantSubstr, resultText(r))
	}
	if wantSubstr != "" && !strings.Contains(resultText(r), wantSubstr) {
		t.Errorf("error text %q does not contain %q", resultText(r), wantSubstr)
	}
}

// decode unmarshals a JSON tool result into v.
func decode(t *testing.T, r *mcp.CallToolResult, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(resultText(r)), v); err != nil {
		t.Fatalf("decode result: %v\n%s", err, resultText(r))
	}
}

func seedGraph(t *testing.T, s *store.Store) *store.Graph {
	t.Helper()
	g, err := s.CreateGraph(store.CreateGraphRequest{Name: "Main", Path: "/tmp/main"})
	if err != nil {
		t.Fatalf("seed graph: %v", err)
	}
	return g
}

func seedPage(t *testing.T, s *store.Store, graphID, name string) *store.Page {
	t.Helper()
	p, err := s.CreatePage(store.CreatePageRequest{Name: name, GraphID: graphID})
	if err != nil {
		t.Fatalf("seed page: %v", err)
	}
	return p
}

var ctx = context.Background()

// ─── Definitions ─────────────────────────────────────────────────────────────

func TestDefinitions_RequiredParams(t *testing.T) {
	s := newTestStore(t)
	svc := newTestService(t, s)

	tests := []struct {
		tool     mcp.Tool
		name     string
		required []string
	}{
		{NewGraphCreateTool(s).Definition(), "graph_create", []string{"name", "path"}},
		{NewPageCreateTool(s).Definition(), "page_create", []string{"graph_id", "name"}},
		{NewBlockCreateTool(s).Definition(), "block_create", []string{"page_id"}},
		{NewNoteCreateTool(s).Definition(), "note_create", []string{"title"}},
		{NewTagCreateTool(s).Definition(), "tag_create", []string{"name"}},
		{NewBlockSearchTool(s).Definition(), "block_search", []string{"query"}},
		{NewImportTool(svc).Definition(), "markdown_import", []string{"graph_id"}},
		{NewExportTool(svc).Definition(), "markdown_export", []string{"output_dir"}},
		{NewRestoreTool(svc).Definition(), "backup_restore", []string{"path"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.name {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.name)
			}
			for _, want := range tt.required {
				found := false
				for _, r := range tt.tool.InputSchema.Required {
					if r == want {
						found = true
					}
				}
				if !found {
					t.Errorf("%q should be required", want)
				}
			}
		})
	}
}

// ─── Graph / page / block tools ──────────────────────────────────────────────

func TestGraphTools_Lifecycle(t *testing.T) {
	s := newTestStore(t)

	result, err := NewGraphCreateTool(s).Handle(ctx, makeReq(map[string]interface{}{
		"name":     "Work",
		"path":     "/home/me/work",
		"settings": map[string]interface{}{"theme": "dark"},
	}))
	mustNotError(t, result, err)
	var g store.Graph
	decode(t, result, &g)
	if g.Name != "Work" || !strings.Contains(string(g.Settings), "dark") {
		t.Fatalf("created graph = %+v", g)
	}

	result, err = NewGraphUpdateTool(s).Handle(ctx, makeReq(map[string]interface{}{
		"id":   g.ID,
		"name": "Work v2",
	}))
	mustNotError(t, result, err)
	var updated store.Graph
	decode(t, result, &updated)
	if updated.Name != "Work v2" || updated.Path != "/home/me/work" {
		t.Errorf("patch merge failed: %+v", updated)
	}

	result, err = NewGraphDeleteTool(s).Handle(ctx, makeReq(map[string]interface{}{"id": g.ID}))
	mustNotError(t, result, err)

	result, err = NewGraphGetTool(s).Handle(ctx, makeReq(map[string]interface{}{"id": g.ID}))
	mustBeToolError(t, result, err, "not found")

	result, err = NewGraphListTool(s).Handle(ctx, makeReq(nil))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "No graphs") {
		t.Errorf("expected empty message, got %s", resultText(result))
	}
}

func TestGraphCreate_MissingName(t *testing.T) {
	s := newTestStore(t)
	result, err := NewGraphCreateTool(s).Handle(ctx, makeReq(map[string]interface{}{"path": "/x"}))
	mustBeToolError(t, result, err, "'name' is required")
}

func TestPageTools(t *testing.T) {
	s := newTestStore(t)
	g := seedGraph(t, s)

	result, err := NewPageCreateTool(s).Handle(ctx, makeReq(map[string]interface{}{
		"graph_id": g.ID,
		"name":     "Ideas",
		"tags":     []interface{}{"a", "b"},
	}))
	mustNotError(t, result, err)
	var p store.Page
	decode(t, result, &p)
	if len(p.Tags) != 2 {
		t.Errorf("tags = %v", p.Tags)
	}

	result, err = NewPageUpdateTool(s).Handle(ctx, makeReq(map[string]interface{}{
		"id":    p.ID,
		"title": "Big Ideas",
	}))
	mustNotError(t, result, err)
	var up store.Page
	decode(t, result, &up)
	if up.Title == nil || *up.Title != "Big Ideas" || len(up.Tags) != 2 {
		t.Errorf("updated page = %+v", up)
	}

	result, err = NewPageGetTool(s).Handle(ctx, makeReq(map[string]interface{}{
		"graph_id": g.ID,
		"name":     "Ideas",
	}))
	mustNotError(t, result, err)

	result, err = NewPageListTool(s).Handle(ctx, makeReq(map[string]interface{}{
		"graph_id": g.ID,
		"limit":    float64(10),
	}))
	mustNotError(t, result, err)
	var list store.Listing[store.Page]
	decode(t, result, &list)
	if list.Total != 1 || list.HasMore {
		t.Errorf("listing = %+v", list)
	}

	result, err = NewPageGetTool(s).Handle(ctx, makeReq(nil))
	mustBeToolError(t, result, err, "required")
}

func TestPageCreate_UnknownGraph(t *testing.T) {
	s := newTestStore(t)
	result, err := NewPageCreateTool(s).Handle(ctx, makeReq(map[string]interface{}{
		"graph_id": "nope",
		"name":     "x",
	}))
	mustBeToolError(t, result, err, "not found")
}

func TestBlockTools_TreeAndOrder(t *testing.T) {
	s := newTestStore(t)
	g := seedGraph(t, s)
	p := seedPage(t, s, g.ID, "Outline")
	create := NewBlockCreateTool(s)

	result, err := create.Handle(ctx, makeReq(map[string]interface{}{
		"page_id": p.ID,
		"content": "parent",
	}))
	mustNotError(t, result, err)
	var parent store.Block
	decode(t, result, &parent)

	result, err = create.Handle(ctx, makeReq(map[string]interface{}{
		"page_id":   p.ID,
		"content":   "child",
		"parent_id": parent.ID,
	}))
	mustNotError(t, result, err)

	result, err = create.Handle(ctx, makeReq(map[string]interface{}{
		"page_id": p.ID,
		"content": "second root",
	}))
	mustNotError(t, result, err)
	var second store.Block
	decode(t, result, &second)
	if second.Order != 1 {
		t.Errorf("appended root order = %d, want 1", second.Order)
	}

	result, err = NewBlockListTool(s).Handle(ctx, makeReq(map[string]interface{}{
		"page_id": p.ID,
		"tree":    true,
	}))
	mustNotError(t, result, err)
	var tree []store.BlockNode
	decode(t, result, &tree)
	if len(tree) != 2 || len(tree[0].Children) != 1 || tree[0].Children[0].Content != "child" {
		t.Fatalf("tree = %+v", tree)
	}

	result, err = NewBlockUpdateTool(s).Handle(ctx, makeReq(map[string]interface{}{
		"id":        parent.ID,
		"parent_id": parent.ID,
	}))
	mustBeToolError(t, result, err, "")

	result, err = NewBlockDeleteTool(s).Handle(ctx, makeReq(map[string]interface{}{"id": parent.ID}))
	mustNotError(t, result, err)

	blocks, err := s.ListBlocks(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 || blocks[0].ID != second.ID || blocks[0].Order != 1 {
		t.Errorf("after delete: %+v", blocks)
	}
}

// ─── Notes / tags / settings ─────────────────────────────────────────────────

func TestNoteTools_CreateSearchArchive(t *testing.T) {
	s := newTestStore(t)
	create := NewNoteCreateTool(s)

	var ids []string
	for _, n := range []struct{ title, content string }{
		{"Rust ownership", "borrow checker notes"},
		{"Go channels", "select statements"},
		{"More rust", "lifetimes and rust traits"},
	} {
		result, err := create.Handle(ctx, makeReq(map[string]interface{}{
			"title":   n.title,
			"content": n.content,
		}))
		mustNotError(t, result, err)
		var note store.Note
		decode(t, result, &note)
		ids = append(ids, note.ID)
	}

	search := NewNoteSearchTool(s)
	result, err := search.Handle(ctx, makeReq(map[string]interface{}{"query": "rust"}))
	mustNotError(t, result, err)
	var res store.SearchResult
	decode(t, result, &res)
	if res.Total != 2 {
		t.Fatalf("rust matches = %d, want 2", res.Total)
	}

	result, err = NewNoteUpdateTool(s).Handle(ctx, makeReq(map[string]interface{}{
		"id":          ids[2],
		"is_archived": true,
	}))
	mustNotError(t, result, err)

	result, err = search.Handle(ctx, makeReq(map[string]interface{}{"query": "rust"}))
	mustNotError(t, result, err)
	decode(t, result, &res)
	if res.Total != 1 {
		t.Errorf("after archive = %d, want 1", res.Total)
	}

	result, err = search.Handle(ctx, makeReq(map[string]interface{}{
		"query":            "rust",
		"include_archived": true,
	}))
	mustNotError(t, result, err)
	decode(t, result, &res)
	if res.Total != 2 {
		t.Errorf("with archived = %d, want 2", res.Total)
	}

	result, err = search.Handle(ctx, makeReq(map[string]interface{}{"date_from": "last tuesday"}))
	mustBeToolError(t, result, err, "")
}

func TestNoteCreate_TitleRequired(t *testing.T) {
	s := newTestStore(t)
	result, err := NewNoteCreateTool(s).Handle(ctx, makeReq(map[string]interface{}{"content": "x"}))
	mustBeToolError(t, result, err, "'title' is required")
}

func TestTagTools_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	create := NewTagCreateTool(s)

	result, err := create.Handle(ctx, makeReq(map[string]interface{}{"name": "work"}))
	mustNotError(t, result, err)
	var tag store.Tag
	decode(t, result, &tag)
	if tag.Color == nil || *tag.Color != store.DefaultTagColor {
		t.Errorf("default color not applied: %+v", tag)
	}

	result, err = create.Handle(ctx, makeReq(map[string]interface{}{"name": "work"}))
	mustBeToolError(t, result, err, "")

	result, err = NewTagListTool(s).Handle(ctx, makeReq(nil))
	mustNotError(t, result, err)
	var tags []store.Tag
	decode(t, result, &tags)
	if len(tags) != 1 {
		t.Errorf("tags = %d, want 1", len(tags))
	}
}

func TestSettingsTool(t *testing.T) {
	s := newTestStore(t)
	tool := NewSettingsTool(s)

	result, err := tool.Handle(ctx, makeReq(map[string]interface{}{"key": "theme", "value": "dark"}))
	mustNotError(t, result, err)

	result, err = tool.Handle(ctx, makeReq(map[string]interface{}{"key": "theme"}))
	mustNotError(t, result, err)
	var st store.Setting
	decode(t, result, &st)
	if st.Value != "dark" {
		t.Errorf("value = %q", st.Value)
	}

	result, err = tool.Handle(ctx, makeReq(map[string]interface{}{"key": "theme", "delete": true}))
	mustNotError(t, result, err)

	result, err = tool.Handle(ctx, makeReq(map[string]interface{}{"key": "theme"}))
	mustBeToolError(t, result, err, "not found")
}

// ─── Search / transfer / stats ───────────────────────────────────────────────

func TestBlockSearchTool(t *testing.T) {
	s := newTestStore(t)
	g := seedGraph(t, s)
	p := seedPage(t, s, g.ID, "Garden")
	if _, err := s.CreateBlock(store.CreateBlockRequest{Content: "plant tomatoes in spring", PageID: p.ID}); err != nil {
		t.Fatal(err)
	}

	result, err := NewBlockSearchTool(s).Handle(ctx, makeReq(map[string]interface{}{"query": "tomatoes"}))
	mustNotError(t, result, err)
	text := resultText(result)
	if !strings.Contains(text, "Found 1 results") || !strings.Contains(text, "Garden") {
		t.Errorf("unexpected output: %s", text)
	}

	result, err = NewBlockSearchTool(s).Handle(ctx, makeReq(map[string]interface{}{"query": "cucumbers"}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "No pages or blocks") {
		t.Errorf("expected empty message, got %s", resultText(result))
	}
}

func TestImportExportTools(t *testing.T) {
	s := newTestStore(t)
	svc := newTestService(t, s)
	g := seedGraph(t, s)

	dir := t.TempDir()
	src := filepath.Join(dir, "recipe.md")
	if err := os.WriteFile(src, []byte("# Soup\n\nBoil water.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := NewImportTool(svc).Handle(ctx, makeReq(map[string]interface{}{
		"graph_id": g.ID,
		"path":     src,
	}))
	mustNotError(t, result, err)
	var ir transfer.ImportResult
	decode(t, result, &ir)
	if ir.PagesImported != 1 || ir.BlocksImported != 2 {
		t.Fatalf("import result = %+v", ir)
	}

	out := filepath.Join(dir, "out")
	result, err = NewExportTool(svc).Handle(ctx, makeReq(map[string]interface{}{
		"graph_id":   g.ID,
		"output_dir": out,
	}))
	mustNotError(t, result, err)
	var er transfer.ExportResult
	decode(t, result, &er)
	if er.FilesExported != 1 || er.TotalSize == 0 {
		t.Errorf("export result = %+v", er)
	}
	if _, err := os.Stat(filepath.Join(out, "recipe.md")); err != nil {
		t.Errorf("exported file missing: %v", err)
	}

	result, err = NewImportTool(svc).Handle(ctx, makeReq(map[string]interface{}{"graph_id": g.ID}))
	mustBeToolError(t, result, err, "required")
}

func TestBackupRestoreTools(t *testing.T) {
	s := newTestStore(t)
	svc := newTestService(t, s)
	g := seedGraph(t, s)
	seedPage(t, s, g.ID, "Only page")

	path := filepath.Join(t.TempDir(), "backup.json")
	result, err := NewBackupTool(svc).Handle(ctx, makeReq(map[string]interface{}{"path": path}))
	mustNotError(t, result, err)

	result, err = NewRestoreTool(svc).Handle(ctx, makeReq(map[string]interface{}{"path": path}))
	mustNotError(t, result, err)
	var rr transfer.RestoreResult
	decode(t, result, &rr)
	if rr.GraphsRestored != 1 || rr.PagesRestored != 1 {
		t.Errorf("restore result = %+v", rr)
	}

	result, err = NewRestoreTool(svc).Handle(ctx, makeReq(map[string]interface{}{
		"path": filepath.Join(t.TempDir(), "missing.json"),
	}))
	mustBeToolError(t, result, err, "not found")
}

func TestNotesTransferTool(t *testing.T) {
	s := newTestStore(t)
	svc := newTestService(t, s)
	if _, err := s.CreateNote(store.CreateNoteRequest{Title: "keep me"}); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "notes.json")
	tool := NewNotesTransferTool(svc)

	result, err := tool.Handle(ctx, makeReq(map[string]interface{}{"direction": "export", "path": path}))
	mustNotError(t, result, err)

	result, err = tool.Handle(ctx, makeReq(map[string]interface{}{"direction": "import", "path": path}))
	mustNotError(t, result, err)
	var res store.NotesImportResult
	decode(t, result, &res)
	if res.NotesImported != 1 {
		t.Errorf("imported = %d", res.NotesImported)
	}

	result, err = tool.Handle(ctx, makeReq(map[string]interface{}{"direction": "sideways", "path": path}))
	mustBeToolError(t, result, err, "direction")
}

func TestStatsTool(t *testing.T) {
	s := newTestStore(t)
	g := seedGraph(t, s)
	seedPage(t, s, g.ID, "p")

	result, err := NewStatsTool(s).Handle(ctx, makeReq(nil))
	mustNotError(t, result, err)
	text := resultText(result)
	if !strings.Contains(text, "**Graphs**: 1") || !strings.Contains(text, "**Pages**: 1") {
		t.Errorf("unexpected stats: %s", text)
	}
	if !strings.Contains(text, "Database size") {
		t.Error("missing database size")
	}
}
