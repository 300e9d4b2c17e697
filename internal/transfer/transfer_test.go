package transfer_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/minglog/minglog/internal/apperr"
	"github.com/minglog/minglog/internal/store"
	"github.com/minglog/minglog/internal/transfer"
)

func newTestService(t *testing.T) (*transfer.Service, *store.Store) {
	t.Helper()
	s, err := store.New(store.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return transfer.New(s, log), s
}

func mustGraph(t *testing.T, s *store.Store) *store.Graph {
	t.Helper()
	g, err := s.CreateGraph(store.CreateGraphRequest{Name: "G", Path: "/tmp/g"})
	if err != nil {
		t.Fatalf("CreateGraph: %v", err)
	}
	return g
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func contents(blocks []store.Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Content
	}
	return out
}

// ─── Import ──────────────────────────────────────────────────────────────────

func TestImportFile(t *testing.T) {
	svc, s := newTestService(t)
	g := mustGraph(t, s)

	path := writeFile(t, t.TempDir(), "trip.md",
		"---\ntitle: Road Trip\ntags: [travel, plans]\n---\n# Route\n\nDrive north.\n\n```\nmap\n```\n")

	res, err := svc.ImportFile(path, g.ID)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if res.PagesImported != 1 || res.BlocksImported != 3 || len(res.Errors) != 0 {
		t.Fatalf("result = %+v", res)
	}

	page, err := s.FindPageByName(g.ID, "Road Trip")
	if err != nil {
		t.Fatalf("FindPageByName: %v", err)
	}
	if diff := cmp.Diff([]string{"travel", "plans"}, page.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	blocks, err := s.ListBlocks(page.ID)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Route", "Drive north.", "```\nmap\n```"}, contents(blocks)); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
	for i, b := range blocks {
		if b.Order != i {
			t.Errorf("block %d order = %d", i, b.Order)
		}
	}
}

func TestImportFile_NameFromStem(t *testing.T) {
	svc, s := newTestService(t)
	g := mustGraph(t, s)
	path := writeFile(t, t.TempDir(), "meeting notes.md", "just text")

	if _, err := svc.ImportFile(path, g.ID); err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if _, err := s.FindPageByName(g.ID, "meeting notes"); err != nil {
		t.Errorf("page named after stem not found: %v", err)
	}
}

func TestImportFile_MissingFileWritesNothing(t *testing.T) {
	svc, s := newTestService(t)
	g := mustGraph(t, s)

	_, err := svc.ImportFile(filepath.Join(t.TempDir(), "nope.md"), g.ID)
	if !errors.Is(err, apperr.ErrIO) {
		t.Fatalf("expected IO error, got %v", err)
	}
	pages, err := s.AllPages(g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 0 {
		t.Errorf("pages created for missing file: %d", len(pages))
	}
}

func TestImportFile_UnknownGraphRecorded(t *testing.T) {
	svc, _ := newTestService(t)
	path := writeFile(t, t.TempDir(), "a.md", "text")

	res, err := svc.ImportFile(path, "no-such-graph")
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if res.PagesImported != 0 || len(res.Errors) != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestImportDir(t *testing.T) {
	svc, s := newTestService(t)
	g := mustGraph(t, s)
	dir := t.TempDir()
	writeFile(t, dir, "b.md", "beta")
	writeFile(t, dir, "a.md", "alpha\n\nmore")
	writeFile(t, dir, "skip.txt", "ignored")

	res, err := svc.ImportDir(dir, g.ID)
	if err != nil {
		t.Fatalf("ImportDir: %v", err)
	}
	if res.PagesImported != 2 || res.BlocksImported != 3 {
		t.Errorf("result = %+v", res)
	}
}

func TestImportFiles_ContinuesPastFailures(t *testing.T) {
	svc, s := newTestService(t)
	g := mustGraph(t, s)
	dir := t.TempDir()
	ok := writeFile(t, dir, "ok.md", "fine")

	res := svc.ImportFiles([]string{filepath.Join(dir, "gone.md"), ok}, g.ID)
	if res.PagesImported != 1 || len(res.Errors) != 1 {
		t.Errorf("result = %+v", res)
	}
}

// ─── Export ──────────────────────────────────────────────────────────────────

func TestExportPage(t *testing.T) {
	svc, s := newTestService(t)
	g := mustGraph(t, s)
	title := "Plans"
	p, err := s.CreatePage(store.CreatePageRequest{Name: "a/b: plans?", Title: &title, GraphID: g.ID})
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range []string{"one", "two"} {
		order := i
		if _, err := s.CreateBlock(store.CreateBlockRequest{Content: c, Order: &order, PageID: p.ID}); err != nil {
			t.Fatal(err)
		}
	}

	out := t.TempDir()
	path, err := svc.ExportPage(p.ID, out)
	if err != nil {
		t.Fatalf("ExportPage: %v", err)
	}
	if filepath.Base(path) != "a_b_ plans_.md" {
		t.Errorf("file name = %q", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "# Plans\n\none\n\ntwo\n\n") {
		t.Errorf("unexpected content:\n%s", data)
	}
}

func TestExportPage_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ExportPage("missing", t.TempDir())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestExportAll(t *testing.T) {
	svc, s := newTestService(t)
	g := mustGraph(t, s)
	other := mustGraph(t, s)
	for _, name := range []string{"One", "Two", "one", "One (1)"} {
		if _, err := s.CreatePage(store.CreatePageRequest{Name: name, GraphID: g.ID}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.CreatePage(store.CreatePageRequest{Name: "Elsewhere", GraphID: other.ID}); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "export")
	res, err := svc.ExportAll(g.ID, out)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if res.FilesExported != 4 || len(res.Errors) != 0 {
		t.Fatalf("result = %+v", res)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	var size int64
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			t.Fatal(err)
		}
		size += info.Size()
	}
	if len(entries) != 4 {
		t.Errorf("files on disk = %d, want 4", len(entries))
	}
	if size != res.TotalSize {
		t.Errorf("TotalSize = %d, files sum to %d", res.TotalSize, size)
	}
}

func TestExportAll_UnknownGraph(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.ExportAll("missing", t.TempDir()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestExportPages_RecordsMissing(t *testing.T) {
	svc, s := newTestService(t)
	g := mustGraph(t, s)
	p, err := s.CreatePage(store.CreatePageRequest{Name: "Keep", GraphID: g.ID})
	if err != nil {
		t.Fatal(err)
	}
	res, err := svc.ExportPages([]string{p.ID, "ghost"}, t.TempDir())
	if err != nil {
		t.Fatalf("ExportPages: %v", err)
	}
	if res.FilesExported != 1 || len(res.Errors) != 1 {
		t.Errorf("result = %+v", res)
	}
}

// ─── Backup ──────────────────────────────────────────────────────────────────

func TestBackupRestore(t *testing.T) {
	svc, s := newTestService(t)
	g := mustGraph(t, s)
	p, err := s.CreatePage(store.CreatePageRequest{Name: "Tree", Tags: []string{"x"}, GraphID: g.ID})
	if err != nil {
		t.Fatal(err)
	}
	root, err := s.CreateBlock(store.CreateBlockRequest{Content: "root", PageID: p.ID})
	if err != nil {
		t.Fatal(err)
	}
	child, err := s.CreateBlock(store.CreateBlockRequest{Content: "child", ParentID: &root.ID, PageID: p.ID})
	if err != nil {
		t.Fatal(err)
	}
	collapsed := true
	if _, err := s.UpdateBlock(store.UpdateBlockRequest{ID: child.ID, Collapsed: &collapsed}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateTag(store.CreateTagRequest{Name: "work"}); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "backup.json")
	if _, err := svc.CreateBackup(path); err != nil {
		t.Fatalf("CreateBackup: %v", err)
	}

	res, err := svc.RestoreBackup(path)
	if err != nil {
		t.Fatalf("RestoreBackup: %v", err)
	}
	want := &transfer.RestoreResult{
		GraphsRestored: 1, PagesRestored: 1, BlocksRestored: 2,
		TagsReused: 1, Errors: []string{},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("restore result mismatch (-want +got):\n%s", diff)
	}

	graphs, err := s.ListGraphs()
	if err != nil {
		t.Fatal(err)
	}
	if len(graphs) != 2 {
		t.Fatalf("graphs = %d, want original plus restored", len(graphs))
	}
	var restored string
	for _, gr := range graphs {
		if gr.ID != g.ID {
			restored = gr.ID
		}
	}
	rp, err := s.FindPageByName(restored, "Tree")
	if err != nil {
		t.Fatalf("restored page: %v", err)
	}
	if rp.ID == p.ID {
		t.Error("restored page reused original id")
	}
	tree, err := s.PageTree(rp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree) != 1 || tree[0].Content != "root" || len(tree[0].Children) != 1 {
		t.Fatalf("restored tree shape wrong: %+v", tree)
	}
	if c := tree[0].Children[0]; c.Content != "child" || !c.Collapsed || c.ID == child.ID {
		t.Errorf("restored child = %+v", c.Block)
	}
}

func TestRestoreBackup_ChildBeforeParentInFile(t *testing.T) {
	svc, s := newTestService(t)
	parent := "p-block"
	b := transfer.Backup{
		Version: transfer.BackupVersion,
		Graphs:  []store.Graph{{ID: "g1", Name: "G", Path: "/g"}},
		Pages:   []store.Page{{ID: "pg1", Name: "Page", GraphID: "g1"}},
		Blocks: []store.Block{
			{ID: "c-block", Content: "child", ParentID: &parent, PageID: "pg1"},
			{ID: parent, Content: "parent", PageID: "pg1"},
		},
	}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, t.TempDir(), "b.json", string(data))

	res, err := svc.RestoreBackup(path)
	if err != nil {
		t.Fatalf("RestoreBackup: %v", err)
	}
	if res.BlocksRestored != 2 || len(res.Errors) != 0 {
		t.Fatalf("result = %+v", res)
	}
	graphs, _ := s.ListGraphs()
	page, err := s.FindPageByName(graphs[0].ID, "Page")
	if err != nil {
		t.Fatal(err)
	}
	tree, err := s.PageTree(page.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree) != 1 || len(tree[0].Children) != 1 {
		t.Errorf("parent link lost: %+v", tree)
	}
}

func TestRestoreBackup_MalformedWritesNothing(t *testing.T) {
	svc, s := newTestService(t)
	path := writeFile(t, t.TempDir(), "bad.json", "{not json")

	_, err := svc.RestoreBackup(path)
	if !errors.Is(err, apperr.ErrSerialization) {
		t.Fatalf("expected Serialization error, got %v", err)
	}
	graphs, err := s.ListGraphs()
	if err != nil {
		t.Fatal(err)
	}
	if len(graphs) != 0 {
		t.Errorf("graphs written from malformed backup: %d", len(graphs))
	}
}

func TestRestoreBackup_MissingFile(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.RestoreBackup(filepath.Join(t.TempDir(), "x.json")); !errors.Is(err, apperr.ErrIO) {
		t.Fatalf("expected IO error, got %v", err)
	}
}

// ─── Notes ───────────────────────────────────────────────────────────────────

func TestExportImportNotes(t *testing.T) {
	svc, s := newTestService(t)
	tag, err := s.CreateTag(store.CreateTagRequest{Name: "rust"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateNote(store.CreateNoteRequest{Title: "borrowck", Content: "lifetimes", Tags: []string{tag.ID}}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetSetting("theme", "dark"); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "notes.json")
	dump, err := svc.ExportNotes(path)
	if err != nil {
		t.Fatalf("ExportNotes: %v", err)
	}
	if len(dump.Notes) != 1 {
		t.Fatalf("dumped notes = %d", len(dump.Notes))
	}

	svc2, s2 := newTestService(t)
	res, err := svc2.ImportNotes(path)
	if err != nil {
		t.Fatalf("ImportNotes: %v", err)
	}
	want := &store.NotesImportResult{NotesImported: 1, TagsImported: 1, SettingsImported: 1}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("import result mismatch (-want +got):\n%s", diff)
	}

	notes, err := s2.ListNotes(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	newTag, err := s2.GetTagByName("rust")
	if err != nil {
		t.Fatal(err)
	}
	if len(notes.Items) != 1 || len(notes.Items[0].Tags) != 1 || notes.Items[0].Tags[0] != newTag.ID {
		t.Errorf("imported note tags not remapped: %+v", notes.Items)
	}
}
