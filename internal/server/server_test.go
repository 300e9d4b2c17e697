package server

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/minglog/minglog/internal/config"
	"github.com/minglog/minglog/internal/store"
	"github.com/minglog/minglog/internal/transfer"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		DataDir:          dir,
		DefaultListLimit: 50,
		MaxListLimit:     1000,
		MaxSearchResults: 200,
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_OpensStore(t *testing.T) {
	dir := t.TempDir()
	s, cleanup, err := New(testConfig(dir), discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()
	if s == nil {
		t.Fatal("server is nil")
	}
	if _, err := os.Stat(filepath.Join(dir, store.DBFileName)); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestNew_StoreFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, cleanup, err := New(testConfig(filepath.Join(file, "sub")), discard())
	if err == nil {
		t.Fatal("expected error when data dir cannot be created")
	}
	if cleanup == nil {
		t.Fatal("cleanup must never be nil")
	}
	cleanup()
}

func TestAllTools_UniqueNames(t *testing.T) {
	st, err := store.New(store.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	seen := map[string]bool{}
	for _, tl := range allTools(st, transfer.New(st, discard())) {
		name := tl.Definition().Name
		if name == "" {
			t.Error("tool with empty name")
		}
		if seen[name] {
			t.Errorf("duplicate tool name %q", name)
		}
		seen[name] = true
	}
	for _, want := range []string{"page_create", "block_search", "note_search", "markdown_import", "backup_restore"} {
		if !seen[want] {
			t.Errorf("tool %q not registered", want)
		}
	}
}
