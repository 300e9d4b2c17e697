package transfer

import (
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
)

func TestImportFile_BlockFailureKeepsGoing(t *testing.T) {
	st, err := store.New(store.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	g, err := st.CreateGraph(store.CreateGraphRequest{Name: "G", Path: "/tmp/g"})
	if err != nil {
		t.Fatal(err)
	}

	svc := New(st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.createBlock = func(req store.CreateBlockRequest) (*store.Block, error) {
		if req.Content == "second" {
			return nil, apperr.Wrap(apperr.Storage, "create block", errors.New("disk full"))
		}
		return st.CreateBlock(req)
	}

	path := filepath.Join(t.TempDir(), "page.md")
	if err := os.WriteFile(path, []byte("first\n\nsecond\n\nthird\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := svc.ImportFile(path, g.ID)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if res.PagesImported != 1 || res.BlocksImported != 2 {
		t.Errorf("pages=%d blocks=%d, want 1 and 2", res.PagesImported, res.BlocksImported)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "block 1") {
		t.Errorf("errors = %v, want one entry for block 1", res.Errors)
	}

	pages, err := st.AllPages(g.ID)
	if err != nil || len(pages) != 1 {
		t.Fatalf("pages = %v, err = %v", pages, err)
	}
	blocks, err := st.ListBlocks(pages[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, b := range blocks {
		got = append(got, b.Content)
	}
	if diff := cmp.Diff([]string{"first", "third"}, got); diff != "" {
		t.Errorf("stored blocks mismatch (-want +got):\n%s", diff)
	}
}
