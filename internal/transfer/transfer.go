// Package transfer moves pages between the store and the filesystem:
// markdown import and export, JSON backups of the workspace, and dumps of
// the flat note model.
//
// Bulk operations never stop at the first failing item. Per-item failures
// are collected into the result so the caller can report them.
package transfer

import (
	"log/slog"

	"github.com/minglog/minglog/internal/store"
)

// Service runs import and export jobs against a store.
type Service struct {
	store *store.Store
	log   *slog.Logger

	// createBlock inserts one block; tests swap it to inject failures.
	createBlock func(store.CreateBlockRequest) (*store.Block, error)
}

// New creates a Service. A nil logger falls back to slog.Default().
func New(s *store.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:       s,
		log:         log.With("component", "transfer"),
		createBlock: s.CreateBlock,
	}
}

// ImportResult summarizes a markdown import.
type ImportResult struct {
	PagesImported  int      `json:"pages_imported"`
	BlocksImported int      `json:"blocks_imported"`
	Errors         []string `json:"errors"`
}

func (r *ImportResult) merge(o *ImportResult) {
	r.PagesImported += o.PagesImported
	r.BlocksImported += o.BlocksImported
	r.Errors = append(r.Errors, o.Errors...)
}

// ExportResult summarizes a markdown export.
type ExportResult struct {
	FilesExported int      `json:"files_exported"`
	TotalSize     int64    `json:"total_size"`
	ExportPath    string   `json:"export_path"`
	Errors        []string `json:"errors"`
}

// RestoreResult counts what RestoreBackup inserted.
type RestoreResult struct {
	GraphsRestored int      `json:"graphs_restored"`
	PagesRestored  int      `json:"pages_restored"`
	BlocksRestored int      `json:"blocks_restored"`
	TagsRestored   int      `json:"tags_restored"`
	TagsReused     int      `json:"tags_reused"`
	Errors         []string `json:"errors"`
}
