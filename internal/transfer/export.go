package transfer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minglog/minglog/internal/apperr"
	"github.com/minglog/minglog/internal/markdown"
	"github.com/minglog/minglog/internal/store"
	"github.com/natefinch/atomic"
)

// ─── Markdown export ─────────────────────────────────────────────────────────

// ExportPage renders a page and writes it to <outputDir>/<name>.md,
// returning the written path.
func (s *Service) ExportPage(pageID, outputDir string) (string, error) {
	page, err := s.store.GetPage(pageID)
	if err != nil {
		return "", err
	}
	path, _, err := s.exportPage(page, outputDir, SanitizeName(page.Name))
	return path, err
}

// ExportAll exports every page of a graph. An empty graphID exports all
// pages. Pages whose sanitized names collide get a numeric suffix.
func (s *Service) ExportAll(graphID, outputDir string) (*ExportResult, error) {
	if graphID != "" {
		if _, err := s.store.GetGraph(graphID); err != nil {
			return nil, err
		}
	}
	pages, err := s.store.AllPages(graphID)
	if err != nil {
		return nil, fmt.Errorf("export all: %w", err)
	}
	return s.exportPages(pages, outputDir)
}

// ExportPages exports the given pages. Missing pages are recorded as errors.
func (s *Service) ExportPages(pageIDs []string, outputDir string) (*ExportResult, error) {
	var (
		pages   []store.Page
		missing []string
	)
	for _, id := range pageIDs {
		p, err := s.store.GetPage(id)
		if err != nil {
			missing = append(missing, fmt.Sprintf("%s: %s", id, apperr.Message(err)))
			continue
		}
		pages = append(pages, *p)
	}
	res, err := s.exportPages(pages, outputDir)
	if err != nil {
		return nil, err
	}
	res.Errors = append(missing, res.Errors...)
	return res, nil
}

func (s *Service) exportPages(pages []store.Page, outputDir string) (*ExportResult, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, apperr.Wrap(apperr.IO, "export: create "+outputDir, err)
	}
	res := &ExportResult{ExportPath: outputDir, Errors: []string{}}
	used := make(map[string]bool, len(pages))

	for i := range pages {
		page := &pages[i]
		name := uniqueName(SanitizeName(page.Name), used)

		_, size, err := s.exportPage(page, outputDir, name)
		if err != nil {
			s.log.Warn("export page failed", "page", page.ID, "err", err)
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %s", page.Name, apperr.Message(err)))
			continue
		}
		res.FilesExported++
		res.TotalSize += size
	}
	s.log.Info("exported pages", "dir", outputDir, "files", res.FilesExported, "bytes", res.TotalSize)
	return res, nil
}

func (s *Service) exportPage(page *store.Page, outputDir, name string) (string, int64, error) {
	blocks, err := s.store.ListBlocks(page.ID)
	if err != nil {
		return "", 0, err
	}
	content := markdown.Render(*page, blocks)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", 0, apperr.Wrap(apperr.IO, "export: create "+outputDir, err)
	}
	path := filepath.Join(outputDir, name+".md")
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return "", 0, apperr.Wrap(apperr.IO, "export: write "+path, err)
	}
	return path, int64(len(content)), nil
}

// uniqueName returns base, or base with the lowest free " (n)" suffix, and
// marks the result as taken. Names compare case-insensitively.
func uniqueName(base string, used map[string]bool) string {
	name := base
	for n := 1; used[strings.ToLower(name)]; n++ {
		name = fmt.Sprintf("%s (%d)", base, n)
	}
	used[strings.ToLower(name)] = true
	return name
}

// SanitizeName turns a page name into a usable file stem.
func SanitizeName(name string) string {
	n := strings.TrimSpace(markdown.SanitizeFilename(name))
	if n == "" || n == "." || n == ".." {
		return "untitled"
	}
	return n
}
