package transfer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/minglog/minglog/internal/apperr"
	"github.com/minglog/minglog/internal/markdown"
	"github.com/minglog/minglog/internal/store"
)

// ─── Markdown import ─────────────────────────────────────────────────────────

// ImportFile creates one page from a markdown file and one block per
// segment of its body. A missing or unreadable file fails before anything
// is written. Block failures are recorded in the result and do not stop
// the remaining blocks.
func (s *Service) ImportFile(path, graphID string) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Errorf(apperr.IO, "import: file not found: %s", path)
		}
		return nil, apperr.Wrap(apperr.IO, "import: read "+path, err)
	}

	fm, body, err := markdown.Parse(string(data))
	if err != nil {
		return nil, err
	}

	req := store.CreatePageRequest{
		Name:        pageName(fm, path),
		Title:       fm.Title,
		Tags:        fm.Tags,
		IsJournal:   fm.IsJournal,
		JournalDate: fm.JournalDate,
		GraphID:     graphID,
	}
	result := &ImportResult{Errors: []string{}}
	page, err := s.store.CreatePage(req)
	if err != nil {
		s.log.Warn("import page failed", "path", path, "err", err)
		result.Errors = append(result.Errors, fmt.Sprintf("%s: create page: %s", path, apperr.Message(err)))
		return result, nil
	}
	result.PagesImported = 1

	for i, content := range markdown.Segment(body) {
		order := i
		if _, err := s.createBlock(store.CreateBlockRequest{
			Content: content,
			Order:   &order,
			PageID:  page.ID,
		}); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: block %d: %s", path, i, apperr.Message(err)))
			continue
		}
		result.BlocksImported++
	}

	s.log.Info("imported page", "path", path, "page", page.Name, "blocks", result.BlocksImported)
	return result, nil
}

// ImportFiles imports each file in turn. A file that cannot be imported is
// recorded as an error and the rest still run.
func (s *Service) ImportFiles(paths []string, graphID string) *ImportResult {
	total := &ImportResult{Errors: []string{}}
	for _, p := range paths {
		res, err := s.ImportFile(p, graphID)
		if err != nil {
			total.Errors = append(total.Errors, fmt.Sprintf("%s: %s", p, apperr.Message(err)))
			continue
		}
		total.merge(res)
	}
	return total
}

// ImportDir imports every .md file directly inside dir, in name order.
func (s *Service) ImportDir(dir, graphID string) (*ImportResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperr.Wrap(apperr.IO, "import: read dir "+dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return s.ImportFiles(paths, graphID), nil
}

// pageName picks the metadata title, then the file stem, then "Untitled".
func pageName(fm markdown.Frontmatter, path string) string {
	if fm.Title != nil && strings.TrimSpace(*fm.Title) != "" {
		return strings.TrimSpace(*fm.Title)
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.TrimSpace(stem) != "" {
		return stem
	}
	return "Untitled"
}
