package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/minglog/minglog/internal/apperr"
	"github.com/minglog/minglog/internal/store"
	"github.com/natefinch/atomic"
)

// ─── Backup / restore ────────────────────────────────────────────────────────

// BackupVersion is written into every backup file.
const BackupVersion = "1.0"

// Backup is the on-disk form of a workspace backup.
type Backup struct {
	Version   string        `json:"version"`
	CreatedAt string        `json:"created_at"`
	Graphs    []store.Graph `json:"graphs"`
	Pages     []store.Page  `json:"pages"`
	Blocks    []store.Block `json:"blocks"`
	Tags      []store.Tag   `json:"tags"`
}

// CreateBackup writes every graph, page, block and tag to outputPath as JSON.
func (s *Service) CreateBackup(outputPath string) (*Backup, error) {
	b := &Backup{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	var err error
	if b.Graphs, err = s.store.ListGraphs(); err != nil {
		return nil, fmt.Errorf("backup graphs: %w", err)
	}
	if b.Pages, err = s.store.AllPages(""); err != nil {
		return nil, fmt.Errorf("backup pages: %w", err)
	}
	if b.Blocks, err = s.store.AllBlocks(); err != nil {
		return nil, fmt.Errorf("backup blocks: %w", err)
	}
	if b.Tags, err = s.store.ListTags(); err != nil {
		return nil, fmt.Errorf("backup tags: %w", err)
	}

	if err := writeJSON(outputPath, b); err != nil {
		return nil, err
	}
	s.log.Info("backup written", "path", outputPath,
		"graphs", len(b.Graphs), "pages", len(b.Pages), "blocks", len(b.Blocks))
	return b, nil
}

// RestoreBackup inserts the contents of a backup next to the existing data.
// Nothing is deleted or merged: every graph, page and block gets a fresh id
// and references are rewritten to the new ids. Tags are matched by name.
// A malformed file is rejected before anything is written.
func (s *Service) RestoreBackup(inputPath string) (*RestoreResult, error) {
	var b Backup
	if err := readJSON(inputPath, &b); err != nil {
		return nil, err
	}

	res := &RestoreResult{Errors: []string{}}

	for _, t := range b.Tags {
		_, created, err := s.store.EnsureTag(t.Name, t.Color)
		switch {
		case err != nil:
			res.Errors = append(res.Errors, fmt.Sprintf("tag %s: %s", t.Name, apperr.Message(err)))
		case created:
			res.TagsRestored++
		default:
			res.TagsReused++
		}
	}

	graphIDs := make(map[string]string, len(b.Graphs))
	for _, g := range b.Graphs {
		ng, err := s.store.CreateGraph(store.CreateGraphRequest{Name: g.Name, Path: g.Path, Settings: g.Settings})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("graph %s: %s", g.ID, apperr.Message(err)))
			continue
		}
		graphIDs[g.ID] = ng.ID
		res.GraphsRestored++
	}

	pageIDs := make(map[string]string, len(b.Pages))
	for _, p := range b.Pages {
		gid, ok := graphIDs[p.GraphID]
		if !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("page %s: graph %s not restored", p.ID, p.GraphID))
			continue
		}
		isJournal := p.IsJournal
		np, err := s.store.CreatePage(store.CreatePageRequest{
			Name:        p.Name,
			Title:       p.Title,
			Properties:  p.Properties,
			Tags:        p.Tags,
			IsJournal:   &isJournal,
			JournalDate: p.JournalDate,
			GraphID:     gid,
		})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("page %s: %s", p.ID, apperr.Message(err)))
			continue
		}
		pageIDs[p.ID] = np.ID
		res.PagesRestored++
	}

	blockIDs := make(map[string]string, len(b.Blocks))
	for _, blk := range parentsFirst(b.Blocks) {
		pid, ok := pageIDs[blk.PageID]
		if !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("block %s: page %s not restored", blk.ID, blk.PageID))
			continue
		}
		var parent *string
		if blk.ParentID != nil {
			if np, ok := blockIDs[*blk.ParentID]; ok {
				parent = &np
			}
		}
		order := blk.Order
		nb, err := s.createBlock(store.CreateBlockRequest{
			Content:    blk.Content,
			ParentID:   parent,
			Properties: blk.Properties,
			Refs:       blk.Refs,
			Order:      &order,
			PageID:     pid,
		})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("block %s: %s", blk.ID, apperr.Message(err)))
			continue
		}
		if blk.Collapsed {
			collapsed := true
			if _, err := s.store.UpdateBlock(store.UpdateBlockRequest{ID: nb.ID, Collapsed: &collapsed}); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("block %s: %s", blk.ID, apperr.Message(err)))
			}
		}
		blockIDs[blk.ID] = nb.ID
		res.BlocksRestored++
	}

	s.log.Info("backup restored", "path", inputPath,
		"graphs", res.GraphsRestored, "pages", res.PagesRestored,
		"blocks", res.BlocksRestored, "errors", len(res.Errors))
	return res, nil
}

// parentsFirst orders blocks so that every parent present in the slice
// comes before its children. Blocks caught in a parent cycle are appended
// at the end and restored as roots.
func parentsFirst(blocks []store.Block) []store.Block {
	present := make(map[string]bool, len(blocks))
	children := make(map[string][]int, len(blocks))
	var queue []int
	for _, b := range blocks {
		present[b.ID] = true
	}
	for i, b := range blocks {
		if b.ParentID == nil || !present[*b.ParentID] || *b.ParentID == b.ID {
			queue = append(queue, i)
			continue
		}
		children[*b.ParentID] = append(children[*b.ParentID], i)
	}

	out := make([]store.Block, 0, len(blocks))
	seen := make([]bool, len(blocks))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, blocks[i])
		queue = append(queue, children[blocks[i].ID]...)
	}
	for i, b := range blocks {
		if !seen[i] {
			b.ParentID = nil
			out = append(out, b)
		}
	}
	return out
}

// ─── JSON files ──────────────────────────────────────────────────────────────

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperr.Wrap(apperr.Serialization, "encode "+path, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperr.Wrap(apperr.IO, "create "+dir, err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return apperr.Wrap(apperr.IO, "write "+path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperr.Errorf(apperr.IO, "file not found: %s", path)
		}
		return apperr.Wrap(apperr.IO, "read "+path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperr.Wrap(apperr.Serialization, "decode "+path, err)
	}
	return nil
}
