package store

import (
	"encoding/json"

	"github.com/minglog/minglog/internal/apperr"
)

// ─── Blocks ──────────────────────────────────────────────────────────────────

const blockColumns = `id, content, parent_id, properties, refs, "order", collapsed, created_at, updated_at, page_id, graph_id`

// CreateBlock creates a block on an existing page. The block's graph is the
// page's graph; a caller-supplied GraphID must match it.
func (s *Store) CreateBlock(req CreateBlockRequest) (*Block, error) {
	if req.PageID == "" {
		return nil, required("block", "page_id")
	}
	props, err := blobArg("block properties", req.Properties)
	if err != nil {
		return nil, err
	}
	refs, err := encodeRefs(req.Refs)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	graphID, err := s.pageGraph(req.PageID)
	if err != nil {
		return nil, err
	}
	if req.GraphID != "" && req.GraphID != graphID {
		return nil, apperr.Errorf(apperr.InvalidInput,
			"block: graph_id %q does not match page graph %q", req.GraphID, graphID)
	}

	var parentID *string
	if req.ParentID != nil && *req.ParentID != "" {
		if err := s.checkParent(req.PageID, "", *req.ParentID); err != nil {
			return nil, err
		}
		parentID = req.ParentID
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	} else if err := s.db.QueryRow(
		`SELECT COALESCE(MAX("order"), -1) + 1 FROM blocks WHERE page_id = ? AND parent_id IS ?`,
		req.PageID, parentID,
	).Scan(&order); err != nil {
		return nil, execErr("next block order", err)
	}

	id := newID()
	ts := s.now()
	if _, err := s.execHook(s.db,
		`INSERT INTO blocks (`+blockColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, req.Content, parentID, props, refs, order, 0, ts, ts, req.PageID, graphID,
	); err != nil {
		return nil, execErr("create block", err)
	}
	return s.GetBlock(id)
}

// GetBlock returns a block by id.
func (s *Store) GetBlock(id string) (*Block, error) {
	row := s.db.QueryRow(`SELECT `+blockColumns+` FROM blocks WHERE id = ?`, id)
	b, err := scanBlock(row)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("block", id)
		}
		return nil, execErr("get block", err)
	}
	return b, nil
}

// UpdateBlock merges the non-nil fields of req into the stored block.
// Changing Order never renumbers siblings.
func (s *Store) UpdateBlock(req UpdateBlockRequest) (*Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.GetBlock(req.ID)
	if err != nil {
		return nil, err
	}
	if req.Content != nil {
		b.Content = *req.Content
	}
	if req.ParentID != nil {
		if *req.ParentID == "" {
			b.ParentID = nil
		} else {
			if err := s.checkParent(b.PageID, b.ID, *req.ParentID); err != nil {
				return nil, err
			}
			parent := *req.ParentID
			b.ParentID = &parent
		}
	}
	if req.Properties != nil {
		b.Properties = *req.Properties
	}
	if req.Refs != nil {
		b.Refs = *req.Refs
	}
	if req.Order != nil {
		b.Order = *req.Order
	}
	if req.Collapsed != nil {
		b.Collapsed = *req.Collapsed
	}
	props, err := blobArg("block properties", b.Properties)
	if err != nil {
		return nil, err
	}
	refs, err := encodeRefs(b.Refs)
	if err != nil {
		return nil, err
	}

	if _, err := s.execHook(s.db,
		`UPDATE blocks
		 SET content = ?, parent_id = ?, properties = ?, refs = ?, "order" = ?, collapsed = ?, updated_at = ?
		 WHERE id = ?`,
		b.Content, b.ParentID, props, refs, b.Order, boolInt(b.Collapsed), s.now(), b.ID,
	); err != nil {
		return nil, execErr("update block", err)
	}
	return s.GetBlock(b.ID)
}

// DeleteBlock removes a block and its descendants. Surviving siblings keep
// their order values. Deleting an unknown id is a no-op.
func (s *Store) DeleteBlock(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.execHook(s.db, `DELETE FROM blocks WHERE id = ?`, id); err != nil {
		return execErr("delete block", err)
	}
	return nil
}

// ListBlocks returns every block of a page ordered by "order", then id.
// An unknown page yields an empty list.
func (s *Store) ListBlocks(pageID string) ([]Block, error) {
	return s.queryBlocks(
		`SELECT `+blockColumns+` FROM blocks WHERE page_id = ? ORDER BY "order" ASC, id`, pageID)
}

// AllBlocks returns every block in the store grouped by page.
func (s *Store) AllBlocks() ([]Block, error) {
	return s.queryBlocks(
		`SELECT ` + blockColumns + ` FROM blocks ORDER BY page_id, "order" ASC, id`)
}

// checkParent verifies that parentID names a block on pageID and that
// attaching blockID under it does not create a cycle. blockID is empty for a
// block that does not exist yet.
func (s *Store) checkParent(pageID, blockID, parentID string) error {
	if parentID == blockID {
		return apperr.New(apperr.InvalidInput, "block: a block cannot be its own parent")
	}
	seen := map[string]bool{}
	cur := parentID
	for cur != "" {
		if seen[cur] {
			return apperr.Errorf(apperr.InvalidInput, "block: parent chain of %q is cyclic", parentID)
		}
		seen[cur] = true

		var curPage string
		var next *string
		err := s.db.QueryRow(`SELECT page_id, parent_id FROM blocks WHERE id = ?`, cur).Scan(&curPage, &next)
		if err != nil {
			if isNoRows(err) {
				return notFound("parent block", cur)
			}
			return execErr("get parent block", err)
		}
		if curPage != pageID {
			return apperr.Errorf(apperr.InvalidInput, "block: parent %q belongs to another page", parentID)
		}
		if blockID != "" && derefString(next) == blockID {
			return apperr.Errorf(apperr.InvalidInput, "block: moving under %q would create a cycle", parentID)
		}
		cur = derefString(next)
	}
	return nil
}

func (s *Store) queryBlocks(query string, args ...any) ([]Block, error) {
	rows, err := s.queryItHook(s.db, query, args...)
	if err != nil {
		return nil, execErr("list blocks", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Block{}
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, execErr("list blocks", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, execErr("list blocks", err)
	}
	return out, nil
}

func scanBlock(sc scanner) (*Block, error) {
	var b Block
	var props *string
	var refs string
	var collapsed int
	if err := sc.Scan(
		&b.ID, &b.Content, &b.ParentID, &props, &refs, &b.Order, &collapsed,
		&b.CreatedAt, &b.UpdatedAt, &b.PageID, &b.GraphID,
	); err != nil {
		return nil, err
	}
	b.Properties = rawJSON(props)
	b.Collapsed = collapsed != 0
	b.Refs = []string{}
	if refs != "" {
		if err := json.Unmarshal([]byte(refs), &b.Refs); err != nil {
			return nil, apperr.Wrap(apperr.Serialization, "block refs", err)
		}
	}
	return &b, nil
}

func encodeRefs(refs []string) (string, error) {
	if refs == nil {
		refs = []string{}
	}
	data, err := json.Marshal(refs)
	if err != nil {
		return "", apperr.Wrap(apperr.Serialization, "block refs", err)
	}
	return string(data), nil
}
