package store

import "strings"

// ─── Pages ───────────────────────────────────────────────────────────────────

const pageColumns = `id, name, title, properties, tags, is_journal, journal_date, created_at, updated_at, graph_id`

// CreatePage creates a page inside an existing graph.
func (s *Store) CreatePage(req CreatePageRequest) (*Page, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, required("page", "name")
	}
	if req.GraphID == "" {
		return nil, required("page", "graph_id")
	}
	props, err := blobArg("page properties", req.Properties)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.GetGraph(req.GraphID); err != nil {
		return nil, err
	}

	isJournal := req.IsJournal != nil && *req.IsJournal
	var title *string
	if req.Title != nil {
		title = nullableString(*req.Title)
	}
	id := newID()
	ts := s.now()
	if _, err := s.execHook(s.db,
		`INSERT INTO pages (`+pageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, req.Name, title, props, joinTags(req.Tags), boolInt(isJournal),
		req.JournalDate, ts, ts, req.GraphID,
	); err != nil {
		return nil, execErr("create page", err)
	}
	return s.GetPage(id)
}

// GetPage returns a page by id.
func (s *Store) GetPage(id string) (*Page, error) {
	row := s.db.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	p, err := scanPage(row)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("page", id)
		}
		return nil, execErr("get page", err)
	}
	return p, nil
}

// FindPageByName returns the first page of a graph with the given name.
func (s *Store) FindPageByName(graphID, name string) (*Page, error) {
	row := s.db.QueryRow(
		`SELECT `+pageColumns+` FROM pages WHERE graph_id = ? AND name = ? ORDER BY created_at, id LIMIT 1`,
		graphID, name,
	)
	p, err := scanPage(row)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("page", name)
		}
		return nil, execErr("find page", err)
	}
	return p, nil
}

// UpdatePage merges the non-nil fields of req into the stored page.
func (s *Store) UpdatePage(req UpdatePageRequest) (*Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.GetPage(req.ID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, required("page", "name")
		}
		p.Name = *req.Name
	}
	if req.Title != nil {
		p.Title = nullableString(*req.Title)
	}
	if req.Properties != nil {
		p.Properties = *req.Properties
	}
	if req.Tags != nil {
		p.Tags = *req.Tags
	}
	if req.IsJournal != nil {
		p.IsJournal = *req.IsJournal
	}
	if req.JournalDate != nil {
		p.JournalDate = nullableString(*req.JournalDate)
	}
	props, err := blobArg("page properties", p.Properties)
	if err != nil {
		return nil, err
	}

	if _, err := s.execHook(s.db,
		`UPDATE pages
		 SET name = ?, title = ?, properties = ?, tags = ?, is_journal = ?, journal_date = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Title, props, joinTags(p.Tags), boolInt(p.IsJournal), p.JournalDate, s.now(), p.ID,
	); err != nil {
		return nil, execErr("update page", err)
	}
	return s.GetPage(p.ID)
}

// DeletePage removes a page and its blocks. Deleting an unknown id is a no-op.
func (s *Store) DeletePage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.execHook(s.db, `DELETE FROM pages WHERE id = ?`, id); err != nil {
		return execErr("delete page", err)
	}
	return nil
}

// ListPages returns the pages of a graph, most recently updated first.
func (s *Store) ListPages(graphID string, limit, offset *int) (*Listing[Page], error) {
	if graphID == "" {
		return nil, required("list pages", "graph_id")
	}
	l, o := s.pageBounds(limit, offset, s.cfg.MaxListLimit)

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM pages WHERE graph_id = ?`, graphID).Scan(&total); err != nil {
		return nil, execErr("count pages", err)
	}

	pages, err := s.queryPages(
		`SELECT `+pageColumns+` FROM pages WHERE graph_id = ?
		 ORDER BY updated_at DESC, id LIMIT ? OFFSET ?`,
		graphID, l, o,
	)
	if err != nil {
		return nil, err
	}
	return &Listing[Page]{Items: pages, Total: total, HasMore: o+l < total}, nil
}

// AllPages returns every page of a graph, or of every graph when graphID is
// empty, oldest first.
func (s *Store) AllPages(graphID string) ([]Page, error) {
	if graphID == "" {
		return s.queryPages(`SELECT ` + pageColumns + ` FROM pages ORDER BY created_at, id`)
	}
	return s.queryPages(
		`SELECT `+pageColumns+` FROM pages WHERE graph_id = ? ORDER BY created_at, id`, graphID)
}

func (s *Store) queryPages(query string, args ...any) ([]Page, error) {
	rows, err := s.queryItHook(s.db, query, args...)
	if err != nil {
		return nil, execErr("list pages", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, execErr("list pages", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, execErr("list pages", err)
	}
	return out, nil
}

func scanPage(sc scanner) (*Page, error) {
	var p Page
	var props *string
	var tags string
	var isJournal int
	if err := sc.Scan(
		&p.ID, &p.Name, &p.Title, &props, &tags, &isJournal,
		&p.JournalDate, &p.CreatedAt, &p.UpdatedAt, &p.GraphID,
	); err != nil {
		return nil, err
	}
	p.Properties = rawJSON(props)
	p.Tags = splitTags(tags)
	p.IsJournal = isJournal != 0
	return &p, nil
}

// ─── Tag list encoding ───────────────────────────────────────────────────────

// Page tags are stored as one comma-delimited string.
const tagDelimiter = ","

func joinTags(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.ReplaceAll(t, tagDelimiter, " "))
		if t != "" {
			clean = append(clean, t)
		}
	}
	return strings.Join(clean, tagDelimiter)
}

func splitTags(s string) []string {
	out := []string{}
	for _, t := range strings.Split(s, tagDelimiter) {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// pageGraph returns the graph id owning a page.
func (s *Store) pageGraph(pageID string) (string, error) {
	var graphID string
	err := s.db.QueryRow(`SELECT graph_id FROM pages WHERE id = ?`, pageID).Scan(&graphID)
	if err != nil {
		if isNoRows(err) {
			return "", notFound("page", pageID)
		}
		return "", execErr("get page", err)
	}
	return graphID, nil
}
