package store

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/minglog/minglog/internal/apperr"
)

// ─── Search (FTS5) ───────────────────────────────────────────────────────────

// SearchRequest filters notes. Every predicate is optional; an empty Query
// skips the full-text index and an empty Tags list means no tag filter.
// DateFrom and DateTo bound created_at inclusively and accept RFC 3339 or a
// bare YYYY-MM-DD date (a bare DateTo covers the whole day).
type SearchRequest struct {
	Query           string   `json:"query"`
	Tags            []string `json:"tags,omitempty"`
	DateFrom        *string  `json:"date_from,omitempty"`
	DateTo          *string  `json:"date_to,omitempty"`
	IncludeArchived *bool    `json:"include_archived,omitempty"`
	Limit           *int     `json:"limit,omitempty"`
	Offset          *int     `json:"offset,omitempty"`
}

// SearchResult is one page of matching notes.
type SearchResult = Listing[Note]

// SearchNotes runs a multi-predicate note query. Matches are ordered by
// relevance when free text is given, then by recency, then by id.
func (s *Store) SearchNotes(req SearchRequest) (*SearchResult, error) {
	limit, offset := s.pageBounds(req.Limit, req.Offset, s.cfg.MaxSearchResults)

	from := ` FROM notes n`
	order := ` ORDER BY n.updated_at DESC, n.id`
	var where []string
	var args []any

	if ftsQuery := sanitizeFTS(req.Query); ftsQuery != "" {
		from = ` FROM notes_fts fts JOIN notes n ON n.id = fts.id`
		order = ` ORDER BY fts.rank, n.updated_at DESC, n.id`
		where = append(where, `notes_fts MATCH ?`)
		args = append(args, ftsQuery)
	}

	if req.IncludeArchived == nil || !*req.IncludeArchived {
		where = append(where, `n.is_archived = 0`)
	}

	var tags []string
	for _, t := range req.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) > 0 {
		where = append(where,
			`EXISTS (SELECT 1 FROM json_each(n.tags) WHERE json_each.value IN (`+placeholders(len(tags))+`))`)
		for _, t := range tags {
			args = append(args, t)
		}
	}

	if req.DateFrom != nil && *req.DateFrom != "" {
		lo, err := parseBound(*req.DateFrom, false)
		if err != nil {
			return nil, err
		}
		where = append(where, `n.created_at >= ?`)
		args = append(args, lo)
	}
	if req.DateTo != nil && *req.DateTo != "" {
		hi, err := parseBound(*req.DateTo, true)
		if err != nil {
			return nil, err
		}
		where = append(where, `n.created_at <= ?`)
		args = append(args, hi)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = ` WHERE ` + strings.Join(where, ` AND `)
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*)`+from+whereSQL, args...).Scan(&total); err != nil {
		return nil, execErr("search notes", err)
	}

	sqlStr := `SELECT n.id, n.title, n.content, n.tags, n.created_at, n.updated_at, n.is_favorite, n.is_archived` +
		from + whereSQL + order + ` LIMIT ? OFFSET ?`
	notes, err := s.queryNotes(sqlStr, append(args, limit, offset)...)
	if err != nil {
		return nil, err
	}

	return &SearchResult{Items: notes, Total: total, HasMore: offset+limit < total}, nil
}

// ─── Page / block search ─────────────────────────────────────────────────────

// BlockSearchRequest searches page names/titles and block content.
// IncludePages and IncludeBlocks default to true.
type BlockSearchRequest struct {
	Query         string `json:"query"`
	GraphID       string `json:"graph_id,omitempty"`
	PageID        string `json:"page_id,omitempty"`
	IncludePages  *bool  `json:"include_pages,omitempty"`
	IncludeBlocks *bool  `json:"include_blocks,omitempty"`
	Limit         *int   `json:"limit,omitempty"`
}

// BlockSearchHit is one page or block match.
type BlockSearchHit struct {
	Type     string  `json:"type"` // "page" or "block"
	ID       string  `json:"id"`
	PageID   string  `json:"page_id"`
	PageName string  `json:"page_name"`
	Title    string  `json:"title"`
	Excerpt  string  `json:"excerpt"`
	Rank     float64 `json:"rank"`
}

// BlockSearchResponse holds the merged hits, best first. Total counts every
// match before the limit is applied.
type BlockSearchResponse struct {
	Results []BlockSearchHit `json:"results"`
	Total   int              `json:"total"`
	Query   string           `json:"query"`
}

// Hit types.
const (
	HitPage  = "page"
	HitBlock = "block"
)

// SearchBlocks searches the page and block mirrors and merges the hits by
// rank. An empty query matches nothing.
func (s *Store) SearchBlocks(req BlockSearchRequest) (*BlockSearchResponse, error) {
	resp := &BlockSearchResponse{Results: []BlockSearchHit{}, Query: req.Query}
	ftsQuery := sanitizeFTS(req.Query)
	if ftsQuery == "" {
		return resp, nil
	}
	limit, _ := s.pageBounds(req.Limit, nil, s.cfg.MaxSearchResults)

	if req.IncludePages == nil || *req.IncludePages {
		from := ` FROM pages_fts fts JOIN pages p ON p.id = fts.id
			WHERE pages_fts MATCH ?`
		args := []any{ftsQuery}
		if req.GraphID != "" {
			from += ` AND p.graph_id = ?`
			args = append(args, req.GraphID)
		}
		if req.PageID != "" {
			from += ` AND p.id = ?`
			args = append(args, req.PageID)
		}
		n, err := s.countMatches(from, args)
		if err != nil {
			return nil, execErr("search pages", err)
		}
		resp.Total += n

		rows, err := s.queryItHook(s.db,
			`SELECT p.id, p.name, p.title, fts.rank`+from+` ORDER BY fts.rank LIMIT ?`,
			append(args, limit)...)
		if err != nil {
			return nil, execErr("search pages", err)
		}
		for rows.Next() {
			var h BlockSearchHit
			var title *string
			if err := rows.Scan(&h.ID, &h.PageName, &title, &h.Rank); err != nil {
				_ = rows.Close()
				return nil, execErr("search pages", err)
			}
			h.Type = HitPage
			h.PageID = h.ID
			h.Title = h.PageName
			if title != nil && *title != "" {
				h.Title = *title
			}
			h.Excerpt = h.Title
			resp.Results = append(resp.Results, h)
		}
		err = rows.Err()
		_ = rows.Close()
		if err != nil {
			return nil, execErr("search pages", err)
		}
	}

	if req.IncludeBlocks == nil || *req.IncludeBlocks {
		from := ` FROM blocks_fts fts
			JOIN blocks b ON b.id = fts.id
			JOIN pages p ON p.id = b.page_id
			WHERE blocks_fts MATCH ?`
		args := []any{ftsQuery}
		if req.GraphID != "" {
			from += ` AND b.graph_id = ?`
			args = append(args, req.GraphID)
		}
		if req.PageID != "" {
			from += ` AND b.page_id = ?`
			args = append(args, req.PageID)
		}
		n, err := s.countMatches(from, args)
		if err != nil {
			return nil, execErr("search blocks", err)
		}
		resp.Total += n

		rows, err := s.queryItHook(s.db,
			`SELECT b.id, b.content, b.page_id, p.name, fts.rank`+from+` ORDER BY fts.rank LIMIT ?`,
			append(args, limit)...)
		if err != nil {
			return nil, execErr("search blocks", err)
		}
		for rows.Next() {
			var h BlockSearchHit
			var content string
			if err := rows.Scan(&h.ID, &content, &h.PageID, &h.PageName, &h.Rank); err != nil {
				_ = rows.Close()
				return nil, execErr("search blocks", err)
			}
			h.Type = HitBlock
			h.Title = Truncate(firstLine(content), 60)
			h.Excerpt = Excerpt(content, req.Query)
			resp.Results = append(resp.Results, h)
		}
		err = rows.Err()
		_ = rows.Close()
		if err != nil {
			return nil, execErr("search blocks", err)
		}
	}

	sort.SliceStable(resp.Results, func(i, j int) bool {
		return resp.Results[i].Rank < resp.Results[j].Rank
	})
	if len(resp.Results) > limit {
		resp.Results = resp.Results[:limit]
	}
	return resp, nil
}

// countMatches counts the rows of a search FROM clause before any limit.
func (s *Store) countMatches(from string, args []any) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*)`+from, args...).Scan(&n)
	return n, err
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

const (
	excerptBefore = 50
	excerptLength = 150
)

// Excerpt returns up to 150 characters of content around the first
// case-insensitive occurrence of the first query word.
func Excerpt(content, query string) string {
	rs := []rune(content)
	start := 0
	if words := strings.Fields(query); len(words) > 0 {
		if idx := runeIndexFold(rs, []rune(strings.Trim(words[0], `"*`))); idx >= 0 {
			start = max(0, idx-excerptBefore)
		}
	}
	end := min(len(rs), start+excerptLength)

	out := string(rs[start:end])
	if start > 0 {
		out = "..." + out
	}
	if end < len(rs) {
		out += "..."
	}
	return out
}

func runeIndexFold(hay, needle []rune) int {
	if len(needle) == 0 {
		return -1
	}
	for i := 0; i+len(needle) <= len(hay); i++ {
		match := true
		for j, r := range needle {
			if unicode.ToLower(hay[i+j]) != unicode.ToLower(r) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// Truncate shortens a string to max runes with an ellipsis.
func Truncate(s string, max int) string {
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	return string(rs[:max]) + "..."
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// parseBound normalizes a date filter to the stored timestamp layout.
func parseBound(v string, end bool) (string, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.UTC().Format(TimeLayout), nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		if end {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t.UTC().Format(TimeLayout), nil
	}
	return "", apperr.Errorf(apperr.InvalidInput, "search: invalid date %q (want RFC 3339 or YYYY-MM-DD)", v)
}
