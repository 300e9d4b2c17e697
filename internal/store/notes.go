package store

import (
	"encoding/json"
	"strings"

	"github.com/minglog/minglog/internal/apperr"
)

// ─── Notes ───────────────────────────────────────────────────────────────────

const noteColumns = `id, title, content, tags, created_at, updated_at, is_favorite, is_archived`

// CreateNote creates a note. Title is required.
func (s *Store) CreateNote(req CreateNoteRequest) (*Note, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, required("note", "title")
	}
	tags, err := encodeNoteTags(req.Tags)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := newID()
	ts := s.now()
	if _, err := s.execHook(s.db,
		`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?, 0, 0)`,
		id, req.Title, req.Content, tags, ts, ts,
	); err != nil {
		return nil, execErr("create note", err)
	}
	return s.GetNote(id)
}

// GetNote returns a note by id.
func (s *Store) GetNote(id string) (*Note, error) {
	row := s.db.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("note", id)
		}
		return nil, execErr("get note", err)
	}
	return n, nil
}

// UpdateNote merges the non-nil fields of req into the stored note.
func (s *Store) UpdateNote(req UpdateNoteRequest) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.GetNote(req.ID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, required("note", "title")
		}
		n.Title = *req.Title
	}
	if req.Content != nil {
		n.Content = *req.Content
	}
	if req.Tags != nil {
		n.Tags = *req.Tags
	}
	if req.IsFavorite != nil {
		n.IsFavorite = *req.IsFavorite
	}
	if req.IsArchived != nil {
		n.IsArchived = *req.IsArchived
	}
	tags, err := encodeNoteTags(n.Tags)
	if err != nil {
		return nil, err
	}

	if _, err := s.execHook(s.db,
		`UPDATE notes
		 SET title = ?, content = ?, tags = ?, is_favorite = ?, is_archived = ?, updated_at = ?
		 WHERE id = ?`,
		n.Title, n.Content, tags, boolInt(n.IsFavorite), boolInt(n.IsArchived), s.now(), n.ID,
	); err != nil {
		return nil, execErr("update note", err)
	}
	return s.GetNote(n.ID)
}

// DeleteNote removes a note; its search-index row goes with it. Deleting an
// unknown id is a no-op.
func (s *Store) DeleteNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.execHook(s.db, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return execErr("delete note", err)
	}
	return nil
}

// ListNotes returns notes most recently updated first, archived ones included.
func (s *Store) ListNotes(limit, offset *int) (*Listing[Note], error) {
	l, o := s.pageBounds(limit, offset, s.cfg.MaxListLimit)

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&total); err != nil {
		return nil, execErr("count notes", err)
	}
	notes, err := s.queryNotes(
		`SELECT `+noteColumns+` FROM notes ORDER BY updated_at DESC, id LIMIT ? OFFSET ?`, l, o)
	if err != nil {
		return nil, err
	}
	return &Listing[Note]{Items: notes, Total: total, HasMore: o+l < total}, nil
}

func (s *Store) queryNotes(query string, args ...any) ([]Note, error) {
	rows, err := s.queryItHook(s.db, query, args...)
	if err != nil {
		return nil, execErr("query notes", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, execErr("query notes", err)
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, execErr("query notes", err)
	}
	return out, nil
}

func scanNote(sc scanner) (*Note, error) {
	var n Note
	var tags *string
	var fav, archived int
	if err := sc.Scan(&n.ID, &n.Title, &n.Content, &tags, &n.CreatedAt, &n.UpdatedAt, &fav, &archived); err != nil {
		return nil, err
	}
	n.IsFavorite = fav != 0
	n.IsArchived = archived != 0
	if tags != nil && *tags != "" {
		if err := json.Unmarshal([]byte(*tags), &n.Tags); err != nil {
			return nil, apperr.Wrap(apperr.Serialization, "note tags", err)
		}
	}
	return &n, nil
}

// encodeNoteTags stores tag ids as a JSON array, or NULL when there are none.
func encodeNoteTags(tags []string) (*string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, apperr.Wrap(apperr.Serialization, "note tags", err)
	}
	str := string(data)
	return &str, nil
}
