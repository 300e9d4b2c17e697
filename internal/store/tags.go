package store

import (
	"strings"

	"github.com/minglog/minglog/internal/apperr"
)

// ─── Tags ────────────────────────────────────────────────────────────────────

// DefaultTagColor is used when a tag is created without a color.
const DefaultTagColor = "#3b82f6"

const tagColumns = `id, name, color, created_at`

// CreateTag creates a tag. Names are unique; a duplicate is InvalidInput.
func (s *Store) CreateTag(req CreateTagRequest) (*Tag, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, required("tag", "name")
	}
	color := DefaultTagColor
	if req.Color != nil && *req.Color != "" {
		color = *req.Color
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := newID()
	if _, err := s.execHook(s.db,
		`INSERT INTO tags (`+tagColumns+`) VALUES (?, ?, ?, ?)`,
		id, name, color, s.now(),
	); err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Errorf(apperr.InvalidInput, "tag %q already exists", name)
		}
		return nil, execErr("create tag", err)
	}
	return s.GetTag(id)
}

// GetTag returns a tag by id.
func (s *Store) GetTag(id string) (*Tag, error) {
	return s.getTag(`SELECT `+tagColumns+` FROM tags WHERE id = ?`, id)
}

// GetTagByName returns a tag by its unique name.
func (s *Store) GetTagByName(name string) (*Tag, error) {
	return s.getTag(`SELECT `+tagColumns+` FROM tags WHERE name = ?`, strings.TrimSpace(name))
}

func (s *Store) getTag(query, key string) (*Tag, error) {
	var t Tag
	if err := s.db.QueryRow(query, key).Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
		if isNoRows(err) {
			return nil, notFound("tag", key)
		}
		return nil, execErr("get tag", err)
	}
	return &t, nil
}

// UpdateTag merges the non-nil fields of req into the stored tag.
func (s *Store) UpdateTag(req UpdateTagRequest) (*Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.GetTag(req.ID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, required("tag", "name")
		}
		t.Name = name
	}
	if req.Color != nil {
		t.Color = nullableString(*req.Color)
	}
	if _, err := s.execHook(s.db,
		`UPDATE tags SET name = ?, color = ? WHERE id = ?`, t.Name, t.Color, t.ID,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Errorf(apperr.InvalidInput, "tag %q already exists", t.Name)
		}
		return nil, execErr("update tag", err)
	}
	return s.GetTag(t.ID)
}

// DeleteTag removes a tag. Notes keep the stale id in their tag list.
// Deleting an unknown id is a no-op.
func (s *Store) DeleteTag(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.execHook(s.db, `DELETE FROM tags WHERE id = ?`, id); err != nil {
		return execErr("delete tag", err)
	}
	return nil
}

// ListTags returns every tag sorted by name.
func (s *Store) ListTags() ([]Tag, error) {
	rows, err := s.queryItHook(s.db, `SELECT `+tagColumns+` FROM tags ORDER BY name, id`)
	if err != nil {
		return nil, execErr("list tags", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, execErr("list tags", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, execErr("list tags", err)
	}
	return out, nil
}

// EnsureTag returns the tag with the given name, creating it when missing.
func (s *Store) EnsureTag(name string, color *string) (*Tag, bool, error) {
	t, err := s.GetTagByName(name)
	if err == nil {
		return t, false, nil
	}
	if apperr.CodeOf(err) != apperr.NotFound {
		return nil, false, err
	}
	t, err = s.CreateTag(CreateTagRequest{Name: name, Color: color})
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}
