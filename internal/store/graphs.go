package store

import (
	"encoding/json"
	"strings"

	"github.com/minglog/minglog/internal/apperr"
)

// ─── Graphs ──────────────────────────────────────────────────────────────────

const graphColumns = `id, name, path, settings, created_at, updated_at`

// CreateGraph creates a graph. Name and path are required.
func (s *Store) CreateGraph(req CreateGraphRequest) (*Graph, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, required("graph", "name")
	}
	if strings.TrimSpace(req.Path) == "" {
		return nil, required("graph", "path")
	}
	settings, err := blobArg("graph settings", req.Settings)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := newID()
	ts := s.now()
	if _, err := s.execHook(s.db,
		`INSERT INTO graphs (`+graphColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		id, req.Name, req.Path, settings, ts, ts,
	); err != nil {
		return nil, execErr("create graph", err)
	}
	return s.GetGraph(id)
}

// GetGraph returns a graph by id.
func (s *Store) GetGraph(id string) (*Graph, error) {
	row := s.db.QueryRow(`SELECT `+graphColumns+` FROM graphs WHERE id = ?`, id)
	g, err := scanGraph(row)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("graph", id)
		}
		return nil, execErr("get graph", err)
	}
	return g, nil
}

// UpdateGraph merges the non-nil fields of req into the stored graph.
func (s *Store) UpdateGraph(req UpdateGraphRequest) (*Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.GetGraph(req.ID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, required("graph", "name")
		}
		g.Name = *req.Name
	}
	if req.Path != nil {
		if strings.TrimSpace(*req.Path) == "" {
			return nil, required("graph", "path")
		}
		g.Path = *req.Path
	}
	if req.Settings != nil {
		g.Settings = *req.Settings
	}
	settings, err := blobArg("graph settings", g.Settings)
	if err != nil {
		return nil, err
	}

	if _, err := s.execHook(s.db,
		`UPDATE graphs SET name = ?, path = ?, settings = ?, updated_at = ? WHERE id = ?`,
		g.Name, g.Path, settings, s.now(), g.ID,
	); err != nil {
		return nil, execErr("update graph", err)
	}
	return s.GetGraph(g.ID)
}

// DeleteGraph removes a graph and, through foreign-key cascade, its pages
// and blocks. Deleting an unknown id is a no-op.
func (s *Store) DeleteGraph(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.execHook(s.db, `DELETE FROM graphs WHERE id = ?`, id); err != nil {
		return execErr("delete graph", err)
	}
	return nil
}

// ListGraphs returns every graph, most recently updated first.
func (s *Store) ListGraphs() ([]Graph, error) {
	rows, err := s.queryItHook(s.db,
		`SELECT `+graphColumns+` FROM graphs ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, execErr("list graphs", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Graph
	for rows.Next() {
		g, err := scanGraph(rows)
		if err != nil {
			return nil, execErr("list graphs", err)
		}
		out = append(out, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, execErr("list graphs", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGraph(sc scanner) (*Graph, error) {
	var g Graph
	var settings *string
	if err := sc.Scan(&g.ID, &g.Name, &g.Path, &settings, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	g.Settings = rawJSON(settings)
	return &g, nil
}

// ─── Blob helpers ────────────────────────────────────────────────────────────

// blobArg validates an opaque JSON blob and returns its column value.
func blobArg(field string, v json.RawMessage) (*string, error) {
	if len(v) == 0 || string(v) == "null" {
		return nil, nil
	}
	if !json.Valid(v) {
		return nil, apperr.Errorf(apperr.InvalidInput, "%s: not valid JSON", field)
	}
	str := string(v)
	return &str, nil
}

func rawJSON(v *string) json.RawMessage {
	if v == nil || *v == "" {
		return nil
	}
	return json.RawMessage(*v)
}
