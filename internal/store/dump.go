package store

import (
	"fmt"
	"time"
)

// ─── Note dump / load ────────────────────────────────────────────────────────

// NotesDumpVersion is written into every note dump.
const NotesDumpVersion = "1.0"

// NotesDump is a serializable copy of the flat note model.
type NotesDump struct {
	Version    string    `json:"version"`
	ExportedAt string    `json:"exported_at"`
	Notes      []Note    `json:"notes"`
	Tags       []Tag     `json:"tags"`
	Settings   []Setting `json:"settings"`
}

// NotesImportResult counts what LoadNotes inserted.
type NotesImportResult struct {
	NotesImported    int `json:"notes_imported"`
	TagsImported     int `json:"tags_imported"`
	TagsReused       int `json:"tags_reused"`
	SettingsImported int `json:"settings_imported"`
}

// DumpNotes returns every note, tag and setting.
func (s *Store) DumpNotes() (*NotesDump, error) {
	data := &NotesDump{
		Version:    NotesDumpVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	notes, err := s.queryNotes(`SELECT ` + noteColumns + ` FROM notes ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("dump notes: %w", err)
	}
	data.Notes = notes

	if data.Tags, err = s.ListTags(); err != nil {
		return nil, fmt.Errorf("dump tags: %w", err)
	}
	if data.Settings, err = s.AllSettings(); err != nil {
		return nil, fmt.Errorf("dump settings: %w", err)
	}
	return data, nil
}

// LoadNotes inserts a dump inside one transaction. Notes always get fresh
// ids; tags are matched by name and note tag ids are rewritten to the ids
// they map to; settings are upserted.
func (s *Store) LoadNotes(data *NotesDump) (*NotesImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.beginTxHook()
	if err != nil {
		return nil, execErr("load notes: begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	result := &NotesImportResult{}
	tagIDs := make(map[string]string, len(data.Tags))

	for _, t := range data.Tags {
		if t.Name == "" {
			continue
		}
		var existing string
		err := tx.QueryRow(`SELECT id FROM tags WHERE name = ?`, t.Name).Scan(&existing)
		switch {
		case err == nil:
			tagIDs[t.ID] = existing
			result.TagsReused++
			continue
		case !isNoRows(err):
			return nil, execErr(fmt.Sprintf("load tag %s", t.Name), err)
		}

		id := newID()
		color := DefaultTagColor
		if t.Color != nil {
			color = *t.Color
		}
		created := normalizeTS(t.CreatedAt, s.now())
		if _, err := s.execHook(tx,
			`INSERT INTO tags (`+tagColumns+`) VALUES (?, ?, ?, ?)`, id, t.Name, color, created,
		); err != nil {
			return nil, execErr(fmt.Sprintf("load tag %s", t.Name), err)
		}
		tagIDs[t.ID] = id
		result.TagsImported++
	}

	for _, n := range data.Notes {
		if n.Title == "" {
			continue
		}
		tags := make([]string, 0, len(n.Tags))
		for _, old := range n.Tags {
			if id, ok := tagIDs[old]; ok {
				tags = append(tags, id)
			} else {
				tags = append(tags, old)
			}
		}
		encoded, err := encodeNoteTags(tags)
		if err != nil {
			return nil, err
		}
		ts := s.now()
		created, updated := normalizeTS(n.CreatedAt, ts), normalizeTS(n.UpdatedAt, ts)
		if _, err := s.execHook(tx,
			`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			newID(), n.Title, n.Content, encoded, created, updated,
			boolInt(n.IsFavorite), boolInt(n.IsArchived),
		); err != nil {
			return nil, execErr(fmt.Sprintf("load note %s", n.ID), err)
		}
		result.NotesImported++
	}

	for _, st := range data.Settings {
		if st.Key == "" {
			continue
		}
		if _, err := s.execHook(tx,
			`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			st.Key, st.Value, s.now(),
		); err != nil {
			return nil, execErr(fmt.Sprintf("load setting %s", st.Key), err)
		}
		result.SettingsImported++
	}

	if err := s.commitHook(tx); err != nil {
		return nil, execErr("load notes: commit", err)
	}
	return result, nil
}

// normalizeTS rewrites an RFC 3339 timestamp into the stored layout.
func normalizeTS(v, fallback string) string {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.UTC().Format(TimeLayout)
	}
	return fallback
}
