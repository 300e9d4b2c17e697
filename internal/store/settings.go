package store

import "strings"

// ─── Settings ────────────────────────────────────────────────────────────────

// GetSetting returns a setting by key.
func (s *Store) GetSetting(key string) (*Setting, error) {
	var st Setting
	err := s.db.QueryRow(`SELECT key, value, updated_at FROM settings WHERE key = ?`, key).
		Scan(&st.Key, &st.Value, &st.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("setting", key)
		}
		return nil, execErr("get setting", err)
	}
	return &st, nil
}

// SetSetting inserts or replaces a setting.
func (s *Store) SetSetting(key, value string) (*Setting, error) {
	if strings.TrimSpace(key) == "" {
		return nil, required("setting", "key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.execHook(s.db,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now(),
	); err != nil {
		return nil, execErr("set setting", err)
	}
	return s.GetSetting(key)
}

// SetSettings upserts every entry of values.
func (s *Store) SetSettings(values map[string]string) error {
	for k, v := range values {
		if _, err := s.SetSetting(k, v); err != nil {
			return err
		}
	}
	return nil
}

// AllSettings returns every setting sorted by key.
func (s *Store) AllSettings() ([]Setting, error) {
	rows, err := s.queryItHook(s.db, `SELECT key, value, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, execErr("list settings", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Setting{}
	for rows.Next() {
		var st Setting
		if err := rows.Scan(&st.Key, &st.Value, &st.UpdatedAt); err != nil {
			return nil, execErr("list settings", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, execErr("list settings", err)
	}
	return out, nil
}

// DeleteSetting removes a setting. Deleting an unknown key is a no-op.
func (s *Store) DeleteSetting(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.execHook(s.db, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return execErr("delete setting", err)
	}
	return nil
}
