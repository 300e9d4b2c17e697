package store

import "os"

// ─── Stats ───────────────────────────────────────────────────────────────────

// Stats returns aggregate store statistics. DatabaseSize includes the WAL file.
func (s *Store) Stats() (*Stats, error) {
	st := &Stats{}
	counts := []struct {
		dst   *int
		query string
	}{
		{&st.Graphs, `SELECT COUNT(*) FROM graphs`},
		{&st.Pages, `SELECT COUNT(*) FROM pages`},
		{&st.Blocks, `SELECT COUNT(*) FROM blocks`},
		{&st.Notes, `SELECT COUNT(*) FROM notes`},
		{&st.FavoriteNotes, `SELECT COUNT(*) FROM notes WHERE is_favorite = 1`},
		{&st.ArchivedNotes, `SELECT COUNT(*) FROM notes WHERE is_archived = 1`},
		{&st.Tags, `SELECT COUNT(*) FROM tags`},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query).Scan(c.dst); err != nil {
			return nil, execErr("stats", err)
		}
	}

	for _, p := range []string{s.path, s.path + "-wal"} {
		if fi, err := os.Stat(p); err == nil {
			st.DatabaseSize += fi.Size()
		}
	}
	return st, nil
}
