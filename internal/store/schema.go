package store

// ─── Migrations ──────────────────────────────────────────────────────────────

// migrate creates every table, index, FTS mirror and sync trigger that does
// not exist yet. It is a no-op on an up-to-date database.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS graphs (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			path       TEXT NOT NULL,
			settings   TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS pages (
			id           TEXT PRIMARY KEY,
			name         TEXT    NOT NULL,
			title        TEXT,
			properties   TEXT,
			tags         TEXT    NOT NULL DEFAULT '',
			is_journal   INTEGER NOT NULL DEFAULT 0,
			journal_date TEXT,
			created_at   TEXT    NOT NULL,
			updated_at   TEXT    NOT NULL,
			graph_id     TEXT    NOT NULL,
			FOREIGN KEY (graph_id) REFERENCES graphs(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS blocks (
			id         TEXT PRIMARY KEY,
			content    TEXT    NOT NULL DEFAULT '',
			parent_id  TEXT,
			properties TEXT,
			refs       TEXT    NOT NULL DEFAULT '[]',
			"order"    INTEGER NOT NULL DEFAULT 0,
			collapsed  INTEGER NOT NULL DEFAULT 0,
			created_at TEXT    NOT NULL,
			updated_at TEXT    NOT NULL,
			page_id    TEXT    NOT NULL,
			graph_id   TEXT    NOT NULL,
			FOREIGN KEY (page_id)   REFERENCES pages(id)  ON DELETE CASCADE,
			FOREIGN KEY (graph_id)  REFERENCES graphs(id) ON DELETE CASCADE,
			FOREIGN KEY (parent_id) REFERENCES blocks(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS notes (
			id          TEXT PRIMARY KEY,
			title       TEXT    NOT NULL,
			content     TEXT    NOT NULL DEFAULT '',
			tags        TEXT,
			created_at  TEXT    NOT NULL,
			updated_at  TEXT    NOT NULL,
			is_favorite INTEGER NOT NULL DEFAULT 0,
			is_archived INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS tags (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			color      TEXT DEFAULT '#3b82f6',
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS settings (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`
	if _, err := s.execHook(s.db, schema); err != nil {
		return err
	}

	if _, err := s.execHook(s.db, `
		CREATE INDEX IF NOT EXISTS idx_graphs_updated ON graphs(updated_at DESC);
		CREATE INDEX IF NOT EXISTS idx_pages_graph    ON pages(graph_id, updated_at DESC);
		CREATE INDEX IF NOT EXISTS idx_pages_name     ON pages(name);
		CREATE INDEX IF NOT EXISTS idx_pages_updated  ON pages(updated_at DESC);
		CREATE INDEX IF NOT EXISTS idx_blocks_page    ON blocks(page_id, "order");
		CREATE INDEX IF NOT EXISTS idx_blocks_parent  ON blocks(parent_id);
		CREATE INDEX IF NOT EXISTS idx_blocks_graph   ON blocks(graph_id);
		CREATE INDEX IF NOT EXISTS idx_notes_updated  ON notes(updated_at DESC);
		CREATE INDEX IF NOT EXISTS idx_notes_created  ON notes(created_at);
		CREATE INDEX IF NOT EXISTS idx_notes_title    ON notes(title);
		CREATE INDEX IF NOT EXISTS idx_notes_archived ON notes(is_archived);
	`); err != nil {
		return err
	}

	// Full-text mirrors. Rows are keyed by the base row id in an UNINDEXED
	// column because the base tables use text primary keys.
	if _, err := s.execHook(s.db, `
		CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
			id UNINDEXED,
			title,
			content
		);

		CREATE VIRTUAL TABLE IF NOT EXISTS pages_fts USING fts5(
			id UNINDEXED,
			name,
			title
		);

		CREATE VIRTUAL TABLE IF NOT EXISTS blocks_fts USING fts5(
			id UNINDEXED,
			page_id UNINDEXED,
			content
		);
	`); err != nil {
		return err
	}

	if _, err := s.execHook(s.db, `
		CREATE TRIGGER IF NOT EXISTS notes_fts_insert AFTER INSERT ON notes BEGIN
			INSERT INTO notes_fts(id, title, content) VALUES (new.id, new.title, new.content);
		END;

		CREATE TRIGGER IF NOT EXISTS notes_fts_delete AFTER DELETE ON notes BEGIN
			DELETE FROM notes_fts WHERE id = old.id;
		END;

		CREATE TRIGGER IF NOT EXISTS notes_fts_update AFTER UPDATE ON notes BEGIN
			DELETE FROM notes_fts WHERE id = old.id;
			INSERT INTO notes_fts(id, title, content) VALUES (new.id, new.title, new.content);
		END;

		CREATE TRIGGER IF NOT EXISTS pages_fts_insert AFTER INSERT ON pages BEGIN
			INSERT INTO pages_fts(id, name, title) VALUES (new.id, new.name, new.title);
		END;

		CREATE TRIGGER IF NOT EXISTS pages_fts_delete AFTER DELETE ON pages BEGIN
			DELETE FROM pages_fts WHERE id = old.id;
		END;

		CREATE TRIGGER IF NOT EXISTS pages_fts_update AFTER UPDATE ON pages BEGIN
			DELETE FROM pages_fts WHERE id = old.id;
			INSERT INTO pages_fts(id, name, title) VALUES (new.id, new.name, new.title);
		END;

		CREATE TRIGGER IF NOT EXISTS blocks_fts_insert AFTER INSERT ON blocks BEGIN
			INSERT INTO blocks_fts(id, page_id, content) VALUES (new.id, new.page_id, new.content);
		END;

		CREATE TRIGGER IF NOT EXISTS blocks_fts_delete AFTER DELETE ON blocks BEGIN
			DELETE FROM blocks_fts WHERE id = old.id;
		END;

		CREATE TRIGGER IF NOT EXISTS blocks_fts_update AFTER UPDATE ON blocks BEGIN
			DELETE FROM blocks_fts WHERE id = old.id;
			INSERT INTO blocks_fts(id, page_id, content) VALUES (new.id, new.page_id, new.content);
		END;
	`); err != nil {
		return err
	}

	return nil
}
