// Package store is the persistence core of minglog.
//
// It keeps graphs, pages and blocks plus the flat note/tag/settings model in
// a single SQLite database (modernc.org/sqlite, no cgo). Three FTS5 mirror
// tables (notes_fts, pages_fts, blocks_fts) are maintained exclusively by
// triggers, so no repository method issues index statements of its own.
//
// A *Store is opened once and shared. Reads go through the connection pool
// concurrently; mutations are serialized by a store-level mutex so that a
// read-merge-write patch never interleaves with another writer.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/minglog/minglog/internal/apperr"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// DBFileName is the database file created inside Config.DataDir.
const DBFileName = "minglog.db"

// TimeLayout is the fixed-width UTC layout of every stored timestamp.
// Lexical order of formatted values equals chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds store configuration.
type Config struct {
	DataDir          string
	DefaultListLimit int
	MaxListLimit     int
	MaxSearchResults int
}

// DefaultConfig returns the default list and search limits. DataDir has no
// default; callers always choose where the database lives.
func DefaultConfig() Config {
	return Config{
		DefaultListLimit: 50,
		MaxListLimit:     1000,
		MaxSearchResults: 200,
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the persistent note store backed by SQLite + FTS5.
type Store struct {
	db     *sql.DB
	cfg    Config
	path   string
	hooks  storeHooks
	mu     sync.Mutex // serializes writers
	clock  sync.Mutex
	lastTS time.Time
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type sqlRowScanner struct {
	rows *sql.Rows
}

func (r sqlRowScanner) Next() bool             { return r.rows.Next() }
func (r sqlRowScanner) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r sqlRowScanner) Err() error             { return r.rows.Err() }
func (r sqlRowScanner) Close() error           { return r.rows.Close() }

type storeHooks struct {
	exec    func(db execer, query string, args ...any) (sql.Result, error)
	query   func(db queryer, query string, args ...any) (*sql.Rows, error)
	queryIt func(db queryer, query string, args ...any) (rowScanner, error)
	beginTx func(db *sql.DB) (*sql.Tx, error)
	commit  func(tx *sql.Tx) error
}

// newStoreHooks builds the hooks of each new Store; tests replace it to
// reach failures inside New.
var newStoreHooks = defaultStoreHooks

func defaultStoreHooks() storeHooks {
	return storeHooks{
		exec: func(db execer, query string, args ...any) (sql.Result, error) {
			return db.Exec(query, args...)
		},
		query: func(db queryer, query string, args ...any) (*sql.Rows, error) {
			return db.Query(query, args...)
		},
		queryIt: func(db queryer, query string, args ...any) (rowScanner, error) {
			rows, err := db.Query(query, args...)
			if err != nil {
				return nil, err
			}
			return sqlRowScanner{rows: rows}, nil
		},
		beginTx: func(db *sql.DB) (*sql.Tx, error) {
			return db.Begin()
		},
		commit: func(tx *sql.Tx) error {
			return tx.Commit()
		},
	}
}

func (s *Store) execHook(db execer, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(db, query, args...)
	}
	return db.Exec(query, args...)
}

func (s *Store) queryHook(db queryer, query string, args ...any) (*sql.Rows, error) {
	if s.hooks.query != nil {
		return s.hooks.query(db, query, args...)
	}
	return db.Query(query, args...)
}

func (s *Store) queryItHook(db queryer, query string, args ...any) (rowScanner, error) {
	if s.hooks.queryIt != nil {
		return s.hooks.queryIt(db, query, args...)
	}
	rows, err := s.queryHook(db, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRowScanner{rows: rows}, nil
}

func (s *Store) beginTxHook() (*sql.Tx, error) {
	if s.hooks.beginTx != nil {
		return s.hooks.beginTx(s.db)
	}
	return s.db.Begin()
}

func (s *Store) commitHook(tx *sql.Tx) error {
	if s.hooks.commit != nil {
		return s.hooks.commit(tx)
	}
	return tx.Commit()
}

// New creates a Store with the given configuration.
// It creates the data directory if needed, opens SQLite with WAL mode and
// foreign keys on every pooled connection, and bootstraps the schema.
// Calling New again on an existing directory is safe.
func New(cfg Config) (*Store, error) {
	if cfg.DefaultListLimit <= 0 {
		cfg.DefaultListLimit = 50
	}
	if cfg.MaxListLimit <= 0 {
		cfg.MaxListLimit = 1000
	}
	if cfg.MaxSearchResults <= 0 {
		cfg.MaxSearchResults = 200
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, apperr.Wrap(apperr.IO, "store: create data dir", err)
	}

	dbPath := filepath.Join(cfg.DataDir, DBFileName)
	// Pragmas go in the DSN so each pooled connection gets them.
	dsn := dbPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=foreign_keys(1)"
	db, err := openDB("sqlite", dsn)
	if err != nil {
		return nil, apperr.Wrap(apperr.IO, "store: open database", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, apperr.Wrap(apperr.IO, "store: open database", err)
	}

	s := &Store{db: db, cfg: cfg, path: dbPath, hooks: newStoreHooks()}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, apperr.Wrap(apperr.Schema, "store: migration", err)
	}

	return s, nil
}

// Close closes the underlying database connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// now returns a timestamp strictly greater than any previously returned one,
// so updated_at always moves forward and recency order stays total.
func (s *Store) now() string {
	s.clock.Lock()
	defer s.clock.Unlock()
	t := time.Now().UTC()
	if !t.After(s.lastTS) {
		t = s.lastTS.Add(time.Nanosecond)
	}
	s.lastTS = t
	return t.Format(TimeLayout)
}

func newID() string {
	return uuid.New().String()
}

// pageBounds resolves caller limit/offset against the configured defaults.
func (s *Store) pageBounds(limit, offset *int, max int) (int, int) {
	l := s.cfg.DefaultListLimit
	if limit != nil && *limit > 0 {
		l = *limit
	}
	if l > max {
		l = max
	}
	o := 0
	if offset != nil && *offset > 0 {
		o = *offset
	}
	return l, o
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// sanitizeFTS turns free text into an FTS5 prefix query: every word is
// quoted and starred, so `rust lang` becomes `"rust"* "lang"*`.
func sanitizeFTS(query string) string {
	words := strings.Fields(query)
	out := words[:0]
	for _, w := range words {
		w = strings.Trim(w, `"*`)
		if strings.IndexFunc(w, isWordRune) < 0 {
			continue
		}
		out = append(out, `"`+strings.ReplaceAll(w, `"`, `""`)+`"*`)
	}
	return strings.Join(out, " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isUniqueViolation checks if an error is a SQLite UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// dbError classifies a driver error.
func dbError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return apperr.Wrap(apperr.NotFound, op, err)
	case isUniqueViolation(err), isForeignKeyViolation(err):
		return apperr.Wrap(apperr.InvalidInput, op, err)
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Wrap(apperr.Storage, op, err)
}

func notFound(kind, id string) error {
	return apperr.Errorf(apperr.NotFound, "%s %q not found", kind, id)
}

func required(kind, field string) error {
	return apperr.Errorf(apperr.InvalidInput, "%s: %s is required", kind, field)
}

func execErr(op string, err error) error {
	return dbError(fmt.Sprintf("store: %s", op), err)
}
