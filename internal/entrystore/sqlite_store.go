package entrystore

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, no CGO
)

// SQLiteStore implements Store over a SQLite database with an FTS5 virtual
// table indexing the question column. It is safe for concurrent read-only
// use after construction, matching the capability's concurrency contract.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	schema Schema
	closed bool
}

var _ Store = (*SQLiteStore)(nil)

// Open opens (or creates) a SQLite-backed store at path. An empty path
// opens an in-memory database, useful for tests and small corpora.
func Open(path string, schema Schema) (*SQLiteStore, error) {
	dsn := ":memory:"
	if path != "" {
		dsn = path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("entrystore: open: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("entrystore: pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, schema: schema}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("entrystore: init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	sc := s.schema
	ddl := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		%s INTEGER PRIMARY KEY,
		%s TEXT NOT NULL,
		%s TEXT NOT NULL,
		%s TEXT NOT NULL
	);

	CREATE VIRTUAL TABLE IF NOT EXISTS %s USING fts5(
		%s UNINDEXED,
		%s,
		tokenize='unicode61'
	);
	`, sc.TableName, sc.IDColumn, sc.CategoryColumn, sc.QuestionColumn, sc.AnswerColumn,
		sc.FTSTableName, sc.IDColumn, sc.QuestionColumn)

	_, err := s.db.Exec(ddl)
	return err
}

// Seed loads a corpus into the store, replacing any existing rows with the
// same id. Intended for building a store from a fixture or ingest job, not
// part of the Store capability interface itself.
func (s *SQLiteStore) Seed(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("entrystore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sc := s.schema
	upsert := fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s, %s, %s, %s) VALUES (?, ?, ?, ?)`,
		sc.TableName, sc.IDColumn, sc.CategoryColumn, sc.QuestionColumn, sc.AnswerColumn)
	insertFTS := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES (?, ?)`,
		sc.FTSTableName, sc.IDColumn, sc.QuestionColumn)
	deleteFTS := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, sc.FTSTableName, sc.IDColumn)

	for _, e := range entries {
		if _, err := tx.Exec(upsert, e.ID, e.Category, e.Question, e.Answer); err != nil {
			return fmt.Errorf("entrystore: upsert entry %d: %w", e.ID, err)
		}
		if _, err := tx.Exec(deleteFTS, e.ID); err != nil {
			return fmt.Errorf("entrystore: delete fts row %d: %w", e.ID, err)
		}
		if _, err := tx.Exec(insertFTS, e.ID, e.Question); err != nil {
			return fmt.Errorf("entrystore: index entry %d: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// LoadQuestions implements Store.
func (s *SQLiteStore) LoadQuestions() (map[int]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	sc := s.schema
	rows, err := s.db.Query(fmt.Sprintf(`SELECT %s, %s FROM %s`, sc.IDColumn, sc.QuestionColumn, sc.TableName))
	if err != nil {
		return nil, fmt.Errorf("entrystore: load questions: %w", err)
	}
	defer rows.Close()

	out := make(map[int]string)
	for rows.Next() {
		var id int
		var question string
		if err := rows.Scan(&id, &question); err != nil {
			return nil, fmt.Errorf("entrystore: scan question row: %w", err)
		}
		out[id] = question
	}
	return out, rows.Err()
}

// FTSMatch implements Store. It treats any FTS5 query-syntax error as a
// clean empty result rather than propagating it, matching the capability's
// best-effort contract.
func (s *SQLiteStore) FTSMatch(expr string, limit int) ([]int, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	sc := s.schema
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s MATCH ? ORDER BY rank LIMIT ?`,
		sc.IDColumn, sc.FTSTableName, sc.FTSTableName)

	rows, err := s.db.Query(query, expr, limit)
	if err != nil {
		if strings.Contains(err.Error(), "fts5:") || strings.Contains(err.Error(), "syntax error") {
			return nil, nil
		}
		return nil, fmt.Errorf("entrystore: fts match: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("entrystore: scan fts row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FetchEntries implements Store.
func (s *SQLiteStore) FetchEntries(ids []int) ([]Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	sc := s.schema
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s IN (%s)`,
		sc.IDColumn, sc.CategoryColumn, sc.QuestionColumn, sc.AnswerColumn,
		sc.TableName, sc.IDColumn, strings.Join(placeholders, ","))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("entrystore: fetch entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Category, &e.Question, &e.Answer); err != nil {
			return nil, fmt.Errorf("entrystore: scan entry row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
