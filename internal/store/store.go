// Package store handles the SQLite cache of fetched articles.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrEmpty is returned when no cached article matches.
var ErrEmpty = errors.New("article cache is empty")

// Store wraps SQLite access for cached articles.
type Store struct {
	db         *sql.DB
	maxEntries int
	now        func() time.Time
}

// LangCount is the number of cached articles for one language.
type LangCount struct {
	Lang  string
	Count int
}

// Open opens or creates the SQLite database and applies migrations. A
// positive maxEntries bounds the number of cached articles.
func Open(path string, maxEntries int) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, maxEntries: maxEntries, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id INTEGER PRIMARY KEY,
			lang TEXT NOT NULL,
			text TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			UNIQUE (lang, text)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_articles_lang ON articles(lang);`,
		`CREATE INDEX IF NOT EXISTS idx_articles_fetched_at ON articles(fetched_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Put stores an article and prunes the oldest entries beyond the configured maximum.
func (s *Store) Put(ctx context.Context, lang, text string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO articles (lang, text, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT (lang, text) DO UPDATE SET fetched_at = excluded.fetched_at`,
		lang, text, s.now().UnixNano(),
	); err != nil {
		return fmt.Errorf("insert article: %w", err)
	}

	if s.maxEntries > 0 {
		if _, err = tx.ExecContext(ctx,
			`DELETE FROM articles WHERE id NOT IN (
				SELECT id FROM articles ORDER BY fetched_at DESC, id DESC LIMIT ?
			)`, s.maxEntries,
		); err != nil {
			return fmt.Errorf("prune articles: %w", err)
		}
	}

	return tx.Commit()
}

// Random returns a random cached article for lang, or ErrEmpty.
func (s *Store) Random(ctx context.Context, lang string) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT text FROM articles WHERE lang = ? ORDER BY RANDOM() LIMIT 1`, lang,
	).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrEmpty
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

// Counts returns the number of cached articles per language, ordered by language.
func (s *Store) Counts(ctx context.Context) ([]LangCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT lang, COUNT(*) FROM articles GROUP BY lang ORDER BY lang ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []LangCount
	for rows.Next() {
		var lc LangCount
		if err := rows.Scan(&lc.Lang, &lc.Count); err != nil {
			return nil, err
		}
		result = append(result, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Clear removes every cached article and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
