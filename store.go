package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS beatmap_sets (
	set_id        INTEGER PRIMARY KEY,
	seq           INTEGER NOT NULL,
	first_seen    INTEGER NOT NULL,
	downloaded_at INTEGER,
	archive_path  TEXT
);
CREATE TABLE IF NOT EXISTS beatmaps (
	item_id INTEGER PRIMARY KEY,
	seq     INTEGER NOT NULL,
	set_id  INTEGER NOT NULL REFERENCES beatmap_sets(set_id),
	path    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS beatmaps_set_id ON beatmaps(set_id);
`

// Store persists the catalog and remembers which sets were downloaded, so
// a later run never fetches the same set twice.
type Store struct {
	db *sql.DB
}

func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveCatalog upserts every set and item of c in one transaction.
func (s *Store) SaveCatalog(ctx context.Context, c *Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	setStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO beatmap_sets(set_id, seq, first_seen)
		 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM beatmap_sets), ?)
		 ON CONFLICT(set_id) DO NOTHING`)
	if err != nil {
		return err
	}
	defer setStmt.Close()
	itemStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO beatmaps(item_id, seq, set_id, path)
		 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM beatmaps), ?, ?)
		 ON CONFLICT(item_id) DO UPDATE SET set_id = excluded.set_id, path = excluded.path`)
	if err != nil {
		return err
	}
	defer itemStmt.Close()

	now := time.Now().Unix()
	for _, set := range c.Sets() {
		if _, err := setStmt.ExecContext(ctx, set, now); err != nil {
			return fmt.Errorf("save set %d: %w", set, err)
		}
		for _, item := range c.Items(set) {
			if _, err := itemStmt.ExecContext(ctx, item, set, c.Path(item)); err != nil {
				return fmt.Errorf("save beatmap %d: %w", item, err)
			}
		}
	}
	return tx.Commit()
}

// LoadCatalog returns every stored set in the order it was first seen.
func (s *Store) LoadCatalog(ctx context.Context) (*Catalog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.set_id, b.item_id, b.path
		FROM beatmap_sets s JOIN beatmaps b ON b.set_id = s.set_id
		ORDER BY s.seq, b.seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	c := NewCatalog()
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.SetID, &e.ItemID, &e.Path); err != nil {
			return nil, err
		}
		c.Add(e)
	}
	return c, rows.Err()
}

func (s *Store) MarkDownloaded(ctx context.Context, setID int64, archive string) error {
	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO beatmap_sets(set_id, seq, first_seen, downloaded_at, archive_path)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM beatmap_sets), ?, ?, ?)
		ON CONFLICT(set_id) DO UPDATE SET downloaded_at = excluded.downloaded_at, archive_path = excluded.archive_path`,
		setID, now, now, archive)
	return err
}

func (s *Store) IsDownloaded(ctx context.Context, setID int64) (bool, error) {
	var at sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT downloaded_at FROM beatmap_sets WHERE set_id = ?`, setID).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return at.Valid, nil
}
