// Package state records collection uploads in a local SQLite database.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBFile is the database file name inside the data directory.
const DBFile = "state.db"

// Upload is one recorded upload of a collection archive.
type Upload struct {
	CollectionID string
	Digest       string
	Cards        int
	Boards       int
	BoardGroups  int
	Resources    int
	UploadedAt   time.Time
}

// Store manages upload records
type Store struct {
	db      *sql.DB
	dataDir string
}

// NewStore opens (and creates if needed) the store in dataDir
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFile)
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{
		db:      db,
		dataDir: dataDir,
	}

	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize state store: %w", err)
	}

	return s, nil
}

// init creates the database schema
func (s *Store) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS uploads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		collection_id TEXT NOT NULL,
		digest TEXT NOT NULL,
		cards INTEGER NOT NULL DEFAULT 0,
		boards INTEGER NOT NULL DEFAULT 0,
		board_groups INTEGER NOT NULL DEFAULT 0,
		resources INTEGER NOT NULL DEFAULT 0,
		uploaded_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_uploads_collection ON uploads(collection_id, id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordUpload appends an upload record
func (s *Store) RecordUpload(u *Upload) error {
	if u.CollectionID == "" {
		return fmt.Errorf("record upload: collection id is required")
	}
	uploadedAt := u.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now()
	}

	query := `
	INSERT INTO uploads (collection_id, digest, cards, boards, board_groups, resources, uploaded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query, u.CollectionID, u.Digest, u.Cards, u.Boards, u.BoardGroups, u.Resources, uploadedAt.UTC())
	return err
}

// LastUpload returns the most recent upload of a collection, or nil if there is none
func (s *Store) LastUpload(collectionID string) (*Upload, error) {
	query := `
	SELECT collection_id, digest, cards, boards, board_groups, resources, uploaded_at
	FROM uploads WHERE collection_id = ?
	ORDER BY id DESC LIMIT 1
	`

	u := &Upload{}
	err := s.db.QueryRow(query, collectionID).Scan(
		&u.CollectionID, &u.Digest, &u.Cards, &u.Boards,
		&u.BoardGroups, &u.Resources, &u.UploadedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// History returns the uploads of a collection, newest first
func (s *Store) History(collectionID string, limit int) ([]*Upload, error) {
	query := `
	SELECT collection_id, digest, cards, boards, board_groups, resources, uploaded_at
	FROM uploads WHERE collection_id = ?
	ORDER BY id DESC LIMIT ?
	`

	rows, err := s.db.Query(query, collectionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []*Upload
	for rows.Next() {
		u := &Upload{}
		if err := rows.Scan(
			&u.CollectionID, &u.Digest, &u.Cards, &u.Boards,
			&u.BoardGroups, &u.Resources, &u.UploadedAt,
		); err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
