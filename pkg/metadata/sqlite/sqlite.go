// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bytrix/bytrix-gw/pkg/metadata"

	_ "modernc.org/sqlite"
)

func init() {
	metadata.Providers.Register("sqlite", func(_ context.Context, params map[string]string) (metadata.Store, error) {
		return New(params["dsn"])
	})
}

// compile-time check
var _ metadata.Store = (*Store)(nil)

// Store is a SQLite-backed implementation of metadata.Store for
// single-node deployments. Timestamps are stored as RFC 3339 text.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store. The dsn is a file path or ":memory:".
func New(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// modernc.org/sqlite serializes access per connection; a single
	// connection avoids SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS uploads (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		storage_key TEXT NOT NULL,
		mimetype TEXT NOT NULL DEFAULT '',
		size INTEGER NOT NULL DEFAULT 0,
		owner_id TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("sqlite create tables: %w", err)
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_uploads_owner ON uploads(owner_id, created_at)`)
	if err != nil {
		return fmt.Errorf("sqlite create index: %w", err)
	}
	return nil
}

// Insert implements metadata.Store.
func (s *Store) Insert(ctx context.Context, rec *metadata.UploadRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO uploads (id, filename, storage_key, mimetype, size, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Filename, rec.StorageKey, rec.MimeType, rec.Size, rec.OwnerID,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert upload: %w", err)
	}
	return nil
}

// Get implements metadata.Store.
func (s *Store) Get(ctx context.Context, id string) (*metadata.UploadRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, storage_key, mimetype, size, owner_id, created_at
		 FROM uploads WHERE id = ?`, id)
	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("upload %s: %w", id, metadata.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get upload: %w", err)
	}
	return rec, nil
}

// Delete implements metadata.Store.
func (s *Store) Delete(ctx context.Context, id, ownerID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM uploads WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("upload %s: %w", id, metadata.ErrRecordNotFound)
	}
	return nil
}

// ListByOwner implements metadata.Store.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]*metadata.UploadRecord, error) {
	return s.Query(ctx, ownerID, metadata.Filter{})
}

// Query implements metadata.Store.
func (s *Store) Query(ctx context.Context, ownerID string, f metadata.Filter) ([]*metadata.UploadRecord, error) {
	conds := []string{"owner_id = ?"}
	args := []any{ownerID}

	if f.Filename != "" {
		conds = append(conds, "LOWER(filename) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Filename)+"%")
	}
	if f.MimeType != "" {
		conds = append(conds, "mimetype = ?")
		args = append(args, f.MimeType)
	}
	if f.SizeMin != nil {
		conds = append(conds, "size >= ?")
		args = append(args, *f.SizeMin)
	}
	if f.SizeMax != nil {
		conds = append(conds, "size <= ?")
		args = append(args, *f.SizeMax)
	}
	if f.AfterDate != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, f.AfterDate.UTC().Format(time.RFC3339Nano))
	}

	query := `SELECT id, filename, storage_key, mimetype, size, owner_id, created_at
		 FROM uploads WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}
	defer rows.Close()

	var recs []*metadata.UploadRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uploads: %w", err)
	}
	return recs, nil
}

func scanRecord(scan func(dest ...any) error) (*metadata.UploadRecord, error) {
	var (
		rec       metadata.UploadRecord
		createdAt string
	)
	if err := scan(&rec.ID, &rec.Filename, &rec.StorageKey, &rec.MimeType,
		&rec.Size, &rec.OwnerID, &createdAt); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	rec.CreatedAt = ts
	return &rec, nil
}
