package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mailsift/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists message metadata in a local SQLite database and
// implements engine.Store.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at the given path and creates
// the schema if needed.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func createSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS emails (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id TEXT UNIQUE NOT NULL,
	sender      TEXT NOT NULL DEFAULT '',
	subject     TEXT NOT NULL DEFAULT '',
	received_at TEXT NOT NULL DEFAULT '',
	snippet     TEXT NOT NULL DEFAULT '',
	folder      TEXT NOT NULL DEFAULT 'INBOX',
	is_read     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL DEFAULT ''
);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertMessage stores a new message and returns false when a message with
// the same external_id already exists. The existing row is left untouched.
func (s *SQLiteStore) InsertMessage(ctx context.Context, m model.Message) (bool, error) {
	folder := m.Folder
	if folder == "" {
		folder = model.DefaultFolder
	}
	received := ""
	if !m.ReceivedAt.IsZero() {
		received = m.ReceivedAt.UTC().Format(time.RFC3339)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO emails (external_id, sender, subject, received_at, snippet, folder, is_read)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.ExternalID, m.Sender, m.Subject, received, m.Snippet, folder, boolToInt(m.IsRead))
	if err != nil {
		return false, fmt.Errorf("insert message %s: %w", m.ExternalID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListAll returns every stored message in insertion order.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, external_id, sender, subject, received_at, snippet, folder, is_read
		FROM emails ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var (
			m        model.Message
			received string
			isRead   int
		)
		if err := rows.Scan(&m.ID, &m.ExternalID, &m.Sender, &m.Subject, &received, &m.Snippet, &m.Folder, &isRead); err != nil {
			return nil, err
		}
		if received != "" {
			// Unparseable timestamps scan as the zero time; evaluation
			// treats those as never matching date conditions.
			if t, err := time.Parse(time.RFC3339, received); err == nil {
				m.ReceivedAt = t
			}
		}
		m.IsRead = isRead != 0
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// UpdateFolder moves a message to folder, keyed by external id. Returns false
// when no such message exists.
func (s *SQLiteStore) UpdateFolder(ctx context.Context, externalID, folder string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE emails SET folder = ? WHERE external_id = ?", folder, externalID)
	if err != nil {
		return false, fmt.Errorf("update folder for %s: %w", externalID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateReadStatus sets a message's read flag, keyed by external id. Returns
// false when no such message exists.
func (s *SQLiteStore) UpdateReadStatus(ctx context.Context, externalID string, isRead bool) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE emails SET is_read = ? WHERE external_id = ?", boolToInt(isRead), externalID)
	if err != nil {
		return false, fmt.Errorf("update read status for %s: %w", externalID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) CountMessages(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM emails").Scan(&count)
	return count, err
}

// GetLastFetchAt returns when the last successful fetch finished, or the zero
// time if no fetch has run yet.
func (s *SQLiteStore) GetLastFetchAt(ctx context.Context) (time.Time, error) {
	var val string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = 'last_fetch_at'").Scan(&val)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last_fetch_at: %w", err)
	}
	return t, nil
}

// SetLastFetchAt records the completion time of a fetch.
func (s *SQLiteStore) SetLastFetchAt(ctx context.Context, t time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES ('last_fetch_at', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, t.UTC().Format(time.RFC3339))
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
