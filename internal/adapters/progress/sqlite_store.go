package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// markerName is the row key; the design tracks a single mailbox, so there
// is exactly one row.
const markerName = "lastEmailId"

// SQLiteStore is a SQLite-backed ProgressStore.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore creates a new SQLite progress store
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS progress_marker (
			name TEXT PRIMARY KEY,
			message_id TEXT NOT NULL,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// LastMessageID returns the last processed message id, or "" if none.
func (s *SQLiteStore) LastMessageID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT message_id FROM progress_marker WHERE name = ?
	`, markerName).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query progress marker: %w", err)
	}
	return id, nil
}

// SetLastMessageID records the last processed message id.
func (s *SQLiteStore) SetLastMessageID(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO progress_marker (name, message_id, updated_at)
		VALUES (?, ?, ?)
	`, markerName, id, time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("update progress marker: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
