package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ChatHistoryStore is an append-only log of (user message, AI response)
// pairs. Records are never updated or deleted.
type ChatHistoryStore interface {
	SaveChat(userMessage, aiResponse string) (*ChatRecord, error)
	ListChat(limit int, cursor string) ([]ChatRecord, string, error)
	Close() error
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS chat_records (
        id TEXT PRIMARY KEY, -- UUID
        user_message TEXT NOT NULL,
        ai_response TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_chat_records_created_at
        ON chat_records (created_at DESC, id DESC);
    `
	_, err := s.db.Exec(schema)
	return err
}

// SaveChat appends a record unconditionally. Identical payloads produce
// distinct records.
func (s *SQLiteStore) SaveChat(userMessage, aiResponse string) (*ChatRecord, error) {
	record := ChatRecord{
		ID:         uuid.NewString(),
		UserMsg:    userMessage,
		AIResponse: aiResponse,
		CreatedAt:  time.Now(),
	}

	stmt, err := s.db.Prepare("INSERT INTO chat_records (id, user_message, ai_response, created_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare chat record insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(record.ID, record.UserMsg, record.AIResponse, record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to execute chat record insert: %w", err)
	}
	return &record, nil
}

// ListChat returns records newest first. cursor is the ID of the last record
// of the previous page; empty cursor starts from the newest record. The
// returned cursor is empty when there are no further pages.
func (s *SQLiteStore) ListChat(limit int, cursor string) ([]ChatRecord, string, error) {
	var (
		rows *sql.Rows
		err  error
	)
	// Fetch one extra row to know whether a further page exists, so the last
	// full page does not hand out a dangling cursor.
	if cursor == "" {
		rows, err = s.db.Query(
			"SELECT id, user_message, ai_response, created_at FROM chat_records ORDER BY created_at DESC, id DESC LIMIT ?",
			limit+1)
	} else {
		rows, err = s.db.Query(
			`SELECT id, user_message, ai_response, created_at FROM chat_records
             WHERE (created_at, id) < (SELECT created_at, id FROM chat_records WHERE id = ?)
             ORDER BY created_at DESC, id DESC LIMIT ?`,
			cursor, limit+1)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to query chat records: %w", err)
	}
	defer rows.Close()

	var records []ChatRecord
	for rows.Next() {
		var record ChatRecord
		if err := rows.Scan(&record.ID, &record.UserMsg, &record.AIResponse, &record.CreatedAt); err != nil {
			return nil, "", fmt.Errorf("failed to scan chat record row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("failed to iterate chat records: %w", err)
	}

	nextCursor := ""
	if len(records) > limit {
		records = records[:limit]
		nextCursor = records[limit-1].ID
	}
	return records, nextCursor, nil
}
