// Package sqlite persists conversations in an embedded SQLite database,
// one row per user with the history serialized as JSON.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"companion-telegram-bot/internal/domain"
)

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path, ensures the parent
// directory exists, and initializes the schema once.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open db at %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db at %s: %w", path, err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS conversations (
			user_id INTEGER PRIMARY KEY,
			history TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context, userID int64) ([]domain.Message, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT history FROM conversations WHERE user_id = ?`, userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history for %d: %w", userID, err)
	}

	var history []domain.Message
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, fmt.Errorf("failed to decode history for %d: %w", userID, err)
	}
	return history, nil
}

func (s *Store) Append(ctx context.Context, userID int64, turns ...domain.Message) error {
	history, err := s.Load(ctx, userID)
	if err != nil {
		return err
	}
	history = append(history, turns...)

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode history for %d: %w", userID, err)
	}

	if _, err := s.db.ExecContext(ctx,
		`REPLACE INTO conversations (user_id, history) VALUES (?, ?)`,
		userID, string(data),
	); err != nil {
		return fmt.Errorf("failed to save history for %d: %w", userID, err)
	}
	return nil
}

func (s *Store) Reset(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM conversations WHERE user_id = ?`, userID,
	); err != nil {
		return fmt.Errorf("failed to delete history for %d: %w", userID, err)
	}
	return nil
}
