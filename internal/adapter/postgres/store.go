// Package postgres persists conversations in PostgreSQL for deployments
// where the bot does not own its own disk.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"companion-telegram-bot/internal/domain"
)

type Store struct {
	pool *pgxpool.Pool
}

// Open connects to the database at url and initializes the schema once.
func Open(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS conversations (
			user_id BIGINT PRIMARY KEY,
			history JSONB NOT NULL
		)
	`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

// NewStore wraps an existing pool whose schema is already initialized.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Load(ctx context.Context, userID int64) ([]domain.Message, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT history FROM conversations WHERE user_id = $1`, userID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history for %d: %w", userID, err)
	}

	var history []domain.Message
	if err := json.Unmarshal(raw, &history); err != nil {
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

	if _, err := s.pool.Exec(ctx,
		`INSERT INTO conversations (user_id, history) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET history = EXCLUDED.history`,
		userID, data,
	); err != nil {
		return fmt.Errorf("failed to save history for %d: %w", userID, err)
	}
	return nil
}

func (s *Store) Reset(ctx context.Context, userID int64) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM conversations WHERE user_id = $1`, userID,
	); err != nil {
		return fmt.Errorf("failed to delete history for %d: %w", userID, err)
	}
	return nil
}
