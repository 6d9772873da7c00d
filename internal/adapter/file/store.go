// Package file stores one JSON history file per user under a directory.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"companion-telegram-bot/internal/domain"
)

type Store struct {
	dir string
}

// NewStore creates the directory if needed and returns a ready store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create memory directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(userID int64) string {
	return filepath.Join(s.dir, strconv.FormatInt(userID, 10)+".json")
}

func (s *Store) Load(_ context.Context, userID int64) ([]domain.Message, error) {
	data, err := os.ReadFile(s.path(userID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history for %d: %w", userID, err)
	}

	var history []domain.Message
	if err := json.Unmarshal(data, &history); err != nil {
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

	// Write through a temp file so a crash mid-write cannot truncate the
	// existing record.
	tmp := s.path(userID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history for %d: %w", userID, err)
	}
	if err := os.Rename(tmp, s.path(userID)); err != nil {
		return fmt.Errorf("failed to replace history for %d: %w", userID, err)
	}
	return nil
}

func (s *Store) Reset(_ context.Context, userID int64) error {
	err := os.Remove(s.path(userID))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete history for %d: %w", userID, err)
	}
	return nil
}
