package memory

import (
	"context"
	"sync"

	"companion-telegram-bot/internal/domain"
)

// Store keeps conversations in process memory. Histories do not survive a
// restart, so it is only suitable for development and tests.
type Store struct {
	mu            sync.Mutex
	conversations map[int64][]domain.Message
}

func NewStore() *Store {
	return &Store{
		conversations: make(map[int64][]domain.Message),
	}
}

func (s *Store) Load(_ context.Context, userID int64) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.conversations[userID]
	if len(history) == 0 {
		return nil, nil
	}
	return append([]domain.Message(nil), history...), nil
}

func (s *Store) Append(_ context.Context, userID int64, turns ...domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[userID] = append(s.conversations[userID], turns...)
	return nil
}

func (s *Store) Reset(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, userID)
	return nil
}
