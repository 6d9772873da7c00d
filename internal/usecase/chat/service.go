package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"companion-telegram-bot/internal/auth"
	"companion-telegram-bot/internal/config"
	"companion-telegram-bot/internal/domain"
)

var (
	ErrNotAllowed   = errors.New("user not allowed")
	ErrEmptyMessage = errors.New("empty message")
)

const (
	GreetingReply     = "hi! i remember our conversations. what's on your mind?"
	ResetConfirmReply = "memory wiped, we start fresh"
)

type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type CompletionRequest struct {
	Model               string
	Messages            []domain.Message
	MaxCompletionTokens int
}

// Service runs one message cycle per inbound event: authorize, load the
// user's history, call the model with it, persist both new turns, reply.
type Service struct {
	store  domain.ConversationStore
	client Client
	policy auth.Policy
	cfg    config.Config

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewService(store domain.ConversationStore, client Client, policy auth.Policy, cfg config.Config) *Service {
	return &Service{
		store:  store,
		client: client,
		policy: policy,
		cfg:    cfg,
		locks:  make(map[int64]*sync.Mutex),
	}
}

// userLock returns the mutex serializing load/append cycles for one user.
// Distinct users proceed fully in parallel.
func (s *Service) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

func (s *Service) HandleMessage(ctx context.Context, userID int64, text string) (string, error) {
	if !s.policy.Allow(userID) {
		return "", ErrNotAllowed
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	history, err := s.store.Load(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}

	userTurn := domain.Message{Role: domain.RoleUser, Content: text}

	messages := make([]domain.Message, 0, len(history)+2)
	messages = append(messages, domain.Message{
		Role:    domain.RoleSystem,
		Content: s.cfg.AssistantPrompt,
	})
	messages = append(messages, recentTurns(history, s.cfg.ContextLimit)...)
	messages = append(messages, userTurn)

	callCtx := ctx
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	resp, err := s.client.Complete(callCtx, CompletionRequest{
		Model:               s.cfg.Model,
		Messages:            messages,
		MaxCompletionTokens: s.cfg.MaxCompletionTokens,
	})
	if err != nil {
		if s.cfg.KeepUserTurnOnFailure {
			if saveErr := s.store.Append(ctx, userID, userTurn); saveErr != nil {
				return "", fmt.Errorf("save user turn after completion failure: %w (completion: %v)", saveErr, err)
			}
		}
		return "", fmt.Errorf("completion: %w", err)
	}

	assistantTurn := domain.Message{Role: domain.RoleAssistant, Content: resp}
	if err := s.store.Append(ctx, userID, userTurn, assistantTurn); err != nil {
		return "", fmt.Errorf("save history: %w", err)
	}

	return resp, nil
}

// Greet handles the /start command. It touches no state.
func (s *Service) Greet(userID int64) (string, error) {
	if !s.policy.Allow(userID) {
		return "", ErrNotAllowed
	}
	return GreetingReply, nil
}

// Reset handles the reset command: the user's history is deleted entirely.
func (s *Service) Reset(ctx context.Context, userID int64) (string, error) {
	if !s.policy.Allow(userID) {
		return "", ErrNotAllowed
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.Reset(ctx, userID); err != nil {
		return "", fmt.Errorf("reset history: %w", err)
	}
	return ResetConfirmReply, nil
}

// recentTurns bounds what is replayed to the model. The full history stays
// persisted; limit <= 0 disables the window.
func recentTurns(history []domain.Message, limit int) []domain.Message {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}
