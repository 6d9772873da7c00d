package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"companion-telegram-bot/internal/domain"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestLoad_AbsentUserIsEmpty(t *testing.T) {
	s, _ := testStore(t)

	history, err := s.Load(context.Background(), 42)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %v", history)
	}
}

func TestAppend_SurvivesReopen(t *testing.T) {
	s, path := testStore(t)
	ctx := context.Background()

	turns := []domain.Message{
		{Role: domain.RoleUser, Content: "hello"},
		{Role: domain.RoleAssistant, Content: "hi there"},
	}
	if err := s.Append(ctx, 42, turns...); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	history, err := reopened.Load(ctx, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 || history[0] != turns[0] || history[1] != turns[1] {
		t.Fatalf("unexpected history after reopen: %v", history)
	}
}

func TestAppend_ConcatenatesInOrder(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	for i, content := range []string{"m1", "r1", "m2", "r2"} {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		if err := s.Append(ctx, 42, domain.Message{Role: role, Content: content}); err != nil {
			t.Fatal(err)
		}
	}

	history, err := s.Load(ctx, 42)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"m1", "r1", "m2", "r2"}
	if len(history) != len(want) {
		t.Fatalf("expected %d turns, got %d", len(want), len(history))
	}
	for i, content := range want {
		if history[i].Content != content {
			t.Errorf("turn %d: got %q, want %q", i, history[i].Content, content)
		}
	}
}

func TestIsolationAcrossUsers(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	if err := s.Append(ctx, 1, domain.Message{Role: domain.RoleUser, Content: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(ctx, 1); err != nil {
		t.Fatal(err)
	}

	history, err := s.Load(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Fatalf("user 2 affected by user 1 operations: %v", history)
	}
}

func TestReset_Idempotent(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	if err := s.Append(ctx, 42, domain.Message{Role: domain.RoleUser, Content: "a"}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := s.Reset(ctx, 42); err != nil {
			t.Fatalf("Reset #%d failed: %v", i+1, err)
		}
		history, err := s.Load(ctx, 42)
		if err != nil {
			t.Fatal(err)
		}
		if len(history) != 0 {
			t.Fatalf("expected empty history after reset, got %v", history)
		}
	}
}
