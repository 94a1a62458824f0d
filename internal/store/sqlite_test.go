package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/edukit/study-buddy/internal/domain"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Failed to close store: %v", err)
		}
	})
	return repo
}

func TestGetSessionAbsent(t *testing.T) {
	repo := newTestStore(t)

	state, err := repo.GetSession(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if state != nil {
		t.Errorf("Expected nil state for absent session, got %+v", state)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	in := &domain.SessionState{
		Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: "hi", TS: 1000},
			{Role: domain.RoleAssistant, Content: "hello!", TS: 2000},
		},
		Summary: "- user greeted",
		Notes:   "prep for midterm",
		Profile: &domain.UserProfile{Topic: "algebra", Difficulty: "hard"},
	}

	if err := repo.PutSession(ctx, "s1", in); err != nil {
		t.Fatalf("PutSession failed: %v", err)
	}

	out, err := repo.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if out == nil {
		t.Fatal("Expected stored state, got nil")
	}

	if len(out.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(out.Messages))
	}
	if out.Messages[0].Content != "hi" || out.Messages[1].Role != domain.RoleAssistant {
		t.Errorf("Unexpected messages: %+v", out.Messages)
	}
	if out.Messages[1].TS != 2000 {
		t.Errorf("Expected ts 2000, got %d", out.Messages[1].TS)
	}
	if out.Summary != in.Summary || out.Notes != in.Notes {
		t.Errorf("Summary/notes mismatch: %+v", out)
	}
	if out.Profile == nil || out.Profile.Topic != "algebra" || out.Profile.Difficulty != "hard" {
		t.Errorf("Profile mismatch: %+v", out.Profile)
	}
}

func TestPutSessionOverwrites(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	if err := repo.PutSession(ctx, "s1", &domain.SessionState{Notes: "first"}); err != nil {
		t.Fatalf("PutSession failed: %v", err)
	}
	if err := repo.PutSession(ctx, "s1", &domain.SessionState{Notes: "second"}); err != nil {
		t.Fatalf("PutSession failed: %v", err)
	}

	out, err := repo.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if out.Notes != "second" {
		t.Errorf("Expected overwritten notes, got %q", out.Notes)
	}
}

func TestSessionsAreIsolatedByID(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	if err := repo.PutSession(ctx, "a", &domain.SessionState{Notes: "for a"}); err != nil {
		t.Fatalf("PutSession failed: %v", err)
	}

	other, err := repo.GetSession(ctx, "b")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if other != nil {
		t.Errorf("Expected no state for other session, got %+v", other)
	}
}
