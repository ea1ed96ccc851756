package memory

import (
	"context"
	"testing"
	"time"

	"trivia-client/internal/domain"
)

func TestHistoryListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepository()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_ = repo.Save(ctx, domain.Attempt{ID: "a1", UserID: "u1", CompletedAt: base})
	_ = repo.Save(ctx, domain.Attempt{ID: "a2", UserID: "u1", CompletedAt: base.Add(time.Hour)})
	_ = repo.Save(ctx, domain.Attempt{ID: "a3", UserID: "u2", CompletedAt: base.Add(2 * time.Hour)})

	got, err := repo.List(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a2" || got[1].ID != "a1" {
		t.Fatalf("unexpected order %+v", got)
	}

	limited, _ := repo.List(ctx, "", 1)
	if len(limited) != 1 || limited[0].ID != "a3" {
		t.Fatalf("expected newest overall, got %+v", limited)
	}
}

func TestHistorySaveReplacesSameAttempt(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepository()

	_ = repo.Save(ctx, domain.Attempt{ID: "a1", UserID: "u1", Correct: 3})
	_ = repo.Save(ctx, domain.Attempt{ID: "a1", UserID: "u1", Correct: 4})

	got, _ := repo.List(ctx, "u1", 0)
	if len(got) != 1 || got[0].Correct != 4 {
		t.Fatalf("expected single replaced attempt, got %+v", got)
	}
}
