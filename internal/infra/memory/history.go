package memory

import (
	"context"
	"sort"
	"sync"

	"trivia-client/internal/domain"
)

// HistoryRepository keeps completed attempts in process memory.
type HistoryRepository struct {
	mu       sync.RWMutex
	attempts []domain.Attempt
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) Save(_ context.Context, attempt domain.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.attempts {
		if a.ID == attempt.ID {
			r.attempts[i] = attempt
			return nil
		}
	}
	r.attempts = append(r.attempts, attempt)
	return nil
}

// List returns the user's attempts newest first. An empty userID lists all
// attempts; limit <= 0 means no limit.
func (r *HistoryRepository) List(_ context.Context, userID string, limit int) ([]domain.Attempt, error) {
	r.mu.RLock()
	out := make([]domain.Attempt, 0, len(r.attempts))
	for _, a := range r.attempts {
		if userID == "" || a.UserID == userID {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
