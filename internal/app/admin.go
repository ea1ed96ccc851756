package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trivia-client/internal/domain"
)

// PerformanceEntry is one timeline attempt labelled for display.
// RawTimestamp carries the backend's value when it could not be parsed.
type PerformanceEntry struct {
	Attempt      int               `json:"attempt"`
	Score        int               `json:"score"`
	Status       domain.PairStatus `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	RawTimestamp string            `json:"rawTimestamp,omitempty"`
}

// Performance is the admin view of one user's pair-score history.
type Performance struct {
	Email          string             `json:"email"`
	UserID         string             `json:"userId"`
	Entries        []PerformanceEntry `json:"entries"`
	Improvement    int                `json:"improvement"`
	HasImprovement bool               `json:"hasImprovement"`
	Summary        string             `json:"summary,omitempty"`
}

func (s *Service) admin(ctx context.Context) (domain.Session, error) {
	sess, err := s.Session(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	if !sess.IsAdmin() {
		return domain.Session{}, domain.ErrForbidden
	}
	return sess, nil
}

// AdminUsers lists every user with backend-computed aggregates.
func (s *Service) AdminUsers(ctx context.Context) ([]domain.UserSummary, error) {
	sess, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.backend.AdminUsers(ctx, sess.Token)
	if err != nil {
		return nil, authFailure("list users", err)
	}
	return users, nil
}

// UserPerformance loads one user's timeline sorted by attempt. The id lookup
// must succeed before the timeline is fetched.
func (s *Service) UserPerformance(ctx context.Context, email string) (Performance, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Performance{}, domain.ErrMissingFields
	}
	sess, err := s.admin(ctx)
	if err != nil {
		return Performance{}, err
	}
	userID, err := s.backend.UserIDByEmail(ctx, sess.Token, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return Performance{}, err
		}
		return Performance{}, authFailure("lookup user", err)
	}
	timeline, err := s.backend.ScoreTimeline(ctx, sess.Token)
	if err != nil {
		return Performance{}, authFailure("fetch score timeline", err)
	}

	sorted := SortTimeline(timeline[userID])
	perf := Performance{
		Email:   email,
		UserID:  userID,
		Entries: make([]PerformanceEntry, 0, len(sorted)),
	}
	for _, e := range sorted {
		entry := PerformanceEntry{
			Attempt:   e.Attempt,
			Score:     e.Score,
			Status:    domain.PairStatusForScore(e.Score),
			Timestamp: e.Timestamp,
		}
		if e.Timestamp.IsZero() {
			entry.RawTimestamp = e.RawTimestamp
		}
		perf.Entries = append(perf.Entries, entry)
	}
	perf.Improvement, perf.HasImprovement = Improvement(sorted)
	perf.Summary = ImprovementText(perf.Improvement, perf.HasImprovement)
	return perf, nil
}

// ChartSeries returns the scores in attempt order, labelled 1..n.
func (p Performance) ChartSeries() ([]string, []int) {
	labels := make([]string, len(p.Entries))
	scores := make([]int, len(p.Entries))
	for i, e := range p.Entries {
		labels[i] = fmt.Sprint(i + 1)
		scores[i] = e.Score
	}
	return labels, scores
}
