// Package apptest provides an in-memory trivia backend for tests.
package apptest

import (
	"context"
	"sync"

	"trivia-client/internal/api"
	"trivia-client/internal/domain"
	"trivia-client/internal/preference"
)

// Backend implements app.Backend in memory. Set the Err fields to make the
// matching call fail.
type Backend struct {
	mu sync.Mutex

	Token  string
	Role   string
	UserID string

	Preferences []preference.Record
	Sets        map[string][]domain.Question
	Random      []domain.Question
	Timeline    map[string][]domain.TimelineEntry
	Users       []domain.UserSummary
	Emails      map[string]string

	Submissions []domain.PairSubmission
	Activities  []domain.Preference
	Saved       []domain.Question
	SavedPrefs  []domain.Preference
	Deleted     bool
	QuestionHit int

	LoginErr    error
	UserIDErr   error
	ActivityErr error
	SubmitErr   error
	AdminErr    error
}

func NewBackend() *Backend {
	return &Backend{
		Token:  "tok-user",
		Role:   "user",
		UserID: "u1",
		Sets:   make(map[string][]domain.Question),
		Emails: make(map[string]string),
	}
}

// SetQuestions registers the set served for category/subDomain.
func (b *Backend) SetQuestions(category, subDomain string, qs []domain.Question) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Sets[domain.QuestionQuery{Category: category, SubDomain: subDomain}.Key()] = qs
}

func (b *Backend) Signup(_ context.Context, _ api.SignupRequest) (api.AuthResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return api.AuthResponse{SessionToken: b.Token, Role: b.Role}, nil
}

func (b *Backend) Login(_ context.Context, _ api.LoginRequest) (api.AuthResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.LoginErr != nil {
		return api.AuthResponse{}, b.LoginErr
	}
	return api.AuthResponse{SessionToken: b.Token, Role: b.Role}, nil
}

func (b *Backend) GetUserID(_ context.Context, _ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.UserIDErr != nil {
		return "", b.UserIDErr
	}
	return b.UserID, nil
}

func (b *Backend) DeleteAccount(_ context.Context, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Deleted = true
	return nil
}

func (b *Backend) GetPreferences(_ context.Context, _ string) ([]preference.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]preference.Record(nil), b.Preferences...), nil
}

func (b *Backend) SavePreferences(_ context.Context, _ string, prefs []domain.Preference) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.SavedPrefs = append(b.SavedPrefs, prefs...)
	return nil
}

func (b *Backend) LogActivity(_ context.Context, _, category, subDomain string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ActivityErr != nil {
		return b.ActivityErr
	}
	b.Activities = append(b.Activities, domain.Preference{Category: category, SubDomain: subDomain})
	return nil
}

func (b *Backend) Questions(_ context.Context, category, subDomain string) ([]domain.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.QuestionHit++
	return append([]domain.Question(nil), b.Sets[domain.QuestionQuery{Category: category, SubDomain: subDomain}.Key()]...), nil
}

func (b *Backend) RandomQuestions(_ context.Context, _ []string) ([]domain.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Question(nil), b.Random...), nil
}

func (b *Backend) SaveQuestions(_ context.Context, _, _, _ string, questions []domain.Question) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Saved = append(b.Saved, questions...)
	return nil
}

func (b *Backend) SubmitPairScore(_ context.Context, _ string, in domain.PairSubmission) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.SubmitErr != nil {
		return b.SubmitErr
	}
	b.Submissions = append(b.Submissions, in)
	return nil
}

func (b *Backend) ScoreTimeline(_ context.Context, _ string) (map[string][]domain.TimelineEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.AdminErr != nil {
		return nil, b.AdminErr
	}
	return b.Timeline, nil
}

func (b *Backend) AdminUsers(_ context.Context, _ string) ([]domain.UserSummary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.AdminErr != nil {
		return nil, b.AdminErr
	}
	return b.Users, nil
}

func (b *Backend) UserIDByEmail(_ context.Context, _, email string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.Emails[email]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	return id, nil
}

// SubmissionCount is safe to call while a service is running.
func (b *Backend) SubmissionCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Submissions)
}

// Capitals is a small set with unambiguous answers.
func Capitals() []domain.Question {
	return []domain.Question{
		{Question: "Capital of France?", Options: []string{"Paris", "Lyon"}, CorrectAnswer: "Paris"},
		{Question: "Capital of Germany?", Options: []string{"Berlin", "Munich"}, CorrectAnswer: "Berlin"},
		{Question: "Capital of Italy?", Options: []string{"Rome", "Milan"}, LegacyCorrectAnswer: "Rome"},
	}
}
