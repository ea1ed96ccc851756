package app

import (
	"context"

	"trivia-client/internal/api"
	"trivia-client/internal/domain"
	"trivia-client/internal/explain"
	"trivia-client/internal/preference"
)

// SessionStore persists the login state (file, Redis, in-memory).
// A missing session is reported with ok=false, never as an error.
type SessionStore interface {
	Get(ctx context.Context) (domain.Session, bool, error)
	Set(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}

// QuestionRepository returns question sets, usually through a cache.
type QuestionRepository interface {
	GetQuestions(ctx context.Context, query domain.QuestionQuery) ([]domain.Question, error)
	Invalidate(ctx context.Context, query domain.QuestionQuery) error
}

// HistoryRepository keeps completed attempts.
type HistoryRepository interface {
	Save(ctx context.Context, attempt domain.Attempt) error
	List(ctx context.Context, userID string, limit int) ([]domain.Attempt, error)
}

// Backend is the subset of the trivia API the use cases need.
type Backend interface {
	Signup(ctx context.Context, in api.SignupRequest) (api.AuthResponse, error)
	Login(ctx context.Context, in api.LoginRequest) (api.AuthResponse, error)
	GetUserID(ctx context.Context, token string) (string, error)
	DeleteAccount(ctx context.Context, token string) error
	GetPreferences(ctx context.Context, token string) ([]preference.Record, error)
	SavePreferences(ctx context.Context, token string, prefs []domain.Preference) error
	LogActivity(ctx context.Context, token, category, subDomain string) error
	Questions(ctx context.Context, category, subDomain string) ([]domain.Question, error)
	RandomQuestions(ctx context.Context, categories []string) ([]domain.Question, error)
	SaveQuestions(ctx context.Context, token, category, subDomain string, questions []domain.Question) error
	SubmitPairScore(ctx context.Context, token string, in domain.PairSubmission) error
	ScoreTimeline(ctx context.Context, token string) (map[string][]domain.TimelineEntry, error)
	AdminUsers(ctx context.Context, token string) ([]domain.UserSummary, error)
	UserIDByEmail(ctx context.Context, token, email string) (string, error)
}

// Explainer produces per-question explanations and generated questions.
type Explainer interface {
	Enabled() bool
	Explain(ctx context.Context, in explain.Request) (string, error)
	GenerateQuestions(ctx context.Context, category, subDomain string, n int) ([]domain.Question, error)
}

// BackendLoader adapts the backend to the question caches' loader interface.
type BackendLoader struct {
	Backend Backend
}

func (l BackendLoader) LoadQuestions(ctx context.Context, query domain.QuestionQuery) ([]domain.Question, error) {
	return l.Backend.Questions(ctx, query.Category, query.SubDomain)
}
