package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"trivia-client/internal/api"
	"trivia-client/internal/domain"
	"trivia-client/internal/logger"
	"trivia-client/internal/preference"
)

// Service holds the trivia client's use cases. Every former screen maps to
// one or two methods here; the CLI and the websocket endpoint only render.
type Service struct {
	backend   Backend
	sessions  SessionStore
	questions QuestionRepository
	history   HistoryRepository
	explainer Explainer
	log       *logger.Logger
	quizSize  int
	now       func() time.Time

	mu        sync.Mutex
	submitted map[string]domain.PairScore
	recorded  map[string]struct{}
}

type Option func(*Service)

func WithHistory(h HistoryRepository) Option { return func(s *Service) { s.history = h } }
func WithExplainer(e Explainer) Option       { return func(s *Service) { s.explainer = e } }
func WithQuizSize(n int) Option              { return func(s *Service) { s.quizSize = n } }

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock is used by tests for deterministic expiry checks and timestamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(backend Backend, sessions SessionStore, questions QuestionRepository, opts ...Option) *Service {
	s := &Service{
		backend:   backend,
		sessions:  sessions,
		questions: questions,
		log:       logger.Nop(),
		quizSize:  DefaultQuizSize,
		now:       time.Now,
		submitted: make(map[string]domain.PairScore),
		recorded:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns the stored session or ErrUnauthenticated. An expired JWT
// counts as no session.
func (s *Service) Session(ctx context.Context) (domain.Session, error) {
	sess, ok, err := s.sessions.Get(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("read session: %w", err)
	}
	if !ok || sess.Token == "" {
		return domain.Session{}, domain.ErrUnauthenticated
	}
	claims := readTokenClaims(sess.Token)
	if claims.expired(s.now()) {
		return domain.Session{}, domain.ErrUnauthenticated
	}
	if sess.Role == "" {
		sess.Role = claims.Role
	}
	return sess, nil
}

// Signup creates the account and stores the returned session.
func (s *Service) Signup(ctx context.Context, name, email, password string) (domain.Session, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return domain.Session{}, domain.ErrMissingFields
	}
	resp, err := s.backend.Signup(ctx, api.SignupRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return domain.Session{}, fmt.Errorf("signup: %w", err)
	}
	return s.establish(ctx, resp)
}

// Login authenticates and stores the returned session.
func (s *Service) Login(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Session{}, domain.ErrMissingFields
	}
	resp, err := s.backend.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}
	return s.establish(ctx, resp)
}

func (s *Service) establish(ctx context.Context, resp api.AuthResponse) (domain.Session, error) {
	if resp.SessionToken == "" {
		return domain.Session{}, fmt.Errorf("backend returned no session token: %w", domain.ErrUnauthenticated)
	}
	sess := domain.Session{Token: resp.SessionToken, Role: resp.Role, UserID: resp.UserID}
	if sess.Role == "" {
		sess.Role = readTokenClaims(sess.Token).Role
	}
	if sess.UserID == "" {
		if id, err := s.backend.GetUserID(ctx, sess.Token); err == nil {
			sess.UserID = id
		} else {
			s.log.Warn("user id lookup after login failed", "error", err)
		}
	}
	if err := s.sessions.Set(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("store session: %w", err)
	}
	s.log.Info("session stored", "role", sess.Role, "userId", sess.UserID)
	return sess, nil
}

// Logout forgets the local session.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// DeleteAccount removes the account on the backend, then the local session.
func (s *Service) DeleteAccount(ctx context.Context) error {
	sess, err := s.Session(ctx)
	if err != nil {
		return err
	}
	if err := s.backend.DeleteAccount(ctx, sess.Token); err != nil {
		return authFailure("delete account", err)
	}
	return s.Logout(ctx)
}

// Home returns the user's preferences normalized to one entry per category.
func (s *Service) Home(ctx context.Context) ([]domain.CategoryPreference, error) {
	grouping, err := s.preferences(ctx)
	if err != nil {
		return nil, err
	}
	return grouping.Preferences(), nil
}

func (s *Service) preferences(ctx context.Context) (preference.Grouping, error) {
	sess, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.backend.GetPreferences(ctx, sess.Token)
	if err != nil {
		return nil, authFailure("fetch preferences", err)
	}
	grouping := preference.Normalize(records)
	if dropped := countUnresolved(records); dropped > 0 {
		s.log.Debug("skipped unresolvable preference records", "count", dropped)
	}
	return grouping, nil
}

// SavePreferences stores catalog-checked (category, subDomain) pairs.
func (s *Service) SavePreferences(ctx context.Context, prefs []domain.Preference) error {
	for _, p := range prefs {
		if _, ok := domain.LookupCategory(p.Category, p.SubDomain); !ok {
			return fmt.Errorf("%w: %s/%s", domain.ErrUnknownCategory, p.Category, p.SubDomain)
		}
	}
	sess, err := s.Session(ctx)
	if err != nil {
		return err
	}
	if err := s.backend.SavePreferences(ctx, sess.Token, prefs); err != nil {
		return authFailure("save preferences", err)
	}
	return nil
}

// Categories is the static catalog.
func (s *Service) Categories() []domain.Category {
	return domain.Catalog()
}

// SelectCategory resolves the user, logs the activity and starts a quiz.
// A failed user lookup blocks the quiz; a failed activity log does not.
func (s *Service) SelectCategory(ctx context.Context, category, subDomain string) (*QuizFlow, error) {
	if _, ok := domain.LookupCategory(category, subDomain); !ok || subDomain == "" {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrUnknownCategory, category, subDomain)
	}
	sess, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := s.backend.GetUserID(ctx, sess.Token)
	if err != nil {
		return nil, errors.Join(domain.ErrUnauthenticated, err)
	}
	if userID != sess.UserID {
		sess.UserID = userID
		if err := s.sessions.Set(ctx, sess); err != nil {
			s.log.Warn("persist user id failed", "error", err)
		}
	}

	var notice string
	if err := s.backend.LogActivity(ctx, sess.Token, category, subDomain); err != nil {
		s.log.Warn("log activity failed", "category", category, "subDomain", subDomain, "error", err)
		notice = "Failed to log activity."
	}

	flow, err := s.StartQuiz(ctx, category, subDomain)
	if err != nil {
		return nil, err
	}
	if notice != "" {
		flow.setNotice(notice)
	}
	return flow, nil
}

// StartQuiz fetches the category set once and prepares the attempt.
func (s *Service) StartQuiz(ctx context.Context, category, subDomain string) (*QuizFlow, error) {
	flow := NewQuizFlow(category, subDomain, s.quizSize)
	questions, err := s.questions.GetQuestions(ctx, domain.QuestionQuery{Category: category, SubDomain: subDomain})
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	if err := flow.Load(questions); err != nil {
		return nil, err
	}
	s.log.Info("quiz ready", "attempt", flow.ID(), "category", category, "subDomain", subDomain, "questions", flow.Total())
	return flow, nil
}

// StartRandomQuiz mixes questions from categories, defaulting to the
// user's preferred categories.
func (s *Service) StartRandomQuiz(ctx context.Context, categories []string) (*QuizFlow, error) {
	if len(categories) == 0 {
		grouping, err := s.preferences(ctx)
		if err != nil {
			return nil, err
		}
		categories = grouping.Categories()
	}
	if len(categories) == 0 {
		return nil, domain.ErrNoPreferences
	}
	flow := NewQuizFlow("", "", s.quizSize)
	questions, err := s.backend.RandomQuestions(ctx, categories)
	if err != nil {
		return nil, fmt.Errorf("fetch random questions: %w", err)
	}
	if err := flow.Load(questions); err != nil {
		return nil, err
	}
	s.log.Info("random quiz ready", "attempt", flow.ID(), "categories", categories, "questions", flow.Total())
	return flow, nil
}

// GenerateQuestions asks the AI for new questions, saves them to the
// backend and drops the cached set. It returns how many were saved.
func (s *Service) GenerateQuestions(ctx context.Context, category, subDomain string, n int) (int, error) {
	if _, ok := domain.LookupCategory(category, subDomain); !ok || subDomain == "" {
		return 0, fmt.Errorf("%w: %s/%s", domain.ErrUnknownCategory, category, subDomain)
	}
	if s.explainer == nil || !s.explainer.Enabled() {
		return 0, domain.ErrExplainerDisabled
	}
	questions, err := s.explainer.GenerateQuestions(ctx, category, subDomain, n)
	if err != nil {
		return 0, fmt.Errorf("generate questions: %w", err)
	}
	token := ""
	if sess, err := s.Session(ctx); err == nil {
		token = sess.Token
	}
	if err := s.backend.SaveQuestions(ctx, token, category, subDomain, questions); err != nil {
		return 0, fmt.Errorf("save questions: %w", err)
	}
	query := domain.QuestionQuery{Category: category, SubDomain: subDomain}
	if err := s.questions.Invalidate(ctx, query); err != nil {
		s.log.Warn("invalidate question cache failed", "key", query.Key(), "error", err)
	}
	return len(questions), nil
}

// History lists the user's completed attempts, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]domain.Attempt, error) {
	sess, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	if s.history == nil {
		return nil, nil
	}
	return s.history.List(ctx, sess.UserID, limit)
}

// authFailure marks backend 401/403 responses as an invalid session.
func authFailure(op string, err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
		return errors.Join(domain.ErrUnauthenticated, fmt.Errorf("%s: %w", op, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

func countUnresolved(records []preference.Record) int {
	n := 0
	for _, r := range records {
		if r.Category == "" {
			n++
		}
	}
	return n
}
