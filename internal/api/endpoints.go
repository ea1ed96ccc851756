package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"trivia-client/internal/domain"
	"trivia-client/internal/preference"
)

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by signup and login. Role and UserID are only
// sent by newer backends.
type AuthResponse struct {
	SessionToken string `json:"sessionToken"`
	Role         string `json:"role,omitempty"`
	UserID       string `json:"userId,omitempty"`
	Message      string `json:"message,omitempty"`
}

type userIDResponse struct {
	UserID string `json:"userId"`
}

type preferencesResponse struct {
	Preferences []preference.Record `json:"preferences"`
}

type questionsResponse struct {
	Questions []domain.Question `json:"questions"`
}

type activityRequest struct {
	Category  string `json:"category"`
	SubDomain string `json:"subDomain"`
}

type saveQuestionsRequest struct {
	Questions []domain.Question `json:"questions"`
	Category  string            `json:"category"`
	SubDomain string            `json:"subDomain"`
}

type savePreferencesRequest struct {
	Preferences []domain.Preference `json:"preferences"`
}

func (c *Client) Signup(ctx context.Context, in SignupRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, request{op: "signup", method: http.MethodPost, path: "/api/auth/signup", body: in}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, in LoginRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, request{op: "login", method: http.MethodPost, path: "/api/auth/login", body: in}, &out)
	return out, err
}

// GetUserID resolves the id of the user owning token.
func (c *Client) GetUserID(ctx context.Context, token string) (string, error) {
	var out userIDResponse
	if err := c.do(ctx, request{op: "get user id", method: http.MethodGet, path: "/api/auth/get-user-id", token: token}, &out); err != nil {
		return "", err
	}
	if out.UserID == "" {
		return "", domain.ErrUserNotFound
	}
	return out.UserID, nil
}

func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	return c.do(ctx, request{op: "delete account", method: http.MethodDelete, path: "/api/auth/delete-account", token: token}, nil)
}

// GetPreferences returns the raw records; callers normalize them.
func (c *Client) GetPreferences(ctx context.Context, token string) ([]preference.Record, error) {
	var out preferencesResponse
	err := c.do(ctx, request{op: "get preferences", method: http.MethodGet, path: "/api/user-preferences", token: token}, &out)
	return out.Preferences, err
}

func (c *Client) SavePreferences(ctx context.Context, token string, prefs []domain.Preference) error {
	return c.do(ctx, request{
		op:     "save preferences",
		method: http.MethodPost,
		path:   "/api/user-preferences",
		token:  token,
		body:   savePreferencesRequest{Preferences: prefs},
	}, nil)
}

func (c *Client) LogActivity(ctx context.Context, token, category, subDomain string) error {
	return c.do(ctx, request{
		op:     "log activity",
		method: http.MethodPost,
		path:   "/api/log-activity",
		token:  token,
		body:   activityRequest{Category: category, SubDomain: subDomain},
	}, nil)
}

// Questions fetches the full question set of one category/subDomain.
func (c *Client) Questions(ctx context.Context, category, subDomain string) ([]domain.Question, error) {
	q := url.Values{}
	q.Set("category", category)
	q.Set("subDomain", subDomain)
	var out questionsResponse
	err := c.do(ctx, request{op: "get questions", method: http.MethodGet, path: "/api/questions", query: q}, &out)
	return out.Questions, err
}

// RandomQuestions fetches a mixed set across categories.
func (c *Client) RandomQuestions(ctx context.Context, categories []string) ([]domain.Question, error) {
	q := url.Values{}
	q.Set("categories", strings.Join(categories, ","))
	var out questionsResponse
	err := c.do(ctx, request{op: "get random questions", method: http.MethodGet, path: "/api/random-questions", query: q}, &out)
	return out.Questions, err
}

func (c *Client) SaveQuestions(ctx context.Context, token, category, subDomain string, questions []domain.Question) error {
	return c.do(ctx, request{
		op:     "save questions",
		method: http.MethodPost,
		path:   "/api/save-questions",
		token:  token,
		body:   saveQuestionsRequest{Questions: questions, Category: category, SubDomain: subDomain},
	}, nil)
}

func (c *Client) SubmitPairScore(ctx context.Context, token string, in domain.PairSubmission) error {
	return c.do(ctx, request{op: "submit pair score", method: http.MethodPost, path: "/api/repeated-score", token: token, body: in}, nil)
}

// ScoreTimeline returns every user's pair-score attempts keyed by user id.
func (c *Client) ScoreTimeline(ctx context.Context, token string) (map[string][]domain.TimelineEntry, error) {
	out := map[string][]domain.TimelineEntry{}
	err := c.do(ctx, request{op: "get score timeline", method: http.MethodGet, path: "/api/repeated-scores-timeline", token: token}, &out)
	return out, err
}

func (c *Client) AdminUsers(ctx context.Context, token string) ([]domain.UserSummary, error) {
	var out []domain.UserSummary
	err := c.do(ctx, request{op: "list users", method: http.MethodGet, path: "/admin/users", token: token}, &out)
	return out, err
}

func (c *Client) UserIDByEmail(ctx context.Context, token, email string) (string, error) {
	q := url.Values{}
	q.Set("email", email)
	var out userIDResponse
	if err := c.do(ctx, request{op: "lookup user", method: http.MethodGet, path: "/api/user-id", query: q, token: token}, &out); err != nil {
		return "", err
	}
	if out.UserID == "" {
		return "", domain.ErrUserNotFound
	}
	return out.UserID, nil
}
