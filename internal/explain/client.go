package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trivia-client/internal/domain"
	"trivia-client/internal/logger"
)

// Request describes one answered question to explain.
type Request struct {
	Question      string
	UserAnswer    string
	CorrectAnswer string
}

// Config selects the OpenAI-compatible endpoint.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client generates explanations and new questions through chat completions.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(cfg Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Enabled reports whether a credential is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Explain returns a short description of why the correct answer is correct.
func (c *Client) Explain(ctx context.Context, in Request) (string, error) {
	prompt := fmt.Sprintf(`Provide a concise 3-line description for the following trivia question: %q.
User's answer: %q.
Correct answer: %q.
Explain why the correct answer is correct and provide brief context.`, in.Question, in.UserAnswer, in.CorrectAnswer)
	return c.complete(ctx, prompt)
}

// GenerateQuestions asks for n new multiple-choice questions.
func (c *Client) GenerateQuestions(ctx context.Context, category, subDomain string, n int) ([]domain.Question, error) {
	if n <= 0 {
		n = 10
	}
	prompt := fmt.Sprintf(`Generate %d trivia questions related to %s - %s.
Each question should have four multiple-choice options and the correct answer.
Return only a JSON array in this format:
[
  {
    "question": "Your generated question?",
    "options": ["Option 1", "Option 2", "Option 3", "Option 4"],
    "correct_answer": "Correct Option"
  }
]`, n, category, subDomain)

	text, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	questions, err := parseQuestions(text)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].Category = category
		questions[i].SubDomain = subDomain
	}
	return questions, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", domain.ErrExplainerDisabled
	}
	raw, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read chat completion: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		var failed chatResponse
		if json.Unmarshal(body, &failed) == nil && failed.Error != nil && failed.Error.Message != "" {
			msg = failed.Error.Message
		}
		c.log.Warn("chat completion rejected", "status", resp.StatusCode, "message", msg)
		return "", fmt.Errorf("chat completion: %s (%d)", msg, resp.StatusCode)
	}
	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode chat completion: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// parseQuestions accepts a bare JSON array, optionally wrapped in a code fence.
func parseQuestions(text string) ([]domain.Question, error) {
	text = strings.TrimSpace(text)
	if start := strings.Index(text, "["); start >= 0 {
		if end := strings.LastIndex(text, "]"); end > start {
			text = text[start : end+1]
		}
	}
	var questions []domain.Question
	if err := json.Unmarshal([]byte(text), &questions); err != nil {
		return nil, fmt.Errorf("parse generated questions: %w", err)
	}
	valid := questions[:0]
	for _, q := range questions {
		if q.Question == "" || len(q.Options) < 2 || q.Correct() == "" {
			continue
		}
		valid = append(valid, q)
	}
	if len(valid) == 0 {
		return nil, domain.ErrNoQuestions
	}
	return valid, nil
}
