package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// RoleAdmin is the only role allowed into the admin views.
const RoleAdmin = "admin"

// Session is the locally persisted login state.
type Session struct {
	Token  string `yaml:"token" json:"token"`
	Role   string `yaml:"role" json:"role"`
	UserID string `yaml:"userId,omitempty" json:"userId,omitempty"`
}

// IsAdmin reports whether the session carries the admin role.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Preference is a user's chosen (category, subDomain) pair.
type Preference struct {
	Category  string `json:"category"`
	SubDomain string `json:"subDomain,omitempty"`
}

// CategoryPreference groups the chosen subDomains of one category.
type CategoryPreference struct {
	Category   string   `json:"category"`
	SubDomains []string `json:"subDomain"`
}

// Question models an MCQ question as served by the backend. Older backend
// versions name the answer field correct_answer, newer ones correctAnswer.
type Question struct {
	Question            string   `json:"question"`
	Options             []string `json:"options"`
	CorrectAnswer       string   `json:"correctAnswer,omitempty"`
	LegacyCorrectAnswer string   `json:"correct_answer,omitempty"`
	Category            string   `json:"category,omitempty"`
	SubDomain           string   `json:"subDomain,omitempty"`
}

// IsCorrect checks answer against either correct-answer field.
func (q Question) IsCorrect(answer string) bool {
	if q.LegacyCorrectAnswer != "" && answer == q.LegacyCorrectAnswer {
		return true
	}
	return q.CorrectAnswer != "" && answer == q.CorrectAnswer
}

// Correct returns whichever correct-answer field is populated.
func (q Question) Correct() string {
	if q.CorrectAnswer != "" {
		return q.CorrectAnswer
	}
	return q.LegacyCorrectAnswer
}

// HasOption reports whether option is one of the question's choices.
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// QuestionQuery selects one backend question set.
type QuestionQuery struct {
	Category  string
	SubDomain string
}

// Key identifies the query in caches.
func (q QuestionQuery) Key() string {
	return q.Category + ":" + q.SubDomain
}

// AnswerRecord is one selected answer, appended as the quiz progresses.
type AnswerRecord struct {
	Question Question `json:"question"`
	Answer   string   `json:"answer"`
}

// QuizResult is handed from the quiz flow to scoring and review.
type QuizResult struct {
	Questions []Question     `json:"questions"`
	Answers   []AnswerRecord `json:"answers"`
}

// PairStatus classifies the answers to two similar questions.
type PairStatus string

const (
	PairBothCorrect PairStatus = "✅ Both Correct"
	PairOneCorrect  PairStatus = "⚠️ One Correct"
	PairBothWrong   PairStatus = "❌ Both Wrong"
)

// Increment is the score awarded for the status.
func (s PairStatus) Increment() int {
	switch s {
	case PairBothCorrect:
		return 2
	case PairOneCorrect:
		return 1
	default:
		return 0
	}
}

// PairStatusForScore maps a stored pair score back to its status.
func PairStatusForScore(score int) PairStatus {
	switch score {
	case 2:
		return PairBothCorrect
	case 1:
		return PairOneCorrect
	default:
		return PairBothWrong
	}
}

// PairScore is the outcome of scoring two similar questions.
type PairScore struct {
	First     int        `json:"first"`
	Second    int        `json:"second"`
	Q1Text    string     `json:"q1Text"`
	Q2Text    string     `json:"q2Text"`
	Status    PairStatus `json:"status"`
	Increment int        `json:"score"`
}

// PairSubmission is the payload posted to the repeated-score endpoint.
type PairSubmission struct {
	UserID string     `json:"userId"`
	Q1Text string     `json:"q1Text"`
	Q2Text string     `json:"q2Text"`
	Status PairStatus `json:"status"`
	Score  int        `json:"score"`
}

// TimelineEntry is one pair-score attempt as reported by the backend.
// Timestamp is zero when the backend sent something unparseable; the raw
// value is kept in RawTimestamp.
type TimelineEntry struct {
	Attempt      int       `json:"attempt"`
	Score        int       `json:"score"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	RawTimestamp string    `json:"-"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (e *TimelineEntry) UnmarshalJSON(data []byte) error {
	type plain TimelineEntry
	var aux struct {
		plain
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = TimelineEntry(aux.plain)
	e.Timestamp, e.RawTimestamp = parseTimestamp(aux.Timestamp)
	return nil
}

// parseTimestamp accepts ISO strings and epoch milliseconds. Anything else
// yields the zero time and the raw text.
func parseTimestamp(raw json.RawMessage) (time.Time, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		text = string(raw)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, ""
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, text
		}
	}
	if ms, err := strconv.ParseInt(text, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), text
	}
	return time.Time{}, text
}

// UserSummary is the admin list view of a user. Stats are computed by the backend.
type UserSummary struct {
	ID         string `json:"_id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role,omitempty"`
	TotalScore int    `json:"totalScore"`
	Attempts   int    `json:"attempts"`
}

// Attempt is a completed quiz kept in the local history.
type Attempt struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Category    string     `json:"category,omitempty"`
	SubDomain   string     `json:"subDomain,omitempty"`
	Result      QuizResult `json:"result"`
	Correct     int        `json:"correct"`
	Total       int        `json:"total"`
	Pair        *PairScore `json:"pair,omitempty"`
	CompletedAt time.Time  `json:"completedAt"`
}
