package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"trivia-client/internal/domain"
	"trivia-client/internal/explain"
)

const (
	noDataText      = "No data available for this question."
	noExplainText   = "Could not generate a description at this time."
	explainFailText = "Error generating description. Please try again later."
	pairMissingText = "One or both answers are missing."

	explainConcurrency = 3
)

// ReviewOptions selects the optional parts of a review.
type ReviewOptions struct {
	// Pair holds the two similar-question positions; empty skips pair scoring.
	Pair    []int
	Explain bool
}

// ReviewItem is one answered question as shown on the review screen.
type ReviewItem struct {
	Index         int    `json:"index"`
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
	UserAnswer    string `json:"userAnswer"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation,omitempty"`
}

// Review summarises a completed attempt.
type Review struct {
	AttemptID     string            `json:"attemptId"`
	Items         []ReviewItem      `json:"items"`
	Correct       int               `json:"correct"`
	Total         int               `json:"total"`
	Pair          *domain.PairScore `json:"pair,omitempty"`
	PairSubmitted bool              `json:"pairSubmitted"`
	PairNotice    string            `json:"pairNotice,omitempty"`
}

// Review scores a completed attempt, posts its pair score once and records
// it in the history. Reviewing the same attempt again never re-posts. A pair
// that does not fit the attempt is skipped with a notice.
func (s *Service) Review(ctx context.Context, flow *QuizFlow, opts ReviewOptions) (Review, error) {
	result, err := flow.Result()
	if err != nil {
		return Review{}, err
	}

	review := Review{
		AttemptID: flow.ID(),
		Items:     reviewItems(result),
		Correct:   CountCorrect(result),
		Total:     len(result.Questions),
	}

	if len(opts.Pair) > 0 {
		pair, err := scoreRequestedPair(result, opts.Pair)
		if err != nil {
			s.log.Warn("pair score skipped", "attempt", flow.ID(), "pair", opts.Pair, "total", review.Total, "error", err)
			review.PairNotice = pairMissingText
		} else {
			review.Pair = &pair
			review.PairSubmitted = s.submitPairOnce(ctx, flow.ID(), pair)
		}
	}

	if opts.Explain {
		s.explainItems(ctx, review.Items)
	}

	s.recordOnce(ctx, flow, result, review)
	return review, nil
}

func scoreRequestedPair(result domain.QuizResult, positions []int) (domain.PairScore, error) {
	if len(positions) != 2 {
		return domain.PairScore{}, domain.ErrInvalidPair
	}
	return ScorePair(result, positions[0], positions[1])
}

func reviewItems(result domain.QuizResult) []ReviewItem {
	items := make([]ReviewItem, len(result.Questions))
	for i, q := range result.Questions {
		item := ReviewItem{Index: i, Question: q.Question, CorrectAnswer: q.Correct()}
		if i < len(result.Answers) {
			item.UserAnswer = result.Answers[i].Answer
			item.Correct = result.Answers[i].Question.IsCorrect(item.UserAnswer)
		}
		items[i] = item
	}
	return items
}

// submitPairOnce posts the pair score for an attempt at most once. Failures
// are logged; the review still shows the local score.
func (s *Service) submitPairOnce(ctx context.Context, attemptID string, pair domain.PairScore) bool {
	s.mu.Lock()
	if _, ok := s.submitted[attemptID]; ok {
		s.mu.Unlock()
		s.log.Debug("pair score already submitted", "attempt", attemptID, "error", domain.ErrAlreadySubmitted)
		return true
	}
	s.mu.Unlock()

	sess, err := s.Session(ctx)
	if err != nil {
		s.log.Warn("pair score not submitted", "attempt", attemptID, "error", err)
		return false
	}
	userID, err := s.userID(ctx, sess)
	if err != nil {
		s.log.Warn("pair score not submitted: user id unknown", "attempt", attemptID, "error", err)
		return false
	}

	s.mu.Lock()
	if _, ok := s.submitted[attemptID]; ok {
		s.mu.Unlock()
		return true
	}
	s.submitted[attemptID] = pair
	s.mu.Unlock()

	err = s.backend.SubmitPairScore(ctx, sess.Token, domain.PairSubmission{
		UserID: userID,
		Q1Text: pair.Q1Text,
		Q2Text: pair.Q2Text,
		Status: pair.Status,
		Score:  pair.Increment,
	})
	if err != nil {
		s.mu.Lock()
		delete(s.submitted, attemptID)
		s.mu.Unlock()
		s.log.Error("submit pair score failed", "attempt", attemptID, "error", err)
		return false
	}
	s.log.Info("pair score submitted", "attempt", attemptID, "status", string(pair.Status), "score", pair.Increment)
	return true
}

func (s *Service) userID(ctx context.Context, sess domain.Session) (string, error) {
	if sess.UserID != "" {
		return sess.UserID, nil
	}
	id, err := s.backend.GetUserID(ctx, sess.Token)
	if err != nil {
		return "", err
	}
	sess.UserID = id
	if err := s.sessions.Set(ctx, sess); err != nil {
		s.log.Warn("persist user id failed", "error", err)
	}
	return id, nil
}

// explainItems fills explanations with a bounded fan-out. Each item degrades
// to a fallback text on its own.
func (s *Service) explainItems(ctx context.Context, items []ReviewItem) {
	if s.explainer == nil || !s.explainer.Enabled() {
		for i := range items {
			items[i].Explanation = fallbackExplanation(items[i], domain.ErrExplainerDisabled)
		}
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(explainConcurrency)
	for i := range items {
		i := i
		if items[i].Question == "" || items[i].UserAnswer == "" {
			items[i].Explanation = noDataText
			continue
		}
		g.Go(func() error {
			text, err := s.explainer.Explain(gctx, explain.Request{
				Question:      items[i].Question,
				UserAnswer:    items[i].UserAnswer,
				CorrectAnswer: items[i].CorrectAnswer,
			})
			if err != nil {
				s.log.Warn("explanation failed", "index", i, "error", err)
				items[i].Explanation = fallbackExplanation(items[i], err)
				return nil
			}
			if text == "" {
				text = noExplainText
			}
			items[i].Explanation = text
			return nil
		})
	}
	_ = g.Wait()
}

func fallbackExplanation(item ReviewItem, err error) string {
	if item.Question == "" || item.UserAnswer == "" {
		return noDataText
	}
	if errors.Is(err, domain.ErrExplainerDisabled) {
		return noExplainText
	}
	return explainFailText
}

func (s *Service) recordOnce(ctx context.Context, flow *QuizFlow, result domain.QuizResult, review Review) {
	if s.history == nil {
		return
	}
	s.mu.Lock()
	if _, ok := s.recorded[flow.ID()]; ok {
		s.mu.Unlock()
		return
	}
	s.recorded[flow.ID()] = struct{}{}
	s.mu.Unlock()

	userID := ""
	if sess, err := s.Session(ctx); err == nil {
		userID = sess.UserID
	}
	attempt := domain.Attempt{
		ID:          flow.ID(),
		UserID:      userID,
		Category:    flow.Category(),
		SubDomain:   flow.SubDomain(),
		Result:      result,
		Correct:     review.Correct,
		Total:       review.Total,
		Pair:        review.Pair,
		CompletedAt: s.now().UTC(),
	}
	if err := s.history.Save(ctx, attempt); err != nil {
		s.mu.Lock()
		delete(s.recorded, flow.ID())
		s.mu.Unlock()
		s.log.Warn("record attempt failed", "attempt", flow.ID(), "error", fmt.Errorf("history: %w", err))
	}
}
