package app

import (
	"fmt"
	"sort"

	"trivia-client/internal/domain"
)

// ScorePair scores the answers at two "similar question" positions. The same
// position may be given twice; it then scores as both correct or both wrong.
func ScorePair(result domain.QuizResult, first, second int) (domain.PairScore, error) {
	n := len(result.Answers)
	if first < 0 || second < 0 || first >= n || second >= n {
		return domain.PairScore{}, domain.ErrInvalidPair
	}
	a1, a2 := result.Answers[first], result.Answers[second]
	correct1 := a1.Question.IsCorrect(a1.Answer)
	correct2 := a2.Question.IsCorrect(a2.Answer)

	status := domain.PairOneCorrect
	switch {
	case correct1 && correct2:
		status = domain.PairBothCorrect
	case !correct1 && !correct2:
		status = domain.PairBothWrong
	}

	return domain.PairScore{
		First:     first,
		Second:    second,
		Q1Text:    questionText(result, first, "No question text for Q1"),
		Q2Text:    questionText(result, second, "No question text for Q2"),
		Status:    status,
		Increment: status.Increment(),
	}, nil
}

func questionText(result domain.QuizResult, i int, fallback string) string {
	if i < len(result.Questions) && result.Questions[i].Question != "" {
		return result.Questions[i].Question
	}
	if text := result.Answers[i].Question.Question; text != "" {
		return text
	}
	return fallback
}

// CountCorrect is the plain score: answers matching their question.
func CountCorrect(result domain.QuizResult) int {
	correct := 0
	for _, a := range result.Answers {
		if a.Question.IsCorrect(a.Answer) {
			correct++
		}
	}
	return correct
}

// SortTimeline returns a copy ordered by ascending attempt number.
func SortTimeline(entries []domain.TimelineEntry) []domain.TimelineEntry {
	out := append([]domain.TimelineEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Attempt < out[j].Attempt
	})
	return out
}

// Improvement is last score minus first score of a sorted timeline. ok is
// false with fewer than two attempts.
func Improvement(sorted []domain.TimelineEntry) (delta int, ok bool) {
	if len(sorted) < 2 {
		return 0, false
	}
	return sorted[len(sorted)-1].Score - sorted[0].Score, true
}

// ImprovementText renders the delta the way the performance view shows it.
func ImprovementText(delta int, ok bool) string {
	if !ok {
		return ""
	}
	switch {
	case delta > 0:
		return fmt.Sprintf("📈 Improved by %d %s since the first attempt.", delta, points(delta))
	case delta < 0:
		return fmt.Sprintf("📉 Decreased by %d %s since the first attempt.", -delta, points(-delta))
	default:
		return "➖ No change in performance since the first attempt."
	}
}

func points(n int) string {
	if n > 1 {
		return "points"
	}
	return "point"
}
