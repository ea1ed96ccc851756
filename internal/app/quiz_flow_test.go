package app

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"trivia-client/internal/domain"
)

func numbered(n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = domain.Question{
			Question:      fmt.Sprintf("Q%d", i),
			Options:       []string{"a", "b"},
			CorrectAnswer: "a",
		}
	}
	return qs
}

func TestQuizFlowKeepsAtMostSize(t *testing.T) {
	flow := newQuizFlowWithRand("history", "Ancient India", DefaultQuizSize, rand.New(rand.NewSource(1)))
	if err := flow.Load(numbered(15)); err != nil {
		t.Fatalf("load: %v", err)
	}
	if flow.Total() != 10 {
		t.Fatalf("expected 10 questions, got %d", flow.Total())
	}
	if flow.State() != StateReady {
		t.Fatalf("expected ready, got %s", flow.State())
	}

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		q, idx, err := flow.Current()
		if err != nil {
			t.Fatalf("current %d: %v", i, err)
		}
		if idx != i {
			t.Fatalf("expected index %d, got %d", i, idx)
		}
		if seen[q.Question] {
			t.Fatalf("question %s presented twice", q.Question)
		}
		seen[q.Question] = true
		done, err := flow.Answer("b")
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if done != (i == 9) {
			t.Fatalf("unexpected done=%v at %d", done, i)
		}
	}

	result, err := flow.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if len(result.Answers) != len(result.Questions) {
		t.Fatalf("answers %d != questions %d", len(result.Answers), len(result.Questions))
	}
	for i, a := range result.Answers {
		if a.Question.Question != result.Questions[i].Question {
			t.Fatalf("answer %d recorded against the wrong question", i)
		}
	}
}

func TestQuizFlowSmallSetKeepsAll(t *testing.T) {
	flow := newQuizFlowWithRand("", "", 0, rand.New(rand.NewSource(2)))
	_ = flow.Load(numbered(4))
	if flow.Total() != 4 {
		t.Fatalf("expected 4, got %d", flow.Total())
	}
}

func TestQuizFlowStateErrors(t *testing.T) {
	flow := newQuizFlowWithRand("sports", "Cricket", 10, rand.New(rand.NewSource(3)))

	if _, err := flow.Answer("a"); !errors.Is(err, domain.ErrQuizNotReady) {
		t.Fatalf("expected not ready before load, got %v", err)
	}
	if _, err := flow.Result(); !errors.Is(err, domain.ErrQuizNotReady) {
		t.Fatalf("expected no result before completion, got %v", err)
	}

	_ = flow.Load(numbered(1))
	if err := flow.Load(numbered(1)); err == nil {
		t.Fatalf("expected second load to fail")
	}
	if _, err := flow.Answer("z"); !errors.Is(err, domain.ErrInvalidOption) {
		t.Fatalf("expected invalid option, got %v", err)
	}
	if _, err := flow.AnswerIndex(5); !errors.Is(err, domain.ErrInvalidOption) {
		t.Fatalf("expected invalid index, got %v", err)
	}
	if done, err := flow.AnswerIndex(0); err != nil || !done {
		t.Fatalf("expected completion, done=%v err=%v", done, err)
	}
	if _, err := flow.Answer("a"); !errors.Is(err, domain.ErrQuizComplete) {
		t.Fatalf("expected complete, got %v", err)
	}
	if _, _, err := flow.Current(); !errors.Is(err, domain.ErrQuizComplete) {
		t.Fatalf("expected complete from current, got %v", err)
	}
}

func TestQuizFlowEmptySet(t *testing.T) {
	flow := NewQuizFlow("sports", "Cricket", 10)
	if err := flow.Load(nil); !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected no questions, got %v", err)
	}
	if flow.State() != StateEmpty {
		t.Fatalf("expected empty state, got %s", flow.State())
	}
}

func TestQuizFlowCurrentIsACopy(t *testing.T) {
	flow := newQuizFlowWithRand("", "", 10, rand.New(rand.NewSource(4)))
	_ = flow.Load(numbered(1))
	q, _, _ := flow.Current()
	q.Options[0] = "mutated"
	if _, err := flow.Answer("a"); err != nil {
		t.Fatalf("flow state leaked through Current: %v", err)
	}
}
