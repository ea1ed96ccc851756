package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"trivia-client/internal/domain"
)

var geography = domain.QuestionQuery{Category: "Geography", SubDomain: "Capitals"}

func TestQuestionCacheCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[domain.QuestionQuery][]domain.Question{
			geography: sampleQuestions(),
		}),
	}
	cache := NewQuestionCache(loader, time.Minute)

	if _, err := cache.GetQuestions(context.Background(), geography); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}

	qs, err := cache.GetQuestions(context.Background(), geography)
	if err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}
	if len(qs) != 2 || qs[0].Correct() != "Paris" {
		t.Fatalf("unexpected cached questions %+v", qs)
	}
}

func TestQuestionCacheReturnsCopies(t *testing.T) {
	loader := NewStaticQuestionLoader(map[domain.QuestionQuery][]domain.Question{
		geography: sampleQuestions(),
	})
	cache := NewQuestionCache(loader, time.Minute)

	first, _ := cache.GetQuestions(context.Background(), geography)
	first[0].Options[0] = "mutated"

	second, _ := cache.GetQuestions(context.Background(), geography)
	if second[0].Options[0] == "mutated" {
		t.Fatalf("cache leaked a shared slice")
	}
}

func TestQuestionCacheExpiresAndInvalidates(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[domain.QuestionQuery][]domain.Question{
			geography: sampleQuestions(),
		}),
	}
	cache := NewQuestionCache(loader, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	_, _ = cache.GetQuestions(context.Background(), geography)
	now = now.Add(2 * time.Minute)
	_, _ = cache.GetQuestions(context.Background(), geography)
	if loader.count() != 2 {
		t.Fatalf("expected reload after expiry, got %d calls", loader.count())
	}

	if err := cache.Invalidate(context.Background(), geography); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = cache.GetQuestions(context.Background(), geography)
	if loader.count() != 3 {
		t.Fatalf("expected reload after invalidate, got %d calls", loader.count())
	}
}

func TestQuestionCacheSkipsEmptySets(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewStaticQuestionLoader(nil)}
	cache := NewQuestionCache(loader, time.Minute)

	for i := 0; i < 2; i++ {
		qs, err := cache.GetQuestions(context.Background(), geography)
		if err != nil || len(qs) != 0 {
			t.Fatalf("expected empty set, got %v err=%v", qs, err)
		}
	}
	if loader.count() != 2 {
		t.Fatalf("empty sets should not be cached, calls=%d", loader.count())
	}
}

type countingLoader struct {
	QuestionLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, query domain.QuestionQuery) ([]domain.Question, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.QuestionLoader.LoadQuestions(ctx, query)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			Question:      "Capital of France?",
			Options:       []string{"Paris", "Lyon", "Nice"},
			CorrectAnswer: "Paris",
		},
		{
			Question:      "Capital of Germany?",
			Options:       []string{"Munich", "Berlin"},
			CorrectAnswer: "Berlin",
		},
	}
}
