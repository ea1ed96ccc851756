package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"trivia-client/internal/domain"
)

// QuestionLoader fetches a question set from the backend.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, query domain.QuestionQuery) ([]domain.Question, error)
}

// QuestionCache caches question sets with TTL to avoid refetching the same
// category on every attempt.
type QuestionCache struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedSet
}

type cachedSet struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionCache(loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSet),
	}
}

func (c *QuestionCache) GetQuestions(ctx context.Context, query domain.QuestionQuery) ([]domain.Question, error) {
	key := query.Key()
	if qs, ok := c.lookup(key); ok {
		return qs, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if qs, ok := c.lookup(key); ok {
			return qs, nil
		}

		questions, err := c.loader.LoadQuestions(ctx, query)
		if err != nil {
			return nil, err
		}
		// empty sets are not cached so a later seed shows up immediately
		if len(questions) > 0 && c.ttl > 0 {
			expiresAt := c.clock().Add(c.ttlWithJitter())
			c.mu.Lock()
			c.cache[key] = cachedSet{questions: questions, expiresAt: expiresAt}
			c.mu.Unlock()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return copyQuestions(result.([]domain.Question)), nil
}

func (c *QuestionCache) Invalidate(_ context.Context, query domain.QuestionQuery) error {
	c.mu.Lock()
	delete(c.cache, query.Key())
	c.mu.Unlock()
	return nil
}

func (c *QuestionCache) lookup(key string) ([]domain.Question, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[key]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return nil, false
	}
	return copyQuestions(entry.questions), true
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader serves fixed sets (tests, offline demos).
type StaticQuestionLoader struct {
	sets map[string][]domain.Question
}

func NewStaticQuestionLoader(sets map[domain.QuestionQuery][]domain.Question) *StaticQuestionLoader {
	l := &StaticQuestionLoader{sets: make(map[string][]domain.Question, len(sets))}
	for q, qs := range sets {
		l.sets[q.Key()] = qs
	}
	return l
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, query domain.QuestionQuery) ([]domain.Question, error) {
	return copyQuestions(l.sets[query.Key()]), nil
}

func copyQuestions(in []domain.Question) []domain.Question {
	if in == nil {
		return nil
	}
	out := make([]domain.Question, len(in))
	for i, q := range in {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
