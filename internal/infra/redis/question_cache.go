package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"trivia-client/internal/domain"
	"trivia-client/internal/infra/memory"
)

// QuestionCache caches question sets in Redis and falls back to a loader on
// cache miss. Each set is stored as a hash keyed by position:
// HSET trivia:questions:{category}:{subDomain} {index} {question JSON}
type QuestionCache struct {
	client *redis.Client
	loader memory.QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader memory.QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) GetQuestions(ctx context.Context, query domain.QuestionQuery) ([]domain.Question, error) {
	key := c.key(query)

	if qs, ok := c.cached(ctx, key); ok {
		return qs, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if qs, ok := c.cached(ctx, key); ok {
			return qs, nil
		}

		questions, err := c.loader.LoadQuestions(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(questions) == 0 {
			return questions, nil
		}

		pipe := c.client.Pipeline()
		pipe.Del(ctx, key)
		for i, q := range questions {
			raw, err := json.Marshal(q)
			if err != nil {
				return nil, err
			}
			pipe.HSet(ctx, key, strconv.Itoa(i), raw)
		}
		if ttl := c.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		// best effort; a failed write only costs a reload
		_, _ = pipe.Exec(ctx)

		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *QuestionCache) Invalidate(ctx context.Context, query domain.QuestionQuery) error {
	return c.client.Del(ctx, c.key(query)).Err()
}

func (c *QuestionCache) cached(ctx context.Context, key string) ([]domain.Question, bool) {
	fields, err := c.client.HGetAll(ctx, key).Result()
	if err != nil || len(fields) == 0 {
		return nil, false
	}
	qs, err := decodeQuestions(fields)
	if err != nil {
		return nil, false
	}
	return qs, true
}

func (c *QuestionCache) key(query domain.QuestionQuery) string {
	return "trivia:questions:" + query.Key()
}

func decodeQuestions(fields map[string]string) ([]domain.Question, error) {
	indexes := make([]int, 0, len(fields))
	byIndex := make(map[int]string, len(fields))
	for field, raw := range fields {
		i, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		indexes = append(indexes, i)
		byIndex[i] = raw
	}
	sort.Ints(indexes)

	questions := make([]domain.Question, 0, len(indexes))
	for _, i := range indexes {
		var q domain.Question
		if err := json.Unmarshal([]byte(byIndex[i]), &q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
