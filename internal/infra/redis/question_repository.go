package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"chapter-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches questions for a selection from a backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, sel domain.Selection) ([]domain.Question, error)
}

// QuestionRepository caches question pools in Redis and falls back to a loader on cache miss.
// Pools are stored as: SET quiz:pool:{selectionKey} <json>
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetPool(ctx context.Context, sel domain.Selection) ([]domain.Question, error) {
	key := r.poolKey(sel)
	if pool, ok := r.cached(ctx, key); ok {
		return pool, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if pool, ok := r.cached(ctx, key); ok {
			return pool, nil
		}

		pool, err := r.loader.LoadQuestions(ctx, sel)
		if err != nil {
			return nil, err
		}

		// cache writes are best effort; a failed write only costs a reload
		if raw, err := json.Marshal(pool); err == nil {
			_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
		}
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate drops the cached pool for sel.
func (r *QuestionRepository) Invalidate(ctx context.Context, sel domain.Selection) error {
	return r.client.Del(ctx, r.poolKey(sel)).Err()
}

func (r *QuestionRepository) cached(ctx context.Context, key string) ([]domain.Question, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var pool []domain.Question
	if err := json.Unmarshal(raw, &pool); err != nil {
		return nil, false
	}
	return pool, true
}

func (r *QuestionRepository) poolKey(sel domain.Selection) string {
	return "quiz:pool:" + sel.Key()
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
