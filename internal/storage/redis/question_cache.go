package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/storage"
)

// QuestionCache caches eligible question pools in Redis in front of a
// QuestionStore. Concurrent misses for the same pool share one load, and
// any write through the cache drops every cached pool.
type QuestionCache struct {
	storage.QuestionStore

	client *redis.Client
	cfg    Config
	sf     singleflight.Group
}

// getter is satisfied by both a client and a WATCH transaction
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

var errStalePool = errors.New("question pool invalidated during load")

// NewQuestionCache wraps next with a Redis read-through cache
func NewQuestionCache(client *redis.Client, next storage.QuestionStore, cfg Config) *QuestionCache {
	return &QuestionCache{
		QuestionStore: next,
		client:        client,
		cfg:           cfg,
	}
}

// Ensure QuestionCache implements the interface
var _ storage.QuestionStore = (*QuestionCache)(nil)

func (c *QuestionCache) ListEligibleQuestions(ctx context.Context, t model.ChallengeType, m model.Mode) ([]*model.Question, error) {
	key := eligibleQuestionsKey(t, m)

	if questions, ok := c.cached(ctx, key); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Waiters share this load; detach it from the first caller's cancellation
		ctx := context.WithoutCancel(ctx)

		// Re-check in case another caller filled it
		if questions, ok := c.cached(ctx, key); ok {
			return questions, nil
		}

		gen, err := c.generation(ctx, c.client)
		if err != nil {
			return nil, err
		}

		questions, err := c.QuestionStore.ListEligibleQuestions(ctx, t, m)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(questions)
		if err != nil {
			return nil, err
		}
		// A failed or skipped fill only costs a later miss
		_ = c.fill(ctx, key, data, gen)
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.Question), nil
}

// fill stores a loaded pool unless an invalidation happened since gen was read
func (c *QuestionCache) fill(ctx context.Context, key string, data []byte, gen int64) error {
	genKey := questionGenerationKey()
	return c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.generation(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return errStalePool
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.cfg.QuestionCacheTTL)
			return nil
		})
		return err
	}, genKey)
}

// generation reads the invalidation counter; a missing counter reads as zero
func (c *QuestionCache) generation(ctx context.Context, cmd getter) (int64, error) {
	gen, err := cmd.Get(ctx, questionGenerationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read question cache generation: %w", err)
	}
	return gen, nil
}

func (c *QuestionCache) CreateQuestion(ctx context.Context, q *model.Question) error {
	if err := c.QuestionStore.CreateQuestion(ctx, q); err != nil {
		return err
	}
	return c.Invalidate(ctx)
}

func (c *QuestionCache) UpdateQuestion(ctx context.Context, q *model.Question) error {
	if err := c.QuestionStore.UpdateQuestion(ctx, q); err != nil {
		return err
	}
	return c.Invalidate(ctx)
}

// Invalidate drops every cached pool and bumps the generation so loads that
// started before it cannot write their pool back
func (c *QuestionCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, questionGenerationKey())
		pipe.Del(ctx, allEligibleQuestionsKeys()...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate question cache: %w", err)
	}
	return nil
}

func (c *QuestionCache) cached(ctx context.Context, key string) ([]*model.Question, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var questions []*model.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, false
	}
	if questions == nil {
		questions = []*model.Question{}
	}
	return questions, true
}
