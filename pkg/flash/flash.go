// Package flash stores one-shot notices shown on the next rendered page.
package flash

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const DefaultTTL = 10 * time.Minute

type Store interface {
	Add(ctx context.Context, key, message string) error
	// Pop returns pending messages in insertion order and clears them.
	Pop(ctx context.Context, key string) ([]string, error)
}

type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "flash:", ttl: DefaultTTL}
}

func (s *RedisStore) Add(ctx context.Context, key, message string) error {
	k := s.prefix + key
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, k, message)
	pipe.Expire(ctx, k, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Pop(ctx context.Context, key string) ([]string, error) {
	k := s.prefix + key
	pipe := s.rdb.TxPipeline()
	msgs := pipe.LRange(ctx, k, 0, -1)
	pipe.Del(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}
	return msgs.Val(), nil
}

type MemoryStore struct {
	mu   sync.Mutex
	msgs map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{msgs: make(map[string][]string)}
}

func (s *MemoryStore) Add(_ context.Context, key, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs[key] = append(s.msgs[key], message)
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.msgs[key]
	delete(s.msgs, key)
	return msgs, nil
}
