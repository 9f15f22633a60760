package emo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Draft is the last successful suggestion of a session: the signature it was
// computed for and the text it produced.
type Draft struct {
	Signature     string `json:"signature"`
	Justification string `json:"justification"`
}

// SignatureStore remembers the last successful draft per session key.
type SignatureStore interface {
	Load(ctx context.Context, key string) (Draft, bool, error)
	Save(ctx context.Context, key string, d Draft) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore is a process-local SignatureStore.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[string]Draft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]Draft)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (Draft, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[key]
	return d, ok, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, d Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[key] = d
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, key)
	return nil
}

// DefaultDraftTTL bounds how long a draft survives in Redis.
const DefaultDraftTTL = 24 * time.Hour

// RedisStore keeps drafts in Redis hashes so that API replicas share them.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore returns a store writing keys "<prefix><key>". An empty
// prefix defaults to "profesiograma:emo:".
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "profesiograma:emo:"
	}
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) Load(ctx context.Context, key string) (Draft, bool, error) {
	vals, err := r.client.HGetAll(ctx, r.prefix+key).Result()
	if err != nil {
		return Draft{}, false, fmt.Errorf("emo: load draft %s: %w", key, err)
	}
	sig, ok := vals["signature"]
	if !ok {
		return Draft{}, false, nil
	}
	return Draft{Signature: sig, Justification: vals["justification"]}, true, nil
}

func (r *RedisStore) Save(ctx context.Context, key string, d Draft) error {
	k := r.prefix + key
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, k, "signature", d.Signature, "justification", d.Justification)
		p.Expire(ctx, k, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("emo: save draft %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("emo: delete draft %s: %w", key, err)
	}
	return nil
}
