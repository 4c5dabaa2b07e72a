package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sling/backend/internal/models"
)

// NameCache caches resolved account names between requests. Entries expire
// after the configured TTL so renames in the game-info provider show up
// within a few minutes. Implementations must be safe for concurrent use.
type NameCache interface {
	Get(ctx context.Context, account string) (models.AccountName, bool, error)
	SetAll(ctx context.Context, names map[string]models.AccountName) error
}

const nameKeyPrefix = "name:"

// RedisNameCache keeps resolved names in Redis so all server processes share
// one cache.
type RedisNameCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisNameCache(rdb *redis.Client, ttl time.Duration) *RedisNameCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisNameCache{rdb: rdb, ttl: ttl}
}

func nameKey(account string) string {
	return nameKeyPrefix + strings.ToLower(account)
}

func (c *RedisNameCache) Get(ctx context.Context, account string) (models.AccountName, bool, error) {
	raw, err := c.rdb.Get(ctx, nameKey(account)).Result()
	if errors.Is(err, redis.Nil) {
		return models.AccountName{}, false, nil
	}
	if err != nil {
		return models.AccountName{}, false, err
	}

	var name models.AccountName
	if err := json.Unmarshal([]byte(raw), &name); err != nil {
		return models.AccountName{}, false, err
	}
	return name, true, nil
}

func (c *RedisNameCache) SetAll(ctx context.Context, names map[string]models.AccountName) error {
	if len(names) == 0 {
		return nil
	}
	pipe := c.rdb.Pipeline()
	for account, name := range names {
		raw, err := json.Marshal(name)
		if err != nil {
			return err
		}
		pipe.Set(ctx, nameKey(account), raw, c.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

type memoryEntry struct {
	name    models.AccountName
	expires time.Time
}

// MemoryNameCache is a process-local NameCache with the same TTL semantics.
type MemoryNameCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryNameCache(ttl time.Duration) *MemoryNameCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MemoryNameCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryNameCache) Get(_ context.Context, account string) (models.AccountName, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[nameKey(account)]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expires) {
		return models.AccountName{}, false, nil
	}
	return entry.name, true, nil
}

func (c *MemoryNameCache) SetAll(_ context.Context, names map[string]models.AccountName) error {
	expires := c.now().Add(c.ttl)
	c.mu.Lock()
	for account, name := range names {
		c.entries[nameKey(account)] = memoryEntry{name: name, expires: expires}
	}
	c.mu.Unlock()
	return nil
}
