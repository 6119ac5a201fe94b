package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
)

// Cache defines the interface for caching operations
type Cache interface {
	GetTokenList(ctx context.Context, key string) (*entities.TokenList, error)
	SetTokenList(ctx context.Context, key string, list *entities.TokenList, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisCache implements Cache using Redis
type RedisCache struct {
	client redis.Cmdable
	closer func() error
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client, closer: client.Close}, nil
}

// NewRedisCacheFromClient wraps an existing client. Closing the cache does
// not close the client.
func NewRedisCacheFromClient(client redis.Cmdable) *RedisCache {
	return &RedisCache{client: client}
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

// GetTokenList retrieves a cached token list. A miss returns nil, nil.
func (c *RedisCache) GetTokenList(ctx context.Context, key string) (*entities.TokenList, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var list entities.TokenList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}

	return &list, nil
}

// SetTokenList caches a token list with TTL
func (c *RedisCache) SetTokenList(ctx context.Context, key string, list *entities.TokenList, ttl time.Duration) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes a key from cache
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// TokenListCacheKey generates a cache key for a token list source
func TokenListCacheKey(uri string, chainID int64) string {
	return fmt.Sprintf("tokenlist:%d:%s", chainID, uri)
}

// InMemoryCache implements Cache using in-memory storage (for testing/development)
type InMemoryCache struct {
	mu    sync.Mutex
	lists map[string]*cachedList
	now   func() time.Time
}

type cachedList struct {
	list      *entities.TokenList
	expiresAt time.Time
}

// NewInMemoryCache creates a new in-memory cache
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		lists: make(map[string]*cachedList),
		now:   time.Now,
	}
}

func (c *InMemoryCache) GetTokenList(ctx context.Context, key string) (*entities.TokenList, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.lists[key]; ok {
		if c.now().Before(cached.expiresAt) {
			return cached.list, nil
		}
		delete(c.lists, key)
	}
	return nil, nil
}

func (c *InMemoryCache) SetTokenList(ctx context.Context, key string, list *entities.TokenList, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[key] = &cachedList{
		list:      list,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lists, key)
	return nil
}
