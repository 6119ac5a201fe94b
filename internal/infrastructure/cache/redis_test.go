package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
)

var testList = &entities.TokenList{
	Name: "Test List",
	Tokens: []entities.TokenInfo{
		{Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Symbol: "DAI", Name: "Dai Stablecoin", Decimals: 18, ChainID: 1},
	},
}

func TestInMemoryCacheExpiry(t *testing.T) {
	c := NewInMemoryCache()
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }
	ctx := context.Background()
	key := TokenListCacheKey("https://tokens.example/list.json", 1)

	got, err := c.GetTokenList(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.SetTokenList(ctx, key, testList, time.Minute))
	got, err = c.GetTokenList(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, testList, got)

	now = now.Add(time.Minute)
	got, err = c.GetTokenList(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryCacheDelete(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.SetTokenList(ctx, "k", testList, time.Hour))
	require.NoError(t, c.Delete(ctx, "k"))

	got, err := c.GetTokenList(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTokenListCacheKey(t *testing.T) {
	assert.Equal(t, "tokenlist:1:https://a/b.json", TokenListCacheKey("https://a/b.json", 1))
	assert.NotEqual(t, TokenListCacheKey("u", 1), TokenListCacheKey("u", 5))
}

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use different DB for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available: %v", err)
	}
	require.NoError(t, client.FlushDB(ctx).Err())

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}

func TestRedisCacheTokenList(t *testing.T) {
	c := NewRedisCacheFromClient(setupTestRedis(t))
	ctx := context.Background()
	key := TokenListCacheKey("https://tokens.example/list.json", 1)

	got, err := c.GetTokenList(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.SetTokenList(ctx, key, testList, time.Minute))
	got, err = c.GetTokenList(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, testList.Tokens, got.Tokens)

	require.NoError(t, c.Delete(ctx, key))
	got, err = c.GetTokenList(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Close())
}
