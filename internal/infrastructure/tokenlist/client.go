// Package tokenlist loads the token universe from a Uniswap-style token list.
package tokenlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
	"github.com/gonzalo10/uniswap-interface/internal/infrastructure/cache"
)

// DefaultURI is the default Uniswap token list
const DefaultURI = "https://tokens.uniswap.org"

// ErrNoSource is returned when neither a URI nor a file is configured
var ErrNoSource = errors.New("no token list source configured")

type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("token list http %d", e.StatusCode)
	}
	return fmt.Sprintf("token list http %d: %s", e.StatusCode, b)
}

// Client fetches the token list, caching the raw document. When the remote
// list cannot be read it falls back to a local file.
type Client struct {
	URI  string
	File string
	TTL  time.Duration
	HTTP *http.Client

	cache cache.Cache
	log   zerolog.Logger
}

// NewClient creates a token list client. c may be nil to disable caching.
func NewClient(uri, file string, ttl time.Duration, c cache.Cache, log zerolog.Logger) *Client {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Client{
		URI:  strings.TrimSpace(uri),
		File: strings.TrimSpace(file),
		TTL:  ttl,
		HTTP: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: c,
		log:   log,
	}
}

// Fetch returns the token list from cache, the remote URI, or the file, in
// that order.
func (c *Client) Fetch(ctx context.Context, chainID int64) (*entities.TokenList, error) {
	if c.URI == "" && c.File == "" {
		return nil, ErrNoSource
	}

	var remoteErr error
	if c.URI != "" {
		list, err := c.fetchRemote(ctx, chainID)
		if err == nil {
			return list, nil
		}
		remoteErr = err
		c.log.Warn().Err(err).Str("uri", c.URI).Msg("token list unavailable")
	}

	if c.File == "" {
		return nil, remoteErr
	}
	list, err := entities.ReadTokenList(c.File)
	if err != nil {
		return nil, errors.Join(remoteErr, err)
	}
	c.log.Info().Str("file", c.File).Int("tokens", len(list.Tokens)).Msg("token list loaded from file")
	return list, nil
}

// Registry builds the token universe for chainID around the wrapped native
// token.
func (c *Client) Registry(ctx context.Context, chainID int64, wrapped entities.Token) (*entities.TokenRegistry, error) {
	list, err := c.Fetch(ctx, chainID)
	if err != nil {
		return nil, err
	}
	registry := entities.NewRegistryFromList(list, chainID, wrapped)
	c.log.Info().Int("tokens", registry.Count()).Int64("chainId", chainID).Msg("token universe loaded")
	return registry, nil
}

func (c *Client) fetchRemote(ctx context.Context, chainID int64) (*entities.TokenList, error) {
	key := cache.TokenListCacheKey(c.URI, chainID)
	if c.cache != nil {
		list, err := c.cache.GetTokenList(ctx, key)
		if err != nil {
			c.log.Warn().Err(err).Msg("token list cache read failed")
		} else if list != nil {
			c.log.Debug().Str("key", key).Msg("token list cache hit")
			return list, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URI, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token list: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: body}
	}

	list, err := entities.ParseTokenList(body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.SetTokenList(ctx, key, list, c.TTL); err != nil {
			c.log.Warn().Err(err).Msg("token list cache write failed")
		}
	}
	return list, nil
}
