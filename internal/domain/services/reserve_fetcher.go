package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
	"github.com/gonzalo10/uniswap-interface/internal/infrastructure/dex"
	"github.com/gonzalo10/uniswap-interface/internal/observability"
)

// maxInFlight bounds concurrent pair lookups against the node
const maxInFlight = 10

// ReserveSet is the outcome of one reserve fetch. Every candidate has an
// entry; a nil pair means the candidate is absent.
type ReserveSet struct {
	order []entities.PairKey
	pairs map[entities.PairKey]*entities.Pair
}

// Get returns the pair for key, or nil if it is absent or was not a candidate
func (s *ReserveSet) Get(key entities.PairKey) *entities.Pair {
	if s == nil {
		return nil
	}
	return s.pairs[key]
}

// Len returns the number of candidates, present or absent
func (s *ReserveSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Available returns the present pairs in candidate order
func (s *ReserveSet) Available() []entities.Pair {
	if s == nil {
		return nil
	}
	out := make([]entities.Pair, 0, len(s.order))
	for _, k := range s.order {
		if p := s.pairs[k]; p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// ReserveSource is anything that can resolve candidate pairs to reserves
type ReserveSource interface {
	FetchReserves(ctx context.Context, pairs []entities.TokenPair) (*ReserveSet, error)
}

// ReserveFetcher resolves candidate pairs through a DEX client concurrently
type ReserveFetcher struct {
	client  dex.DEXClient
	log     zerolog.Logger
	metrics *observability.Metrics
}

// NewReserveFetcher creates a new reserve fetcher
func NewReserveFetcher(client dex.DEXClient, log zerolog.Logger, metrics *observability.Metrics) *ReserveFetcher {
	return &ReserveFetcher{
		client:  client,
		log:     log,
		metrics: metrics,
	}
}

// FetchReserves looks up every candidate once. Pairs that are not deployed
// and pairs whose lookup failed are absent; only when every lookup failed
// with a transport error does it return ErrProviderUnavailable.
func (f *ReserveFetcher) FetchReserves(ctx context.Context, pairs []entities.TokenPair) (*ReserveSet, error) {
	found := make([]*entities.Pair, len(pairs))
	errs := make([]error, len(pairs))

	var g errgroup.Group
	g.SetLimit(maxInFlight)
	for i, candidate := range pairs {
		g.Go(func() error {
			pair, err := f.client.GetPairByTokens(ctx, candidate.A, candidate.B)
			switch {
			case err == nil && pair != nil && pair.HasLiquidity():
				found[i] = pair
				f.metrics.PairLookup("found")
			case err == nil || errors.Is(err, dex.ErrPairNotFound):
				f.metrics.PairLookup("absent")
			default:
				errs[i] = err
				f.metrics.PairLookup("error")
			}
			return nil
		})
	}
	_ = g.Wait()

	set := &ReserveSet{
		order: make([]entities.PairKey, len(pairs)),
		pairs: make(map[entities.PairKey]*entities.Pair, len(pairs)),
	}
	var failed int
	var lastErr error
	for i, candidate := range pairs {
		key := candidate.Key()
		set.order[i] = key
		set.pairs[key] = found[i]
		if errs[i] != nil {
			failed++
			lastErr = errs[i]
			f.log.Warn().Err(errs[i]).
				Str("tokenA", candidate.A.Symbol).
				Str("tokenB", candidate.B.Symbol).
				Msg("pair lookup failed, treating as absent")
		}
	}

	if len(pairs) > 0 && failed == len(pairs) {
		return set, fmt.Errorf("%w: %w", ErrProviderUnavailable, lastErr)
	}

	f.log.Debug().
		Int("candidates", len(pairs)).
		Int("available", len(set.Available())).
		Int("failed", failed).
		Msg("reserves fetched")
	return set, nil
}
