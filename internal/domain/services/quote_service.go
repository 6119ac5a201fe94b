package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
	"github.com/gonzalo10/uniswap-interface/internal/observability"
)

// QuoteRequest is one set of user inputs a quote is computed from
type QuoteRequest struct {
	TokenIn  entities.Token
	TokenOut entities.Token
	AmountIn string // human units, e.g. "1.5"
	// Slippage overrides the service default when set
	Slippage *entities.Percent
}

// Quoter computes quotes. Implemented by QuoteService.
type Quoter interface {
	Quote(ctx context.Context, req QuoteRequest) (*entities.Quote, error)
}

// QuoteService composes candidate discovery, reserve fetching and routing
// into a quote. Its dependencies are fixed at construction.
type QuoteService struct {
	universe    *entities.TokenRegistry
	reserves    ReserveSource
	router      *RouterService
	baseSymbols []string
	slippage    entities.Percent
	now         func() time.Time
	log         zerolog.Logger
	metrics     *observability.Metrics
}

// NewQuoteService creates a new quote service
func NewQuoteService(
	universe *entities.TokenRegistry,
	reserves ReserveSource,
	baseSymbols []string,
	slippage entities.Percent,
	log zerolog.Logger,
	metrics *observability.Metrics,
) *QuoteService {
	if len(baseSymbols) == 0 {
		baseSymbols = entities.DefaultBaseSymbols
	}
	if slippage.Validate() != nil {
		slippage = entities.DefaultSlippage
	}
	return &QuoteService{
		universe:    universe,
		reserves:    reserves,
		router:      NewRouterService(),
		baseSymbols: baseSymbols,
		slippage:    slippage,
		now:         time.Now,
		log:         log,
		metrics:     metrics,
	}
}

// Universe returns the token registry quotes are resolved against
func (s *QuoteService) Universe() *entities.TokenRegistry {
	return s.universe
}

// DefaultSlippage returns the tolerance used when a request sets none
func (s *QuoteService) DefaultSlippage() entities.Percent {
	return s.slippage
}

// Quote computes the best trade for req. The returned quote is never nil;
// when there is nothing to trade its Trade is nil, and when err is set it is
// the empty quote for the request.
func (s *QuoteService) Quote(ctx context.Context, req QuoteRequest) (*entities.Quote, error) {
	start := s.now()
	quote, err := s.quote(ctx, req)
	quote.QuotedAt = start

	outcome := "trade"
	switch {
	case err != nil:
		outcome = "error"
	case quote.AmountIn == nil || quote.AmountIn.Sign() == 0:
		outcome = "empty"
	case !quote.HasTrade():
		outcome = "no_route"
	}
	s.metrics.ObserveQuote(outcome, s.now().Sub(start).Seconds())

	return quote, err
}

func (s *QuoteService) quote(ctx context.Context, req QuoteRequest) (*entities.Quote, error) {
	slippage := s.slippage
	if req.Slippage != nil {
		slippage = *req.Slippage
	}
	quote := &entities.Quote{
		TokenIn:  req.TokenIn,
		TokenOut: req.TokenOut,
		Slippage: slippage,
	}

	// no reserves are read for an undefined route
	if req.TokenIn.SameAs(req.TokenOut) {
		return quote, ErrIdenticalTokens
	}
	if err := slippage.Validate(); err != nil {
		return quote, err
	}

	amountIn, err := entities.ToBaseUnits(req.AmountIn, req.TokenIn.Decimals)
	if err != nil {
		return quote, err
	}
	quote.AmountIn = amountIn
	if amountIn.Sign() == 0 {
		return quote, nil
	}

	candidates := BuildCandidates(req.TokenIn, req.TokenOut, s.baseSymbols, s.universe)
	set, err := s.reserves.FetchReserves(ctx, candidates)
	if err != nil {
		if !errors.Is(err, ErrProviderUnavailable) {
			err = fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
		}
		s.log.Warn().Err(err).
			Str("tokenIn", req.TokenIn.Symbol).
			Str("tokenOut", req.TokenOut.Symbol).
			Msg("quote degraded, reserves unavailable")
		return quote, err
	}

	trade := s.router.BestTrade(set.Available(), req.TokenIn, amountIn, req.TokenOut)
	if trade == nil {
		s.log.Info().
			Str("tokenIn", req.TokenIn.Symbol).
			Str("tokenOut", req.TokenOut.Symbol).
			Int("candidates", len(candidates)).
			Msg("no route with liquidity")
		return quote, nil
	}

	quote.Trade = trade
	quote.AmountOut = trade.AmountOut
	quote.AmountOutHuman = entities.FormatUnits(trade.AmountOut, req.TokenOut.Decimals)
	quote.MinimumAmountOut = trade.MinimumAmountOut(slippage)
	quote.GasEstimate = s.router.EstimateGas(&trade.Route)

	s.log.Info().
		Str("tokenIn", req.TokenIn.Symbol).
		Str("tokenOut", req.TokenOut.Symbol).
		Str("amountIn", req.AmountIn).
		Str("amountOut", quote.AmountOutHuman).
		Int("hops", trade.Route.Hops()).
		Msg("quote computed")
	return quote, nil
}
