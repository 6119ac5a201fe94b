package services

import (
	"math/big"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
)

// RouterService picks the best route of at most two hops over known pairs
type RouterService struct{}

// NewRouterService creates a new router service
func NewRouterService() *RouterService {
	return &RouterService{}
}

// BestTrade evaluates the direct route and every route through one
// intermediate token, and returns the one with the largest output. Ties go to
// the route with fewer hops, then to the one enumerated first. It returns nil
// when no route has liquidity.
func (s *RouterService) BestTrade(pairs []entities.Pair, tokenIn entities.Token, amountIn *big.Int, tokenOut entities.Token) *entities.Trade {
	if amountIn == nil || amountIn.Sign() <= 0 || tokenIn.SameAs(tokenOut) {
		return nil
	}

	byKey := make(map[entities.PairKey]entities.Pair, len(pairs))
	for _, p := range pairs {
		if !p.HasLiquidity() {
			continue
		}
		if _, dup := byKey[p.Key()]; !dup {
			byKey[p.Key()] = p
		}
	}

	var best *entities.Trade
	consider := func(route entities.Route) {
		trade := entities.NewTrade(route, amountIn)
		if trade == nil {
			return
		}
		if best == nil || trade.AmountOut.Cmp(best.AmountOut) > 0 {
			best = trade
		}
	}

	// direct
	if p, ok := byKey[entities.NewPairKey(tokenIn.Address, tokenOut.Address)]; ok {
		consider(entities.Route{
			Path:  []entities.Token{tokenIn, tokenOut},
			Pairs: []entities.Pair{p},
		})
	}

	// one intermediate, in the order the pairs were given
	for _, first := range pairs {
		if !first.HasLiquidity() || !first.Involves(tokenIn.Address) {
			continue
		}
		mid := first.Other(tokenIn.Address)
		if mid.SameAs(tokenOut) || mid.SameAs(tokenIn) {
			continue
		}
		second, ok := byKey[entities.NewPairKey(mid.Address, tokenOut.Address)]
		if !ok {
			continue
		}
		consider(entities.Route{
			Path:  []entities.Token{tokenIn, mid, tokenOut},
			Pairs: []entities.Pair{first, second},
		})
	}

	return best
}

// EstimateGas estimates gas for a route
func (s *RouterService) EstimateGas(route *entities.Route) uint64 {
	return estimateGas(route)
}

// estimateGas estimates gas for a route
func estimateGas(route *entities.Route) uint64 {
	if route == nil || route.Hops() == 0 {
		return 150000 // Default single swap estimate
	}

	// Base gas + gas per hop
	baseGas := uint64(21000)
	gasPerHop := uint64(100000) // Approximate gas for a Uniswap V2 swap

	return baseGas + uint64(route.Hops())*gasPerHop
}
