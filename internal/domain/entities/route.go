package entities

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Route is the hop order of a trade: Path[i] -> Path[i+1] through Pairs[i].
type Route struct {
	Path  []Token `json:"path"`
	Pairs []Pair  `json:"pairs"`
}

// Hops returns the number of pair traversals
func (r *Route) Hops() int {
	return len(r.Pairs)
}

// Addresses returns the token addresses of the path in order
func (r *Route) Addresses() []common.Address {
	addrs := make([]common.Address, len(r.Path))
	for i, t := range r.Path {
		addrs[i] = t.Address
	}
	return addrs
}

// Validate checks that every adjacent pair of the path is joined by a pair
// with liquidity on both sides.
func (r *Route) Validate() error {
	if len(r.Path) < 2 {
		return errors.New("route needs at least two tokens")
	}
	if len(r.Pairs) != len(r.Path)-1 {
		return fmt.Errorf("route has %d tokens but %d pairs", len(r.Path), len(r.Pairs))
	}
	for i := range r.Pairs {
		p := &r.Pairs[i]
		if !p.Involves(r.Path[i].Address) || !p.Involves(r.Path[i+1].Address) {
			return fmt.Errorf("hop %d does not join %s and %s", i, r.Path[i].Symbol, r.Path[i+1].Symbol)
		}
		if !p.HasLiquidity() {
			return fmt.Errorf("hop %d has no liquidity", i)
		}
	}
	return nil
}

// CalculateAmounts walks the route hop by hop, feeding each output into the
// next hop. The first element is amountIn. It returns nil if any hop yields
// nothing.
func (r *Route) CalculateAmounts(amountIn *big.Int) []*big.Int {
	if len(r.Pairs) == 0 || amountIn == nil || amountIn.Sign() <= 0 {
		return nil
	}

	amounts := make([]*big.Int, 0, len(r.Pairs)+1)
	current := new(big.Int).Set(amountIn)
	amounts = append(amounts, current)
	for i := range r.Pairs {
		current = r.Pairs[i].GetAmountOut(current, r.Path[i].Address)
		if current.Sign() <= 0 {
			return nil
		}
		amounts = append(amounts, current)
	}

	return amounts
}

// Trade is a route evaluated for a concrete input amount. It is never
// mutated; a new quote cycle produces a new Trade.
type Trade struct {
	Route     Route      `json:"route"`
	AmountIn  *big.Int   `json:"amountIn"`
	AmountOut *big.Int   `json:"amountOut"`
	Amounts   []*big.Int `json:"amounts"`
}

// NewTrade evaluates route for amountIn. It returns nil if the route is not
// valid or yields no output.
func NewTrade(route Route, amountIn *big.Int) *Trade {
	if route.Validate() != nil {
		return nil
	}
	amounts := route.CalculateAmounts(amountIn)
	if amounts == nil {
		return nil
	}
	return &Trade{
		Route:     route,
		AmountIn:  new(big.Int).Set(amountIn),
		AmountOut: amounts[len(amounts)-1],
		Amounts:   amounts,
	}
}

// MinimumAmountOut scales AmountOut down by the slippage tolerance.
func (t *Trade) MinimumAmountOut(slippage Percent) *big.Int {
	return slippage.ApplyDiscount(t.AmountOut)
}

// Quote is the published result of one quote cycle
type Quote struct {
	TokenIn          Token     `json:"tokenIn"`
	TokenOut         Token     `json:"tokenOut"`
	AmountIn         *big.Int  `json:"amountIn"`
	Trade            *Trade    `json:"trade"`
	AmountOut        *big.Int  `json:"amountOut"`
	AmountOutHuman   string    `json:"amountOutHuman"`
	MinimumAmountOut *big.Int  `json:"minimumAmountOut"`
	Slippage         Percent   `json:"slippage"`
	GasEstimate      uint64    `json:"gasEstimate"`
	Generation       uint64    `json:"generation"`
	QuotedAt         time.Time `json:"quotedAt"`
}

// HasTrade reports whether a route with liquidity was found
func (q *Quote) HasTrade() bool {
	return q != nil && q.Trade != nil
}
