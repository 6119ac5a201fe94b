package entities

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// UniswapV2FeeBps is the per-hop pool fee, 0.3%.
const UniswapV2FeeBps uint64 = 30

// PairKey identifies an unordered pair of token addresses.
type PairKey [2]common.Address

// NewPairKey orders the two addresses so either argument order yields the same key.
func NewPairKey(a, b common.Address) PairKey {
	if bytes.Compare(a.Bytes(), b.Bytes()) > 0 {
		a, b = b, a
	}
	return PairKey{a, b}
}

// TokenPair is an unordered candidate pair whose reserves are not yet known.
type TokenPair struct {
	A Token
	B Token
}

// Key returns the unordered identity of the pair
func (p TokenPair) Key() PairKey {
	return NewPairKey(p.A.Address, p.B.Address)
}

// Pair represents a liquidity pair and its reserves at fetch time
type Pair struct {
	Address   common.Address `json:"address"`
	Token0    Token          `json:"token0"`
	Token1    Token          `json:"token1"`
	Reserve0  *big.Int       `json:"reserve0"`
	Reserve1  *big.Int       `json:"reserve1"`
	Fee       uint64         `json:"fee"` // Fee in basis points (e.g., 30 = 0.3%)
	UpdatedAt int64          `json:"updatedAt"`
}

// NewPair sorts tokenA and tokenB by address and assigns reserves accordingly.
func NewPair(address common.Address, tokenA, tokenB Token, reserveA, reserveB *big.Int) *Pair {
	if bytes.Compare(tokenA.Address.Bytes(), tokenB.Address.Bytes()) > 0 {
		tokenA, tokenB = tokenB, tokenA
		reserveA, reserveB = reserveB, reserveA
	}
	return &Pair{
		Address:  address,
		Token0:   tokenA,
		Token1:   tokenB,
		Reserve0: reserveA,
		Reserve1: reserveB,
		Fee:      UniswapV2FeeBps,
	}
}

// Key returns the unordered identity of the pair
func (p *Pair) Key() PairKey {
	return NewPairKey(p.Token0.Address, p.Token1.Address)
}

// Involves reports whether token is one side of the pair
func (p *Pair) Involves(token common.Address) bool {
	return p.Token0.Address == token || p.Token1.Address == token
}

// Other returns the side of the pair opposite to token
func (p *Pair) Other(token common.Address) Token {
	if p.Token0.Address == token {
		return p.Token1
	}
	return p.Token0
}

// HasLiquidity reports whether both reserves are non-zero
func (p *Pair) HasLiquidity() bool {
	return p.Reserve0 != nil && p.Reserve1 != nil && p.Reserve0.Sign() > 0 && p.Reserve1.Sign() > 0
}

// GetAmountOut applies the constant-product formula for one hop:
// amountOut = reserveOut * amountIn * (10000 - fee) / (reserveIn * 10000 + amountIn * (10000 - fee))
func (p *Pair) GetAmountOut(amountIn *big.Int, tokenIn common.Address) *big.Int {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return big.NewInt(0)
	}

	var reserveIn, reserveOut *big.Int
	if tokenIn == p.Token0.Address {
		reserveIn = p.Reserve0
		reserveOut = p.Reserve1
	} else {
		reserveIn = p.Reserve1
		reserveOut = p.Reserve0
	}

	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return big.NewInt(0)
	}

	fee := p.Fee
	if fee == 0 {
		fee = UniswapV2FeeBps
	}

	// 0.3% fee means multiply by 9970/10000, identical to 997/1000
	feeMultiplier := new(big.Int).SetUint64(10000 - fee)
	amountInWithFee := new(big.Int).Mul(amountIn, feeMultiplier)

	numerator := new(big.Int).Mul(amountInWithFee, reserveOut)

	denominator := new(big.Int).Mul(reserveIn, big.NewInt(10000))
	denominator.Add(denominator, amountInWithFee)

	return new(big.Int).Div(numerator, denominator)
}
