package entities

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SwapKind selects one of the three router call shapes.
type SwapKind int

const (
	SwapExactTokensForTokens SwapKind = iota
	SwapExactNativeForTokens
	SwapExactTokensForNative
)

// SwapKindFor picks the call shape from the identity of the two tokens.
func SwapKindFor(tokenIn, tokenOut Token) SwapKind {
	switch {
	case tokenIn.IsNative():
		return SwapExactNativeForTokens
	case tokenOut.IsNative():
		return SwapExactTokensForNative
	default:
		return SwapExactTokensForTokens
	}
}

// Method returns the router function name for the call shape
func (k SwapKind) Method() string {
	switch k {
	case SwapExactNativeForTokens:
		return "swapExactETHForTokens"
	case SwapExactTokensForNative:
		return "swapExactTokensForETH"
	default:
		return "swapExactTokensForTokens"
	}
}

func (k SwapKind) String() string {
	switch k {
	case SwapExactNativeForTokens:
		return "swap-exact-native-for-tokens"
	case SwapExactTokensForNative:
		return "swap-exact-tokens-for-native"
	default:
		return "swap-exact-tokens-for-tokens"
	}
}

// SwapCall is the fully specified router call built right before submission.
type SwapCall struct {
	Kind         SwapKind         `json:"kind"`
	AmountIn     *big.Int         `json:"amountIn"`
	AmountOutMin *big.Int         `json:"amountOutMin"`
	Path         []common.Address `json:"path"`
	To           common.Address   `json:"to"`
	Deadline     *big.Int         `json:"deadline"`
}

// NewSwapCall assembles the call for trade. The kind is derived from the
// trade's end tokens.
func NewSwapCall(tokenIn, tokenOut Token, trade *Trade, amountOutMin *big.Int, to common.Address, deadline int64) SwapCall {
	return SwapCall{
		Kind:         SwapKindFor(tokenIn, tokenOut),
		AmountIn:     new(big.Int).Set(trade.AmountIn),
		AmountOutMin: new(big.Int).Set(amountOutMin),
		Path:         trade.Route.Addresses(),
		To:           to,
		Deadline:     big.NewInt(deadline),
	}
}

// Args returns the router arguments in ABI order. For native input the
// amount travels as call value instead.
func (c SwapCall) Args() []interface{} {
	if c.Kind == SwapExactNativeForTokens {
		return []interface{}{c.AmountOutMin, c.Path, c.To, c.Deadline}
	}
	return []interface{}{c.AmountIn, c.AmountOutMin, c.Path, c.To, c.Deadline}
}

// Value returns the native amount attached to the call, or nil.
func (c SwapCall) Value() *big.Int {
	if c.Kind == SwapExactNativeForTokens {
		return c.AmountIn
	}
	return nil
}
