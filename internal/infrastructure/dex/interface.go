package dex

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
)

// ErrPairNotFound is returned when the factory has no pair for two tokens.
var ErrPairNotFound = errors.New("pair does not exist")

// DEXClient defines the interface for reading pair state from a DEX
type DEXClient interface {
	GetPairAddress(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error)

	// GetPairByTokens returns ErrPairNotFound when no pair is deployed
	GetPairByTokens(ctx context.Context, tokenA, tokenB entities.Token) (*entities.Pair, error)
}

// AccountReader reads balances and allowances. Native tokens are read with
// the chain's balance call and never have an allowance.
type AccountReader interface {
	BalanceOf(ctx context.Context, token entities.Token, owner common.Address) (*big.Int, error)
	Allowance(ctx context.Context, token entities.Token, owner, spender common.Address) (*big.Int, error)
}

// TokenApprover submits ERC-20 approvals
type TokenApprover interface {
	Approve(ctx context.Context, token entities.Token, spender common.Address, amount *big.Int) (common.Hash, error)
}

// SwapRouter submits swaps to the router contract
type SwapRouter interface {
	Address() common.Address
	Swap(ctx context.Context, call entities.SwapCall) (common.Hash, error)
}
