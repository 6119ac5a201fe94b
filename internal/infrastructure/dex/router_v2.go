package dex

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
	ethclient "github.com/gonzalo10/uniswap-interface/internal/infrastructure/ethereum"
)

// V2RouterABI holds the three exact-input swap functions of IUniswapV2Router02
const V2RouterABI = `[
	{"inputs":[{"internalType":"uint256","name":"amountIn","type":"uint256"},{"internalType":"uint256","name":"amountOutMin","type":"uint256"},{"internalType":"address[]","name":"path","type":"address[]"},{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"deadline","type":"uint256"}],"name":"swapExactTokensForTokens","outputs":[{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"internalType":"uint256","name":"amountOutMin","type":"uint256"},{"internalType":"address[]","name":"path","type":"address[]"},{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"deadline","type":"uint256"}],"name":"swapExactETHForTokens","outputs":[{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"internalType":"uint256","name":"amountIn","type":"uint256"},{"internalType":"uint256","name":"amountOutMin","type":"uint256"},{"internalType":"address[]","name":"path","type":"address[]"},{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"deadline","type":"uint256"}],"name":"swapExactTokensForETH","outputs":[{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],"stateMutability":"nonpayable","type":"function"}
]`

// RouterV2Client submits swaps to a Uniswap V2 router
type RouterV2Client struct {
	backend  Backend
	address  common.Address
	contract *bind.BoundContract
}

// NewRouterV2Client binds the router at address. The zero address selects the
// mainnet router.
func NewRouterV2Client(backend Backend, address common.Address) (*RouterV2Client, error) {
	if address == ethclient.ZeroAddress {
		address = UniswapV2RouterAddress
	}
	parsed, err := abi.JSON(strings.NewReader(V2RouterABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse router ABI: %w", err)
	}
	b := backend.Backend()
	return &RouterV2Client{
		backend:  backend,
		address:  address,
		contract: bind.NewBoundContract(address, parsed, b, b, b),
	}, nil
}

// Address returns the router contract address, the spender for approvals
func (c *RouterV2Client) Address() common.Address {
	return c.address
}

// Swap submits call as a single transaction
func (c *RouterV2Client) Swap(ctx context.Context, call entities.SwapCall) (common.Hash, error) {
	opts, err := c.backend.Transactor(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	opts.Value = call.Value()

	tx, err := c.contract.Transact(opts, call.Kind.Method(), call.Args()...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to %s: %w", call.Kind.Method(), err)
	}
	return tx.Hash(), nil
}
