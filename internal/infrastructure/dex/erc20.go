package dex

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
)

// ERC20ABI covers the calls needed for gating and approval
const ERC20ABI = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"}
]`

// Backend is the chain access the contract bindings need
type Backend interface {
	Backend() bind.ContractBackend
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	Transactor(ctx context.Context) (*bind.TransactOpts, error)
}

// ERC20Client reads token balances and allowances and submits approvals
type ERC20Client struct {
	backend Backend
	abi     abi.ABI
}

// NewERC20Client creates a new ERC-20 client
func NewERC20Client(backend Backend) (*ERC20Client, error) {
	parsed, err := abi.JSON(strings.NewReader(ERC20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}
	return &ERC20Client{backend: backend, abi: parsed}, nil
}

func (c *ERC20Client) contract(token common.Address) *bind.BoundContract {
	b := c.backend.Backend()
	return bind.NewBoundContract(token, c.abi, b, b, b)
}

// BalanceOf returns owner's balance of token in base units
func (c *ERC20Client) BalanceOf(ctx context.Context, token entities.Token, owner common.Address) (*big.Int, error) {
	if token.IsNative() {
		balance, err := c.backend.BalanceAt(ctx, owner)
		if err != nil {
			return nil, fmt.Errorf("failed to get native balance: %w", err)
		}
		return balance, nil
	}

	var out []interface{}
	if err := c.contract(token.Address).Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", owner); err != nil {
		return nil, fmt.Errorf("failed to get %s balance: %w", token.Symbol, err)
	}
	return firstBigInt(out)
}

// Allowance returns how much spender may move from owner. Native tokens have
// no allowance and report zero.
func (c *ERC20Client) Allowance(ctx context.Context, token entities.Token, owner, spender common.Address) (*big.Int, error) {
	if token.IsNative() {
		return big.NewInt(0), nil
	}

	var out []interface{}
	if err := c.contract(token.Address).Call(&bind.CallOpts{Context: ctx}, &out, "allowance", owner, spender); err != nil {
		return nil, fmt.Errorf("failed to get %s allowance: %w", token.Symbol, err)
	}
	return firstBigInt(out)
}

// Approve lets spender move exactly amount of token
func (c *ERC20Client) Approve(ctx context.Context, token entities.Token, spender common.Address, amount *big.Int) (common.Hash, error) {
	if token.IsNative() {
		return common.Hash{}, fmt.Errorf("native %s cannot be approved", token.Symbol)
	}

	opts, err := c.backend.Transactor(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	tx, err := c.contract(token.Address).Transact(opts, "approve", spender, amount)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to approve %s: %w", token.Symbol, err)
	}
	return tx.Hash(), nil
}

func firstBigInt(out []interface{}) (*big.Int, error) {
	if len(out) == 0 {
		return nil, fmt.Errorf("empty call result")
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T", out[0])
	}
	return v, nil
}
