package services

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
	"github.com/gonzalo10/uniswap-interface/internal/infrastructure/dex"
)

var nopLog = zerolog.Nop()

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func usdc(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e6))
}

// MockDEXClient is a mock implementation of DEXClient for testing
type MockDEXClient struct {
	mu    sync.Mutex
	pairs map[entities.PairKey]*entities.Pair
	errs  map[entities.PairKey]error
	err   error
	calls atomic.Int64
}

func NewMockDEXClient() *MockDEXClient {
	return &MockDEXClient{
		pairs: make(map[entities.PairKey]*entities.Pair),
		errs:  make(map[entities.PairKey]error),
	}
}

func (m *MockDEXClient) SetPair(pair *entities.Pair) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairs[pair.Key()] = pair
}

func (m *MockDEXClient) SetPairError(tokenA, tokenB common.Address, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[entities.NewPairKey(tokenA, tokenB)] = err
}

func (m *MockDEXClient) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockDEXClient) GetPairAddress(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return common.Address{}, m.err
	}
	if pair, ok := m.pairs[entities.NewPairKey(tokenA, tokenB)]; ok {
		return pair.Address, nil
	}
	return common.Address{}, nil
}

func (m *MockDEXClient) GetPairByTokens(ctx context.Context, tokenA, tokenB entities.Token) (*entities.Pair, error) {
	m.calls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	key := entities.NewPairKey(tokenA.Address, tokenB.Address)
	if err, ok := m.errs[key]; ok {
		return nil, err
	}
	if pair, ok := m.pairs[key]; ok {
		cp := *pair
		return &cp, nil
	}
	return nil, dex.ErrPairNotFound
}

// countingSource wraps a ReserveSource and counts fetches
type countingSource struct {
	inner ReserveSource
	calls atomic.Int64
}

func (c *countingSource) FetchReserves(ctx context.Context, pairs []entities.TokenPair) (*ReserveSet, error) {
	c.calls.Add(1)
	return c.inner.FetchReserves(ctx, pairs)
}

// fakeAccount serves balances and allowances
type fakeAccount struct {
	mu         sync.Mutex
	balances   map[common.Address]*big.Int
	native     *big.Int
	allowances map[common.Address]*big.Int
	err        error
}

func newFakeAccount() *fakeAccount {
	return &fakeAccount{
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]*big.Int),
	}
}

func (f *fakeAccount) BalanceOf(ctx context.Context, token entities.Token, owner common.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if token.IsNative() {
		if f.native == nil {
			return big.NewInt(0), nil
		}
		return new(big.Int).Set(f.native), nil
	}
	if b, ok := f.balances[token.Address]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

func (f *fakeAccount) Allowance(ctx context.Context, token entities.Token, owner, spender common.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if a, ok := f.allowances[token.Address]; ok {
		return new(big.Int).Set(a), nil
	}
	return big.NewInt(0), nil
}

func (f *fakeAccount) setAllowance(token common.Address, amount *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allowances[token] = amount
}

// fakeApprover records approvals and optionally applies them to an account
type fakeApprover struct {
	mu      sync.Mutex
	calls   []approveCall
	err     error
	account *fakeAccount
	block   chan struct{}
}

type approveCall struct {
	token   entities.Token
	spender common.Address
	amount  *big.Int
}

func (f *fakeApprover) Approve(ctx context.Context, token entities.Token, spender common.Address, amount *big.Int) (common.Hash, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return common.Hash{}, f.err
	}
	f.calls = append(f.calls, approveCall{token: token, spender: spender, amount: amount})
	if f.account != nil {
		f.account.setAllowance(token.Address, amount)
	}
	return common.HexToHash("0xa11"), nil
}

func (f *fakeApprover) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var testRouterAddress = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")

// fakeRouter records submitted swaps
type fakeRouter struct {
	mu    sync.Mutex
	calls []entities.SwapCall
	err   error
}

func (f *fakeRouter) Address() common.Address {
	return testRouterAddress
}

func (f *fakeRouter) Swap(ctx context.Context, call entities.SwapCall) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return common.Hash{}, f.err
	}
	f.calls = append(f.calls, call)
	return common.HexToHash("0x5a9"), nil
}

func (f *fakeRouter) submitted() []entities.SwapCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entities.SwapCall(nil), f.calls...)
}

// quoterFunc adapts a function to Quoter
type quoterFunc func(ctx context.Context, req QuoteRequest) (*entities.Quote, error)

func (f quoterFunc) Quote(ctx context.Context, req QuoteRequest) (*entities.Quote, error) {
	return f(ctx, req)
}

var errNodeDown = errors.New("node unavailable")

// ethDaiMarket returns a DEX holding the 100 ETH / 200000 DAI pool and a
// deep DAI/USDC pool
func ethDaiMarket() *MockDEXClient {
	m := NewMockDEXClient()
	m.SetPair(entities.NewPair(common.HexToAddress("0x01"), entities.WETH, entities.DAI, ether(100), ether(200000)))
	m.SetPair(entities.NewPair(common.HexToAddress("0x02"), entities.DAI, entities.USDC, ether(5_000_000), usdc(5_000_000)))
	return m
}

func newTestQuoteService(source ReserveSource) *QuoteService {
	return NewQuoteService(entities.DefaultRegistry(), source, entities.DefaultBaseSymbols, entities.DefaultSlippage, nopLog, nil)
}
