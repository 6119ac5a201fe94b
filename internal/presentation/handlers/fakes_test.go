package handlers

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
	"github.com/gonzalo10/uniswap-interface/internal/domain/services"
	"github.com/gonzalo10/uniswap-interface/internal/infrastructure/dex"
)

var (
	nopLog    = zerolog.Nop()
	testOwner = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

// market serves a fixed set of pairs
type market struct {
	pairs map[entities.PairKey]*entities.Pair
}

func newMarket(pairs ...*entities.Pair) *market {
	m := &market{pairs: make(map[entities.PairKey]*entities.Pair)}
	for _, p := range pairs {
		m.pairs[p.Key()] = p
	}
	return m
}

func (m *market) GetPairAddress(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error) {
	if p, ok := m.pairs[entities.NewPairKey(tokenA, tokenB)]; ok {
		return p.Address, nil
	}
	return common.Address{}, nil
}

func (m *market) GetPairByTokens(ctx context.Context, tokenA, tokenB entities.Token) (*entities.Pair, error) {
	if p, ok := m.pairs[entities.NewPairKey(tokenA.Address, tokenB.Address)]; ok {
		return p, nil
	}
	return nil, dex.ErrPairNotFound
}

func ethDaiMarket() *market {
	return newMarket(entities.NewPair(common.HexToAddress("0x01"), entities.WETH, entities.DAI, ether(100), ether(200000)))
}

func newTestQuoteService(m dex.DEXClient) *services.QuoteService {
	fetcher := services.NewReserveFetcher(m, nopLog, nil)
	return services.NewQuoteService(entities.DefaultRegistry(), fetcher, entities.DefaultBaseSymbols, entities.DefaultSlippage, nopLog, nil)
}

// wallet is an account whose approvals take effect immediately
type wallet struct {
	mu         sync.Mutex
	balances   map[common.Address]*big.Int
	allowances map[common.Address]*big.Int
	swaps      []entities.SwapCall
}

func newWallet() *wallet {
	return &wallet{
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]*big.Int),
	}
}

func (w *wallet) BalanceOf(ctx context.Context, token entities.Token, owner common.Address) (*big.Int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b, ok := w.balances[token.Address]; ok && !token.IsNative() {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

func (w *wallet) Allowance(ctx context.Context, token entities.Token, owner, spender common.Address) (*big.Int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if a, ok := w.allowances[token.Address]; ok {
		return new(big.Int).Set(a), nil
	}
	return big.NewInt(0), nil
}

func (w *wallet) Approve(ctx context.Context, token entities.Token, spender common.Address, amount *big.Int) (common.Hash, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.allowances[token.Address] = new(big.Int).Set(amount)
	return common.HexToHash("0xa11"), nil
}

func (w *wallet) Address() common.Address {
	return common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
}

func (w *wallet) Swap(ctx context.Context, call entities.SwapCall) (common.Hash, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.swaps = append(w.swaps, call)
	return common.HexToHash("0x5a9"), nil
}

func (w *wallet) submitted() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.swaps)
}

// quoterFunc adapts a function to services.Quoter
type quoterFunc func(ctx context.Context, req services.QuoteRequest) (*entities.Quote, error)

func (f quoterFunc) Quote(ctx context.Context, req services.QuoteRequest) (*entities.Quote, error) {
	return f(ctx, req)
}

// blockReader reports a fixed block or error
type blockReader struct {
	block uint64
	err   error
}

func (b blockReader) BlockNumber(ctx context.Context) (uint64, error) {
	return b.block, b.err
}

func newSession(w *wallet) *services.Session {
	quoter := newTestQuoteService(ethDaiMarket())
	pipeline := services.NewQuotePipeline(quoter, nopLog, nil)
	allowance := services.NewAllowanceService(w, w.Address(), nopLog)
	executor := services.NewSwapExecutor(quoter, w, w, testOwner, nopLog, nil)
	return services.NewSession(testOwner, pipeline, allowance, executor, nopLog)
}

func newTestRouter(quoter services.Quoter, session *services.Session) http.Handler {
	tokens := entities.DefaultRegistry()
	cfg := RouterConfig{
		Health: NewHealthHandler("test", nil),
		Tokens: NewTokensHandler(tokens),
		Quote:  NewQuoteHandler(quoter, tokens),
		Log:    nopLog,
	}
	if session != nil {
		cfg.Session = NewSessionHandler(session, tokens)
	}
	return NewRouter(cfg)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
