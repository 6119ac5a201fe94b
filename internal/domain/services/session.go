package services

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
)

// Selection is the user's current swap input
type Selection struct {
	TokenIn  entities.Token    `json:"tokenIn"`
	TokenOut entities.Token    `json:"tokenOut"`
	AmountIn string            `json:"amountIn"`
	Slippage *entities.Percent `json:"slippage,omitempty"`
}

func (s Selection) request() QuoteRequest {
	return QuoteRequest{
		TokenIn:  s.TokenIn,
		TokenOut: s.TokenOut,
		AmountIn: s.AmountIn,
		Slippage: s.Slippage,
	}
}

// Session ties the quote pipeline, account state and executor to one account.
// Every recomputation replaces the previous result as a whole.
type Session struct {
	account   common.Address
	pipeline  *QuotePipeline
	allowance *AllowanceService
	executor  *SwapExecutor
	log       zerolog.Logger

	mu        sync.Mutex
	selection Selection
	selected  bool
	// accountGen invalidates account reads started before a token change or approval
	accountGen uint64
	state      AllowanceState
}

// NewSession wires a session for account
func NewSession(
	account common.Address,
	pipeline *QuotePipeline,
	allowance *AllowanceService,
	executor *SwapExecutor,
	log zerolog.Logger,
) *Session {
	s := &Session{
		account:   account,
		pipeline:  pipeline,
		allowance: allowance,
		executor:  executor,
		log:       log,
	}
	executor.OnApproved(func(entities.Token) { s.invalidateAccount() })
	return s
}

// Account returns the session's account
func (s *Session) Account() common.Address {
	return s.account
}

// Select replaces the selection and starts a quote recomputation. It returns
// the generation of that recomputation. Changing the input token forgets the
// account state read for the previous one.
func (s *Session) Select(ctx context.Context, sel Selection) uint64 {
	// computations outlive the request that triggered them
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	tokenChanged := !s.selected || s.selection.TokenIn.Address != sel.TokenIn.Address ||
		s.selection.TokenIn.Native != sel.TokenIn.Native
	s.selection = sel
	s.selected = true
	if tokenChanged {
		s.accountGen++
		s.state = AllowanceState{}
	}
	// the newest generation must belong to the stored selection
	gen := s.pipeline.Submit(ctx, sel.request())
	s.mu.Unlock()

	if tokenChanged {
		go func() {
			if err := s.RefreshAccount(ctx); err != nil {
				s.log.Warn().Err(err).Msg("account refresh after token change failed")
			}
		}()
	}
	return gen
}

// Selection returns the current selection, if any
func (s *Session) Selection() (Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection, s.selected
}

// Quote returns the latest published quote
func (s *Session) Quote() QuoteUpdate {
	return s.pipeline.Latest()
}

// QuotePending reports whether a newer quote is still being computed
func (s *Session) QuotePending() bool {
	return s.pipeline.Pending()
}

// RefreshAccount re-reads balance and allowance for the selected input
// token. On failure the previous state is kept.
func (s *Session) RefreshAccount(ctx context.Context) error {
	s.mu.Lock()
	if !s.selected {
		s.mu.Unlock()
		return nil
	}
	token := s.selection.TokenIn
	gen := s.accountGen
	s.mu.Unlock()

	state, err := s.allowance.Fetch(ctx, s.account, token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.accountGen {
		s.state = state
	}
	return nil
}

// AccountState returns the last account read
func (s *Session) AccountState() AllowanceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Gate evaluates the current selection against the last account read
func (s *Session) Gate() GateResult {
	s.mu.Lock()
	sel, ok, state := s.selection, s.selected, s.state
	s.mu.Unlock()
	if !ok {
		return GateResult{}
	}
	return Evaluate(sel.TokenIn, s.amountIn(sel), state)
}

// Approve approves exactly the selected amount for the router
func (s *Session) Approve(ctx context.Context) (*Outcome, error) {
	sel, ok := s.Selection()
	if !ok {
		return nil, ErrApprovalNotNeeded
	}
	return s.executor.Approve(ctx, sel.TokenIn, s.amountIn(sel), s.Gate())
}

// Swap executes the current selection. Balances change afterwards, so the
// account state is invalidated whatever the outcome.
func (s *Session) Swap(ctx context.Context) (*Outcome, error) {
	sel, ok := s.Selection()
	if !ok {
		return nil, ErrSwapNotReady
	}
	out, err := s.executor.ExecuteSwap(ctx, sel.request(), s.Gate())
	if out != nil {
		s.invalidateAccount()
	}
	return out, err
}

// ExecutorState returns the executor's state
func (s *Session) ExecutorState() ExecutorState {
	return s.executor.State()
}

// Run refreshes account state every interval until ctx is done
func (s *Session) Run(ctx context.Context, interval time.Duration) {
	Poll(ctx, interval, func(ctx context.Context) {
		if err := s.RefreshAccount(ctx); err != nil {
			s.log.Warn().Err(err).Msg("account refresh failed")
		}
	})
}

func (s *Session) invalidateAccount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountGen++
	s.state = AllowanceState{}
}

func (s *Session) amountIn(sel Selection) *big.Int {
	amount, err := entities.ToBaseUnits(sel.AmountIn, sel.TokenIn.Decimals)
	if err != nil {
		return nil
	}
	return amount
}
