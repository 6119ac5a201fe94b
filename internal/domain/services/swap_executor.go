package services

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
	"github.com/gonzalo10/uniswap-interface/internal/infrastructure/dex"
	"github.com/gonzalo10/uniswap-interface/internal/observability"
)

// DefaultTimeLimit is how long after submission the router accepts a swap
const DefaultTimeLimit = 600 * time.Second

// ExecutorState is the position of the executor in the approve/swap cycle
type ExecutorState int

const (
	Idle ExecutorState = iota
	Approving
	Swapping
	Success
	Failed
)

func (s ExecutorState) String() string {
	switch s {
	case Approving:
		return "approving"
	case Swapping:
		return "swapping"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// MarshalText renders the state name
func (s ExecutorState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome reports a finished approval or swap. State is Success or Failed.
type Outcome struct {
	State  ExecutorState      `json:"state"`
	TxHash common.Hash        `json:"txHash"`
	Call   *entities.SwapCall `json:"call,omitempty"`
	Quote  *entities.Quote    `json:"quote,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// SwapExecutor submits approvals and swaps one at a time. It never retries.
type SwapExecutor struct {
	quoter    Quoter
	approver  dex.TokenApprover
	router    dex.SwapRouter
	account   common.Address
	timeLimit time.Duration
	now       func() time.Time
	log       zerolog.Logger
	metrics   *observability.Metrics

	mu         sync.Mutex
	state      ExecutorState
	onApproved func(entities.Token)
}

// ExecutorOption customizes a SwapExecutor
type ExecutorOption func(*SwapExecutor)

// WithTimeLimit sets the deadline offset applied at submission
func WithTimeLimit(d time.Duration) ExecutorOption {
	return func(e *SwapExecutor) {
		if d > 0 {
			e.timeLimit = d
		}
	}
}

// WithClock replaces the clock used for deadlines
func WithClock(now func() time.Time) ExecutorOption {
	return func(e *SwapExecutor) {
		e.now = now
	}
}

// NewSwapExecutor creates an executor sending swap output to account
func NewSwapExecutor(
	quoter Quoter,
	approver dex.TokenApprover,
	router dex.SwapRouter,
	account common.Address,
	log zerolog.Logger,
	metrics *observability.Metrics,
	opts ...ExecutorOption,
) *SwapExecutor {
	e := &SwapExecutor{
		quoter:    quoter,
		approver:  approver,
		router:    router,
		account:   account,
		timeLimit: DefaultTimeLimit,
		now:       time.Now,
		log:       log,
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnApproved registers a callback run after each successful approval
func (e *SwapExecutor) OnApproved(fn func(entities.Token)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onApproved = fn
}

// State returns the current state
func (e *SwapExecutor) State() ExecutorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *SwapExecutor) begin(s ExecutorState) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Idle {
		return fmt.Errorf("%w: executor is %s", ErrExecutorBusy, e.state)
	}
	e.state = s
	return nil
}

func (e *SwapExecutor) finish() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = Idle
}

// Approve lets the router move exactly amountIn of tokenIn. It is only
// allowed when the gate says the current allowance is insufficient.
func (e *SwapExecutor) Approve(ctx context.Context, tokenIn entities.Token, amountIn *big.Int, gate GateResult) (*Outcome, error) {
	if !gate.NeedsApproval() || tokenIn.IsNative() {
		return nil, fmt.Errorf("%w: allowance is %s", ErrApprovalNotNeeded, gate.InsufficientAllowance)
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, fmt.Errorf("%w: nothing to approve", entities.ErrInvalidAmount)
	}
	if err := e.begin(Approving); err != nil {
		return nil, err
	}
	defer e.finish()

	log := e.log.With().Str("token", tokenIn.Symbol).Str("amount", amountIn.String()).Logger()

	hash, err := e.approver.Approve(ctx, tokenIn, e.router.Address(), new(big.Int).Set(amountIn))
	if err != nil {
		e.metrics.Approval("failed")
		log.Error().Err(err).Msg("approval failed")
		return &Outcome{State: Failed, Error: err.Error()}, fmt.Errorf("%w: %w", ErrApprovalFailed, err)
	}

	e.metrics.Approval("success")
	log.Info().Str("tx", hash.Hex()).Msg("approval submitted")

	e.mu.Lock()
	cb := e.onApproved
	e.mu.Unlock()
	if cb != nil {
		cb(tokenIn)
	}
	return &Outcome{State: Success, TxHash: hash}, nil
}

// ExecuteSwap re-quotes req, then submits exactly one swap built from that
// fresh quote. The minimum output and deadline are never taken from an
// earlier quote.
func (e *SwapExecutor) ExecuteSwap(ctx context.Context, req QuoteRequest, gate GateResult) (*Outcome, error) {
	if !gate.ReadyToSwap() {
		return nil, fmt.Errorf("%w: balance %s, allowance %s", ErrSwapNotReady,
			gate.InsufficientBalance, gate.InsufficientAllowance)
	}
	if err := e.begin(Swapping); err != nil {
		return nil, err
	}
	defer e.finish()

	quote, err := e.quoter.Quote(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: re-quote: %w", ErrSwapNotReady, err)
	}
	if !quote.HasTrade() || quote.MinimumAmountOut == nil {
		return nil, fmt.Errorf("%w: no route for %s/%s", ErrSwapNotReady, req.TokenIn.Symbol, req.TokenOut.Symbol)
	}

	deadline := e.now().Add(e.timeLimit).Unix()
	call := entities.NewSwapCall(req.TokenIn, req.TokenOut, quote.Trade, quote.MinimumAmountOut, e.account, deadline)

	log := e.log.With().
		Str("kind", call.Kind.String()).
		Str("amountIn", call.AmountIn.String()).
		Str("amountOutMin", call.AmountOutMin.String()).
		Int64("deadline", deadline).
		Logger()

	hash, err := e.router.Swap(ctx, call)
	if err != nil {
		e.metrics.Swap(call.Kind.String(), "failed")
		log.Error().Err(err).Msg("swap failed")
		return &Outcome{State: Failed, Call: &call, Quote: quote, Error: err.Error()}, fmt.Errorf("%w: %w", ErrSwapFailed, err)
	}

	e.metrics.Swap(call.Kind.String(), "success")
	log.Info().Str("tx", hash.Hex()).Msg("swap submitted")
	return &Outcome{State: Success, TxHash: hash, Call: &call, Quote: quote}, nil
}
