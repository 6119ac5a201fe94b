package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
	"github.com/gonzalo10/uniswap-interface/internal/infrastructure/dex"
)

// Tristate is a boolean that may not be known yet
type Tristate int

const (
	Unknown Tristate = iota
	True
	False
)

// TristateOf converts a resolved boolean
func TristateOf(b bool) Tristate {
	if b {
		return True
	}
	return False
}

func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// MarshalJSON renders Unknown as null
func (t Tristate) MarshalJSON() ([]byte, error) {
	if t == Unknown {
		return []byte("null"), nil
	}
	return []byte(t.String()), nil
}

// AllowanceState is the last read of the account for the input token.
// A nil field has not been read yet. Allowance stays nil for native tokens.
type AllowanceState struct {
	Balance   *big.Int `json:"balance"`
	Allowance *big.Int `json:"allowance"`
}

// GateResult says whether the account can cover amountIn
type GateResult struct {
	InsufficientBalance   Tristate `json:"insufficientBalance"`
	InsufficientAllowance Tristate `json:"insufficientAllowance"`
}

// NeedsApproval reports whether an approval must come before the swap
func (g GateResult) NeedsApproval() bool {
	return g.InsufficientAllowance == True
}

// ReadyToSwap reports whether both checks are known to pass
func (g GateResult) ReadyToSwap() bool {
	return g.InsufficientAllowance == False && g.InsufficientBalance == False
}

// Evaluate gates a swap of amountIn of tokenIn. Native input never needs an
// allowance. A nil amountIn leaves the token-dependent checks unknown.
func Evaluate(tokenIn entities.Token, amountIn *big.Int, state AllowanceState) GateResult {
	var res GateResult

	if amountIn != nil && state.Balance != nil {
		res.InsufficientBalance = TristateOf(state.Balance.Cmp(amountIn) < 0)
	}

	switch {
	case tokenIn.IsNative():
		res.InsufficientAllowance = False
	case amountIn != nil && state.Allowance != nil:
		res.InsufficientAllowance = TristateOf(state.Allowance.Cmp(amountIn) < 0)
	}
	return res
}

// AllowanceService reads the account state the gate needs
type AllowanceService struct {
	reader  dex.AccountReader
	spender common.Address
	log     zerolog.Logger
}

// NewAllowanceService creates a service reading allowances granted to spender
func NewAllowanceService(reader dex.AccountReader, spender common.Address, log zerolog.Logger) *AllowanceService {
	return &AllowanceService{
		reader:  reader,
		spender: spender,
		log:     log,
	}
}

// Fetch reads owner's balance of token and, for non-native tokens, the
// allowance granted to the spender.
func (s *AllowanceService) Fetch(ctx context.Context, owner common.Address, token entities.Token) (AllowanceState, error) {
	balance, err := s.reader.BalanceOf(ctx, token, owner)
	if err != nil {
		return AllowanceState{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	state := AllowanceState{Balance: balance}
	if token.IsNative() {
		return state, nil
	}

	allowance, err := s.reader.Allowance(ctx, token, owner, s.spender)
	if err != nil {
		return AllowanceState{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	state.Allowance = allowance

	s.log.Debug().
		Str("token", token.Symbol).
		Str("balance", balance.String()).
		Str("allowance", allowance.String()).
		Msg("account state read")
	return state, nil
}
