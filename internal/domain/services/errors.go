package services

import (
	"errors"

	"github.com/gonzalo10/uniswap-interface/internal/infrastructure/ethereum"
)

var (
	ErrIdenticalTokens     = errors.New("input and output tokens are identical")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrApprovalFailed      = errors.New("approval failed")
	ErrSwapFailed          = errors.New("swap failed")
	ErrSwapNotReady        = errors.New("swap not ready")
	ErrApprovalNotNeeded   = errors.New("approval not needed")
	ErrExecutorBusy        = errors.New("another approval or swap is in flight")
	ErrUnknownToken        = errors.New("unknown token")

	// ErrNoSigner is re-exported so callers need not import the provider package.
	ErrNoSigner = ethereum.ErrNoSigner
)
