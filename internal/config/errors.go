package config

import "errors"

var (
	ErrMissingRPCURL   = errors.New("rpc url is required")
	ErrInvalidPort     = errors.New("port must be between 1 and 65535")
	ErrInvalidChainID  = errors.New("chain id must be positive")
	ErrInvalidAddress  = errors.New("invalid contract address")
	ErrInvalidSlippage = errors.New("invalid slippage percent")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrNoBaseTokens    = errors.New("at least one base token is required")
	ErrConfigFile      = errors.New("invalid config file")
)
