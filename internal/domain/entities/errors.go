package entities

import "errors"

var (
	// ErrInvalidAmount indicates a human amount that is empty, non-numeric or negative.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidPercent indicates a slippage fraction outside [0, 1].
	ErrInvalidPercent = errors.New("invalid percent")
)
