package entities

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Percent is an exact fraction Numerator/Denominator in [0, 1]. Slippage is
// kept rational so the quoted and submitted minimum outputs agree exactly.
type Percent struct {
	Numerator   *big.Int `json:"numerator"`
	Denominator *big.Int `json:"denominator"`
}

// DefaultSlippage is 0.5%.
var DefaultSlippage = NewPercent(50, 10000)

// NewPercent builds the fraction num/den.
func NewPercent(num, den int64) Percent {
	return Percent{Numerator: big.NewInt(num), Denominator: big.NewInt(den)}
}

// PercentFromBps converts basis points (50 = 0.5%).
func PercentFromBps(bps uint64) Percent {
	return Percent{
		Numerator:   new(big.Int).SetUint64(bps),
		Denominator: big.NewInt(10000),
	}
}

// ParsePercent parses a human percentage such as "0.5" (meaning 0.5%).
func ParsePercent(s string) (Percent, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Percent{}, fmt.Errorf("%w: %q", ErrInvalidPercent, s)
	}

	r := d.Rat()
	r.Quo(r, big.NewRat(100, 1))
	p := Percent{
		Numerator:   new(big.Int).Set(r.Num()),
		Denominator: new(big.Int).Set(r.Denom()),
	}
	if err := p.Validate(); err != nil {
		return Percent{}, err
	}
	return p, nil
}

// Validate checks 0 <= p <= 1 with a positive denominator.
func (p Percent) Validate() error {
	if p.Numerator == nil || p.Denominator == nil || p.Denominator.Sign() <= 0 {
		return fmt.Errorf("%w: missing or non-positive denominator", ErrInvalidPercent)
	}
	if p.Numerator.Sign() < 0 || p.Numerator.Cmp(p.Denominator) > 0 {
		return fmt.Errorf("%w: %s/%s outside [0, 1]", ErrInvalidPercent, p.Numerator, p.Denominator)
	}
	return nil
}

// IsZero reports whether the fraction is zero.
func (p Percent) IsZero() bool {
	return p.Numerator == nil || p.Numerator.Sign() == 0
}

// ApplyDiscount returns floor(amount * (1 - p)).
func (p Percent) ApplyDiscount(amount *big.Int) *big.Int {
	if amount == nil {
		return nil
	}
	if p.IsZero() {
		return new(big.Int).Set(amount)
	}
	keep := new(big.Int).Sub(p.Denominator, p.Numerator)
	out := new(big.Int).Mul(amount, keep)
	return out.Quo(out, p.Denominator)
}

// String renders the fraction as a percentage, e.g. "0.5%".
func (p Percent) String() string {
	if p.Numerator == nil || p.Denominator == nil || p.Denominator.Sign() == 0 {
		return "0%"
	}
	d := decimal.NewFromBigInt(p.Numerator, 2).Div(decimal.NewFromBigInt(p.Denominator, 0))
	return d.String() + "%"
}
