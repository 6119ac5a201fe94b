package entities

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// DisplayDigits is the number of significant digits kept for display.
const DisplayDigits int32 = 6

const (
	// maxAmountLen bounds the accepted amount text
	maxAmountLen = 128
	// maxUint256Digits is the number of decimal digits of 2^256-1
	maxUint256Digits = 78
)

// ToBaseUnits scales a human-readable amount by 10^decimals, truncating
// toward zero. Rounding up could spend more than the user typed.
func ToBaseUnits(human string, decimals uint8) (*big.Int, error) {
	human = strings.TrimSpace(human)
	if human == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if len(human) > maxAmountLen {
		return nil, fmt.Errorf("%w: longer than %d characters", ErrInvalidAmount, maxAmountLen)
	}

	d, err := decimal.NewFromString(human)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, human)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, human)
	}

	if d.IsZero() {
		return new(big.Int), nil
	}

	// integer digits once scaled, checked before the value is materialized
	intDigits := int64(d.NumDigits()) + int64(d.Exponent()) + int64(decimals)
	if intDigits > maxUint256Digits {
		return nil, fmt.Errorf("%w: %q does not fit in uint256", ErrInvalidAmount, human)
	}
	if intDigits <= 0 {
		return new(big.Int), nil
	}

	base := d.Shift(int32(decimals)).Truncate(0).BigInt()
	if base.BitLen() > 256 {
		return nil, fmt.Errorf("%w: %q does not fit in uint256", ErrInvalidAmount, human)
	}
	return base, nil
}

// ToHumanUnits is the exact inverse of ToBaseUnits.
func ToHumanUnits(base *big.Int, decimals uint8) decimal.Decimal {
	if base == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(base, -int32(decimals))
}

// FormatSignificant rounds d to the given number of significant digits.
func FormatSignificant(d decimal.Decimal, digits int32) string {
	if d.IsZero() {
		return "0"
	}
	// power of ten of the leading digit
	lead := int32(d.NumDigits()) + d.Exponent() - 1
	return d.Round(digits - 1 - lead).String()
}

// FormatUnits renders a base-unit amount for display.
func FormatUnits(base *big.Int, decimals uint8) string {
	return FormatSignificant(ToHumanUnits(base, decimals), DisplayDigits)
}
