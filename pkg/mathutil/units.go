package mathutil

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxUint256 is the biggest amount an asset leg can carry.
var MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ParseUnits converts a decimal amount expressed in whole units into base
// units, given the number of decimals of the asset (ie. "1.5" with 18
// decimals is 1500000000000000000).
func ParseUnits(value string, decimals int32) (*big.Int, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("decimals must not be negative")
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("amount %q must not be negative", value)
	}

	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf(
			"amount %q has more than %d decimal places", value, decimals,
		)
	}

	amount := scaled.BigInt()
	if amount.Cmp(MaxUint256) > 0 {
		return nil, fmt.Errorf("amount %q overflows 256 bits", value)
	}
	return amount, nil
}

// FormatUnits is the inverse of ParseUnits.
func FormatUnits(amount *big.Int, decimals int32) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -decimals).String()
}

// ParseInteger parses a non-negative integer amount in base units, either in
// decimal or 0x-prefixed hex notation.
func ParseInteger(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		n, ok := new(big.Int).SetString(value[2:], 16)
		if !ok {
			return nil, fmt.Errorf("invalid hex amount %q", value)
		}
		if n.Cmp(MaxUint256) > 0 {
			return nil, fmt.Errorf("amount %q overflows 256 bits", value)
		}
		return n, nil
	}
	return ParseUnits(value, 0)
}

// ParseIntegerOrZero is like ParseInteger but an empty value is zero.
func ParseIntegerOrZero(value string) (*big.Int, error) {
	if strings.TrimSpace(value) == "" {
		return big.NewInt(0), nil
	}
	return ParseInteger(value)
}
