// Package utils holds small helpers shared across the settlement layer:
// price conversion and configuration validation.
package utils

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/picopay/bitserv/types"
)

var satoshisPerCoin = decimal.NewFromInt(1e8)

// ParseBTC converts a decimal bitcoin amount string ("0.0001") into
// satoshis. Negative amounts, sub-satoshi precision and values outside the
// int64 range are rejected.
func ParseBTC(amount string) (types.Price, error) {
	if amount == "" {
		return 0, fmt.Errorf("amount cannot be empty")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount format: %w", err)
	}
	if dec.IsNegative() {
		return 0, fmt.Errorf("amount cannot be negative")
	}

	sats := dec.Mul(satoshisPerCoin)
	if !sats.IsInteger() {
		return 0, fmt.Errorf("amount %s is below satoshi precision", amount)
	}
	if sats.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, fmt.Errorf("amount %s overflows the price range", amount)
	}

	return types.Price(sats.IntPart()), nil
}

// FormatBTC renders a satoshi price as a decimal bitcoin string.
func FormatBTC(price types.Price) string {
	return decimal.NewFromInt(int64(price)).Div(satoshisPerCoin).String()
}
