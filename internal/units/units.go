// Package units converts between wei and the decimal ether/gwei strings used on the command line.
package units

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	etherDecimals = 18
	gweiDecimals  = 9
)

// ParseEther converts a decimal ether amount such as "0.1" to wei.
func ParseEther(amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("amount must not be negative: %s", amount)
	}
	wei := d.Shift(etherDecimals)
	if !wei.IsInteger() {
		return nil, fmt.Errorf("amount %s has more than %d decimals", amount, etherDecimals)
	}
	return wei.BigInt(), nil
}

// FormatEther renders wei as a trimmed decimal ether string.
func FormatEther(wei *big.Int) string {
	return format(wei, etherDecimals)
}

// FormatGwei renders wei as a trimmed decimal gwei string.
func FormatGwei(wei *big.Int) string {
	return format(wei, gweiDecimals)
}

func format(wei *big.Int, decimals int32) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -decimals).String()
}
