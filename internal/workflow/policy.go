package workflow

import (
	"fmt"
	"math/big"

	"allweather/internal/chain"
	"allweather/internal/units"
)

// ClampFee raises a fee below the network's minimum non-zero value to that minimum.
func ClampFee(fee, minValue *big.Int) *big.Int {
	if fee == nil {
		fee = new(big.Int)
	}
	if minValue != nil && fee.Cmp(minValue) < 0 {
		return new(big.Int).Set(minValue)
	}
	return new(big.Int).Set(fee)
}

// TotalValue is the value attached to the transaction.
func TotalValue(op Operation, amount, fee *big.Int) *big.Int {
	switch op {
	case OpBuy:
		return new(big.Int).Add(amount, fee)
	case OpSell, OpPriceUpdate:
		return new(big.Int).Set(fee)
	case OpTopUp:
		return new(big.Int).Set(amount)
	default:
		return new(big.Int)
	}
}

// CheckFunds fails with ErrInsufficientFunds unless available >= required.
func CheckFunds(available, required *big.Int) error {
	if available == nil {
		available = new(big.Int)
	}
	if available.Cmp(required) < 0 {
		return fmt.Errorf("%w: need %s, have %s", ErrInsufficientFunds,
			units.FormatEther(required), units.FormatEther(available))
	}
	return nil
}

// GasLimit collapses an estimate-or-error into the limit to submit with. Calls that
// carry price updates get the larger buffer; a failed estimate uses the fallback.
func GasLimit(op Operation, estimate uint64, estimateErr error, fallback uint64) uint64 {
	if estimateErr != nil {
		return fallback
	}
	if op.NeedsAttestations() {
		return chain.BufferGasLimit(estimate)
	}
	return estimate
}
