package chain

import "math/big"

const (
	// GasPriceBufferPercent is added to the network gas price on submission.
	GasPriceBufferPercent = 10
	// GasLimitBufferPercent is added to estimates for calls that carry price updates.
	GasLimitBufferPercent = 20
	// DefaultFallbackGasLimit is used when estimation fails.
	DefaultFallbackGasLimit uint64 = 500000
)

// BufferGasPrice returns price * (100 + GasPriceBufferPercent) / 100.
func BufferGasPrice(price *big.Int) *big.Int {
	if price == nil {
		return nil
	}
	out := new(big.Int).Mul(price, big.NewInt(100+GasPriceBufferPercent))
	return out.Div(out, big.NewInt(100))
}

// BufferGasLimit returns gas * (100 + GasLimitBufferPercent) / 100.
func BufferGasLimit(gas uint64) uint64 {
	return gas * (100 + GasLimitBufferPercent) / 100
}
