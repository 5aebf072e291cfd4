package assets

import "fmt"

// Weights is the percentage allocation across S&P, bonds and gold for a buy.
type Weights [3]uint64

// DefaultWeights is the 40/40/20 split used when a buy names no allocation.
var DefaultWeights = Weights{40, 40, 20}

func (w Weights) Sum() uint64 {
	return w[0] + w[1] + w[2]
}

// Validate requires the weights to sum to exactly 100.
func (w Weights) Validate() error {
	for _, v := range w {
		if v > 100 {
			return fmt.Errorf("weight %d exceeds 100", v)
		}
	}
	if sum := w.Sum(); sum != 100 {
		return fmt.Errorf("weights must sum to 100, got %d", sum)
	}
	return nil
}

func (w Weights) String() string {
	return fmt.Sprintf("S&P %d%%, Bonds %d%%, Gold %d%%", w[0], w[1], w[2])
}
