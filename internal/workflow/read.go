package workflow

import (
	"context"
	"strconv"
	"strings"

	"allweather/internal/assets"
)

// PriceReader reads a single stored oracle price.
type PriceReader interface {
	AssetPrice(ctx context.Context, id assets.ID) (assets.Price, error)
}

// ParseAssetIndex accepts a decimal index in [0,3].
func ParseAssetIndex(s string) (assets.Asset, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return assets.Asset{}, Invalid("asset index %q is not a number", s)
	}
	a, ok := assets.Lookup(i)
	if !ok {
		return assets.Asset{}, Invalid("asset index %d out of range, must be 0-%d", i, assets.Count-1)
	}
	return a, nil
}

// ReadAssetPrice validates index before touching the contract.
func ReadAssetPrice(ctx context.Context, r PriceReader, index string) (assets.Asset, assets.Price, error) {
	a, err := ParseAssetIndex(index)
	if err != nil {
		return assets.Asset{}, assets.Price{}, err
	}
	p, err := r.AssetPrice(ctx, a.ID)
	if err != nil {
		return a, assets.Price{}, err
	}
	return a, p, nil
}

// ParseWeights reads up to three optional percentages, defaulting each missing
// position. An explicit zero is kept.
func ParseWeights(args []string) (assets.Weights, error) {
	w := assets.DefaultWeights
	if len(args) > len(w) {
		return w, Invalid("at most %d weights may be given", len(w))
	}
	for i, s := range args {
		v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil || v > 100 {
			return w, Invalid("weight %q must be an integer between 0 and 100", s)
		}
		w[i] = v
	}
	if err := w.Validate(); err != nil {
		return w, Invalid("%v", err)
	}
	return w, nil
}
