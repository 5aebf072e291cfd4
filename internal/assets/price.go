package assets

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// maxDisplayDecimals caps the fractional digits shown for a price.
const maxDisplayDecimals = 6

// Price mirrors the oracle's PythStructs.Price tuple. Field names match the ABI
// component names so abi.ConvertType can fill it directly.
type Price struct {
	Price       int64
	Conf        uint64
	Expo        int32
	PublishTime *big.Int
}

// Value is the human-readable price string.
func (p Price) Value() string {
	return FormatPrice(big.NewInt(p.Price), p.Expo)
}

// Confidence is the uncertainty band, scaled like the price.
func (p Price) Confidence() string {
	return FormatPrice(new(big.Int).SetUint64(p.Conf), p.Expo)
}

// Published converts the unix-seconds publish time.
func (p Price) Published() time.Time {
	if p.PublishTime == nil {
		return time.Unix(0, 0).UTC()
	}
	return time.Unix(p.PublishTime.Int64(), 0).UTC()
}

// FormatPrice scales an integer price by 10^expo and renders at most six decimals.
func FormatPrice(price *big.Int, expo int32) string {
	places := int32(0)
	if expo < 0 {
		places = -expo
		if places > maxDisplayDecimals {
			places = maxDisplayDecimals
		}
	}
	return decimal.NewFromBigInt(price, expo).StringFixed(places)
}
