package assets

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	a, ok := Lookup(2)
	require.True(t, ok)
	assert.Equal(t, "Gold", a.Name)
	assert.Equal(t, "0x765d2ba906dbc32ca17cc11f5310a89e9ee1f6420508c63861f2f8ba4ee34bb2", a.Feed.Hex())

	for _, idx := range []int{-1, 4, 5} {
		_, ok := Lookup(idx)
		assert.False(t, ok, idx)
	}
}

func TestFeedIDsFollowTableOrder(t *testing.T) {
	ids := FeedIDs()
	require.Len(t, ids, Count)
	for i, a := range All() {
		assert.Equal(t, a.Feed, ids[i])
		assert.Equal(t, ID(i), a.ID)
	}
}

func TestParseFeedID(t *testing.T) {
	withPrefix, err := ParseFeedID("0x3728e591097635310e6341af53db8b7ee42da9b3a8d918f9463ce9cca886dfbd")
	require.NoError(t, err)
	bare, err := ParseFeedID("3728e591097635310e6341af53db8b7ee42da9b3a8d918f9463ce9cca886dfbd")
	require.NoError(t, err)
	assert.Equal(t, withPrefix, bare)

	_, err = ParseFeedID("0x1234")
	assert.Error(t, err)
}

func TestWeightsValidate(t *testing.T) {
	for a := uint64(0); a <= 100; a += 5 {
		for b := uint64(0); a+b <= 100; b += 5 {
			w := Weights{a, b, 100 - a - b}
			assert.NoError(t, w.Validate(), w)
		}
	}

	for _, w := range []Weights{{40, 40, 40}, {0, 0, 0}, {33, 33, 33}, {101, 0, 0}, {50, 50, 1}} {
		assert.Error(t, w.Validate(), w)
	}
	assert.NoError(t, DefaultWeights.Validate())
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "12.3456", FormatPrice(big.NewInt(123456), -4))
	assert.Equal(t, "0.000000", FormatPrice(big.NewInt(1), -10))
	assert.Equal(t, "-12.3456", FormatPrice(big.NewInt(-123456), -4))
	assert.Equal(t, "500", FormatPrice(big.NewInt(5), 2))
	assert.Equal(t, "612.345679", FormatPrice(big.NewInt(61234567890), -8))
}

func TestPriceAccessors(t *testing.T) {
	p := Price{Price: 6123456789, Conf: 2500000, Expo: -8, PublishTime: big.NewInt(1_700_000_000)}
	assert.Equal(t, "61.234568", p.Value())
	assert.Equal(t, "0.025000", p.Confidence())
	assert.Equal(t, time.Unix(1_700_000_000, 0).UTC(), p.Published())
}
