// Package assets holds the fixed table of instruments tracked by the all-weather basket
// and the price representation the oracle contract returns for them.
package assets

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ID indexes one of the four tracked instruments, in contract order.
type ID uint8

const (
	SP500 ID = iota
	Bonds
	Gold
	Native

	Count = 4
)

// FeedID is the 32-byte Pyth price feed identifier.
type FeedID [32]byte

func (f FeedID) Hex() string {
	return hexutil.Encode(f[:])
}

func (f FeedID) String() string {
	return f.Hex()
}

// ParseFeedID accepts a feed id with or without the 0x prefix.
func ParseFeedID(s string) (FeedID, error) {
	var id FeedID
	b := common.FromHex(s)
	if len(b) != len(id) {
		return id, fmt.Errorf("feed id %q must be 32 bytes", s)
	}
	copy(id[:], b)
	return id, nil
}

// Asset describes one instrument.
type Asset struct {
	ID          ID
	Name        string
	Description string
	Feed        FeedID
}

var table = [Count]Asset{
	{ID: SP500, Name: "VOO", Description: "Vanguard S&P 500 ETF",
		Feed: mustFeed("0x236b30dd09a9c00dfeec156c7b1efd646c0f01825a1758e3e4a0679e3bdff179")},
	{ID: Bonds, Name: "LQD", Description: "iShares iBoxx Investment Grade Corporate Bond ETF",
		Feed: mustFeed("0xe4ff71a60c3d5d5d37c1bba559c2e92745c1501ebd81a97d150cf7cd5119aa9c")},
	{ID: Gold, Name: "Gold", Description: "Gold (XAU/USD)",
		Feed: mustFeed("0x765d2ba906dbc32ca17cc11f5310a89e9ee1f6420508c63861f2f8ba4ee34bb2")},
	{ID: Native, Name: "HBAR", Description: "Hedera Hashgraph",
		Feed: mustFeed("0x3728e591097635310e6341af53db8b7ee42da9b3a8d918f9463ce9cca886dfbd")},
}

// All returns the tracked instruments in contract order.
func All() []Asset {
	out := make([]Asset, len(table))
	copy(out, table[:])
	return out
}

// Lookup returns the asset for an index, reporting false outside [0,3].
func Lookup(index int) (Asset, bool) {
	if index < 0 || index >= Count {
		return Asset{}, false
	}
	return table[index], true
}

// FeedIDs returns the feed ids of every tracked instrument, in contract order.
func FeedIDs() []FeedID {
	ids := make([]FeedID, 0, len(table))
	for _, a := range table {
		ids = append(ids, a.Feed)
	}
	return ids
}

func mustFeed(s string) FeedID {
	id, err := ParseFeedID(s)
	if err != nil {
		panic(err)
	}
	return id
}
