package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// EventKind enumerates the events the CLIs recognise.
type EventKind int

const (
	KindBuyRequested EventKind = iota + 1
	KindSellRequested
	KindWithdrawExecuted
	KindPriceUpdateFailed
)

func (k EventKind) String() string {
	switch k {
	case KindBuyRequested:
		return "BuyRequested"
	case KindSellRequested:
		return "SellRequested"
	case KindWithdrawExecuted:
		return "WithdrawExecuted"
	case KindPriceUpdateFailed:
		return "PriceUpdateFailed"
	default:
		return "Unknown"
	}
}

// Event is one decoded escrow event. The set of implementations is closed.
type Event interface {
	Kind() EventKind
}

// BuyRequested field names follow the ABI argument names so UnpackLog can fill them.
type BuyRequested struct {
	User       common.Address
	AmountHbar *big.Int
	Prices     [4]*big.Int
	Weights    [3]*big.Int
}

type SellRequested struct {
	User       common.Address
	AmountHbar *big.Int
	Prices     [4]*big.Int
}

type WithdrawExecuted struct {
	User       common.Address
	PayoutHbar *big.Int
}

type PriceUpdateFailed struct {
	Reason string
}

func (*BuyRequested) Kind() EventKind      { return KindBuyRequested }
func (*SellRequested) Kind() EventKind     { return KindSellRequested }
func (*WithdrawExecuted) Kind() EventKind  { return KindWithdrawExecuted }
func (*PriceUpdateFailed) Kind() EventKind { return KindPriceUpdateFailed }

// FindEvent returns the first event of kind k.
func FindEvent(events []Event, k EventKind) (Event, bool) {
	for _, ev := range events {
		if ev.Kind() == k {
			return ev, true
		}
	}
	return nil, false
}
