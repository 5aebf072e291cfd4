package workflow

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"allweather/internal/assets"
	"allweather/internal/contracts"
)

// Operation is one of the on-chain actions the workflow drives.
type Operation int

const (
	OpBuy Operation = iota + 1
	OpSell
	OpWithdraw
	OpPriceUpdate
	OpTopUp
)

func (o Operation) String() string {
	switch o {
	case OpBuy:
		return "buy"
	case OpSell:
		return "sell"
	case OpWithdraw:
		return "withdraw"
	case OpPriceUpdate:
		return "update"
	case OpTopUp:
		return "topup"
	default:
		return "unknown"
	}
}

// NeedsAttestations reports whether the operation carries price updates.
func (o Operation) NeedsAttestations() bool {
	return o == OpBuy || o == OpSell || o == OpPriceUpdate
}

// ExpectedEvent is the success event the operation's receipt should carry.
func (o Operation) ExpectedEvent() (contracts.EventKind, bool) {
	switch o {
	case OpBuy:
		return contracts.KindBuyRequested, true
	case OpSell:
		return contracts.KindSellRequested, true
	case OpWithdraw:
		return contracts.KindWithdrawExecuted, true
	default:
		return 0, false
	}
}

// Request describes one invocation. Amount is the buy principal, the sell amount,
// the withdraw payout or the top-up value, all in wei.
type Request struct {
	Op        Operation
	Amount    *big.Int
	Weights   assets.Weights
	Recipient common.Address
}

func Buy(principal *big.Int, weights assets.Weights) Request {
	return Request{Op: OpBuy, Amount: principal, Weights: weights}
}

func Sell(amount *big.Int) Request {
	return Request{Op: OpSell, Amount: amount}
}

func Withdraw(recipient common.Address, payout *big.Int) Request {
	return Request{Op: OpWithdraw, Amount: payout, Recipient: recipient}
}

func PriceUpdate() Request {
	return Request{Op: OpPriceUpdate}
}

func TopUp(amount *big.Int) Request {
	return Request{Op: OpTopUp, Amount: amount}
}

// validate runs the local checks that need no network access.
func (r Request) validate() error {
	switch r.Op {
	case OpBuy:
		if err := positive("buy amount", r.Amount); err != nil {
			return err
		}
		if err := r.Weights.Validate(); err != nil {
			return Invalid("%v", err)
		}
	case OpSell:
		return positive("sell amount", r.Amount)
	case OpWithdraw:
		if r.Recipient == (common.Address{}) {
			return Invalid("withdraw recipient is required")
		}
		return positive("payout amount", r.Amount)
	case OpTopUp:
		return positive("top-up amount", r.Amount)
	case OpPriceUpdate:
	default:
		return Invalid("unknown operation %d", int(r.Op))
	}
	return nil
}

// call maps the request onto the contract entry point it submits.
func (r Request) call(updates [][]byte) contracts.Call {
	switch r.Op {
	case OpBuy:
		return contracts.BuyCall(updates, r.Weights)
	case OpSell:
		return contracts.SellCall(r.Amount, updates)
	case OpWithdraw:
		return contracts.WithdrawCall(r.Recipient, r.Amount)
	case OpPriceUpdate:
		return contracts.UpdateAndGetPricesCall(updates)
	default:
		return contracts.TransferCall()
	}
}

func positive(name string, v *big.Int) error {
	if v == nil || v.Sign() <= 0 {
		return Invalid("%s must be greater than zero", name)
	}
	return nil
}
