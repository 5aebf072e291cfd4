// Package contracts holds the ABI definitions of the all-weather contracts and a thin
// typed layer over go-ethereum's bound contract.
package contracts

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrReadOnly is returned when a transaction is requested without a configured signer.
var ErrReadOnly = errors.New("contract binding is read-only: no private key configured")

// Call names a contract entry point and its arguments. An empty Method is a plain value transfer.
type Call struct {
	Method string
	Args   []interface{}
}

// TxRequest is built fresh for every submission.
type TxRequest struct {
	Call     Call
	Value    *big.Int
	GasLimit uint64
	GasPrice *big.Int
}

// Binding wraps a deployed contract.
type Binding struct {
	address   common.Address
	abi       abi.ABI
	contract  *bind.BoundContract
	transacts *bind.TransactOpts
}

// NewBinding parses rawABI and binds it at address. transacts may be nil for read-only use.
func NewBinding(address common.Address, rawABI string, backend bind.ContractBackend, transacts *bind.TransactOpts) (*Binding, error) {
	parsedABI, err := abi.JSON(strings.NewReader(rawABI))
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}
	return &Binding{
		address:   address,
		abi:       parsedABI,
		contract:  bind.NewBoundContract(address, parsedABI, backend, backend, backend),
		transacts: transacts,
	}, nil
}

func (b *Binding) Address() common.Address {
	return b.address
}

// Pack returns the calldata for call; a value transfer has none.
func (b *Binding) Pack(call Call) ([]byte, error) {
	if call.Method == "" {
		return nil, nil
	}
	data, err := b.abi.Pack(call.Method, call.Args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", call.Method, err)
	}
	return data, nil
}

// Read performs an eth_call and returns the unpacked outputs.
func (b *Binding) Read(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	var out []interface{}
	if err := b.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	return out, nil
}

// Send signs and broadcasts req with exactly the value, gas limit and gas price it carries.
func (b *Binding) Send(ctx context.Context, req TxRequest) (*types.Transaction, error) {
	if b.transacts == nil {
		return nil, ErrReadOnly
	}

	opts := *b.transacts
	opts.Context = ctx
	opts.Value = req.Value
	opts.GasLimit = req.GasLimit
	opts.GasPrice = req.GasPrice

	if req.Call.Method == "" {
		tx, err := b.contract.Transfer(&opts)
		if err != nil {
			return nil, fmt.Errorf("transfer tx: %w", err)
		}
		return tx, nil
	}

	tx, err := b.contract.Transact(&opts, req.Call.Method, req.Call.Args...)
	if err != nil {
		return nil, fmt.Errorf("%s tx: %w", req.Call.Method, err)
	}
	return tx, nil
}

// DecodeEvent matches log against the known event schemas. Logs emitted by other
// contracts, unknown topics and undecodable payloads report false.
func (b *Binding) DecodeEvent(log types.Log) (Event, bool) {
	if log.Address != b.address || len(log.Topics) == 0 {
		return nil, false
	}
	ev, err := b.abi.EventByID(log.Topics[0])
	if err != nil {
		return nil, false
	}

	var out Event
	switch ev.Name {
	case "BuyRequested":
		out = new(BuyRequested)
	case "SellRequested":
		out = new(SellRequested)
	case "WithdrawExecuted":
		out = new(WithdrawExecuted)
	case "PriceUpdateFailed":
		out = new(PriceUpdateFailed)
	default:
		return nil, false
	}
	if err := b.contract.UnpackLog(out, ev.Name, log); err != nil {
		return nil, false
	}
	return out, true
}

// DecodeEvents decodes every recognised log in order.
func (b *Binding) DecodeEvents(logs []*types.Log) []Event {
	var events []Event
	for _, l := range logs {
		if l == nil {
			continue
		}
		if ev, ok := b.DecodeEvent(*l); ok {
			events = append(events, ev)
		}
	}
	return events
}
