// Package escrow binds the AllWeatherEscrow contract.
package escrow

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"allweather/internal/assets"
	"allweather/internal/contracts"
)

// Contract is the escrow binding. Submission and event decoding come from the embedded binding.
type Contract struct {
	*contracts.Binding
}

// New binds the escrow at address. transacts may be nil for read-only use.
func New(address common.Address, backend bind.ContractBackend, transacts *bind.TransactOpts) (*Contract, error) {
	if address == (common.Address{}) {
		return nil, fmt.Errorf("escrow address is required")
	}
	b, err := contracts.NewBinding(address, contracts.EscrowABI, backend, transacts)
	if err != nil {
		return nil, err
	}
	return &Contract{Binding: b}, nil
}

func (c *Contract) Owner(ctx context.Context) (common.Address, error) {
	out, err := c.Read(ctx, "owner")
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// PriceOracle returns the oracle address the escrow was deployed against.
func (c *Contract) PriceOracle(ctx context.Context) (common.Address, error) {
	out, err := c.Read(ctx, "PRICE_ORACLE")
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// Aum is the assets under management in wei.
func (c *Contract) Aum(ctx context.Context) (*big.Int, error) {
	out, err := c.Read(ctx, "getAum")
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// LatestPrice is the last price the escrow cached for id.
func (c *Contract) LatestPrice(ctx context.Context, id assets.ID) (*big.Int, error) {
	out, err := c.Read(ctx, "latestPrices", new(big.Int).SetUint64(uint64(id)))
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// LatestPrices reads every cached price in contract order.
func (c *Contract) LatestPrices(ctx context.Context) ([assets.Count]*big.Int, error) {
	var prices [assets.Count]*big.Int
	for _, a := range assets.All() {
		p, err := c.LatestPrice(ctx, a.ID)
		if err != nil {
			return prices, fmt.Errorf("latest price %s: %w", a.Name, err)
		}
		prices[a.ID] = p
	}
	return prices, nil
}
