// Package oracle binds the AllWeatherPriceOracle contract.
package oracle

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

type Contract struct {
	*contracts.Binding
}

// New binds the oracle at address. transacts may be nil for read-only use.
func New(address common.Address, backend bind.ContractBackend, transacts *bind.TransactOpts) (*Contract, error) {
	if address == (common.Address{}) {
		return nil, fmt.Errorf("oracle address is required")
	}
	b, err := contracts.NewBinding(address, contracts.OracleABI, backend, transacts)
	if err != nil {
		return nil, err
	}
	return &Contract{Binding: b}, nil
}

// UpdateFee quotes the fee the oracle charges to apply updates.
func (c *Contract) UpdateFee(ctx context.Context, updates [][]byte) (*big.Int, error) {
	out, err := c.Read(ctx, "getUpdateFee", updates)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// CurrentPrices returns the stored prices in contract order without updating them.
func (c *Contract) CurrentPrices(ctx context.Context) ([assets.Count]assets.Price, error) {
	out, err := c.Read(ctx, "getCurrentPrices")
	if err != nil {
		return [assets.Count]assets.Price{}, err
	}
	return *abi.ConvertType(out[0], new([assets.Count]assets.Price)).(*[assets.Count]assets.Price), nil
}

// AssetPrice returns the stored price for a single asset.
func (c *Contract) AssetPrice(ctx context.Context, id assets.ID) (assets.Price, error) {
	out, err := c.Read(ctx, "getAssetPrice", new(big.Int).SetUint64(uint64(id)))
	if err != nil {
		return assets.Price{}, err
	}
	return *abi.ConvertType(out[0], new(assets.Price)).(*assets.Price), nil
}
