// Package chain wraps the EVM JSON-RPC calls the CLIs need: balances, fee data,
// gas estimation and receipt polling.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

// Backend is the subset of ethclient.Client used here.
type Backend interface {
	bind.ContractBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Client is the chain read/write capability shared by both CLIs.
type Client struct {
	backend      Backend
	closer       func()
	pollInterval time.Duration
	log          zerolog.Logger
}

// FeeRate is the network fee data. BaseFee and the EIP-1559 pair are nil on legacy networks.
type FeeRate struct {
	GasPrice             *big.Int
	BaseFee              *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// SupportsEIP1559 reports whether the node returned a base fee.
func (f FeeRate) SupportsEIP1559() bool {
	return f.MaxFeePerGas != nil && f.MaxPriorityFeePerGas != nil
}

// NetworkInfo summarises the chain and its latest block.
type NetworkInfo struct {
	ChainID     *big.Int
	BlockNumber uint64
	GasLimit    uint64
	GasUsed     uint64
}

// Utilisation is the latest block's gas used as a percentage of its limit.
func (n NetworkInfo) Utilisation() float64 {
	if n.GasLimit == 0 {
		return 0
	}
	return float64(n.GasUsed) / float64(n.GasLimit) * 100
}

// Dial connects to an RPC endpoint.
func Dial(ctx context.Context, rpcURL string, pollInterval time.Duration, log zerolog.Logger) (*Client, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	cli, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	c := NewClient(cli, pollInterval, log)
	c.closer = cli.Close
	return c, nil
}

// NewClient wraps an existing backend.
func NewClient(backend Backend, pollInterval time.Duration, log zerolog.Logger) *Client {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Client{
		backend:      backend,
		pollInterval: pollInterval,
		log:          log.With().Str("component", "chain").Logger(),
	}
}

func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

// Backend exposes the raw backend for contract bindings.
func (c *Client) Backend() Backend {
	return c.backend
}

func (c *Client) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	bal, err := c.backend.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return bal, nil
}

// FeeRate mirrors what wallets report: the legacy gas price plus, when the
// latest header carries a base fee, maxFee = 2*baseFee + tip.
func (c *Client) FeeRate(ctx context.Context) (FeeRate, error) {
	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return FeeRate{}, fmt.Errorf("suggest gas price: %w", err)
	}
	rate := FeeRate{GasPrice: gasPrice}

	head, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return FeeRate{}, fmt.Errorf("latest header: %w", err)
	}
	if head.BaseFee == nil {
		return rate, nil
	}

	tip, err := c.backend.SuggestGasTipCap(ctx)
	if err != nil {
		c.log.Debug().Err(err).Msg("Tip cap unavailable, reporting legacy fee data only")
		return rate, nil
	}
	rate.BaseFee = head.BaseFee
	rate.MaxPriorityFeePerGas = tip
	rate.MaxFeePerGas = new(big.Int).Add(new(big.Int).Mul(head.BaseFee, big.NewInt(2)), tip)
	return rate, nil
}

func (c *Client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return c.backend.EstimateGas(ctx, msg)
}

func (c *Client) Network(ctx context.Context) (NetworkInfo, error) {
	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return NetworkInfo{}, fmt.Errorf("fetch chain id: %w", err)
	}
	head, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return NetworkInfo{}, fmt.Errorf("latest header: %w", err)
	}
	return NetworkInfo{
		ChainID:     chainID,
		BlockNumber: head.Number.Uint64(),
		GasLimit:    head.GasLimit,
		GasUsed:     head.GasUsed,
	}, nil
}

// WaitForReceipt polls until the transaction is mined or the context is cancelled.
func (c *Client) WaitForReceipt(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, tx.Hash())
		if receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}
		c.log.Debug().Str("tx", tx.Hash().Hex()).Msg("Receipt not available yet")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
