package contracts

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allweather/internal/assets"
)

var (
	escrowAddr = common.HexToAddress("0x00000000000000000000000000000000006d0ba2")
	userAddr   = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

func mustABI(t *testing.T, raw string) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(raw))
	require.NoError(t, err)
	return parsed
}

func eventLog(t *testing.T, parsed abi.ABI, name string, indexed []common.Hash, args ...interface{}) types.Log {
	t.Helper()
	ev := parsed.Events[name]
	data, err := ev.Inputs.NonIndexed().Pack(args...)
	require.NoError(t, err)
	return types.Log{
		Address: escrowAddr,
		Topics:  append([]common.Hash{ev.ID}, indexed...),
		Data:    data,
	}
}

func bigs4(a, b, c, d int64) [4]*big.Int {
	return [4]*big.Int{big.NewInt(a), big.NewInt(b), big.NewInt(c), big.NewInt(d)}
}

func TestDecodeBuyRequested(t *testing.T) {
	parsed := mustABI(t, EscrowABI)
	b, err := NewBinding(escrowAddr, EscrowABI, nil, nil)
	require.NoError(t, err)

	weights := [3]*big.Int{big.NewInt(40), big.NewInt(40), big.NewInt(20)}
	log := eventLog(t, parsed, "BuyRequested",
		[]common.Hash{common.BytesToHash(userAddr.Bytes())},
		big.NewInt(1e17), bigs4(1, 2, 3, 4), weights)

	ev, ok := b.DecodeEvent(log)
	require.True(t, ok)
	buy, ok := ev.(*BuyRequested)
	require.True(t, ok)
	assert.Equal(t, userAddr, buy.User)
	assert.Equal(t, int64(1e17), buy.AmountHbar.Int64())
	assert.Equal(t, int64(3), buy.Prices[2].Int64())
	assert.Equal(t, int64(20), buy.Weights[2].Int64())
	assert.Equal(t, "BuyRequested", ev.Kind().String())
}

func TestDecodeSellWithdrawAndFailure(t *testing.T) {
	parsed := mustABI(t, EscrowABI)
	b, err := NewBinding(escrowAddr, EscrowABI, nil, nil)
	require.NoError(t, err)
	userTopic := []common.Hash{common.BytesToHash(userAddr.Bytes())}

	logs := []*types.Log{
		ptr(eventLog(t, parsed, "PriceUpdateFailed", nil, "stale price")),
		ptr(eventLog(t, parsed, "SellRequested", userTopic, big.NewInt(5), bigs4(5, 6, 7, 8))),
		ptr(eventLog(t, parsed, "WithdrawExecuted", userTopic, big.NewInt(9))),
	}

	events := b.DecodeEvents(logs)
	require.Len(t, events, 3)

	failed := events[0].(*PriceUpdateFailed)
	assert.Equal(t, "stale price", failed.Reason)

	sell := events[1].(*SellRequested)
	assert.Equal(t, int64(5), sell.AmountHbar.Int64())
	assert.Equal(t, int64(8), sell.Prices[3].Int64())

	withdraw, ok := FindEvent(events, KindWithdrawExecuted)
	require.True(t, ok)
	assert.Equal(t, userAddr, withdraw.(*WithdrawExecuted).User)
	assert.Equal(t, int64(9), withdraw.(*WithdrawExecuted).PayoutHbar.Int64())

	_, ok = FindEvent(events, KindBuyRequested)
	assert.False(t, ok)
}

func TestDecodeSkipsForeignAndUnknownLogs(t *testing.T) {
	parsed := mustABI(t, EscrowABI)
	b, err := NewBinding(escrowAddr, EscrowABI, nil, nil)
	require.NoError(t, err)

	foreign := eventLog(t, parsed, "PriceUpdateFailed", nil, "x")
	foreign.Address = userAddr
	_, ok := b.DecodeEvent(foreign)
	assert.False(t, ok)

	unknown := types.Log{Address: escrowAddr, Topics: []common.Hash{common.HexToHash("0xdeadbeef")}}
	_, ok = b.DecodeEvent(unknown)
	assert.False(t, ok)

	_, ok = b.DecodeEvent(types.Log{Address: escrowAddr})
	assert.False(t, ok)

	assert.Empty(t, b.DecodeEvents([]*types.Log{nil, &unknown}))
}

func TestPackCalls(t *testing.T) {
	escrow, err := NewBinding(escrowAddr, EscrowABI, nil, nil)
	require.NoError(t, err)
	oracle, err := NewBinding(escrowAddr, OracleABI, nil, nil)
	require.NoError(t, err)
	parsed := mustABI(t, EscrowABI)

	updates := [][]byte{{0x01, 0x02}}

	data, err := escrow.Pack(BuyCall(updates, assets.DefaultWeights))
	require.NoError(t, err)
	assert.Equal(t, parsed.Methods["buy"].ID, data[:4])

	data, err = escrow.Pack(SellCall(big.NewInt(1), updates))
	require.NoError(t, err)
	assert.Equal(t, parsed.Methods["sell"].ID, data[:4])

	_, err = escrow.Pack(WithdrawCall(userAddr, big.NewInt(1)))
	require.NoError(t, err)

	_, err = oracle.Pack(UpdateAndGetPricesCall(updates))
	require.NoError(t, err)

	data, err = escrow.Pack(TransferCall())
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = escrow.Pack(Call{Method: "nope"})
	assert.Error(t, err)
}

func TestSendWithoutSigner(t *testing.T) {
	b, err := NewBinding(escrowAddr, EscrowABI, nil, nil)
	require.NoError(t, err)

	_, err = b.Send(context.Background(), TxRequest{Call: TransferCall(), Value: big.NewInt(1)})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestNewBindingRejectsBadABI(t *testing.T) {
	_, err := NewBinding(escrowAddr, "{", nil, nil)
	assert.Error(t, err)
}

func ptr(l types.Log) *types.Log { return &l }
