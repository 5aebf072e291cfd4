package oracle

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allweather/internal/assets"
	"allweather/internal/contracts"
)

type callStub struct {
	bind.ContractBackend

	abi     abi.ABI
	outputs map[string][]interface{}
	args    map[string][]interface{}
}

func (s *callStub) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	m, err := s.abi.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	args, err := m.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	s.args[m.Name] = args
	return m.Outputs.Pack(s.outputs[m.Name]...)
}

func samplePrices() [assets.Count]assets.Price {
	return [assets.Count]assets.Price{
		{Price: 50012345, Conf: 1000, Expo: -5, PublishTime: big.NewInt(1700000000)},
		{Price: 10850000, Conf: 200, Expo: -5, PublishTime: big.NewInt(1700000001)},
		{Price: 200000000000, Conf: 5, Expo: -8, PublishTime: big.NewInt(1700000002)},
		{Price: 7000000, Conf: 3, Expo: -8, PublishTime: big.NewInt(1700000003)},
	}
}

func newTestContract(t *testing.T) (*Contract, *callStub) {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(contracts.OracleABI))
	require.NoError(t, err)
	prices := samplePrices()
	stub := &callStub{
		abi: parsed,
		outputs: map[string][]interface{}{
			"getUpdateFee":     {big.NewInt(1000)},
			"getCurrentPrices": {prices},
			"getAssetPrice":    {prices[assets.Gold]},
		},
		args: map[string][]interface{}{},
	}
	c, err := New(common.HexToAddress("0x02"), stub, nil)
	require.NoError(t, err)
	return c, stub
}

func TestUpdateFee(t *testing.T) {
	c, stub := newTestContract(t)

	fee, err := c.UpdateFee(context.Background(), [][]byte{{0xaa}, {0xbb}})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), fee.Int64())
	assert.Equal(t, [][]byte{{0xaa}, {0xbb}}, stub.args["getUpdateFee"][0])
}

func TestCurrentPrices(t *testing.T) {
	c, _ := newTestContract(t)

	prices, err := c.CurrentPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "500.12345", prices[assets.SP500].Value())
	assert.Equal(t, "2000.000000", prices[assets.Gold].Value())
	assert.Equal(t, int64(1700000003), prices[assets.Native].PublishTime.Int64())
}

func TestAssetPrice(t *testing.T) {
	c, stub := newTestContract(t)

	p, err := c.AssetPrice(context.Background(), assets.Gold)
	require.NoError(t, err)
	assert.Equal(t, int64(200000000000), p.Price)
	assert.Equal(t, int32(-8), p.Expo)
	assert.Equal(t, int64(2), stub.args["getAssetPrice"][0].(*big.Int).Int64())
}
