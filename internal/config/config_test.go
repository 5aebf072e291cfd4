package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, key := range []string{
		"DEPLOYMENTS_PATH", "ESCROW_CONTRACT_ADDRESS", "ORACLE_CONTRACT_ADDRESS", "RPC_URL",
		"PRIVATE_KEY", "MIN_VALUE_WEI", "FALLBACK_GAS_LIMIT", "HERMES_URL", "LOG_PRETTY",
		"JOURNAL_DSN", "JOURNAL_PATH",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultRPCURL, cfg.Chain.RPCURL)
	assert.Equal(t, common.HexToAddress(DefaultEscrowAddress), cfg.Chain.EscrowAddress)
	assert.Equal(t, common.Address{}, cfg.Chain.OracleAddress)
	assert.Equal(t, "10000000000", cfg.Tx.MinValueWei.String())
	assert.Equal(t, uint64(500000), cfg.Tx.FallbackGasLimit)
	assert.Equal(t, DefaultHermesURL, cfg.Hermes.BaseURL)
	assert.True(t, cfg.Pretty)
	assert.False(t, cfg.CanSign())
	assert.Empty(t, cfg.Journal.DSN)
	assert.Equal(t, filepath.Join(os.TempDir(), "allweather-journal.json"), cfg.Journal.Path)
}

func TestJournalPathOverride(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "runs.json")
	t.Setenv("JOURNAL_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Journal.Path)
}

func TestLoadDeploymentsFileWithEnvOverride(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "deployments.json")
	body := `{"chainId":296,"rpcUrl":"http://localhost:7546","contracts":{
		"AllWeatherEscrow":"0x1111111111111111111111111111111111111111",
		"AllWeatherPriceOracle":"0x2222222222222222222222222222222222222222"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("DEPLOYMENTS_PATH", path)
	t.Setenv("RPC_URL", "http://override:8545")
	t.Setenv("PRIVATE_KEY", "abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://override:8545", cfg.Chain.RPCURL)
	assert.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), cfg.Chain.EscrowAddress)
	assert.Equal(t, common.HexToAddress("0x2222222222222222222222222222222222222222"), cfg.Chain.OracleAddress)
	assert.True(t, cfg.CanSign())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolate(t)
	t.Setenv("ESCROW_CONTRACT_ADDRESS", "not-an-address")
	_, err := Load()
	require.Error(t, err)

	isolate(t)
	t.Setenv("MIN_VALUE_WEI", "-5")
	_, err = Load()
	require.Error(t, err)
}
