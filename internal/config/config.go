package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

// DeploymentConfig represents the optional deployments.json written by the contract deploy scripts.
type DeploymentConfig struct {
	ChainID   int64  `json:"chainId"`
	RPCURL    string `json:"rpcUrl"`
	Contracts struct {
		AllWeatherEscrow      string `json:"AllWeatherEscrow"`
		AllWeatherPriceOracle string `json:"AllWeatherPriceOracle"`
	} `json:"contracts"`
}

// Config is built once at process start and handed to every component.
type Config struct {
	Chain    ChainConfig
	Hermes   HermesConfig
	Tx       TxConfig
	Journal  JournalConfig
	Metrics  MetricsConfig
	LogLevel string
	Pretty   bool
}

type ChainConfig struct {
	RPCURL        string
	PrivateKey    string
	EscrowAddress common.Address
	// OracleAddress is zero when the escrow CLI should resolve it from PRICE_ORACLE().
	OracleAddress common.Address
}

type HermesConfig struct {
	BaseURL string
	Timeout time.Duration
}

type TxConfig struct {
	MinValueWei      *big.Int
	FallbackGasLimit uint64
	ReceiptPoll      time.Duration
}

type JournalConfig struct {
	DSN  string
	Path string
}

type MetricsConfig struct {
	PushgatewayURL string
	Job            string
}

const (
	DefaultRPCURL        = "https://testnet.hashio.io/api"
	DefaultEscrowAddress = "0xb619f10d6b38227bbb0abf2787f7e2822d75a8aa"
	DefaultOracleAddress = "0x4d02570931b579056fc058f947ec7e8e2be4ee59"
	DefaultHermesURL     = "https://hermes.pyth.network"

	// 1 tinybar expressed in wei; Hedera rejects smaller non-zero value transfers.
	defaultMinValueWei      = "10000000000"
	defaultFallbackGasLimit = 500000
	defaultJournalFile      = "allweather-journal.json"
)

// Load aggregates configuration from .env, the optional deployments file and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(envOr("ENV_FILE", ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	deployCfg := &DeploymentConfig{}
	if path := envOr("DEPLOYMENTS_PATH", ""); path != "" {
		loaded, err := loadDeployments(path)
		if err != nil {
			return nil, fmt.Errorf("load deployments: %w", err)
		}
		deployCfg = loaded
	}

	escrowHex := envOr("ESCROW_CONTRACT_ADDRESS", firstNonEmpty(deployCfg.Contracts.AllWeatherEscrow, DefaultEscrowAddress))
	escrowAddr, err := parseAddress("ESCROW_CONTRACT_ADDRESS", escrowHex)
	if err != nil {
		return nil, err
	}

	var oracleAddr common.Address
	if oracleHex := envOr("ORACLE_CONTRACT_ADDRESS", deployCfg.Contracts.AllWeatherPriceOracle); oracleHex != "" {
		oracleAddr, err = parseAddress("ORACLE_CONTRACT_ADDRESS", oracleHex)
		if err != nil {
			return nil, err
		}
	}

	minValue, ok := new(big.Int).SetString(envOr("MIN_VALUE_WEI", defaultMinValueWei), 10)
	if !ok || minValue.Sign() < 0 {
		return nil, fmt.Errorf("MIN_VALUE_WEI must be a non-negative integer")
	}

	fallbackGas := envOrInt("FALLBACK_GAS_LIMIT", defaultFallbackGasLimit)
	if fallbackGas <= 0 {
		return nil, fmt.Errorf("FALLBACK_GAS_LIMIT must be positive")
	}

	return &Config{
		Chain: ChainConfig{
			RPCURL:        envOr("RPC_URL", firstNonEmpty(deployCfg.RPCURL, DefaultRPCURL)),
			PrivateKey:    envOr("PRIVATE_KEY", ""),
			EscrowAddress: escrowAddr,
			OracleAddress: oracleAddr,
		},
		Hermes: HermesConfig{
			BaseURL: envOr("HERMES_URL", DefaultHermesURL),
			Timeout: time.Duration(envOrInt("HERMES_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Tx: TxConfig{
			MinValueWei:      minValue,
			FallbackGasLimit: uint64(fallbackGas),
			ReceiptPoll:      time.Duration(envOrInt("RECEIPT_POLL_SECONDS", 2)) * time.Second,
		},
		Journal: JournalConfig{
			DSN:  envOr("JOURNAL_DSN", ""),
			Path: envOr("JOURNAL_PATH", filepath.Join(os.TempDir(), defaultJournalFile)),
		},
		Metrics: MetricsConfig{
			PushgatewayURL: envOr("PUSHGATEWAY_URL", ""),
			Job:            envOr("PUSHGATEWAY_JOB", "allweather_cli"),
		},
		LogLevel: envOr("LOG_LEVEL", "info"),
		Pretty:   envOrBool("LOG_PRETTY", true),
	}, nil
}

// CanSign reports whether a private key was configured.
func (c *Config) CanSign() bool {
	return c.Chain.PrivateKey != ""
}

func loadDeployments(path string) (*DeploymentConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg DeploymentConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseAddress(key, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s is not a valid address: %q", key, value)
	}
	return common.HexToAddress(value), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func envOr(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
	}
	return fallback
}

func envOrBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
