// Package cli builds the escrow and oracle command trees and wires configuration,
// chain access, contract bindings and the workflow together for each invocation.
package cli

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"allweather/internal/chain"
	"allweather/internal/config"
	"allweather/internal/escrow"
	"allweather/internal/hermes"
	"allweather/internal/journal"
	"allweather/internal/metrics"
	"allweather/internal/oracle"
	"allweather/internal/workflow"
)

// Session holds the collaborators of one invocation. Nothing in it outlives the process.
type Session struct {
	Config  *config.Config
	Log     zerolog.Logger
	Source  string
	Chain   *chain.Client
	Signer  *chain.Signer
	Hermes  *hermes.Client
	Escrow  *escrow.Contract
	Oracle  *oracle.Contract
	Journal journal.Store
	Metrics *metrics.Registry
}

// ConnectFunc builds a Session. Commands call it only after their arguments validate.
type ConnectFunc func(ctx context.Context, cfg *config.Config, log zerolog.Logger, source string) (*Session, error)

// Connect dials the RPC endpoint and binds both contracts.
func Connect(ctx context.Context, cfg *config.Config, log zerolog.Logger, source string) (*Session, error) {
	client, err := chain.Dial(ctx, cfg.Chain.RPCURL, cfg.Tx.ReceiptPoll, log)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Config:  cfg,
		Log:     log,
		Source:  source,
		Chain:   client,
		Hermes:  hermes.NewClient(cfg.Hermes.BaseURL, cfg.Hermes.Timeout, log),
		Metrics: metrics.New(),
	}

	if cfg.CanSign() {
		s.Signer, err = chain.NewSigner(ctx, client, cfg.Chain.PrivateKey)
		if err != nil {
			client.Close()
			return nil, err
		}
	}
	transacts := s.transacts()

	s.Escrow, err = escrow.New(cfg.Chain.EscrowAddress, client.Backend(), transacts)
	if err != nil {
		client.Close()
		return nil, err
	}

	s.Oracle, err = oracle.New(resolveOracle(ctx, cfg, source, s.Escrow, log), client.Backend(), transacts)
	if err != nil {
		client.Close()
		return nil, err
	}

	log.Debug().
		Str("escrow", s.Escrow.Address().Hex()).
		Str("oracle", s.Oracle.Address().Hex()).
		Bool("signer", s.Signer != nil).
		Msg("Session ready")
	return s, nil
}

// oracleAddress is the oracle a program targets without asking the chain. It is zero
// only for the escrow program when no address is configured.
func oracleAddress(source string, cfg *config.Config) common.Address {
	if cfg.Chain.OracleAddress != (common.Address{}) {
		return cfg.Chain.OracleAddress
	}
	if source == oracleSource {
		return common.HexToAddress(config.DefaultOracleAddress)
	}
	return common.Address{}
}

type oracleLookup interface {
	PriceOracle(ctx context.Context) (common.Address, error)
}

// resolveOracle falls back to the escrow's PRICE_ORACLE(), then to the default address.
func resolveOracle(ctx context.Context, cfg *config.Config, source string, esc oracleLookup, log zerolog.Logger) common.Address {
	if addr := oracleAddress(source, cfg); addr != (common.Address{}) {
		return addr
	}
	addr, err := esc.PriceOracle(ctx)
	if err == nil && addr == (common.Address{}) {
		err = errors.New("PRICE_ORACLE() returned the zero address")
	}
	if err != nil {
		addr = common.HexToAddress(config.DefaultOracleAddress)
		log.Warn().Err(err).Str("oracle", addr.Hex()).Msg("Could not read PRICE_ORACLE, using default oracle address")
	}
	return addr
}

func (s *Session) transacts() *bind.TransactOpts {
	if s.Signer == nil {
		return nil
	}
	return s.Signer.Transacts
}

// openJournal opens the journal on first use. Read-only commands never touch it.
func (s *Session) openJournal(ctx context.Context) journal.Store {
	if s.Journal != nil {
		return s.Journal
	}
	store, err := journal.Open(ctx, s.Config.Journal.DSN, s.Config.Journal.Path)
	if err != nil {
		s.Log.Warn().Err(err).Msg("Journal unavailable, this run will not be recorded")
		return nil
	}
	s.Journal = store
	return store
}

// Workflow returns a workflow wired to this session, recording into the journal and metrics.
func (s *Session) Workflow(ctx context.Context) *workflow.Workflow {
	wf := s.quoter()
	if s.Metrics != nil {
		wf.Observe(s.Metrics)
	}
	if store := s.openJournal(ctx); store != nil {
		wf.Observe(journal.NewRecorder(store, s.Source, s.Log))
	}
	return wf
}

// quoter is a workflow with no observers, for fee quotes that submit nothing.
func (s *Session) quoter() *workflow.Workflow {
	opts := workflow.Options{
		MinValue:         s.Config.Tx.MinValueWei,
		FallbackGasLimit: s.Config.Tx.FallbackGasLimit,
	}
	if s.Signer != nil {
		opts.Signer = s.Signer.Address
	}
	var deps workflow.Deps
	if s.Chain != nil {
		deps.Chain = s.Chain
	}
	if s.Hermes != nil {
		deps.Attestations = s.Hermes
	}
	if s.Oracle != nil {
		deps.Fees = s.Oracle
		deps.Oracle = s.Oracle
	}
	if s.Escrow != nil {
		deps.Escrow = s.Escrow
		deps.Treasury = s.Escrow
	}

	return workflow.New(deps, opts, s.Log)
}

// Close pushes metrics and releases every connection.
func (s *Session) Close() {
	if s.Metrics != nil {
		if err := s.Metrics.Push(s.Config.Metrics.PushgatewayURL, s.Config.Metrics.Job); err != nil {
			s.Log.Warn().Err(err).Msg("Metrics push failed")
		}
	}
	if s.Journal != nil {
		s.Journal.Close()
	}
	if s.Chain != nil {
		s.Chain.Close()
	}
}
