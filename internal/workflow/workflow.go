// Package workflow drives a single on-chain operation from local validation through
// confirmation: fetch attestations, price the fee, check funds, estimate gas, submit,
// wait for the receipt and decode the resulting events.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"allweather/internal/assets"
	"allweather/internal/chain"
	"allweather/internal/contracts"
	"allweather/internal/units"
)

// Attestations fetches signed price updates as 0x-prefixed hex.
type Attestations interface {
	LatestUpdates(ctx context.Context, ids []assets.FeedID) ([]string, error)
}

// Chain is the network capability the workflow reads and waits on.
type Chain interface {
	Balance(ctx context.Context, addr common.Address) (*big.Int, error)
	FeeRate(ctx context.Context) (chain.FeeRate, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	WaitForReceipt(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// FeeQuoter prices a batch of updates.
type FeeQuoter interface {
	UpdateFee(ctx context.Context, updates [][]byte) (*big.Int, error)
}

// Target is the contract a transaction is sent to.
type Target interface {
	Address() common.Address
	Pack(call contracts.Call) ([]byte, error)
	Send(ctx context.Context, req contracts.TxRequest) (*types.Transaction, error)
	DecodeEvents(logs []*types.Log) []contracts.Event
}

// Treasury answers the privileged-withdraw checks.
type Treasury interface {
	Owner(ctx context.Context) (common.Address, error)
	Aum(ctx context.Context) (*big.Int, error)
}

// Deps are the collaborators of a run. Escrow and Treasury serve buy, sell, withdraw
// and top-up; Oracle serves price updates. Fees is needed whenever attestations are.
type Deps struct {
	Chain        Chain
	Attestations Attestations
	Fees         FeeQuoter
	Escrow       Target
	Treasury     Treasury
	Oracle       Target
}

type Options struct {
	Signer           common.Address
	MinValue         *big.Int
	FallbackGasLimit uint64
	// Feeds defaults to every tracked asset.
	Feeds []assets.FeedID
}

// Observer is notified of every transition and of the final outcome. On failure res
// holds whatever the run had filled in, including the hash of a submitted transaction.
type Observer interface {
	Transition(req Request, state State)
	Completed(req Request, res *Result, err error, elapsed time.Duration)
}

// Result is what a successful run reports.
type Result struct {
	Op          Operation
	Contract    common.Address
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
	GasLimit    uint64
	GasPrice    *big.Int
	Value       *big.Int
	Fee         *big.Int
	Updates     int
	// EstimateErr holds the ErrEstimation that triggered the fallback gas limit.
	EstimateErr error
	// Event is the operation's expected event, nil when the receipt lacks it.
	Event    contracts.Event
	Events   []contracts.Event
	Warnings []string
}

type Workflow struct {
	deps      Deps
	opts      Options
	observers []Observer
	log       zerolog.Logger
}

func New(deps Deps, opts Options, log zerolog.Logger) *Workflow {
	if opts.FallbackGasLimit == 0 {
		opts.FallbackGasLimit = chain.DefaultFallbackGasLimit
	}
	if len(opts.Feeds) == 0 {
		opts.Feeds = assets.FeedIDs()
	}
	return &Workflow{
		deps: deps,
		opts: opts,
		log:  log.With().Str("component", "workflow").Logger(),
	}
}

// Observe registers o for every subsequent run.
func (w *Workflow) Observe(o Observer) {
	w.observers = append(w.observers, o)
}

// Run executes req to a terminal state. No step is retried.
func (w *Workflow) Run(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	r := &run{w: w, req: req, res: &Result{Op: req.Op}, log: w.log.With().Str("op", req.Op.String()).Logger()}

	err := r.execute(ctx)
	if err != nil {
		r.enter(Failed)
		r.log.Debug().Err(err).Str("tx", txHex(r.res.TxHash)).Msg("Workflow failed")
	} else {
		r.enter(Succeeded)
	}
	// Observers see the partial result of a failed run so a broadcast hash is never lost.
	for _, o := range w.observers {
		o.Completed(req, r.res, err, time.Since(started))
	}
	if err != nil {
		return nil, err
	}
	return r.res, nil
}

func txHex(h common.Hash) string {
	if h == (common.Hash{}) {
		return ""
	}
	return h.Hex()
}

// FeeQuote is the oracle fee for the latest updates. Raw is what getUpdateFee
// returned; Attached is what a transaction would send after the minimum-value clamp.
type FeeQuote struct {
	Raw      *big.Int
	Attached *big.Int
	Updates  int
}

// Clamped reports whether the minimum value raised the fee.
func (q FeeQuote) Clamped() bool {
	return q.Raw == nil || q.Raw.Cmp(q.Attached) != 0
}

// QuoteFee fetches attestations and prices them without submitting anything.
func (w *Workflow) QuoteFee(ctx context.Context) (FeeQuote, error) {
	if w.deps.Attestations == nil || w.deps.Fees == nil {
		return FeeQuote{}, errors.New("fee quote requires an attestation source and a fee quoter")
	}
	blobs, err := w.fetch(ctx)
	if err != nil {
		return FeeQuote{}, err
	}
	raw, err := w.deps.Fees.UpdateFee(ctx, blobs)
	if err != nil {
		return FeeQuote{}, fmt.Errorf("get update fee: %w", err)
	}
	return FeeQuote{Raw: raw, Attached: ClampFee(raw, w.opts.MinValue), Updates: len(blobs)}, nil
}

func (w *Workflow) fetch(ctx context.Context) ([][]byte, error) {
	hexUpdates, err := w.deps.Attestations.LatestUpdates(ctx, w.opts.Feeds)
	if err != nil {
		return nil, kind(ErrAttestationFetch, err)
	}
	if len(hexUpdates) == 0 {
		return nil, fmt.Errorf("%w: no updates returned", ErrAttestationFetch)
	}
	blobs := make([][]byte, 0, len(hexUpdates))
	for _, h := range hexUpdates {
		b, err := hexutil.Decode(h)
		if err != nil {
			return nil, fmt.Errorf("%w: decode update: %v", ErrAttestationFetch, err)
		}
		blobs = append(blobs, b)
	}
	return blobs, nil
}

type run struct {
	w     *Workflow
	req   Request
	res   *Result
	state State
	log   zerolog.Logger
}

func (r *run) enter(s State) {
	r.state = s
	r.log.Debug().Str("state", s.String()).Msg("Workflow transition")
	for _, o := range r.w.observers {
		o.Transition(r.req, s)
	}
}

func (r *run) fail(err error) error {
	return &Failure{Op: r.req.Op, State: r.state, Err: err}
}

func (r *run) execute(ctx context.Context) error {
	deps, opts, req := r.w.deps, r.w.opts, r.req

	r.enter(Validating)
	if err := req.validate(); err != nil {
		return r.fail(err)
	}
	target := deps.Escrow
	if req.Op == OpPriceUpdate {
		target = deps.Oracle
	}
	if target == nil || deps.Chain == nil {
		return r.fail(Invalid("no contract configured for %s", req.Op))
	}
	if opts.Signer == (common.Address{}) {
		return r.fail(Invalid("a private key is required to %s", req.Op))
	}
	if req.Op.NeedsAttestations() && (deps.Attestations == nil || deps.Fees == nil) {
		return r.fail(Invalid("%s requires an attestation source and a fee quoter", req.Op))
	}
	if req.Op == OpWithdraw {
		if deps.Treasury == nil {
			return r.fail(Invalid("withdraw requires the escrow contract"))
		}
		owner, err := deps.Treasury.Owner(ctx)
		if err != nil {
			return r.fail(fmt.Errorf("read owner: %w", err))
		}
		if owner != opts.Signer {
			return r.fail(fmt.Errorf("%w: %s is not the contract owner %s", ErrUnauthorized, opts.Signer.Hex(), owner.Hex()))
		}
	}
	r.res.Contract = target.Address()

	var updates [][]byte
	fee := new(big.Int)
	if req.Op.NeedsAttestations() {
		r.enter(FetchingAttestations)
		blobs, err := r.w.fetch(ctx)
		if err != nil {
			return r.fail(err)
		}
		updates = blobs
		r.res.Updates = len(blobs)
		r.log.Info().Int("updates", len(blobs)).Msg("Fetched price updates")

		r.enter(PricingFee)
		raw, err := deps.Fees.UpdateFee(ctx, updates)
		if err != nil {
			return r.fail(fmt.Errorf("get update fee: %w", err))
		}
		fee = ClampFee(raw, opts.MinValue)
		if raw == nil || fee.Cmp(raw) != 0 {
			r.log.Debug().Str("fee", raw.String()).Str("clamped", fee.String()).Msg("Fee raised to minimum value")
		}
	}
	r.res.Fee = fee
	value := TotalValue(req.Op, req.Amount, fee)
	r.res.Value = value

	r.enter(CheckingBalance)
	if req.Op == OpWithdraw {
		aum, err := deps.Treasury.Aum(ctx)
		if err != nil {
			return r.fail(fmt.Errorf("read aum: %w", err))
		}
		if err := CheckFunds(aum, req.Amount); err != nil {
			return r.fail(fmt.Errorf("contract: %w", err))
		}
	} else {
		balance, err := deps.Chain.Balance(ctx, opts.Signer)
		if err != nil {
			return r.fail(err)
		}
		if err := CheckFunds(balance, value); err != nil {
			return r.fail(err)
		}
	}

	r.enter(Estimating)
	call := req.call(updates)
	data, err := target.Pack(call)
	if err != nil {
		return r.fail(Invalid("%v", err))
	}
	rate, err := deps.Chain.FeeRate(ctx)
	if err != nil {
		return r.fail(err)
	}
	gasPrice := chain.BufferGasPrice(rate.GasPrice)
	to := target.Address()
	estimate, estErr := deps.Chain.EstimateGas(ctx, ethereum.CallMsg{
		From:  opts.Signer,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if estErr != nil {
		r.res.EstimateErr = kind(ErrEstimation, estErr)
		r.log.Warn().Err(estErr).Uint64("gasLimit", opts.FallbackGasLimit).Msg("Gas estimation failed, using fallback gas limit")
	}
	r.res.GasLimit = GasLimit(req.Op, estimate, estErr, opts.FallbackGasLimit)
	r.res.GasPrice = gasPrice

	r.enter(Submitting)
	tx, err := target.Send(ctx, contracts.TxRequest{
		Call:     call,
		Value:    value,
		GasLimit: r.res.GasLimit,
		GasPrice: gasPrice,
	})
	if err != nil {
		return r.fail(kind(ErrSubmission, err))
	}
	r.res.TxHash = tx.Hash()
	r.log.Info().
		Str("tx", tx.Hash().Hex()).
		Str("value", units.FormatEther(value)).
		Uint64("gasLimit", r.res.GasLimit).
		Msg("Transaction sent")

	r.enter(Confirming)
	receipt, err := deps.Chain.WaitForReceipt(ctx, tx)
	if err != nil {
		return r.fail(kind(ErrConfirmation, err))
	}
	r.res.BlockNumber = receipt.BlockNumber.Uint64()
	r.res.GasUsed = receipt.GasUsed
	if receipt.Status == types.ReceiptStatusFailed {
		return r.fail(fmt.Errorf("%w: transaction %s reverted in block %d", ErrConfirmation, tx.Hash().Hex(), r.res.BlockNumber))
	}

	r.enter(Reporting)
	r.res.Events = target.DecodeEvents(receipt.Logs)
	if k, ok := req.Op.ExpectedEvent(); ok {
		if ev, found := contracts.FindEvent(r.res.Events, k); found {
			r.res.Event = ev
		} else {
			r.log.Debug().Str("event", k.String()).Msg("Expected event not found in receipt")
		}
	}
	for _, ev := range r.res.Events {
		if failed, ok := ev.(*contracts.PriceUpdateFailed); ok {
			r.res.Warnings = append(r.res.Warnings, "price update failed: "+failed.Reason)
		}
	}
	return nil
}
