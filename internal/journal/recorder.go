package journal

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"allweather/internal/workflow"
)

const appendTimeout = 5 * time.Second

// Recorder appends one entry per completed workflow run. A failed append is logged
// and never changes the run's outcome.
type Recorder struct {
	store  Store
	source string
	log    zerolog.Logger
	now    func() time.Time
}

func NewRecorder(store Store, source string, log zerolog.Logger) *Recorder {
	return &Recorder{
		store:  store,
		source: source,
		log:    log.With().Str("component", "journal").Logger(),
		now:    time.Now,
	}
}

func (r *Recorder) Transition(workflow.Request, workflow.State) {}

func (r *Recorder) Completed(req workflow.Request, res *workflow.Result, err error, elapsed time.Duration) {
	e := Entry{
		RecordedAt: r.now().UTC(),
		Source:     r.source,
		Operation:  req.Op.String(),
		Status:     StatusSucceeded,
		DurationMs: elapsed.Milliseconds(),
	}
	if err != nil {
		e.Status = StatusFailed
		e.Error = err.Error()
		if state, ok := workflow.FailedState(err); ok {
			e.FailedState = state.String()
		}
	}
	if res != nil {
		if res.Contract != (common.Address{}) {
			e.Contract = res.Contract.Hex()
		}
		if res.TxHash != (common.Hash{}) {
			e.TxHash = res.TxHash.Hex()
		}
		e.BlockNumber = res.BlockNumber
		e.GasUsed = res.GasUsed
		if res.Value != nil {
			e.ValueWei = res.Value.String()
		}
		if res.Fee != nil {
			e.FeeWei = res.Fee.String()
		}
		if res.Event != nil {
			e.Event = res.Event.Kind().String()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()
	if err := r.store.Append(ctx, e); err != nil {
		r.log.Warn().Err(err).Msg("Failed to append journal entry")
	}
}
