package journal

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allweather/internal/contracts"
	"allweather/internal/workflow"
)

func entry(op string) Entry {
	return Entry{RecordedAt: time.Unix(0, 0).UTC(), Source: "escrow", Operation: op, Status: StatusSucceeded}
}

func TestMemoryStoreRecent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	got, err := store.Recent(ctx, "", 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, op := range []string{"buy", "sell", "withdraw"} {
		require.NoError(t, store.Append(ctx, entry(op)))
	}

	got, err = store.Recent(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "withdraw", got[0].Operation)
	assert.Equal(t, "sell", got[1].Operation)

	got, _ = store.Recent(ctx, "", 0)
	assert.Len(t, got, 3)
}

func TestRecentFiltersBySourceBeforeLimit(t *testing.T) {
	ctx := context.Background()
	older := entry("update")
	older.Source = "oracle"

	for _, store := range []Store{NewMemoryStore(), mustFileStore(t)} {
		require.NoError(t, store.Append(ctx, older))
		for i := 0; i < 10; i++ {
			require.NoError(t, store.Append(ctx, entry("buy")))
		}

		got, err := store.Recent(ctx, "oracle", 5)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "update", got[0].Operation)

		got, err = store.Recent(ctx, "escrow", 5)
		require.NoError(t, err)
		assert.Len(t, got, 5)

		got, err = store.Recent(ctx, "", 0)
		require.NoError(t, err)
		assert.Len(t, got, 11)
	}
}

func mustFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "runs.json"))
	require.NoError(t, err)
	return store
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal", "runs.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, entry("buy")))
	require.NoError(t, store.Append(ctx, entry("topup")))

	_, err = os.Stat(path)
	require.NoError(t, err, "expected file on disk")

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	got, err := reopened.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "topup", got[0].Operation)
}

func TestOpenSelectsBackend(t *testing.T) {
	s, err := Open(context.Background(), "", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(context.Background(), "", filepath.Join(t.TempDir(), "j.json"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
}

func TestRecorderWritesOutcome(t *testing.T) {
	store := NewMemoryStore()
	rec := NewRecorder(store, "escrow", zerolog.Nop())

	res := &workflow.Result{
		Op:          workflow.OpBuy,
		Contract:    common.HexToAddress("0x01"),
		TxHash:      common.HexToHash("0xabc"),
		BlockNumber: 12,
		GasUsed:     21000,
		Value:       big.NewInt(1001),
		Fee:         big.NewInt(1),
		Event:       &contracts.BuyRequested{},
	}
	rec.Completed(workflow.Buy(big.NewInt(1000), [3]uint64{40, 40, 20}), res, nil, 1500*time.Millisecond)

	failure := &workflow.Failure{Op: workflow.OpWithdraw, State: workflow.Validating, Err: workflow.ErrUnauthorized}
	rec.Completed(workflow.Withdraw(common.HexToAddress("0x02"), big.NewInt(5)), nil, failure, time.Millisecond)

	got, err := store.Recent(context.Background(), "", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	failed := got[0]
	assert.Equal(t, "withdraw", failed.Operation)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "validating", failed.FailedState)
	assert.Contains(t, failed.Error, "unauthorized")
	assert.Empty(t, failed.TxHash)

	ok := got[1]
	assert.Equal(t, StatusSucceeded, ok.Status)
	assert.Equal(t, "1001", ok.ValueWei)
	assert.Equal(t, "BuyRequested", ok.Event)
	assert.Equal(t, uint64(12), ok.BlockNumber)
	assert.Equal(t, int64(1500), ok.DurationMs)
	assert.Equal(t, common.HexToHash("0xabc").Hex(), ok.TxHash)
}

func TestRecorderKeepsHashOfFailedSubmission(t *testing.T) {
	store := NewMemoryStore()
	rec := NewRecorder(store, "escrow", zerolog.Nop())

	partial := &workflow.Result{Op: workflow.OpSell, Contract: common.HexToAddress("0x01"), TxHash: common.HexToHash("0xfeed")}
	failure := &workflow.Failure{Op: workflow.OpSell, State: workflow.Confirming, Err: workflow.ErrConfirmation}
	rec.Completed(workflow.Sell(big.NewInt(1)), partial, failure, time.Second)

	notSent := &workflow.Result{Op: workflow.OpSell}
	rec.Completed(workflow.Sell(big.NewInt(1)), notSent, failure, time.Second)

	got, err := store.Recent(context.Background(), "escrow", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Empty(t, got[0].TxHash)
	assert.Empty(t, got[0].Contract)

	assert.Equal(t, StatusFailed, got[1].Status)
	assert.Equal(t, "confirming", got[1].FailedState)
	assert.Equal(t, common.HexToHash("0xfeed").Hex(), got[1].TxHash)
}

type failingStore struct{ MemoryStore }

func (*failingStore) Append(context.Context, Entry) error { return errors.New("disk full") }

func TestRecorderSwallowsStoreErrors(t *testing.T) {
	rec := NewRecorder(&failingStore{}, "oracle", zerolog.Nop())
	assert.NotPanics(t, func() {
		rec.Completed(workflow.PriceUpdate(), nil, errors.New("boom"), 0)
	})
}
