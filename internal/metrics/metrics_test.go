package metrics

import (
	"errors"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allweather/internal/workflow"
)

func TestCompletedCountsOutcomes(t *testing.T) {
	m := New()
	sell := workflow.Sell(big.NewInt(1))

	m.Transition(sell, workflow.Validating)
	m.Transition(sell, workflow.Submitting)
	m.Completed(sell, &workflow.Result{
		GasUsed:     90000,
		EstimateErr: errors.Join(workflow.ErrEstimation, errors.New("revert")),
	}, nil, 2*time.Second)

	failure := &workflow.Failure{Op: workflow.OpSell, State: workflow.CheckingBalance, Err: workflow.ErrInsufficientFunds}
	m.Completed(sell, nil, failure, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("sell", "succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("sell", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failuresTotal.WithLabelValues("sell", "checking balance")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitionsTotal.WithLabelValues("sell", "submitting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gasFallbackTotal.WithLabelValues("sell")))
	assert.Equal(t, 90000.0, testutil.ToFloat64(m.gasUsed.WithLabelValues("sell")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.runDuration))
}

func TestPush(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New()
	m.Completed(workflow.PriceUpdate(), &workflow.Result{GasUsed: 1}, nil, time.Second)

	require.NoError(t, m.Push(srv.URL, "allweather_cli"))
	assert.Equal(t, "/metrics/job/allweather_cli", gotPath)
	assert.True(t, strings.Contains(gotBody, "allweather_workflow_runs_total"))
}

func TestPushWithoutURLIsNoop(t *testing.T) {
	assert.NoError(t, New().Push("", "job"))
}
