package compare

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpusim/cpusim/sim"
	"github.com/cpusim/cpusim/sim/trace"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

func sample() []sim.Descriptor {
	return []sim.Descriptor{
		{PID: 1, ArrivalTime: 0, BurstTime: 5, Priority: 1},
		{PID: 2, ArrivalTime: 1, BurstTime: 3, Priority: 2},
		{PID: 3, ArrivalTime: 2, BurstTime: 8, Priority: 3},
	}
}

func TestRunAll_DefaultsToEveryPolicyInOrder(t *testing.T) {
	// GIVEN no explicit policy list
	// WHEN comparing
	results, err := RunAll(context.Background(), sample(), 2, nil, Options{})
	require.NoError(t, err)

	// THEN every policy ran, in canonical order
	require.Len(t, results, len(sim.AllPolicies))
	for i, name := range sim.AllPolicies {
		assert.Equal(t, name, results[i].Policy)
	}
	assert.InDelta(t, 10.0/3, results[0].Metrics.AvgWaitingTime, 1e-9)
	assert.InDelta(t, 6.0, results[3].Metrics.AvgWaitingTime, 1e-9)
}

func TestRunAll_MatchesSequentialRuns(t *testing.T) {
	results, err := RunAll(context.Background(), sample(), 2, nil, Options{Concurrency: 2})
	require.NoError(t, err)

	for _, res := range results {
		want, err := sim.Run(res.Policy, sample(), 2)
		require.NoError(t, err)
		assert.Equal(t, want.Timeline, res.Timeline, res.Policy)
		assert.Equal(t, want.Metrics, res.Metrics, res.Policy)
	}
}

func TestRunAll_DoesNotModifyInput(t *testing.T) {
	ds := sample()
	_, err := RunAll(context.Background(), ds, 2, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, sample(), ds)
}

func TestRunAll_UnknownPolicy(t *testing.T) {
	_, err := RunAll(context.Background(), sample(), 2, []string{sim.PolicyFCFS, "lottery"}, Options{})
	var cerr *sim.ConfigurationError
	assert.True(t, errors.As(err, &cerr))
}

func TestRunAll_InvalidInput(t *testing.T) {
	_, err := RunAll(context.Background(), []sim.Descriptor{{PID: 1, BurstTime: 0}}, 2, nil, Options{})
	var verr *sim.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestRunAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunAll(ctx, sample(), 2, nil, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunAll_WithTrace(t *testing.T) {
	results, err := RunAll(context.Background(), sample(), 2, []string{sim.PolicyRoundRobin}, Options{TraceLevel: trace.TraceLevelDispatches})
	require.NoError(t, err)
	require.NotNil(t, results[0].TraceSummary)
	assert.Equal(t, 9, results[0].TraceSummary.TotalDispatches)
}

func TestBest_SampleWorkload(t *testing.T) {
	results, err := RunAll(context.Background(), sample(), 2, nil, Options{})
	require.NoError(t, err)

	r := Best(results)

	// THEN fcfs wins waiting and turnaround (first among equals), and utilization ties at 100
	require.NotNil(t, r)
	assert.Equal(t, sim.PolicyFCFS, r.LowestWaiting.Policy)
	assert.Equal(t, sim.PolicyFCFS, r.HighestUtilization.Policy)
	assert.Equal(t, sim.PolicyFCFS, r.LowestTurnaround.Policy)
	assert.Equal(t, 100.0, r.HighestUtilization.Value)
}

func TestBest_PicksStrictlyBetter(t *testing.T) {
	results := []*sim.Result{
		{Policy: "a", Metrics: sim.Metrics{AvgWaitingTime: 5, CPUUtilization: 80, AvgTurnaroundTime: 9}},
		{Policy: "b", Metrics: sim.Metrics{AvgWaitingTime: 3, CPUUtilization: 80, AvgTurnaroundTime: 9}},
		{Policy: "c", Metrics: sim.Metrics{AvgWaitingTime: 3, CPUUtilization: 90, AvgTurnaroundTime: 7}},
	}
	r := Best(results)
	assert.Equal(t, Winner{"b", 3}, r.LowestWaiting)
	assert.Equal(t, Winner{"c", 90}, r.HighestUtilization)
	assert.Equal(t, Winner{"c", 7}, r.LowestTurnaround)
}

func TestBest_Empty(t *testing.T) {
	assert.Nil(t, Best(nil))
}

func TestRunAll_ObserveCalledPerPolicy(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	opts := Options{Observe: func(policy string, res *sim.Result, err error, _ time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		assert.NoError(t, err)
		assert.Equal(t, policy, res.Policy)
		seen[policy] = true
	}}

	_, err := RunAll(context.Background(), sample(), 2, nil, opts)
	require.NoError(t, err)

	assert.Len(t, seen, len(sim.AllPolicies))
}
