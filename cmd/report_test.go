package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpusim/cpusim/sim"
	"github.com/cpusim/cpusim/sim/trace"
)

func sampleDescriptors() []sim.Descriptor {
	return []sim.Descriptor{
		{PID: 1, ArrivalTime: 0, BurstTime: 5, Priority: 1},
		{PID: 2, ArrivalTime: 1, BurstTime: 3, Priority: 2},
		{PID: 3, ArrivalTime: 2, BurstTime: 8, Priority: 3},
	}
}

func runAll(t *testing.T) []*sim.Result {
	t.Helper()
	results, err := runPolicies(context.Background(), runSettings{Policy: sim.PolicyAll, Quantum: 2}, sampleDescriptors(), 2)
	require.NoError(t, err)
	return results
}

func TestRunPolicies_SingleAndAll(t *testing.T) {
	single, err := runPolicies(context.Background(), runSettings{Policy: "rr", Quantum: 2, Trace: trace.TraceLevelDispatches}, sampleDescriptors(), 0)
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, "rr", single[0].Policy)
	require.NotNil(t, single[0].TraceSummary)

	all := runAll(t)
	require.Len(t, all, len(sim.AllPolicies))
	for i, res := range all {
		assert.Equal(t, sim.AllPolicies[i], res.Policy)
	}
}

func TestRunPolicies_PropagatesValidationError(t *testing.T) {
	_, err := runPolicies(context.Background(), runSettings{Policy: "rr", Quantum: 0}, sampleDescriptors(), 0)
	assert.ErrorContains(t, err, "quantum")
}

func TestRenderResults_Table(t *testing.T) {
	// GIVEN results for every policy
	results := runAll(t)

	// WHEN rendered as tables
	var buf bytes.Buffer
	require.NoError(t, renderResults(&buf, formatTable, sampleDescriptors(), results))
	out := buf.String()

	// THEN each run, its timeline, and the comparison appear
	assert.Contains(t, out, "FCFS")
	assert.Contains(t, out, "RR (quantum 2)")
	assert.Contains(t, out, "[   0 -    5] P1")
	assert.Contains(t, out, "Average Waiting Time    : 3.33")
	assert.Contains(t, out, "Policy comparison")
	assert.Contains(t, out, "Lowest average waiting time: fcfs (3.33)")
	assert.Contains(t, out, "Highest CPU utilization: fcfs (100.00%)")
}

func TestRenderResults_TimelineShowsIdle(t *testing.T) {
	res, err := sim.Run("fcfs", []sim.Descriptor{
		{PID: 1, ArrivalTime: 0, BurstTime: 2, Priority: 1},
		{PID: 2, ArrivalTime: 5, BurstTime: 3, Priority: 1},
	}, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	writeTimeline(&buf, res)

	assert.Contains(t, buf.String(), "[   2 -    5] idle")
	assert.Contains(t, buf.String(), "[   5 -    8] P2")
}

func TestRenderResults_JSON(t *testing.T) {
	results := runAll(t)

	var buf bytes.Buffer
	require.NoError(t, renderResults(&buf, formatJSON, sampleDescriptors(), results))

	var doc struct {
		Processes []sim.Descriptor `json:"processes"`
		Results   []struct {
			Policy  string `json:"policy"`
			Metrics struct {
				TotalTime int64 `json:"total_time"`
			} `json:"metrics"`
		} `json:"results"`
		Best *struct {
			LowestWaiting struct {
				Policy string `json:"policy"`
			} `json:"lowest_waiting"`
		} `json:"best"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Len(t, doc.Processes, 3)
	require.Len(t, doc.Results, 5)
	assert.Equal(t, int64(16), doc.Results[3].Metrics.TotalTime)
	require.NotNil(t, doc.Best)
	assert.Equal(t, "fcfs", doc.Best.LowestWaiting.Policy)
}

func TestRenderResults_JSONSingleRunHasNoRanking(t *testing.T) {
	results, err := runPolicies(context.Background(), runSettings{Policy: "sjf"}, sampleDescriptors(), 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderResults(&buf, formatJSON, sampleDescriptors(), results))
	assert.NotContains(t, buf.String(), `"best"`)
}

func TestRenderResults_UnknownFormat(t *testing.T) {
	err := renderResults(&bytes.Buffer{}, "xml", nil, nil)
	assert.ErrorContains(t, err, "xml")
}

func TestWriteResultsFile(t *testing.T) {
	// GIVEN fcfs and rr results
	results := runAll(t)
	path := filepath.Join(t.TempDir(), "results.txt")

	// WHEN written to a results file
	require.NoError(t, WriteResultsFile(path, []*sim.Result{results[0], results[3]}))

	// THEN the summary has the header and one block per policy
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := strings.Join([]string{
		"CPU Scheduler Simulation Results",
		"===============================",
		"",
		"FCFS Metrics:",
		"  Average Turnaround Time: 8.67",
		"  Average Waiting Time: 3.33",
		"  CPU Utilization: 100.00%",
		"  Total Time: 16",
		"",
		"RR Metrics:",
		"  Average Turnaround Time: 11.33",
		"  Average Waiting Time: 6.00",
		"  CPU Utilization: 100.00%",
		"  Total Time: 16",
		"",
		"",
	}, "\n")
	assert.Equal(t, want, string(data))
}

func TestWriteResultsFile_BadPath(t *testing.T) {
	err := WriteResultsFile(filepath.Join(t.TempDir(), "missing", "results.txt"), nil)
	assert.ErrorContains(t, err, "creating results file")
}
