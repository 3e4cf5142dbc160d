// Package testutil provides shared test infrastructure for the CPU dispatching simulator.
// It consolidates golden dataset types and assertion helpers used across
// sim/ and sim/compare/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase represents a single scenario from the golden dataset.
type GoldenTestCase struct {
	Name      string          `json:"name"`
	Policy    string          `json:"policy"`
	Quantum   int64           `json:"quantum"`
	Processes []GoldenProcess `json:"processes"`
	Timeline  []GoldenSegment `json:"timeline"`
	Results   []GoldenOutcome `json:"results"`
	Metrics   GoldenMetrics   `json:"metrics"`
}

// GoldenProcess is one input process of a scenario.
type GoldenProcess struct {
	PID         int   `json:"pid"`
	ArrivalTime int64 `json:"arrival_time"`
	BurstTime   int64 `json:"burst_time"`
	Priority    int   `json:"priority"`
}

// GoldenSegment is one expected (pid, duration) timeline entry; pid -1 is idle.
type GoldenSegment struct {
	PID      int   `json:"pid"`
	Duration int64 `json:"duration"`
}

// GoldenOutcome is the expected per-process timing after a run.
type GoldenOutcome struct {
	PID            int   `json:"pid"`
	FinishTime     int64 `json:"finish_time"`
	TurnaroundTime int64 `json:"turnaround_time"`
	WaitingTime    int64 `json:"waiting_time"`
}

// GoldenMetrics represents the expected aggregate metrics of a scenario.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	TotalTime          int64 `json:"total_time"`
	IdleTime           int64 `json:"idle_time"`
	CompletedProcesses int   `json:"completed_processes"`

	// Floating-point metrics, compared with relative tolerance
	AvgTurnaroundTime float64 `json:"avg_turnaround_time"`
	AvgWaitingTime    float64 `json:"avg_waiting_time"`
	AvgResponseTime   float64 `json:"avg_response_time"`
	CPUUtilization    float64 `json:"cpu_utilization"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
