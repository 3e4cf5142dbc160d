package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cpusim/cpusim/sim/trace"
)

// ProcessResult is a descriptor enriched with the timing derived by a run.
// StartTime and FinishTime are nil for processes that never started or finished.
type ProcessResult struct {
	Descriptor
	StartTime      *int64 `json:"start_time"`
	FinishTime     *int64 `json:"finish_time"`
	WaitingTime    int64  `json:"waiting_time"`
	TurnaroundTime int64  `json:"turnaround_time"`
}

// Result is the complete output of one simulation run.
type Result struct {
	Policy    string          `json:"policy"`
	Quantum   int64           `json:"quantum,omitempty"` // 0 for policies without a quantum
	StartTime int64           `json:"start_time"`        // clock value of the first segment
	Timeline  Timeline        `json:"timeline"`
	Metrics   Metrics         `json:"metrics"`
	Processes []ProcessResult `json:"processes"`

	Trace        *trace.SimulationTrace `json:"-"`
	TraceSummary *trace.TraceSummary    `json:"trace_summary,omitempty"`
}

// Option configures optional behavior of Run.
type Option func(*runOptions)

type runOptions struct {
	traceLevel trace.TraceLevel
}

// WithTrace enables dispatch tracing at the given level.
func WithTrace(level trace.TraceLevel) Option {
	return func(o *runOptions) {
		o.traceLevel = level
	}
}

// Run simulates policyName over fresh processes built from descriptors.
// The descriptors are never modified. Configuration is checked before input: an
// unknown policy yields *ConfigurationError, a bad quantum or descriptor yields
// *ValidationError, and in both cases no simulation takes place.
func Run(policyName string, descriptors []Descriptor, quantum int64, opts ...Option) (*Result, error) {
	o := runOptions{traceLevel: trace.TraceLevelNone}
	for _, opt := range opts {
		opt(&o)
	}
	if !trace.IsValidTraceLevel(string(o.traceLevel)) {
		return nil, &ConfigurationError{Field: "trace", Value: string(o.traceLevel), Msg: "unknown trace level; valid: none, dispatches"}
	}

	policy, err := NewPolicy(policyName, quantum)
	if err != nil {
		return nil, err
	}
	if err := ValidateDescriptors(descriptors); err != nil {
		return nil, err
	}

	processes := make([]*Process, len(descriptors))
	for i, d := range descriptors {
		processes[i] = NewProcess(d)
	}

	s := NewSimulator(processes, policy)
	traceCfg := trace.TraceConfig{Level: o.traceLevel}
	if traceCfg.Enabled() {
		s.Trace = trace.NewSimulationTrace(traceCfg)
	}
	s.Run()

	if s.Completed() != len(processes) {
		// Only a policy that loses processes gets here.
		return nil, fmt.Errorf("simulation of %s completed %d of %d processes", policyName, s.Completed(), len(processes))
	}

	res := &Result{
		Policy:    policyName,
		StartTime: s.Origin,
		Timeline:  s.Timeline,
		Metrics:   CalculateMetrics(s.Timeline, processes),
		Processes: NewProcessResults(processes),
		Trace:     s.Trace,
	}
	if PolicyUsesQuantum(policyName) {
		res.Quantum = quantum
	}
	if s.Trace != nil {
		res.TraceSummary = trace.Summarize(s.Trace)
	}
	logrus.Infof("%s: %d processes, total time %d, avg waiting %.2f, utilization %.2f%%",
		policyName, len(processes), res.Metrics.TotalTime, res.Metrics.AvgWaitingTime, res.Metrics.CPUUtilization)
	return res, nil
}

// NewProcessResults converts processes into their reportable form, preserving order.
func NewProcessResults(processes []*Process) []ProcessResult {
	out := make([]ProcessResult, len(processes))
	for i, p := range processes {
		r := ProcessResult{
			Descriptor:     p.Descriptor(),
			WaitingTime:    p.WaitingTime,
			TurnaroundTime: p.TurnaroundTime,
		}
		if p.Started() {
			start := p.StartTime
			r.StartTime = &start
		}
		if p.Finished() {
			finish := p.FinishTime
			r.FinishTime = &finish
		}
		out[i] = r
	}
	return out
}
