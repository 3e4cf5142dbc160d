// Package sim provides the core engine of the CPU dispatching simulator.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - process.go: Process lifecycle (pending, ready, running, finished) and timing fields
//   - simulator.go: The dispatch loop, arrival admission, idle handling, and slice execution
//   - policy.go: The DispatchPolicy interface and the by-name factory
//
// # Policies
//
// Non-preemptive policies live in scheduler.go and differ only in their ordering:
//   - fcfs: earliest arrival first
//   - sjf: shortest remaining burst first
//   - priority: lowest priority value first
//
// Preemptive policies live in round_robin.go:
//   - rr: FIFO with a fixed time quantum
//   - priority_rr: Round Robin inside strict priority groups
//
// All tie-breaks end in admission order and then PID, so runs are deterministic.
//
// # Outputs
//
// A run produces a Timeline (timeline.go) of (pid, duration) segments, with IdlePID
// marking idle gaps, and per-process timing reduced by CalculateMetrics (metrics.go).
// Run (run.go) is the validated entry point used by the CLI and HTTP server.
//
// Sub-packages:
//   - sim/workload/: Random process generation and process-file I/O
//   - sim/trace/: Dispatch decision recording
//   - sim/compare/: Concurrent multi-policy comparison
package sim
