// Package trace provides dispatch-trace recording for scheduling policy analysis.
// This package has no dependencies on sim/ and stores pure data types.
package trace

// DispatchRecord captures a single dispatch decision and its outcome.
type DispatchRecord struct {
	Clock      int64 `json:"clock"`       // simulated time the slice started
	PID        int   `json:"pid"`         // dispatched process
	Slice      int64 `json:"slice"`       // CPU time granted
	ReadyDepth int   `json:"ready_depth"` // processes still waiting when the slice started
	Preempted  bool  `json:"preempted"`   // process was requeued after the slice
	Completed  bool  `json:"completed"`   // process finished at the end of the slice
}

// IdleRecord captures a period in which no process was ready.
type IdleRecord struct {
	Clock    int64 `json:"clock"`
	Duration int64 `json:"duration"`
}
