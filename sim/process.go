// Defines the Process struct that models one synthetic process in the simulation.
// Tracks arrival, burst, and priority inputs plus the timing fields derived by a run.

package sim

import (
	"fmt"
)

// Descriptor is the caller-supplied description of a process.
// It is immutable input; simulation state lives on Process.
type Descriptor struct {
	PID         int   `json:"pid" yaml:"pid"`
	ArrivalTime int64 `json:"arrival_time" yaml:"arrival_time"`
	BurstTime   int64 `json:"burst_time" yaml:"burst_time"`
	Priority    int   `json:"priority" yaml:"priority"` // lower value = higher priority
}

// Process models a single process's lifecycle within one simulation run.
// A Process is owned by exactly one run; use Clone before handing it to another.
type Process struct {
	PID         int
	ArrivalTime int64
	BurstTime   int64
	Priority    int

	RemainingTime  int64 // CPU time still needed; starts at BurstTime, never increases
	StartTime      int64 // first dispatch time, valid only when started is true
	FinishTime     int64 // completion time, valid only when finished is true
	WaitingTime    int64 // TurnaroundTime - BurstTime, set by Complete
	TurnaroundTime int64 // FinishTime - ArrivalTime, set by Complete

	started  bool
	finished bool
}

// NewProcess creates a Process in its pre-run state from a descriptor.
func NewProcess(d Descriptor) *Process {
	p := &Process{
		PID:         d.PID,
		ArrivalTime: d.ArrivalTime,
		BurstTime:   d.BurstTime,
		Priority:    d.Priority,
	}
	p.Reset()
	return p
}

// Descriptor returns the immutable inputs of p.
func (p *Process) Descriptor() Descriptor {
	return Descriptor{PID: p.PID, ArrivalTime: p.ArrivalTime, BurstTime: p.BurstTime, Priority: p.Priority}
}

// Reset restores the pre-run state so the same logical process can be simulated again.
func (p *Process) Reset() {
	p.RemainingTime = p.BurstTime
	p.StartTime = 0
	p.FinishTime = 0
	p.WaitingTime = 0
	p.TurnaroundTime = 0
	p.started = false
	p.finished = false
}

// Clone returns an independent copy of p, including its current simulation state.
func (p *Process) Clone() *Process {
	c := *p
	return &c
}

// Start records the first dispatch time. Later calls are no-ops.
func (p *Process) Start(now int64) {
	if p.started {
		return
	}
	p.StartTime = now
	p.started = true
}

// Started reports whether the process has been dispatched at least once.
func (p *Process) Started() bool {
	return p.started
}

// Execute consumes up to quantum units of remaining CPU time and returns the amount consumed.
func (p *Process) Execute(quantum int64) int64 {
	if quantum <= 0 || p.RemainingTime <= 0 {
		return 0
	}
	used := min(quantum, p.RemainingTime)
	p.RemainingTime -= used
	return used
}

// IsCompleted reports whether the process needs no more CPU time.
func (p *Process) IsCompleted() bool {
	return p.RemainingTime <= 0
}

// Complete records the finish time and derives turnaround and waiting time.
// Panics if the process still has remaining work: FinishTime is set iff RemainingTime == 0.
func (p *Process) Complete(now int64) {
	if !p.IsCompleted() {
		panic(fmt.Sprintf("Complete: process %d still has %d remaining", p.PID, p.RemainingTime))
	}
	p.RemainingTime = 0
	p.FinishTime = now
	p.finished = true
	p.TurnaroundTime = p.FinishTime - p.ArrivalTime
	p.WaitingTime = p.TurnaroundTime - p.BurstTime
}

// Finished reports whether Complete has been called.
func (p *Process) Finished() bool {
	return p.finished
}

// copyTimingFrom copies the run-derived fields of src onto p.
func (p *Process) copyTimingFrom(src *Process) {
	p.RemainingTime = src.RemainingTime
	p.StartTime = src.StartTime
	p.FinishTime = src.FinishTime
	p.WaitingTime = src.WaitingTime
	p.TurnaroundTime = src.TurnaroundTime
	p.started = src.started
	p.finished = src.finished
}

// This method returns a human-readable string representation of a Process.
func (p Process) String() string {
	return fmt.Sprintf("Process: (PID: %d, Arrival: %d, Burst: %d, Priority: %d, Remaining: %d)",
		p.PID, p.ArrivalTime, p.BurstTime, p.Priority, p.RemainingTime)
}
