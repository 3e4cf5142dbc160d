// sim/simulator.go
package sim

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/cpusim/cpusim/sim/trace"
)

// Simulator is the per-run object that holds simulation time, the ready state, and the loop.
// A Simulator is single-use and owns private copies of its processes, so any number of
// simulators may run concurrently over the same logical process set.
type Simulator struct {
	Clock  int64
	Origin int64 // clock value at which the run started (earliest arrival)
	// Timeline is the ordered execution record, idle periods included.
	Timeline Timeline
	Policy   DispatchPolicy
	// Trace records dispatch decisions when non-nil.
	Trace *trace.SimulationTrace

	Dispatches  int
	Preemptions int

	originals map[int]*Process // PID -> caller-owned instance receiving final timing
	order     []*Process       // caller-owned instances in caller order
	pending   []*Process       // owned copies not yet admitted, by (ArrivalTime, PID)
	total     int
	completed int
	done      bool
}

// NewSimulator prepares a run of policy over processes.
// Each process is cloned and reset; the caller's instances are only written when a
// copy completes. Inputs are assumed valid (see ValidateDescriptors).
func NewSimulator(processes []*Process, policy DispatchPolicy) *Simulator {
	if policy == nil {
		panic("NewSimulator: policy must not be nil")
	}
	s := &Simulator{
		Timeline:  make(Timeline, 0),
		Policy:    policy,
		originals: make(map[int]*Process, len(processes)),
		order:     processes,
		pending:   make([]*Process, 0, len(processes)),
		total:     len(processes),
	}
	for _, p := range processes {
		owned := p.Clone()
		owned.Reset()
		s.originals[p.PID] = p
		s.pending = append(s.pending, owned)
	}
	// Admission order: arrival time, then PID.
	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].ArrivalTime != s.pending[j].ArrivalTime {
			return s.pending[i].ArrivalTime < s.pending[j].ArrivalTime
		}
		return s.pending[i].PID < s.pending[j].PID
	})
	if len(s.pending) > 0 {
		s.Origin = s.pending[0].ArrivalTime
		s.Clock = s.Origin
	}
	return s
}

// Run drives the policy until every process has completed, or until no process is
// ready and none will arrive (which only happens for a policy that loses processes).
func (sim *Simulator) Run() {
	if sim.done {
		panic("Simulator.Run: simulator already ran; create a new one per run")
	}
	sim.done = true
	logrus.Debugf("[tick %07d] Starting %s with %d processes", sim.Clock, sim.Policy.Name(), sim.total)

	for sim.completed < sim.total {
		sim.AdmitArrivals()

		if sim.Policy.Pending() == 0 {
			if len(sim.pending) == 0 {
				logrus.Warnf("[tick %07d] %d processes unreachable: nothing ready and no future arrival",
					sim.Clock, sim.total-sim.completed)
				break
			}
			sim.idleUntil(sim.pending[0].ArrivalTime)
			continue
		}

		next := sim.Policy.SelectNext()
		if next == nil {
			logrus.Warnf("[tick %07d] %s reported %d pending but selected none", sim.Clock, sim.Policy.Name(), sim.Policy.Pending())
			break
		}
		sim.Policy.ExecuteStep(sim, next)

		if next.IsCompleted() {
			sim.complete(next)
		}
	}
	logrus.Debugf("[tick %07d] Simulation ended: %d/%d completed, %d segments",
		sim.Clock, sim.completed, sim.total, len(sim.Timeline))
}

// AdmitArrivals hands every process with ArrivalTime <= Clock to the policy, in
// admission order, and returns how many were admitted.
func (sim *Simulator) AdmitArrivals() int {
	n := 0
	for n < len(sim.pending) && sim.pending[n].ArrivalTime <= sim.Clock {
		p := sim.pending[n]
		logrus.Debugf("[tick %07d] << Arrival: %d", sim.Clock, p.PID)
		sim.Policy.Admit(p)
		n++
	}
	sim.pending = sim.pending[n:]
	return n
}

// RunSlice executes p for up to slice time units, appends the segment to the
// timeline, and advances the clock by the time actually consumed.
func (sim *Simulator) RunSlice(p *Process, slice int64) {
	p.Start(sim.Clock)
	used := p.Execute(slice)
	if used <= 0 {
		panic("RunSlice: dispatched process consumed no CPU time")
	}
	sim.Dispatches++
	if sim.Trace != nil {
		sim.Trace.RecordDispatch(trace.DispatchRecord{
			Clock:      sim.Clock,
			PID:        p.PID,
			Slice:      used,
			ReadyDepth: sim.Policy.Pending(),
			Completed:  p.IsCompleted(),
		})
	}
	logrus.Debugf("[tick %07d] Dispatch %d for %d (remaining %d)", sim.Clock, p.PID, used, p.RemainingTime)
	sim.Timeline.Append(p.PID, used)
	sim.Clock += used
}

// notePreemption records that p was requeued after its slice.
func (sim *Simulator) notePreemption(p *Process) {
	sim.Preemptions++
	if sim.Trace != nil {
		sim.Trace.MarkPreempted()
	}
	logrus.Debugf("[tick %07d] Preempt %d (remaining %d)", sim.Clock, p.PID, p.RemainingTime)
}

// idleUntil emits an idle segment up to the given arrival time.
func (sim *Simulator) idleUntil(arrival int64) {
	gap := arrival - sim.Clock
	if gap <= 0 {
		panic("idleUntil: next arrival is not in the future")
	}
	if sim.Trace != nil {
		sim.Trace.RecordIdle(trace.IdleRecord{Clock: sim.Clock, Duration: gap})
	}
	logrus.Debugf("[tick %07d] Idle for %d", sim.Clock, gap)
	sim.Timeline.Append(IdlePID, gap)
	sim.Clock = arrival
}

// complete finalizes p and copies its timing onto the caller's instance.
func (sim *Simulator) complete(p *Process) {
	p.Complete(sim.Clock)
	sim.completed++
	if orig, ok := sim.originals[p.PID]; ok {
		orig.copyTimingFrom(p)
	}
	logrus.Debugf("[tick %07d] Finished %d: turnaround %d, waiting %d", sim.Clock, p.PID, p.TurnaroundTime, p.WaitingTime)
}

// Completed returns the number of processes that finished.
func (sim *Simulator) Completed() int {
	return sim.completed
}

// Processes returns the caller-owned process instances in their original order,
// with timing fields populated for every completed process.
func (sim *Simulator) Processes() []*Process {
	return sim.order
}
