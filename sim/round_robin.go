package sim

// RoundRobinPolicy serves ready processes in FIFO admission order, preempting
// after one quantum. A preempted process goes to the back of the queue, behind
// every process that arrived while it was running.
type RoundRobinPolicy struct {
	Quantum int64
	ready   ReadyQueue
}

// NewRoundRobinPolicy creates a Round Robin policy. quantum must be >= 1.
func NewRoundRobinPolicy(quantum int64) *RoundRobinPolicy {
	if quantum < 1 {
		panic("NewRoundRobinPolicy: quantum must be >= 1")
	}
	return &RoundRobinPolicy{Quantum: quantum}
}

func (r *RoundRobinPolicy) Name() string { return PolicyRoundRobin }

func (r *RoundRobinPolicy) Admit(p *Process) {
	r.ready.Enqueue(p)
}

func (r *RoundRobinPolicy) SelectNext() *Process {
	return r.ready.Dequeue()
}

// ExecuteStep runs p for at most one quantum. Arrivals during the slice are
// admitted first; only then is an unfinished p requeued.
func (r *RoundRobinPolicy) ExecuteStep(sim *Simulator, p *Process) {
	sim.RunSlice(p, min(r.Quantum, p.RemainingTime))
	sim.AdmitArrivals()
	if !p.IsCompleted() {
		sim.notePreemption(p)
		r.ready.Enqueue(p)
	}
}

func (r *RoundRobinPolicy) Pending() int {
	return r.ready.Len()
}

// PriorityRRPolicy serves the lowest-valued priority group first and applies
// Round Robin within the group. A preempted process returns to the back of its
// own group, behind arrivals of the same priority admitted during its slice.
type PriorityRRPolicy struct {
	Quantum int64
	groups  *PriorityQueues
}

// NewPriorityRRPolicy creates a Priority + Round Robin policy. quantum must be >= 1.
func NewPriorityRRPolicy(quantum int64) *PriorityRRPolicy {
	if quantum < 1 {
		panic("NewPriorityRRPolicy: quantum must be >= 1")
	}
	return &PriorityRRPolicy{Quantum: quantum, groups: NewPriorityQueues()}
}

func (pr *PriorityRRPolicy) Name() string { return PolicyPriorityRR }

func (pr *PriorityRRPolicy) Admit(p *Process) {
	pr.groups.Enqueue(p)
}

func (pr *PriorityRRPolicy) SelectNext() *Process {
	return pr.groups.Dequeue()
}

// ExecuteStep runs p for at most one quantum, then admits arrivals before requeueing p.
func (pr *PriorityRRPolicy) ExecuteStep(sim *Simulator, p *Process) {
	sim.RunSlice(p, min(pr.Quantum, p.RemainingTime))
	sim.AdmitArrivals()
	if !p.IsCompleted() {
		sim.notePreemption(p)
		pr.groups.Enqueue(p)
	}
}

func (pr *PriorityRRPolicy) Pending() int {
	return pr.groups.Len()
}
