package sim

// nonPreemptive holds the ready set shared by run-to-completion policies.
// SelectNext takes the minimum under less; ties fall back to admission order.
type nonPreemptive struct {
	ready ReadyQueue
	less  func(a, b *Process) bool
}

func (n *nonPreemptive) Admit(p *Process) {
	n.ready.Enqueue(p)
}

func (n *nonPreemptive) SelectNext() *Process {
	return n.ready.SelectMin(n.less)
}

// ExecuteStep runs p for its full remaining burst in one segment.
func (n *nonPreemptive) ExecuteStep(sim *Simulator, p *Process) {
	sim.RunSlice(p, p.RemainingTime)
}

func (n *nonPreemptive) Pending() int {
	return n.ready.Len()
}

// FCFSPolicy runs processes in order of arrival, each to completion.
// Ties on arrival time are broken by PID.
type FCFSPolicy struct {
	nonPreemptive
}

// NewFCFSPolicy creates a First-Come-First-Served policy.
func NewFCFSPolicy() *FCFSPolicy {
	return &FCFSPolicy{nonPreemptive{less: func(a, b *Process) bool {
		if a.ArrivalTime != b.ArrivalTime {
			return a.ArrivalTime < b.ArrivalTime
		}
		return a.PID < b.PID
	}}}
}

func (f *FCFSPolicy) Name() string { return PolicyFCFS }

// SJFPolicy runs the ready process with the least remaining time, to completion.
// Ties on remaining time are broken by PID.
// Warning: SJF can starve long processes under sustained arrivals.
type SJFPolicy struct {
	nonPreemptive
}

// NewSJFPolicy creates a non-preemptive Shortest-Job-First policy.
func NewSJFPolicy() *SJFPolicy {
	return &SJFPolicy{nonPreemptive{less: func(a, b *Process) bool {
		if a.RemainingTime != b.RemainingTime {
			return a.RemainingTime < b.RemainingTime
		}
		return a.PID < b.PID
	}}}
}

func (s *SJFPolicy) Name() string { return PolicySJF }

// PriorityPolicy runs the ready process with the smallest priority value, to completion.
// Ties on priority are broken by PID.
type PriorityPolicy struct {
	nonPreemptive
}

// NewPriorityPolicy creates a non-preemptive priority policy.
func NewPriorityPolicy() *PriorityPolicy {
	return &PriorityPolicy{nonPreemptive{less: func(a, b *Process) bool {
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.PID < b.PID
	}}}
}

func (p *PriorityPolicy) Name() string { return PolicyPriority }
