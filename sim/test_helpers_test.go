package sim

// sampleDescriptors is the three-process workload used throughout the engine tests:
// P1(arrival 0, burst 5, priority 1), P2(1, 3, 2), P3(2, 8, 3).
func sampleDescriptors() []Descriptor {
	return []Descriptor{
		{PID: 1, ArrivalTime: 0, BurstTime: 5, Priority: 1},
		{PID: 2, ArrivalTime: 1, BurstTime: 3, Priority: 2},
		{PID: 3, ArrivalTime: 2, BurstTime: 8, Priority: 3},
	}
}

// newProcesses builds fresh processes from descriptors.
func newProcesses(ds []Descriptor) []*Process {
	out := make([]*Process, len(ds))
	for i, d := range ds {
		out[i] = NewProcess(d)
	}
	return out
}

// runPolicy simulates ds under a freshly built policy and returns the simulator.
func runPolicy(name string, quantum int64, ds []Descriptor) *Simulator {
	policy, err := NewPolicy(name, quantum)
	if err != nil {
		panic(err)
	}
	s := NewSimulator(newProcesses(ds), policy)
	s.Run()
	return s
}

// seg is shorthand for a timeline segment.
func seg(pid int, d int64) Segment {
	return Segment{PID: pid, Duration: d}
}
