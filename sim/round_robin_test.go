package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundRobin_SampleTimeline(t *testing.T) {
	// GIVEN the sample workload and quantum 2
	// WHEN run under Round Robin
	s := runPolicy(PolicyRoundRobin, 2, sampleDescriptors())

	// THEN arrivals during a slice queue ahead of the preempted process
	want := Timeline{seg(1, 2), seg(2, 2), seg(3, 2), seg(1, 2), seg(2, 1), seg(3, 2), seg(1, 1), seg(3, 2), seg(3, 2)}
	assert.Equal(t, want, s.Timeline)
	assert.Equal(t, 9, s.Dispatches)
	assert.Equal(t, 6, s.Preemptions)
}

func TestRoundRobin_NoSegmentExceedsQuantum(t *testing.T) {
	for _, q := range []int64{1, 2, 3, 7} {
		for _, name := range []string{PolicyRoundRobin, PolicyPriorityRR} {
			s := runPolicy(name, q, sampleDescriptors())
			for _, sg := range s.Timeline {
				if !sg.IsIdle() {
					assert.LessOrEqual(t, sg.Duration, q, "%s q=%d pid %d", name, q, sg.PID)
				}
			}
		}
	}
}

func TestRoundRobin_SimultaneousArrivalsAlternate(t *testing.T) {
	ds := []Descriptor{
		{PID: 1, ArrivalTime: 0, BurstTime: 4},
		{PID: 2, ArrivalTime: 0, BurstTime: 4},
	}
	s := runPolicy(PolicyRoundRobin, 3, ds)
	assert.Equal(t, Timeline{seg(1, 3), seg(2, 3), seg(1, 1), seg(2, 1)}, s.Timeline)
}

func TestRoundRobin_LargeQuantumMatchesFCFS(t *testing.T) {
	rr := runPolicy(PolicyRoundRobin, 100, sampleDescriptors())
	fcfs := runPolicy(PolicyFCFS, 0, sampleDescriptors())
	assert.Equal(t, fcfs.Timeline, rr.Timeline)
	assert.Zero(t, rr.Preemptions)
}

func TestRoundRobin_SingleProcessIsNotMerged(t *testing.T) {
	s := runPolicy(PolicyRoundRobin, 2, []Descriptor{{PID: 7, BurstTime: 5}})
	assert.Equal(t, Timeline{seg(7, 2), seg(7, 2), seg(7, 1)}, s.Timeline)
}

func TestPriorityRR_SampleTimeline(t *testing.T) {
	s := runPolicy(PolicyPriorityRR, 2, sampleDescriptors())

	want := Timeline{seg(1, 2), seg(1, 2), seg(1, 1), seg(2, 2), seg(2, 1), seg(3, 2), seg(3, 2), seg(3, 2), seg(3, 2)}
	assert.Equal(t, want, s.Timeline)
}

func TestPriorityRR_HigherPriorityArrivalTakesNextSlice(t *testing.T) {
	// GIVEN a low-priority job running when a high-priority job arrives
	ds := []Descriptor{
		{PID: 1, ArrivalTime: 0, BurstTime: 4, Priority: 5},
		{PID: 2, ArrivalTime: 1, BurstTime: 2, Priority: 1},
	}

	// WHEN run with quantum 2
	s := runPolicy(PolicyPriorityRR, 2, ds)

	// THEN the high-priority job runs as soon as the current slice ends
	assert.Equal(t, Timeline{seg(1, 2), seg(2, 2), seg(1, 2)}, s.Timeline)
}

func TestPriorityRR_RoundRobinWithinGroup(t *testing.T) {
	ds := []Descriptor{
		{PID: 1, ArrivalTime: 0, BurstTime: 3, Priority: 2},
		{PID: 2, ArrivalTime: 0, BurstTime: 3, Priority: 2},
		{PID: 3, ArrivalTime: 0, BurstTime: 1, Priority: 9},
	}
	s := runPolicy(PolicyPriorityRR, 2, ds)
	assert.Equal(t, Timeline{seg(1, 2), seg(2, 2), seg(1, 1), seg(2, 1), seg(3, 1)}, s.Timeline)
}

func TestRoundRobinConstructors_PanicOnBadQuantum(t *testing.T) {
	assert.Panics(t, func() { NewRoundRobinPolicy(0) })
	assert.Panics(t, func() { NewPriorityRRPolicy(-1) })
}
