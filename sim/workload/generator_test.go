package workload

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpusim/cpusim/sim"
)

func TestGenerateDescriptors_RespectsRanges(t *testing.T) {
	// GIVEN a spec with narrow ranges
	spec := &GeneratorSpec{
		Seed:     3,
		Count:    200,
		Arrival:  Range{Min: 5, Max: 9},
		Burst:    Range{Min: 1, Max: 3},
		Priority: Range{Min: -2, Max: 2},
	}

	// WHEN generating
	ds, err := GenerateDescriptors(spec)
	require.NoError(t, err)

	// THEN every value lies within its inclusive range
	require.Len(t, ds, 200)
	seenArrival := map[int64]bool{}
	for _, d := range ds {
		assert.GreaterOrEqual(t, d.ArrivalTime, int64(5))
		assert.LessOrEqual(t, d.ArrivalTime, int64(9))
		assert.GreaterOrEqual(t, d.BurstTime, int64(1))
		assert.LessOrEqual(t, d.BurstTime, int64(3))
		assert.GreaterOrEqual(t, d.Priority, -2)
		assert.LessOrEqual(t, d.Priority, 2)
		seenArrival[d.ArrivalTime] = true
	}
	// both endpoints are reachable
	assert.True(t, seenArrival[5])
	assert.True(t, seenArrival[9])
	assert.NoError(t, sim.ValidateDescriptors(ds))
}

func TestGenerateDescriptors_PIDsAndOrder(t *testing.T) {
	spec := DefaultGeneratorSpec()
	spec.Count = 50

	ds, err := GenerateDescriptors(&spec)
	require.NoError(t, err)

	pids := map[int]bool{}
	for i, d := range ds {
		pids[d.PID] = true
		if i > 0 {
			assert.LessOrEqual(t, ds[i-1].ArrivalTime, d.ArrivalTime, "sorted by arrival")
			if ds[i-1].ArrivalTime == d.ArrivalTime {
				assert.Less(t, ds[i-1].PID, d.PID, "ties keep generation order")
			}
		}
	}
	for pid := 1; pid <= 50; pid++ {
		assert.True(t, pids[pid], "pid %d", pid)
	}
}

func TestGenerateDescriptors_Deterministic(t *testing.T) {
	spec := DefaultGeneratorSpec()
	a, err := GenerateDescriptors(&spec)
	require.NoError(t, err)
	b, err := GenerateDescriptors(&spec)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	spec.Seed++
	c, err := GenerateDescriptors(&spec)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerateDescriptors_PriorityRangeDoesNotShiftBursts(t *testing.T) {
	// GIVEN two specs that differ only in priority range
	narrow := DefaultGeneratorSpec()
	wide := DefaultGeneratorSpec()
	wide.Priority = Range{Min: 1, Max: 1000}

	a, err := GenerateDescriptors(&narrow)
	require.NoError(t, err)
	b, err := GenerateDescriptors(&wide)
	require.NoError(t, err)

	// THEN arrivals and bursts are unchanged per PID
	byPID := func(ds []sim.Descriptor) map[int]sim.Descriptor {
		m := map[int]sim.Descriptor{}
		for _, d := range ds {
			m[d.PID] = d
		}
		return m
	}
	am, bm := byPID(a), byPID(b)
	for pid, d := range am {
		assert.Equal(t, d.ArrivalTime, bm[pid].ArrivalTime)
		assert.Equal(t, d.BurstTime, bm[pid].BurstTime)
	}
}

func TestGenerateDescriptors_ZeroCount(t *testing.T) {
	spec := DefaultGeneratorSpec()
	spec.Count = 0
	ds, err := GenerateDescriptors(&spec)
	require.NoError(t, err)
	assert.Empty(t, ds)
}

func TestGenerateDescriptors_InvalidSpec(t *testing.T) {
	spec := DefaultGeneratorSpec()
	spec.Burst.Min = 0
	_, err := GenerateDescriptors(&spec)
	assert.ErrorContains(t, err, "invalid generator spec")
}

func TestGenerateDescriptors_FixedRanges(t *testing.T) {
	spec := &GeneratorSpec{Count: 3, Arrival: Range{Min: 4, Max: 4}, Burst: Range{Min: 2, Max: 2}, Priority: Range{Min: 1, Max: 1}}
	ds, err := GenerateDescriptors(spec)
	require.NoError(t, err)
	assert.Equal(t, []sim.Descriptor{
		{PID: 1, ArrivalTime: 4, BurstTime: 2, Priority: 1},
		{PID: 2, ArrivalTime: 4, BurstTime: 2, Priority: 1},
		{PID: 3, ArrivalTime: 4, BurstTime: 2, Priority: 1},
	}, ds)
}

func TestGenerateDescriptors_WideRangesRejectedWithoutPanic(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GeneratorSpec)
	}{
		{"full arrival range", func(s *GeneratorSpec) { s.Arrival = Range{Min: 0, Max: math.MaxInt64} }},
		{"priority range wider than int64", func(s *GeneratorSpec) {
			s.Priority = Range{Min: math.MinInt64 / 2, Max: math.MaxInt64/2 + 2}
		}},
		{"full burst range", func(s *GeneratorSpec) { s.Burst = Range{Min: 1, Max: math.MaxInt64} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a spec whose range width would overflow int64
			spec := DefaultGeneratorSpec()
			tt.mutate(&spec)

			// WHEN generating
			var err error
			require.NotPanics(t, func() { _, err = GenerateDescriptors(&spec) })

			// THEN the spec is rejected
			assert.ErrorContains(t, err, "invalid generator spec")
		})
	}
}

func TestGenerateDescriptors_WidestAcceptedRangesAreSimulable(t *testing.T) {
	// GIVEN every range at its limit
	spec := GeneratorSpec{
		Seed:     3,
		Count:    50,
		Arrival:  Range{Min: 0, Max: MaxGeneratedArrival},
		Burst:    Range{Min: 1, Max: MaxGeneratedBurst},
		Priority: Range{Min: -MaxGeneratedPriority, Max: MaxGeneratedPriority},
	}

	// WHEN generating
	ds, err := GenerateDescriptors(&spec)

	// THEN the set stays inside the ranges and fits the simulation clock
	require.NoError(t, err)
	require.Len(t, ds, 50)
	for _, d := range ds {
		assert.LessOrEqual(t, d.ArrivalTime, MaxGeneratedArrival)
		assert.LessOrEqual(t, d.BurstTime, MaxGeneratedBurst)
		assert.LessOrEqual(t, int64(d.Priority), MaxGeneratedPriority)
		assert.GreaterOrEqual(t, int64(d.Priority), -MaxGeneratedPriority)
	}
	assert.NoError(t, sim.ValidateDescriptors(ds))
}
