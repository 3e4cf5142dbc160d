package workload

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/cpusim/cpusim/sim"
)

// GenerateDescriptors creates a random process set from a GeneratorSpec.
// Deterministic given the same spec. PIDs are 1..Count in generation order;
// the result is stably sorted by ArrivalTime.
func GenerateDescriptors(spec *GeneratorSpec) ([]sim.Descriptor, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator spec: %w", err)
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(spec.Seed))
	arrivalRNG := rng.ForSubsystem(sim.SubsystemArrival)
	burstRNG := rng.ForSubsystem(sim.SubsystemBurst)
	priorityRNG := rng.ForSubsystem(sim.SubsystemPriority)

	descriptors := make([]sim.Descriptor, 0, spec.Count)
	for pid := 1; pid <= spec.Count; pid++ {
		descriptors = append(descriptors, sim.Descriptor{
			PID:         pid,
			ArrivalTime: uniform(arrivalRNG, spec.Arrival),
			BurstTime:   uniform(burstRNG, spec.Burst),
			Priority:    int(uniform(priorityRNG, spec.Priority)),
		})
	}
	SortByArrival(descriptors)

	logrus.Debugf("generated %d processes (seed %d)", len(descriptors), spec.Seed)
	return descriptors, nil
}

// SortByArrival orders descriptors by ArrivalTime, keeping the relative order of ties.
func SortByArrival(descriptors []sim.Descriptor) {
	sort.SliceStable(descriptors, func(i, j int) bool {
		return descriptors[i].ArrivalTime < descriptors[j].ArrivalTime
	})
}

// uniform draws from the inclusive range r. The width of r must be below
// math.MaxInt64, which Validate guarantees.
func uniform(rng *rand.Rand, r Range) int64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Int63n(r.Max-r.Min+1)
}
