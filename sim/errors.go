package sim

import (
	"fmt"
	"math"
)

// ConfigurationError reports a run that cannot start because its configuration
// names something unknown, such as an unrecognized policy.
type ConfigurationError struct {
	Field string
	Value string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %q: %s", e.Field, e.Value, e.Msg)
}

// ValidationError reports input that violates a precondition of the engine.
// Index is the position of the offending descriptor, or -1 when the error is not
// tied to a single descriptor.
type ValidationError struct {
	Index int
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("validation error: process[%d].%s: %s", e.Index, e.Field, e.Msg)
}

// ValidateDescriptors checks every descriptor before a run starts.
// PIDs must be unique, arrival times non-negative, burst times at least 1, and
// the latest arrival plus the total burst time must fit the int64 clock.
func ValidateDescriptors(descriptors []Descriptor) error {
	seen := make(map[int]int, len(descriptors))
	for i, d := range descriptors {
		if d.ArrivalTime < 0 {
			return &ValidationError{Index: i, Field: "arrival_time", Msg: fmt.Sprintf("must be non-negative, got %d", d.ArrivalTime)}
		}
		if d.BurstTime < 1 {
			return &ValidationError{Index: i, Field: "burst_time", Msg: fmt.Sprintf("must be at least 1, got %d", d.BurstTime)}
		}
		if prev, ok := seen[d.PID]; ok {
			return &ValidationError{Index: i, Field: "pid", Msg: fmt.Sprintf("duplicate pid %d (also at index %d)", d.PID, prev)}
		}
		if d.PID == IdlePID {
			return &ValidationError{Index: i, Field: "pid", Msg: fmt.Sprintf("pid %d is reserved for idle time", IdlePID)}
		}
		seen[d.PID] = i
	}
	if _, ok := Horizon(descriptors); !ok {
		return &ValidationError{Index: -1, Field: "burst_time", Msg: "latest arrival plus total burst time overflows the simulation clock"}
	}
	return nil
}

// Horizon returns the latest clock value a run over descriptors can reach: the
// latest arrival plus the total burst time. ok is false when that overflows int64.
// Descriptors with a negative arrival or a burst below 1 are ignored.
func Horizon(descriptors []Descriptor) (horizon int64, ok bool) {
	var latest, total int64
	for _, d := range descriptors {
		if d.ArrivalTime < 0 || d.BurstTime < 1 {
			continue
		}
		latest = max(latest, d.ArrivalTime)
		if total > math.MaxInt64-d.BurstTime {
			return math.MaxInt64, false
		}
		total += d.BurstTime
	}
	if latest > math.MaxInt64-total {
		return math.MaxInt64, false
	}
	return latest + total, true
}
