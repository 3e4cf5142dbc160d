package sim

import (
	"fmt"
	"strings"
)

// IdlePID is the reserved timeline subject for periods where no process runs.
const IdlePID = -1

// Segment is one contiguous stretch of CPU time: a process (or IdlePID) and a duration.
type Segment struct {
	PID      int   `json:"pid"`
	Duration int64 `json:"duration"`
}

// IsIdle reports whether the segment represents idle CPU time.
func (s Segment) IsIdle() bool {
	return s.PID == IdlePID
}

// Timeline is the ordered, append-only execution record of one run.
// Segments are contiguous: each starts where the previous one ended.
type Timeline []Segment

// Append adds a segment. Non-positive durations are rejected.
func (tl *Timeline) Append(pid int, duration int64) {
	if duration <= 0 {
		panic(fmt.Sprintf("Timeline.Append: duration must be positive, got %d for pid %d", duration, pid))
	}
	*tl = append(*tl, Segment{PID: pid, Duration: duration})
}

// TotalTime returns the sum of all segment durations, idle included.
func (tl Timeline) TotalTime() int64 {
	var total int64
	for _, s := range tl {
		total += s.Duration
	}
	return total
}

// IdleTime returns the sum of idle segment durations.
func (tl Timeline) IdleTime() int64 {
	var idle int64
	for _, s := range tl {
		if s.IsIdle() {
			idle += s.Duration
		}
	}
	return idle
}

// HasIdle reports whether any idle segment exists.
func (tl Timeline) HasIdle() bool {
	for _, s := range tl {
		if s.IsIdle() {
			return true
		}
	}
	return false
}

// Span is a Segment positioned on the simulated clock.
type Span struct {
	PID   int   `json:"pid"`
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Spans positions each segment on the clock, starting at origin.
// Chart renderers consume this form.
func (tl Timeline) Spans(origin int64) []Span {
	spans := make([]Span, 0, len(tl))
	clock := origin
	for _, s := range tl {
		spans = append(spans, Span{PID: s.PID, Start: clock, End: clock + s.Duration})
		clock += s.Duration
	}
	return spans
}

func (tl Timeline) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, s := range tl {
		if s.IsIdle() {
			fmt.Fprintf(&sb, "(idle,%d)", s.Duration)
		} else {
			fmt.Fprintf(&sb, "(%d,%d)", s.PID, s.Duration)
		}
		if i < len(tl)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
