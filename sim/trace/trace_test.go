package trace

import (
	"testing"
)

func TestSimulationTrace_RecordDispatch_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for dispatches
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDispatches})

	// WHEN a dispatch record is recorded
	st.RecordDispatch(DispatchRecord{Clock: 4, PID: 2, Slice: 3, ReadyDepth: 1})

	// THEN the trace contains one dispatch record with correct data
	if len(st.Dispatches) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(st.Dispatches))
	}
	if st.Dispatches[0].PID != 2 || st.Dispatches[0].Slice != 3 {
		t.Errorf("unexpected record %+v", st.Dispatches[0])
	}
}

func TestSimulationTrace_MarkPreempted_FlagsLastDispatch(t *testing.T) {
	// GIVEN two dispatches
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDispatches})
	st.RecordDispatch(DispatchRecord{Clock: 0, PID: 1, Slice: 2})
	st.RecordDispatch(DispatchRecord{Clock: 2, PID: 2, Slice: 2})

	// WHEN the latest is marked preempted
	st.MarkPreempted()

	// THEN only the latest record carries the flag
	if st.Dispatches[0].Preempted {
		t.Error("first dispatch must not be marked preempted")
	}
	if !st.Dispatches[1].Preempted {
		t.Error("last dispatch must be marked preempted")
	}
}

func TestSimulationTrace_MarkPreempted_EmptyTraceIsNoop(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDispatches})
	st.MarkPreempted()
	if len(st.Dispatches) != 0 {
		t.Errorf("expected no dispatches, got %d", len(st.Dispatches))
	}
}

func TestSimulationTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDispatches})

	// WHEN multiple records are added
	st.RecordDispatch(DispatchRecord{Clock: 0, PID: 1, Slice: 2})
	st.RecordIdle(IdleRecord{Clock: 2, Duration: 3})
	st.RecordDispatch(DispatchRecord{Clock: 5, PID: 2, Slice: 1})

	// THEN order is preserved
	if len(st.Dispatches) != 2 {
		t.Fatalf("expected 2 dispatches, got %d", len(st.Dispatches))
	}
	if st.Dispatches[0].PID != 1 || st.Dispatches[1].PID != 2 {
		t.Error("dispatch order not preserved")
	}
	if len(st.Idles) != 1 || st.Idles[0].Duration != 3 {
		t.Error("idle record mismatch")
	}
}

func TestTraceConfig_Enabled(t *testing.T) {
	if (TraceConfig{Level: TraceLevelNone}).Enabled() {
		t.Error("none must not be enabled")
	}
	if (TraceConfig{}).Enabled() {
		t.Error("empty level must not be enabled")
	}
	if !(TraceConfig{Level: TraceLevelDispatches}).Enabled() {
		t.Error("dispatches must be enabled")
	}
}

func TestIsValidTraceLevel_ValidLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"dispatches", true},
		{"", true}, // empty defaults to none
		{"detailed", false},
		{"foobar", false},
		{"NONE", false}, // case-sensitive
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := IsValidTraceLevel(tt.level); got != tt.valid {
				t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
			}
		})
	}
}
