package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDispatches  int         `json:"total_dispatches"`
	Preemptions      int         `json:"preemptions"`
	Completions      int         `json:"completions"`
	ContextSwitches  int         `json:"context_switches"` // dispatches of a different PID than the previous one
	IdlePeriods      int         `json:"idle_periods"`
	TotalIdle        int64       `json:"total_idle"`
	MaxSlice         int64       `json:"max_slice"`
	DispatchesPerPID map[int]int `json:"dispatches_per_pid"`
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		DispatchesPerPID: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDispatches = len(st.Dispatches)
	prevPID, havePrev := 0, false
	for _, d := range st.Dispatches {
		summary.DispatchesPerPID[d.PID]++
		if d.Preempted {
			summary.Preemptions++
		}
		if d.Completed {
			summary.Completions++
		}
		if d.Slice > summary.MaxSlice {
			summary.MaxSlice = d.Slice
		}
		if havePrev && d.PID != prevPID {
			summary.ContextSwitches++
		}
		prevPID, havePrev = d.PID, true
	}

	summary.IdlePeriods = len(st.Idles)
	for _, idle := range st.Idles {
		summary.TotalIdle += idle.Duration
	}

	return summary
}
