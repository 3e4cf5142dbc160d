// Computes run-wide performance metrics from a completed timeline and process set:
// turnaround, waiting, response time, and CPU utilization.

package sim

import (
	"fmt"
	"io"
)

// Metrics aggregates statistics about one simulation run for final reporting.
type Metrics struct {
	AvgTurnaroundTime float64 `json:"avg_turnaround_time"`
	AvgWaitingTime    float64 `json:"avg_waiting_time"`
	AvgResponseTime   float64 `json:"avg_response_time"` // first dispatch - arrival
	CPUUtilization    float64 `json:"cpu_utilization"`   // percent, in [0, 100]
	TotalTime         int64   `json:"total_time"`        // sum of all segment durations
	IdleTime          int64   `json:"idle_time"`
	BusyTime          int64   `json:"busy_time"`
	Throughput        float64 `json:"throughput"` // completed processes per time unit
	MaxWaitingTime    int64   `json:"max_waiting_time"`
	P90WaitingTime    float64 `json:"p90_waiting_time"`
	Completed         int     `json:"completed_processes"`
}

// TurnaroundTime returns finish - arrival, and false if p has not finished.
func TurnaroundTime(p *Process) (int64, bool) {
	if !p.Finished() {
		return 0, false
	}
	return p.FinishTime - p.ArrivalTime, true
}

// WaitingTime returns turnaround - burst, and false if p has not finished.
func WaitingTime(p *Process) (int64, bool) {
	tat, ok := TurnaroundTime(p)
	if !ok {
		return 0, false
	}
	return tat - p.BurstTime, true
}

// CPUUtilization returns the busy share of total time as a percentage; 0 when total is 0.
func CPUUtilization(tl Timeline) float64 {
	total := tl.TotalTime()
	if total == 0 {
		return 0
	}
	return float64(total-tl.IdleTime()) / float64(total) * 100
}

// CalculateMetrics reduces a timeline and its processes into aggregate statistics.
// Averages cover only finished processes and are 0 when none finished.
// It does not modify its inputs.
func CalculateMetrics(tl Timeline, processes []*Process) Metrics {
	m := Metrics{
		TotalTime:      tl.TotalTime(),
		IdleTime:       tl.IdleTime(),
		CPUUtilization: CPUUtilization(tl),
	}
	m.BusyTime = m.TotalTime - m.IdleTime

	var turnarounds, waits, responses []int64
	for _, p := range processes {
		tat, ok := TurnaroundTime(p)
		if !ok {
			continue
		}
		wt, _ := WaitingTime(p)
		turnarounds = append(turnarounds, tat)
		waits = append(waits, wt)
		m.MaxWaitingTime = max(m.MaxWaitingTime, wt)
		if p.Started() {
			responses = append(responses, p.StartTime-p.ArrivalTime)
		}
	}
	m.Completed = len(turnarounds)
	m.AvgTurnaroundTime = CalculateMean(turnarounds)
	m.AvgWaitingTime = CalculateMean(waits)
	m.AvgResponseTime = CalculateMean(responses)
	m.P90WaitingTime = CalculatePercentile(waits, 90)
	if m.TotalTime > 0 {
		m.Throughput = float64(m.Completed) / float64(m.TotalTime)
	}
	return m
}

// Print writes aggregated metrics in a human-readable block.
func (m Metrics) Print(w io.Writer, policy string) {
	fmt.Fprintf(w, "=== %s Metrics ===\n", policy)
	fmt.Fprintf(w, "Completed Processes     : %d\n", m.Completed)
	fmt.Fprintf(w, "Average Turnaround Time : %.2f\n", m.AvgTurnaroundTime)
	fmt.Fprintf(w, "Average Waiting Time    : %.2f\n", m.AvgWaitingTime)
	fmt.Fprintf(w, "Average Response Time   : %.2f\n", m.AvgResponseTime)
	fmt.Fprintf(w, "CPU Utilization         : %.2f%%\n", m.CPUUtilization)
	fmt.Fprintf(w, "Total Time              : %d\n", m.TotalTime)
}
