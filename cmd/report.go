package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/cpusim/cpusim/sim"
	"github.com/cpusim/cpusim/sim/compare"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
)

// jsonReport is the --format json document.
type jsonReport struct {
	Processes []sim.Descriptor `json:"processes"`
	Results   []*sim.Result    `json:"results"`
	Best      *compare.Ranking `json:"best,omitempty"`
}

// renderResults writes results in the requested output format.
func renderResults(w io.Writer, format string, descriptors []sim.Descriptor, results []*sim.Result) error {
	switch format {
	case formatJSON:
		report := jsonReport{Processes: descriptors, Results: results}
		if len(results) > 1 {
			report.Best = compare.Best(results)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(report)
	case formatTable:
		for _, res := range results {
			writeRunReport(w, res)
		}
		if len(results) > 1 {
			writeComparison(w, results)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q; valid: %s, %s", format, formatTable, formatJSON)
	}
}

// writeRunReport prints the timeline, per-process table and metrics of one run.
func writeRunReport(w io.Writer, res *sim.Result) {
	title := strings.ToUpper(res.Policy)
	if res.Quantum > 0 {
		title += fmt.Sprintf(" (quantum %d)", res.Quantum)
	}
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)+4))
	_, _ = fmt.Fprintf(w, "  %s\n", title)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)+4))

	writeTimeline(w, res)
	writeProcessTable(w, res)
	res.Metrics.Print(w, strings.ToUpper(res.Policy))
	if ts := res.TraceSummary; ts != nil {
		_, _ = fmt.Fprintf(w, "Dispatches: %d, preemptions: %d, context switches: %d, idle periods: %d\n",
			ts.TotalDispatches, ts.Preemptions, ts.ContextSwitches, ts.IdlePeriods)
	}
	_, _ = fmt.Fprintln(w)
}

// writeTimeline lists every segment positioned on the simulated clock.
func writeTimeline(w io.Writer, res *sim.Result) {
	_, _ = fmt.Fprintln(w, "Timeline")
	for _, sp := range res.Timeline.Spans(res.StartTime) {
		label := "P" + strconv.Itoa(sp.PID)
		if sp.PID == sim.IdlePID {
			label = "idle"
		}
		_, _ = fmt.Fprintf(w, "  [%4d - %4d] %s\n", sp.Start, sp.End, label)
	}
	_, _ = fmt.Fprintln(w)
}

func writeProcessTable(w io.Writer, res *sim.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"PID", "Arrival", "Burst", "Priority", "Start", "Finish", "Waiting", "Turnaround"})
	for _, p := range res.Processes {
		table.Append([]string{
			strconv.Itoa(p.PID),
			strconv.FormatInt(p.ArrivalTime, 10),
			strconv.FormatInt(p.BurstTime, 10),
			strconv.Itoa(p.Priority),
			optionalTime(p.StartTime),
			optionalTime(p.FinishTime),
			strconv.FormatInt(p.WaitingTime, 10),
			strconv.FormatInt(p.TurnaroundTime, 10),
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "",
		fmt.Sprintf("Average\n%.2f", res.Metrics.AvgWaitingTime),
		fmt.Sprintf("Average\n%.2f", res.Metrics.AvgTurnaroundTime)})
	table.Render()
}

func optionalTime(t *int64) string {
	if t == nil {
		return "-"
	}
	return strconv.FormatInt(*t, 10)
}

// writeComparison prints one row per policy and the best performers.
func writeComparison(w io.Writer, results []*sim.Result) {
	_, _ = fmt.Fprintln(w, "Policy comparison")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Policy", "Avg Turnaround", "Avg Waiting", "Avg Response", "CPU Util", "Total Time", "Throughput"})
	for _, res := range results {
		m := res.Metrics
		table.Append([]string{
			res.Policy,
			fmt.Sprintf("%.2f", m.AvgTurnaroundTime),
			fmt.Sprintf("%.2f", m.AvgWaitingTime),
			fmt.Sprintf("%.2f", m.AvgResponseTime),
			fmt.Sprintf("%.2f%%", m.CPUUtilization),
			strconv.FormatInt(m.TotalTime, 10),
			fmt.Sprintf("%.3f/t", m.Throughput),
		})
	}
	table.Render()

	if best := compare.Best(results); best != nil {
		_, _ = fmt.Fprintf(w, "Lowest average waiting time: %s (%.2f)\n", best.LowestWaiting.Policy, best.LowestWaiting.Value)
		_, _ = fmt.Fprintf(w, "Lowest average turnaround time: %s (%.2f)\n", best.LowestTurnaround.Policy, best.LowestTurnaround.Value)
		_, _ = fmt.Fprintf(w, "Highest CPU utilization: %s (%.2f%%)\n", best.HighestUtilization.Policy, best.HighestUtilization.Value)
	}
}

// WriteResultsFile writes a plain-text summary of every result to path.
func WriteResultsFile(path string, results []*sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	if err := writeResultsSummary(f, results); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing results file %s: %w", path, err)
	}
	return f.Close()
}

func writeResultsSummary(w io.Writer, results []*sim.Result) error {
	var sb strings.Builder
	sb.WriteString("CPU Scheduler Simulation Results\n")
	sb.WriteString("===============================\n\n")
	for _, res := range results {
		m := res.Metrics
		fmt.Fprintf(&sb, "%s Metrics:\n", strings.ToUpper(res.Policy))
		fmt.Fprintf(&sb, "  Average Turnaround Time: %.2f\n", m.AvgTurnaroundTime)
		fmt.Fprintf(&sb, "  Average Waiting Time: %.2f\n", m.AvgWaitingTime)
		fmt.Fprintf(&sb, "  CPU Utilization: %.2f%%\n", m.CPUUtilization)
		fmt.Fprintf(&sb, "  Total Time: %d\n\n", m.TotalTime)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
