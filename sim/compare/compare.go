// Package compare runs several dispatch policies over one process set and ranks them.
package compare

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/cpusim/cpusim/sim"
	"github.com/cpusim/cpusim/sim/trace"
)

// Options tunes a comparison run.
type Options struct {
	// Concurrency caps the number of policies simulated at once; <= 0 means no limit.
	Concurrency int
	// TraceLevel is forwarded to every run.
	TraceLevel trace.TraceLevel
	// Observe, when set, is called after each policy run. It may be called concurrently.
	Observe func(policy string, res *sim.Result, err error, elapsed time.Duration)
}

// RunAll simulates each named policy over its own copies of descriptors, concurrently,
// and returns results in the order the policies were requested. An empty policies
// slice means sim.AllPolicies. The first failure cancels runs that have not started.
func RunAll(ctx context.Context, descriptors []sim.Descriptor, quantum int64, policies []string, opts Options) ([]*sim.Result, error) {
	if len(policies) == 0 {
		policies = sim.AllPolicies
	}
	// Reject bad configuration before spawning anything.
	for _, name := range policies {
		if _, err := sim.NewPolicy(name, quantum); err != nil {
			return nil, err
		}
	}
	if err := sim.ValidateDescriptors(descriptors); err != nil {
		return nil, err
	}

	results := make([]*sim.Result, len(policies))
	g, ctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, name := range policies {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			res, err := sim.Run(name, descriptors, quantum, sim.WithTrace(opts.TraceLevel))
			if opts.Observe != nil {
				opts.Observe(name, res, err, time.Since(start))
			}
			if err != nil {
				return fmt.Errorf("running %s: %w", name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logrus.Debugf("compared %d policies over %d processes", len(policies), len(descriptors))
	return results, nil
}

// Winner is the policy that did best on one metric, with its value.
type Winner struct {
	Policy string  `json:"policy"`
	Value  float64 `json:"value"`
}

// Ranking names the policies that did best on each headline metric.
type Ranking struct {
	LowestWaiting      Winner `json:"lowest_waiting"`
	HighestUtilization Winner `json:"highest_utilization"`
	LowestTurnaround   Winner `json:"lowest_turnaround"`
}

// Best ranks results by average waiting time (lower is better), CPU utilization
// (higher is better), and average turnaround time (lower is better).
// The earliest result wins ties. Returns nil for no results.
func Best(results []*sim.Result) *Ranking {
	if len(results) == 0 {
		return nil
	}
	first := results[0]
	r := &Ranking{
		LowestWaiting:      Winner{first.Policy, first.Metrics.AvgWaitingTime},
		HighestUtilization: Winner{first.Policy, first.Metrics.CPUUtilization},
		LowestTurnaround:   Winner{first.Policy, first.Metrics.AvgTurnaroundTime},
	}
	for _, res := range results[1:] {
		m := res.Metrics
		if m.AvgWaitingTime < r.LowestWaiting.Value {
			r.LowestWaiting = Winner{res.Policy, m.AvgWaitingTime}
		}
		if m.CPUUtilization > r.HighestUtilization.Value {
			r.HighestUtilization = Winner{res.Policy, m.CPUUtilization}
		}
		if m.AvgTurnaroundTime < r.LowestTurnaround.Value {
			r.LowestTurnaround = Winner{res.Policy, m.AvgTurnaroundTime}
		}
	}
	return r
}
