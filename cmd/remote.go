package cmd

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/cpusim/cpusim/internal/client"
	"github.com/cpusim/cpusim/sim"
)

// runRemote sends the run to a cpusim server instead of simulating locally.
// Traces are not transferred; the server returns the summary only.
func runRemote(ctx context.Context, c *client.Client, settings runSettings, descriptors []sim.Descriptor) ([]*sim.Result, error) {
	q := settings.Quantum
	if settings.Policy == sim.PolicyAll {
		out, err := c.Compare(ctx, client.CompareRequest{Quantum: &q, Processes: descriptors})
		if err != nil {
			return nil, err
		}
		logrus.Infof("Compared %d policies on %s", len(out.Results), c.BaseURL)
		return out.Results, nil
	}
	res, err := c.Simulate(ctx, client.SimulateRequest{
		Policy:    settings.Policy,
		Quantum:   &q,
		Trace:     string(settings.Trace),
		Processes: descriptors,
	})
	if err != nil {
		return nil, err
	}
	return []*sim.Result{res}, nil
}
