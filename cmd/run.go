package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cpusim/cpusim/internal/client"
	"github.com/cpusim/cpusim/sim"
	"github.com/cpusim/cpusim/sim/compare"
	"github.com/cpusim/cpusim/sim/trace"
	"github.com/cpusim/cpusim/sim/workload"
)

var (
	policyName        string // Dispatch policy, or "all"
	quantum           int64  // Time quantum for rr and priority_rr
	traceLevel        string // Dispatch trace level
	inputPath         string // Process file (.csv, .json, .yaml)
	outputFormat      string // table or json
	resultsFile       string // Plain-text results summary path
	policyConfigPath  string // YAML policy bundle
	workloadSpecPath  string // YAML generator spec
	saveProcessesPath string // Where to write the simulated process set
	runConcurrency    int    // Parallel policy runs for "all"
	serverURL         string // Remote cpusim API; local simulation when empty

	runGenerator generatorFlags
)

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one dispatching policy, or all of them, over a process set",
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := resolveRunSettings(cmd.Flags(), runSettings{
			Policy:  policyName,
			Quantum: quantum,
			Trace:   trace.TraceLevel(traceLevel),
		}, policyConfigPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		descriptors, err := resolveDescriptors(cmd.Flags(), &runGenerator, inputPath, workloadSpecPath)
		if err != nil {
			logrus.Fatalf("Unable to load processes: %v", err)
		}
		if saveProcessesPath != "" {
			if err := workload.WriteDescriptors(saveProcessesPath, descriptors); err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("Saved %d processes to %s", len(descriptors), saveProcessesPath)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		var results []*sim.Result
		if serverURL != "" {
			results, err = runRemote(ctx, client.New(serverURL), settings, descriptors)
		} else {
			results, err = runPolicies(ctx, settings, descriptors, runConcurrency)
		}
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if err := renderResults(os.Stdout, outputFormat, descriptors, results); err != nil {
			logrus.Fatalf("%v", err)
		}
		if resultsFile != "" {
			if err := WriteResultsFile(resultsFile, results); err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("Results written to %s", resultsFile)
		}
		logrus.Info("Simulation complete.")
	},
}

// runPolicies runs the configured policy, or every policy concurrently for "all".
func runPolicies(ctx context.Context, settings runSettings, descriptors []sim.Descriptor, concurrency int) ([]*sim.Result, error) {
	if settings.Policy == sim.PolicyAll {
		return compare.RunAll(ctx, descriptors, settings.Quantum, nil, compare.Options{
			Concurrency: concurrency,
			TraceLevel:  settings.Trace,
		})
	}
	res, err := sim.Run(settings.Policy, descriptors, settings.Quantum, sim.WithTrace(settings.Trace))
	if err != nil {
		return nil, err
	}
	return []*sim.Result{res}, nil
}

func init() {
	runCmd.Flags().StringVar(&policyName, "policy", sim.PolicyAll, "Dispatch policy (fcfs, sjf, priority, rr, priority_rr, all)")
	runCmd.Flags().Int64Var(&quantum, "quantum", 2, "Time quantum for rr and priority_rr")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Dispatch trace level (none, dispatches)")
	runCmd.Flags().StringVar(&inputPath, "input", "", "Process file (.csv, .json, .yaml); processes are generated when empty")
	runCmd.Flags().StringVar(&outputFormat, "format", formatTable, "Output format (table, json)")
	runCmd.Flags().StringVar(&resultsFile, "results-file", "", "Write a plain-text results summary to this file")
	runCmd.Flags().StringVar(&policyConfigPath, "policy-config", "", "YAML file with policy, quantum and trace")
	runCmd.Flags().StringVar(&workloadSpecPath, "workload-spec", "", "YAML generator spec (seed, count, arrival/burst/priority ranges)")
	runCmd.Flags().StringVar(&saveProcessesPath, "save-processes", "", "Write the simulated process set to this file")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "Maximum policies simulated at once for --policy all (0 = unlimited)")
	runCmd.Flags().StringVar(&serverURL, "server", "", "Base URL of a cpusim server (e.g. http://localhost:8080); simulate locally when empty")
	runGenerator.register(runCmd.Flags())

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
