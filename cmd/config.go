package cmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/cpusim/cpusim/sim"
	"github.com/cpusim/cpusim/sim/trace"
	"github.com/cpusim/cpusim/sim/workload"
)

// runSettings is the merged dispatch configuration of a run.
type runSettings struct {
	Policy  string // a policy name or sim.PolicyAll
	Quantum int64
	Trace   trace.TraceLevel
}

// mergePolicyBundle overlays YAML bundle values onto settings taken from flags.
// A flag explicitly set on the command line always wins over the bundle.
func mergePolicyBundle(flags *pflag.FlagSet, settings runSettings, bundle *sim.PolicyBundle) runSettings {
	if bundle == nil {
		return settings
	}
	if bundle.Policy != "" && !flags.Changed("policy") {
		settings.Policy = bundle.Policy
	}
	if bundle.Quantum != nil && !flags.Changed("quantum") {
		settings.Quantum = *bundle.Quantum
	}
	if bundle.Trace != "" && !flags.Changed("trace") {
		settings.Trace = trace.TraceLevel(bundle.Trace)
	}
	return settings
}

// resolveRunSettings loads the optional policy bundle and merges it with the flag values.
func resolveRunSettings(flags *pflag.FlagSet, settings runSettings, bundlePath string) (runSettings, error) {
	if bundlePath != "" {
		bundle, err := sim.LoadPolicyBundle(bundlePath)
		if err != nil {
			return settings, err
		}
		if err := bundle.Validate(); err != nil {
			return settings, fmt.Errorf("invalid policy config %s: %w", bundlePath, err)
		}
		settings = mergePolicyBundle(flags, settings, bundle)
		logrus.Infof("Loaded policy config from %s", bundlePath)
	}
	if settings.Policy != sim.PolicyAll && !sim.IsValidPolicy(settings.Policy) {
		return settings, &sim.ConfigurationError{Field: "policy", Value: settings.Policy,
			Msg: fmt.Sprintf("unknown policy; valid: %s, %s", sim.PolicyAll, strings.Join(sim.ValidPolicyNames(), ", "))}
	}
	return settings, nil
}

// generatorFlags holds the flags shared by every command that can generate processes.
type generatorFlags struct {
	seed        int64
	count       int
	minArrival  int64
	maxArrival  int64
	minBurst    int64
	maxBurst    int64
	minPriority int64
	maxPriority int64
}

func (g *generatorFlags) register(fs *pflag.FlagSet) {
	def := workload.DefaultGeneratorSpec()
	fs.Int64Var(&g.seed, "seed", def.Seed, "Seed for random process generation")
	fs.IntVar(&g.count, "num-processes", def.Count, "Number of processes to generate")
	fs.Int64Var(&g.minArrival, "min-arrival", def.Arrival.Min, "Minimum generated arrival time")
	fs.Int64Var(&g.maxArrival, "max-arrival", def.Arrival.Max, "Maximum generated arrival time")
	fs.Int64Var(&g.minBurst, "min-burst", def.Burst.Min, "Minimum generated burst time")
	fs.Int64Var(&g.maxBurst, "max-burst", def.Burst.Max, "Maximum generated burst time")
	fs.Int64Var(&g.minPriority, "min-priority", def.Priority.Min, "Minimum generated priority")
	fs.Int64Var(&g.maxPriority, "max-priority", def.Priority.Max, "Maximum generated priority")
}

// apply overrides spec with every generator flag set on the command line.
func (g *generatorFlags) apply(fs *pflag.FlagSet, spec *workload.GeneratorSpec) {
	if fs.Changed("seed") {
		spec.Seed = g.seed
	}
	if fs.Changed("num-processes") {
		spec.Count = g.count
	}
	overrides := []struct {
		flag  string
		value int64
		dst   *int64
	}{
		{"min-arrival", g.minArrival, &spec.Arrival.Min},
		{"max-arrival", g.maxArrival, &spec.Arrival.Max},
		{"min-burst", g.minBurst, &spec.Burst.Min},
		{"max-burst", g.maxBurst, &spec.Burst.Max},
		{"min-priority", g.minPriority, &spec.Priority.Min},
		{"max-priority", g.maxPriority, &spec.Priority.Max},
	}
	for _, o := range overrides {
		if fs.Changed(o.flag) {
			*o.dst = o.value
		}
	}
}

// anyChanged reports whether any generator flag was set on the command line.
func (g *generatorFlags) anyChanged(fs *pflag.FlagSet) bool {
	for _, name := range []string{"seed", "num-processes", "min-arrival", "max-arrival", "min-burst", "max-burst", "min-priority", "max-priority"} {
		if fs.Changed(name) {
			return true
		}
	}
	return false
}

// resolveGeneratorSpec starts from the YAML spec at specPath (or the defaults) and
// applies generator flags on top.
func resolveGeneratorSpec(fs *pflag.FlagSet, g *generatorFlags, specPath string) (*workload.GeneratorSpec, error) {
	spec := workload.DefaultGeneratorSpec()
	if specPath != "" {
		loaded, err := workload.LoadGeneratorSpec(specPath)
		if err != nil {
			return nil, err
		}
		spec = *loaded
		logrus.Infof("Loaded workload spec from %s", specPath)
	}
	g.apply(fs, &spec)
	return &spec, nil
}

// resolveDescriptors reads processes from inputPath, or generates them when no input is given.
func resolveDescriptors(fs *pflag.FlagSet, g *generatorFlags, inputPath, specPath string) ([]sim.Descriptor, error) {
	if inputPath != "" {
		if specPath != "" || g.anyChanged(fs) {
			logrus.Warnf("--input is set; generator flags and --workload-spec are ignored")
		}
		descriptors, err := workload.ReadDescriptors(inputPath)
		if err != nil {
			return nil, err
		}
		logrus.Infof("Read %d processes from %s", len(descriptors), inputPath)
		return descriptors, nil
	}
	spec, err := resolveGeneratorSpec(fs, g, specPath)
	if err != nil {
		return nil, err
	}
	descriptors, err := workload.GenerateDescriptors(spec)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Generated %d processes (seed %d)", len(descriptors), spec.Seed)
	return descriptors, nil
}
