package workload

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Limits on generated sets. Together they keep the latest arrival plus the total
// burst time far below the int64 clock limit, so every valid spec is simulable.
const (
	// MaxGeneratedProcesses bounds Count so a single request cannot exhaust memory.
	MaxGeneratedProcesses = 100000
	// MaxGeneratedArrival bounds arrival.max.
	MaxGeneratedArrival int64 = 1_000_000_000
	// MaxGeneratedBurst bounds burst.max.
	MaxGeneratedBurst int64 = 1_000_000
	// MaxGeneratedPriority bounds the magnitude of priority.min and priority.max.
	MaxGeneratedPriority int64 = 1_000_000_000
)

// Range is an inclusive integer interval sampled uniformly.
type Range struct {
	Min int64 `yaml:"min" json:"min"`
	Max int64 `yaml:"max" json:"max"`
}

// GeneratorSpec configures random process generation.
// Loaded from YAML via LoadGeneratorSpec(path).
type GeneratorSpec struct {
	Seed     int64 `yaml:"seed" json:"seed"`
	Count    int   `yaml:"count" json:"count"`
	Arrival  Range `yaml:"arrival" json:"arrival"`
	Burst    Range `yaml:"burst" json:"burst"`
	Priority Range `yaml:"priority" json:"priority"`
}

// DefaultGeneratorSpec returns the generator settings used when nothing is configured:
// 5 processes, arrivals in [0,10], bursts in [1,10], priorities in [1,10].
func DefaultGeneratorSpec() GeneratorSpec {
	return GeneratorSpec{
		Seed:     42,
		Count:    5,
		Arrival:  Range{Min: 0, Max: 10},
		Burst:    Range{Min: 1, Max: 10},
		Priority: Range{Min: 1, Max: 10},
	}
}

// LoadGeneratorSpec reads and parses a YAML generator specification file.
// Keys missing from the file keep their DefaultGeneratorSpec values.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadGeneratorSpec(path string) (*GeneratorSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading generator spec: %w", err)
	}
	spec := DefaultGeneratorSpec()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing generator spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s *GeneratorSpec) Validate() error {
	if s.Count < 0 || s.Count > MaxGeneratedProcesses {
		return fmt.Errorf("count must be in [0, %d], got %d", MaxGeneratedProcesses, s.Count)
	}
	if s.Arrival.Min < 0 {
		return fmt.Errorf("arrival.min must be non-negative, got %d", s.Arrival.Min)
	}
	if s.Burst.Min < 1 {
		return fmt.Errorf("burst.min must be at least 1, got %d", s.Burst.Min)
	}
	if s.Arrival.Max > MaxGeneratedArrival {
		return fmt.Errorf("arrival.max must be at most %d, got %d", MaxGeneratedArrival, s.Arrival.Max)
	}
	if s.Burst.Max > MaxGeneratedBurst {
		return fmt.Errorf("burst.max must be at most %d, got %d", MaxGeneratedBurst, s.Burst.Max)
	}
	if s.Priority.Min < -MaxGeneratedPriority || s.Priority.Max > MaxGeneratedPriority {
		return fmt.Errorf("priority must stay within [%d, %d], got [%d, %d]",
			-MaxGeneratedPriority, MaxGeneratedPriority, s.Priority.Min, s.Priority.Max)
	}
	ranges := []struct {
		name string
		r    Range
	}{{"arrival", s.Arrival}, {"burst", s.Burst}, {"priority", s.Priority}}
	for _, nr := range ranges {
		if nr.r.Min > nr.r.Max {
			return fmt.Errorf("%s: min %d exceeds max %d", nr.name, nr.r.Min, nr.r.Max)
		}
	}
	return nil
}
