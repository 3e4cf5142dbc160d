package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cpusim/cpusim/sim/trace"
)

// PolicyBundle holds run configuration loadable from a YAML file.
// Nil pointer fields mean "not set in YAML" and do not override CLI values.
// String fields use empty string for "not set".
type PolicyBundle struct {
	Policy  string `yaml:"policy"` // a policy name or "all"
	Quantum *int64 `yaml:"quantum"`
	Trace   string `yaml:"trace"`
}

// PolicyAll selects every policy for a comparison run.
const PolicyAll = "all"

// LoadPolicyBundle reads and parses a YAML policy configuration file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadPolicyBundle(path string) (*PolicyBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy config: %w", err)
	}
	var bundle PolicyBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}
	return &bundle, nil
}

// Validate checks that the policy name, trace level, and quantum in the bundle are valid.
func (b *PolicyBundle) Validate() error {
	if b.Policy != "" && b.Policy != PolicyAll && !IsValidPolicy(b.Policy) {
		return &ConfigurationError{Field: "policy", Value: b.Policy, Msg: "unknown policy"}
	}
	if !trace.IsValidTraceLevel(b.Trace) {
		return &ConfigurationError{Field: "trace", Value: b.Trace, Msg: "unknown trace level"}
	}
	if b.Quantum != nil && *b.Quantum < 1 {
		return &ValidationError{Index: -1, Field: "quantum", Msg: fmt.Sprintf("must be at least 1, got %d", *b.Quantum)}
	}
	return nil
}
