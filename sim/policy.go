package sim

import (
	"fmt"
	"sort"
	"strings"
)

// DispatchPolicy selects and runs processes on the simulated CPU.
// The Simulator owns the loop; a policy owns its ready structure and tie-breaks.
//
// Admit hands over a newly-arrived process. SelectNext removes and returns the
// process to run next, or nil when nothing is ready. ExecuteStep runs the selected
// process for one segment via Simulator.RunSlice; preemptive policies re-admit an
// unfinished process before returning.
type DispatchPolicy interface {
	Name() string
	Admit(p *Process)
	SelectNext() *Process
	ExecuteStep(sim *Simulator, p *Process)
	Pending() int
}

// Policy names accepted by NewPolicy.
const (
	PolicyFCFS       = "fcfs"
	PolicySJF        = "sjf"
	PolicyPriority   = "priority"
	PolicyRoundRobin = "rr"
	PolicyPriorityRR = "priority_rr"
)

// ValidPolicies is the set of recognized policy names.
// Shared by IsValidPolicy and NewPolicy to avoid duplication.
var ValidPolicies = map[string]bool{
	PolicyFCFS:       true,
	PolicySJF:        true,
	PolicyPriority:   true,
	PolicyRoundRobin: true,
	PolicyPriorityRR: true,
}

// AllPolicies lists every policy in canonical comparison order.
var AllPolicies = []string{PolicyFCFS, PolicySJF, PolicyPriority, PolicyRoundRobin, PolicyPriorityRR}

// IsValidPolicy reports whether name is a recognized policy.
func IsValidPolicy(name string) bool {
	return ValidPolicies[name]
}

// PolicyUsesQuantum reports whether the policy preempts after a time quantum.
func PolicyUsesQuantum(name string) bool {
	return name == PolicyRoundRobin || name == PolicyPriorityRR
}

// ValidPolicyNames returns the recognized policy names, sorted.
func ValidPolicyNames() []string {
	names := make([]string, 0, len(ValidPolicies))
	for name := range ValidPolicies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPolicy creates a fresh DispatchPolicy by name.
// The quantum is checked only for quantum-based policies and ignored otherwise.
func NewPolicy(name string, quantum int64) (DispatchPolicy, error) {
	if !IsValidPolicy(name) {
		return nil, &ConfigurationError{
			Field: "policy",
			Value: name,
			Msg:   fmt.Sprintf("unknown policy; valid: %s", strings.Join(ValidPolicyNames(), ", ")),
		}
	}
	if PolicyUsesQuantum(name) && quantum < 1 {
		return nil, &ValidationError{Index: -1, Field: "quantum", Msg: fmt.Sprintf("must be at least 1 for %s, got %d", name, quantum)}
	}
	switch name {
	case PolicyFCFS:
		return NewFCFSPolicy(), nil
	case PolicySJF:
		return NewSJFPolicy(), nil
	case PolicyPriority:
		return NewPriorityPolicy(), nil
	case PolicyRoundRobin:
		return NewRoundRobinPolicy(quantum), nil
	case PolicyPriorityRR:
		return NewPriorityRRPolicy(quantum), nil
	default:
		panic(fmt.Sprintf("unhandled policy %q", name))
	}
}
