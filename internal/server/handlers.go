package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"slices"
	"time"

	"github.com/cpusim/cpusim/sim"
	"github.com/cpusim/cpusim/sim/compare"
	"github.com/cpusim/cpusim/sim/trace"
	"github.com/cpusim/cpusim/sim/workload"
)

// DefaultQuantum applies when a request omits the quantum.
const DefaultQuantum int64 = 2

// processInput is the shared way requests supply processes: an explicit list, or
// a generator spec whose missing keys take workload.DefaultGeneratorSpec values.
type processInput struct {
	Processes json.RawMessage `json:"processes,omitempty"`
	Generate  json.RawMessage `json:"generate,omitempty"`
}

type simulateRequest struct {
	Policy  string `json:"policy"`
	Quantum *int64 `json:"quantum,omitempty"`
	Trace   string `json:"trace,omitempty"`
	processInput
}

type simulateResponse struct {
	*sim.Result
	Spans []sim.Span `json:"spans"`
}

type compareRequest struct {
	Policies []string `json:"policies,omitempty"`
	Quantum  *int64   `json:"quantum,omitempty"`
	processInput
}

type compareResponse struct {
	Processes []sim.Descriptor `json:"processes"`
	Results   []*sim.Result    `json:"results"`
	Best      *compare.Ranking `json:"best"`
}

type generateResponse struct {
	Spec      workload.GeneratorSpec `json:"spec"`
	Processes []sim.Descriptor       `json:"processes"`
}

type policyInfo struct {
	Name        string `json:"name"`
	Preemptive  bool   `json:"preemptive"`
	Description string `json:"description"`
}

var policyDescriptions = map[string]string{
	sim.PolicyFCFS:       "First-Come-First-Served: run to completion in arrival order",
	sim.PolicySJF:        "Shortest Job First (non-preemptive): shortest remaining burst next",
	sim.PolicyPriority:   "Priority (non-preemptive): lowest priority value next",
	sim.PolicyRoundRobin: "Round Robin: FIFO with a fixed time quantum",
	sim.PolicyPriorityRR: "Priority with Round Robin inside each priority group",
}

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, healthResponse{
		Status:    "healthy",
		Version:   Version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	out := make([]policyInfo, 0, len(sim.AllPolicies))
	for _, name := range sim.AllPolicies {
		out = append(out, policyInfo{
			Name:        name,
			Preemptive:  sim.PolicyUsesQuantum(name),
			Description: policyDescriptions[name],
		})
	}
	respondOK(w, reqID, out)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req simulateRequest
	if apiErr := s.decodeBody(w, r, &req); apiErr != nil {
		respondError(w, reqID, http.StatusBadRequest, apiErr)
		return
	}
	descriptors, apiErr := s.resolveProcesses(req.processInput)
	if apiErr != nil {
		respondError(w, reqID, http.StatusBadRequest, apiErr)
		return
	}

	if apiErr := s.checkWorkload(descriptors, []string{req.Policy}, quantumOrDefault(req.Quantum)); apiErr != nil {
		respondError(w, reqID, http.StatusBadRequest, apiErr)
		return
	}

	start := time.Now()
	res, err := sim.Run(req.Policy, descriptors, quantumOrDefault(req.Quantum), sim.WithTrace(trace.TraceLevel(req.Trace)))
	s.metrics.ObserveRun(req.Policy, res, err, time.Since(start))
	if err != nil {
		respondSimError(w, reqID, err)
		return
	}
	respondOK(w, reqID, simulateResponse{Result: res, Spans: res.Timeline.Spans(res.StartTime)})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req compareRequest
	if apiErr := s.decodeBody(w, r, &req); apiErr != nil {
		respondError(w, reqID, http.StatusBadRequest, apiErr)
		return
	}
	descriptors, apiErr := s.resolveProcesses(req.processInput)
	if apiErr != nil {
		respondError(w, reqID, http.StatusBadRequest, apiErr)
		return
	}

	policies := req.Policies
	if len(policies) == 0 {
		policies = sim.AllPolicies
	}
	if apiErr := s.checkWorkload(descriptors, policies, quantumOrDefault(req.Quantum)); apiErr != nil {
		respondError(w, reqID, http.StatusBadRequest, apiErr)
		return
	}

	results, err := compare.RunAll(r.Context(), descriptors, quantumOrDefault(req.Quantum), req.Policies, compare.Options{
		Concurrency: s.config.Concurrency,
		Observe:     s.metrics.ObserveRun,
	})
	if err != nil {
		respondSimError(w, reqID, err)
		return
	}
	respondOK(w, reqID, compareResponse{Processes: descriptors, Results: results, Best: compare.Best(results)})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	spec := workload.DefaultGeneratorSpec()
	if r.ContentLength != 0 {
		if apiErr := s.decodeBody(w, r, &spec); apiErr != nil {
			respondError(w, reqID, http.StatusBadRequest, apiErr)
			return
		}
	}
	descriptors, apiErr := s.generate(spec)
	if apiErr != nil {
		respondError(w, reqID, http.StatusBadRequest, apiErr)
		return
	}
	respondOK(w, reqID, generateResponse{Spec: spec, Processes: descriptors})
}

// decodeBody strictly decodes a size-limited JSON body into v.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) *APIError {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &APIError{Code: ErrInvalidRequest, Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)}
		}
		return &APIError{Code: ErrInvalidRequest, Message: "Invalid JSON body: " + err.Error()}
	}
	return nil
}

// resolveProcesses turns a processInput into descriptors, enforcing MaxProcesses.
func (s *Server) resolveProcesses(in processInput) ([]sim.Descriptor, *APIError) {
	hasList, hasGen := len(in.Processes) > 0, len(in.Generate) > 0
	switch {
	case hasList && hasGen:
		return nil, &APIError{Code: ErrInvalidRequest, Message: "provide either processes or generate, not both"}
	case hasGen:
		spec := workload.DefaultGeneratorSpec()
		dec := json.NewDecoder(bytes.NewReader(in.Generate))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&spec); err != nil {
			return nil, &APIError{Code: ErrInvalidRequest, Message: "Invalid generate spec: " + err.Error()}
		}
		return s.generate(spec)
	case hasList:
		descriptors, err := workload.DecodeDescriptors(bytes.NewReader(in.Processes), workload.FormatJSON)
		if err != nil {
			return nil, &APIError{Code: ErrInvalidRequest, Message: "Invalid processes: " + err.Error()}
		}
		if len(descriptors) > s.config.MaxProcesses {
			return nil, tooManyProcesses(len(descriptors), s.config.MaxProcesses)
		}
		return descriptors, nil
	default:
		return nil, &APIError{Code: ErrInvalidRequest, Message: "processes or generate is required"}
	}
}

func (s *Server) generate(spec workload.GeneratorSpec) ([]sim.Descriptor, *APIError) {
	if spec.Count > s.config.MaxProcesses {
		return nil, tooManyProcesses(spec.Count, s.config.MaxProcesses)
	}
	descriptors, err := workload.GenerateDescriptors(&spec)
	if err != nil {
		return nil, &APIError{Code: ErrValidation, Message: err.Error()}
	}
	return descriptors, nil
}

// checkWorkload rejects requests whose simulated clock or timeline would exceed
// MaxSimulatedTime or MaxSegments. Each process adds at most one idle gap; a
// quantum policy adds one segment per started quantum, any other policy one per process.
func (s *Server) checkWorkload(descriptors []sim.Descriptor, policies []string, quantum int64) *APIError {
	horizon, ok := sim.Horizon(descriptors)
	if !ok || horizon > s.config.MaxSimulatedTime {
		return &APIError{
			Code:    ErrValidation,
			Message: fmt.Sprintf("simulated time exceeds limit %d", s.config.MaxSimulatedTime),
			Details: []FieldError{{Field: "burst_time", Message: "latest arrival plus total burst time is too large"}},
		}
	}

	segments := int64(2 * len(descriptors))
	if quantum >= 1 && slices.ContainsFunc(policies, sim.PolicyUsesQuantum) {
		segments = int64(len(descriptors))
		for _, d := range descriptors {
			if d.BurstTime >= 1 {
				segments += (d.BurstTime + quantum - 1) / quantum
			}
		}
	}
	if segments > s.config.MaxSegments {
		return &APIError{
			Code:    ErrValidation,
			Message: fmt.Sprintf("estimated %d timeline segments exceeds limit %d", segments, s.config.MaxSegments),
			Details: []FieldError{{Field: "quantum", Message: "raise the quantum or shorten the bursts"}},
		}
	}
	return nil
}

func tooManyProcesses(n, limit int) *APIError {
	return &APIError{
		Code:    ErrValidation,
		Message: fmt.Sprintf("too many processes: %d exceeds limit %d", n, limit),
		Details: []FieldError{{Field: "processes", Message: fmt.Sprintf("at most %d", limit)}},
	}
}

func quantumOrDefault(q *int64) int64 {
	if q == nil {
		return DefaultQuantum
	}
	return *q
}
