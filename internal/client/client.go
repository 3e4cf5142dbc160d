// Package client is a Go client for the cpusim HTTP API served by internal/server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cpusim/cpusim/internal/server"
	"github.com/cpusim/cpusim/sim"
	"github.com/cpusim/cpusim/sim/compare"
	"github.com/cpusim/cpusim/sim/workload"
)

// Client is an HTTP client for the cpusim API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// SimulateRequest is the body of POST /api/v1/simulate. Exactly one of Processes
// and Generate must be set; an empty Processes slice counts as unset.
type SimulateRequest struct {
	Policy    string                  `json:"policy"`
	Quantum   *int64                  `json:"quantum,omitempty"`
	Trace     string                  `json:"trace,omitempty"`
	Processes []sim.Descriptor        `json:"processes,omitempty"`
	Generate  *workload.GeneratorSpec `json:"generate,omitempty"`
}

// CompareRequest is the body of POST /api/v1/compare. Empty Policies means all.
type CompareRequest struct {
	Policies  []string                `json:"policies,omitempty"`
	Quantum   *int64                  `json:"quantum,omitempty"`
	Processes []sim.Descriptor        `json:"processes,omitempty"`
	Generate  *workload.GeneratorSpec `json:"generate,omitempty"`
}

// CompareResult is the data of a compare response.
type CompareResult struct {
	Processes []sim.Descriptor `json:"processes"`
	Results   []*sim.Result    `json:"results"`
	Best      *compare.Ranking `json:"best"`
}

// PolicyInfo describes one policy offered by the server.
type PolicyInfo struct {
	Name        string `json:"name"`
	Preemptive  bool   `json:"preemptive"`
	Description string `json:"description"`
}

// envelope is the parsed response envelope.
type envelope struct {
	Status    string           `json:"status"`
	RequestID string           `json:"request_id"`
	Data      json.RawMessage  `json:"data"`
	Error     *server.APIError `json:"error"`
}

// Policies lists the policies the server can simulate.
func (c *Client) Policies(ctx context.Context) ([]PolicyInfo, error) {
	var out []PolicyInfo
	if err := c.do(ctx, http.MethodGet, "/api/v1/policies", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Simulate runs one policy on the server.
func (c *Client) Simulate(ctx context.Context, req SimulateRequest) (*sim.Result, error) {
	var out sim.Result
	if err := c.do(ctx, http.MethodPost, "/api/v1/simulate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Compare runs several policies on the server.
func (c *Client) Compare(ctx context.Context, req CompareRequest) (*CompareResult, error) {
	var out CompareResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/compare", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Generate asks the server for a generated process set.
func (c *Client) Generate(ctx context.Context, spec workload.GeneratorSpec) ([]sim.Descriptor, error) {
	var out struct {
		Processes []sim.Descriptor `json:"processes"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/generate", spec, &out); err != nil {
		return nil, err
	}
	return out.Processes, nil
}

// do performs a request and decodes the envelope's data into out.
// An error envelope is returned as *server.APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	url := c.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logrus.Debugf("%s %s", method, url)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	logrus.WithFields(logrus.Fields{"status": resp.StatusCode, "request_id": env.RequestID}).Debug("response")

	if env.Status == "error" {
		if env.Error != nil {
			return env.Error
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
