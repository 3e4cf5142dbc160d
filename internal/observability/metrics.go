package observability

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cpusim/cpusim/sim"
)

// Run outcomes used as the "outcome" label of cpusim_simulations_total.
const (
	OutcomeOK              = "ok"
	OutcomeConfigError     = "configuration_error"
	OutcomeValidationError = "validation_error"
	OutcomeError           = "error"
)

// SimCollector bundles Prometheus metrics for simulation runs and the HTTP API.
// All methods are safe on a nil receiver so callers may run without metrics.
type SimCollector struct {
	gatherer prometheus.Gatherer

	Simulations        *prometheus.CounterVec
	SimulationDuration *prometheus.HistogramVec
	CPUUtilization     *prometheus.GaugeVec
	ProcessesSimulated prometheus.Counter

	HTTPRequests *prometheus.CounterVec
}

// NewSimCollector registers simulator metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	simulations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cpusim_simulations_total",
		Help: "Total number of simulation runs, labeled by policy and outcome.",
	}, []string{"policy", "outcome"}), "cpusim_simulations_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cpusim_simulation_duration_seconds",
		Help:    "Wall-clock time spent simulating one policy.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"policy"}), "cpusim_simulation_duration_seconds")
	if err != nil {
		return nil, err
	}

	utilization, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cpusim_cpu_utilization_percent",
		Help: "CPU utilization of the most recent successful run per policy.",
	}, []string{"policy"}), "cpusim_cpu_utilization_percent")
	if err != nil {
		return nil, err
	}

	processes, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cpusim_processes_simulated_total",
		Help: "Total number of processes completed across all successful runs.",
	}), "cpusim_processes_simulated_total")
	if err != nil {
		return nil, err
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cpusim_http_requests_total",
		Help: "Total number of handled HTTP requests, labeled by route, method, and status code.",
	}, []string{"route", "method", "code"}), "cpusim_http_requests_total")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:           gatherer,
		Simulations:        simulations,
		SimulationDuration: durations,
		CPUUtilization:     utilization,
		ProcessesSimulated: processes,
		HTTPRequests:       requests,
	}, nil
}

// ObserveRun records the outcome of one sim.Run call.
func (c *SimCollector) ObserveRun(policy string, res *sim.Result, err error, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Simulations.WithLabelValues(policy, Outcome(err)).Inc()
	if err != nil {
		return
	}
	c.SimulationDuration.WithLabelValues(policy).Observe(elapsed.Seconds())
	if res != nil {
		c.CPUUtilization.WithLabelValues(policy).Set(res.Metrics.CPUUtilization)
		c.ProcessesSimulated.Add(float64(res.Metrics.Completed))
	}
}

// Outcome classifies a run error into an outcome label.
func Outcome(err error) string {
	var cerr *sim.ConfigurationError
	var verr *sim.ValidationError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &cerr):
		return OutcomeConfigError
	case errors.As(err, &verr):
		return OutcomeValidationError
	default:
		return OutcomeError
	}
}

// Middleware counts HTTP requests by chi route pattern, method, and status code.
func (c *SimCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if c == nil {
			return
		}
		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	})
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
