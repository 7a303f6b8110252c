package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimCollector bundles Prometheus metrics for the resilience simulator:
// optimizer trial counts and durations, the latest resilience ratios per
// domain, and scenario size gauges.
type SimCollector struct {
	gatherer prometheus.Gatherer

	TrialsTotal    *prometheus.CounterVec
	TrialDurations prometheus.Histogram

	Resilience *prometheus.GaugeVec

	ScenarioComponents prometheus.Gauge
	ScenarioCouplings  prometheus.Gauge
}

// NewSimCollector registers simulator Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when
// nil.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	trials := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_optimizer_trials_total",
		Help: "Total number of optimizer candidate trials, labeled by outcome.",
	}, []string{"outcome"})
	trials, err := registerCounterVec(reg, trials, "sim_optimizer_trials_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_trial_duration_seconds",
		Help:    "Optimizer candidate trial duration in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})
	durations, err = registerHistogram(reg, durations, "sim_trial_duration_seconds")
	if err != nil {
		return nil, err
	}

	resilience := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sim_resilience_ratio",
		Help: "Latest consumption-ratio resilience metric, labeled by domain.",
	}, []string{"domain"})
	resilience, err = registerGaugeVec(reg, resilience, "sim_resilience_ratio")
	if err != nil {
		return nil, err
	}

	components, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_scenario_components",
		Help: "Number of disrupted components in the loaded scenario.",
	}), "sim_scenario_components")
	if err != nil {
		return nil, err
	}
	couplings, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_scenario_couplings",
		Help: "Number of cross-domain coupling edges in the dependency table.",
	}), "sim_scenario_couplings")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:           gatherer,
		TrialsTotal:        trials,
		TrialDurations:     durations,
		Resilience:         resilience,
		ScenarioComponents: components,
		ScenarioCouplings:  couplings,
	}, nil
}

// ObserveTrial satisfies the core TrialMetrics interface so the repair
// optimizer can drive trial metrics without importing this package.
func (c *SimCollector) ObserveTrial(outcome string, seconds float64) {
	if c == nil {
		return
	}
	if c.TrialsTotal != nil {
		c.TrialsTotal.WithLabelValues(outcome).Inc()
	}
	if c.TrialDurations != nil {
		c.TrialDurations.Observe(seconds)
	}
}

// SetResilience publishes the latest per-domain resilience ratios.
func (c *SimCollector) SetResilience(power, water float64) {
	if c == nil || c.Resilience == nil {
		return
	}
	c.Resilience.WithLabelValues("power").Set(power)
	c.Resilience.WithLabelValues("water").Set(water)
}

// SetScenarioCounts publishes scenario size gauges.
func (c *SimCollector) SetScenarioCounts(components, couplings int) {
	if c == nil {
		return
	}
	if c.ScenarioComponents != nil {
		c.ScenarioComponents.Set(float64(components))
	}
	if c.ScenarioCouplings != nil {
		c.ScenarioCouplings.Set(float64(couplings))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
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

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}
