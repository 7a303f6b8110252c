package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestObserveTrialRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}

	collector.ObserveTrial("ok", 0.02)
	collector.ObserveTrial("ok", 0.03)
	collector.ObserveTrial("timeout", 1.5)

	if got := testutil.ToFloat64(collector.TrialsTotal.WithLabelValues("ok")); got != 2 {
		t.Fatalf("sim_optimizer_trials_total{outcome=ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.TrialsTotal.WithLabelValues("timeout")); got != 1 {
		t.Fatalf("sim_optimizer_trials_total{outcome=timeout} = %v, want 1", got)
	}

	if count := histogramSampleCount(t, reg, "sim_trial_duration_seconds", nil); count != 3 {
		t.Fatalf("sim_trial_duration_seconds sample_count = %d, want 3", count)
	}
}

func TestMetricsHandlerExposesScenarioGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}
	collector.SetScenarioCounts(7, 3)
	collector.SetResilience(0.95, 0.87)
	collector.ObserveTrial("ok", 0.01)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"sim_optimizer_trials_total",
		"sim_trial_duration_seconds",
		"sim_resilience_ratio",
		"sim_scenario_components",
		"sim_scenario_couplings",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
	if !strings.Contains(body, "0.95") || !strings.Contains(body, "0.87") {
		t.Fatalf("/metrics output missing resilience gauge values: %s", body)
	}
}

func TestNewSimCollectorIsIdempotentPerRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}
	second, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector (second): %v", err)
	}

	first.ObserveTrial("ok", 0.01)
	second.ObserveTrial("ok", 0.01)
	if got := testutil.ToFloat64(first.TrialsTotal.WithLabelValues("ok")); got != 2 {
		t.Fatalf("shared counter = %v, want 2", got)
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
