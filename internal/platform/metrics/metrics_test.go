package metrics

import (
	"strings"
	"testing"

	"feasibility/internal/platform/testkit"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMustRegisterCounterVec_NamesAndRegisters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	v := MustRegisterCounterVec(reg, "collector", "events_skipped_total", "skipped events", "reason")
	v.WithLabelValues("profile").Inc()

	want := `
# HELP feasibility_collector_events_skipped_total skipped events
# TYPE feasibility_collector_events_skipped_total counter
feasibility_collector_events_skipped_total{reason="profile"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "feasibility_collector_events_skipped_total"); err != nil {
		t.Fatal(err)
	}
}

func TestNilRegistererIsAllowed(t *testing.T) {
	t.Parallel()

	MustRegisterCounter(nil, "x", "a_total", "a").Inc()
	MustRegisterGauge(nil, "x", "g", "g").Set(2)
	MustRegisterHistogram(nil, "x", "h_seconds", "h", prometheus.DefBuckets).Observe(0.1)
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	MustRegisterCounter(reg, "x", "dup_total", "d")
	testkit.MustPanic(t, func() { MustRegisterCounter(reg, "x", "dup_total", "d") })
}

func TestRegistry_HasRuntimeCollectors(t *testing.T) {
	t.Parallel()

	mfs, err := Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, mf := range mfs {
		if strings.HasPrefix(mf.GetName(), "go_") {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("go collector not registered")
	}
}

func TestMustRegisterGaugeFunc_ReadsAtScrape(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	n := 1.0
	g := MustRegisterGaugeFunc(reg, "collector", "results_held", "held", func() float64 { return n })
	n = 3
	if v := testutil.ToFloat64(g); v != 3 {
		t.Fatalf("gauge=%v want 3", v)
	}
}
