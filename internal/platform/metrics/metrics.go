// Package metrics builds prometheus collectors against an optional registerer
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Namespace prefixes every metric this service exports
const Namespace = "feasibility"

// Registry is the process registry served on /metrics
// Collectors registered here are exported next to the go and process collectors
func Registry() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// MustRegisterCounterVec creates a counter vector and registers it on reg
// A nil reg leaves the vector unregistered, which is what tests want
func MustRegisterCounterVec(reg prometheus.Registerer, component, name, help string, labelNames ...string) *prometheus.CounterVec {
	m := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: component,
		Name:      name,
		Help:      help,
	}, labelNames)
	register(reg, m)
	return m
}

// MustRegisterCounter creates a counter and registers it on reg
func MustRegisterCounter(reg prometheus.Registerer, component, name, help string) prometheus.Counter {
	m := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: component,
		Name:      name,
		Help:      help,
	})
	register(reg, m)
	return m
}

// MustRegisterGauge creates a gauge and registers it on reg
func MustRegisterGauge(reg prometheus.Registerer, component, name, help string) prometheus.Gauge {
	m := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: component,
		Name:      name,
		Help:      help,
	})
	register(reg, m)
	return m
}

// MustRegisterGaugeFunc registers a gauge whose value fn computes at scrape time
func MustRegisterGaugeFunc(reg prometheus.Registerer, component, name, help string, fn func() float64) prometheus.GaugeFunc {
	m := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: component,
		Name:      name,
		Help:      help,
	}, fn)
	register(reg, m)
	return m
}

// MustRegisterHistogram creates a histogram and registers it on reg
func MustRegisterHistogram(reg prometheus.Registerer, component, name, help string, buckets []float64) prometheus.Histogram {
	m := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: component,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	})
	register(reg, m)
	return m
}

func register(reg prometheus.Registerer, c prometheus.Collector) {
	if reg == nil {
		return
	}
	reg.MustRegister(c)
}
