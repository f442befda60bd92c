package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "payregister"

// Collector owns a private registry so several collectors can coexist in one
// process (tests, the serve command).
type Collector struct {
	registry      *prometheus.Registry
	phaseDuration *prometheus.HistogramVec
	records       *prometheus.CounterVec
	runs          *prometheus.CounterVec
	requests      *prometheus.CounterVec
	requestTime   prometheus.Histogram
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of register run phases (read, compute, write, total).",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"phase"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Records processed, by input kind and outcome.",
		}, []string{"kind", "outcome"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Register computations by join strategy and result.",
		}, []string{"strategy", "result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by status code.",
		}, []string{"status"}),
		requestTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	c.registry.MustRegister(c.phaseDuration, c.records, c.runs, c.requests, c.requestTime)
	return c
}

func (c *Collector) ObservePhase(phase string, d time.Duration) {
	c.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (c *Collector) AddRecords(kind, outcome string, n int) {
	if n <= 0 {
		return
	}
	c.records.WithLabelValues(kind, outcome).Add(float64(n))
}

func (c *Collector) RecordRun(strategy string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.runs.WithLabelValues(strategy, result).Inc()
}

// Record tracks one HTTP request.
func (c *Collector) Record(status int, duration time.Duration) {
	c.requests.WithLabelValues(strconv.Itoa(status)).Inc()
	c.requestTime.Observe(duration.Seconds())
}

// Registry exposes the private registry for gathering outside promhttp.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// WriteTextfile dumps the current values in the text exposition format, for
// the node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
