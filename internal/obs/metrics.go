package obs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics groups the Prometheus collectors for the HTTP server.
type HTTPMetrics struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics registers and returns HTTP metrics collectors. Duplicate
// registrations reuse the existing collector so tests can construct the
// metrics repeatedly against the default registerer.
func NewHTTPMetrics(namespace string, buckets []float64, reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if len(buckets) == 0 {
		buckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500}
	} else {
		sort.Float64s(buckets)
	}
	m := &HTTPMetrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   buckets,
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
	}
	m.ReqTotal = registerCounterVec(reg, m.ReqTotal)
	m.ReqDur = registerHistogramVec(reg, m.ReqDur)
	m.InFlight = registerGauge(reg, m.InFlight)
	return m
}

// OrderMetrics counts finalized orders and observes their totals.
type OrderMetrics struct {
	Placed     prometheus.Counter
	TotalMinor prometheus.Histogram
}

// NewOrderMetrics registers and returns the order collectors.
func NewOrderMetrics(namespace string, reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &OrderMetrics{
		Placed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Total number of orders successfully finalized.",
		}),
		TotalMinor: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_total_minor_units",
			Help:      "Distribution of order grand totals in minor currency units.",
			Buckets:   prometheus.ExponentialBuckets(1000, 4, 10),
		}),
	}
	m.Placed = registerCounter(reg, m.Placed)
	m.TotalMinor = registerHistogram(reg, m.TotalMinor)
	return m
}

// Observe records one placed order.
func (m *OrderMetrics) Observe(total int64) {
	if m == nil {
		return
	}
	m.Placed.Inc()
	m.TotalMinor.Observe(float64(total))
}

// ParseBucketsCSV converts a comma-separated list of millisecond bucket
// boundaries into floats, skipping malformed entries.
func ParseBucketsCSV(csv string) []float64 {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || v <= 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

// DurationMillis converts a duration to milliseconds for metric observation.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		panic(fmt.Errorf("register counter vec: %w", err))
	}
	return c
}

func registerHistogramVec(reg prometheus.Registerer, h *prometheus.HistogramVec) *prometheus.HistogramVec {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		panic(fmt.Errorf("register histogram vec: %w", err))
	}
	return h
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter) prometheus.Counter {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Counter)
		}
		panic(fmt.Errorf("register counter: %w", err))
	}
	return c
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram) prometheus.Histogram {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Histogram)
		}
		panic(fmt.Errorf("register histogram: %w", err))
	}
	return h
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge) prometheus.Gauge {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Gauge)
		}
		panic(fmt.Errorf("register gauge: %w", err))
	}
	return g
}
