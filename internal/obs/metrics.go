package obs

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UnmatchedRoute labels requests that matched no chi route, keeping arbitrary paths out
// of the label set.
const UnmatchedRoute = "unmatched"

// defaultBucketsMS suits an in-process pricing API: most handlers finish in a few
// milliseconds, catalog reads through Postgres in tens.
var defaultBucketsMS = []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000}

// HTTPMetrics groups the Prometheus collectors recorded by HTTPObs.
type HTTPMetrics struct {
	ReqTotal      *prometheus.CounterVec
	ReqDur        *prometheus.HistogramVec
	ResponseBytes *prometheus.CounterVec
	InFlight      prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP collectors on reg, or the default registerer when
// reg is nil. Collectors already registered under the same name are reused.
func NewHTTPMetrics(namespace string, bucketsMS []float64, reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if len(bucketsMS) == 0 {
		bucketsMS = defaultBucketsMS
	}
	return &HTTPMetrics{
		ReqTotal: registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, chi route and status.",
		}, []string{"method", "route", "status"})),
		ReqDur: registerOrReuse(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   bucketsMS,
		}, []string{"method", "route"})),
		ResponseBytes: registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_response_bytes_total",
			Help:      "Response body bytes written, by chi route.",
		}, []string{"route"})),
		InFlight: registerOrReuse(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "HTTP requests currently being served.",
		})),
	}
}

// ParseBucketsCSV reads OBS_HTTP_BUCKETS_MS. Non-numeric and non-positive entries are
// skipped; the result is sorted and free of duplicates as Prometheus requires.
func ParseBucketsCSV(csv string) []float64 {
	var out []float64
	for _, part := range strings.Split(csv, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || v <= 0 {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// DurationMillis converts a duration to milliseconds for metric observation.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// registerOrReuse registers c, returning the collector already registered under the
// same descriptor when there is one. Any other registration error panics.
func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	panic(fmt.Errorf("register metric: %w", err))
}
