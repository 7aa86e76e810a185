package resilience

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	BreakerState       *prometheus.GaugeVec
	BreakerTransitions *prometheus.CounterVec

	registerOnce sync.Once
)

// MustRegisterMetrics registers the breaker collectors. Breakers created before this
// call, or without it, are not exported.
func MustRegisterMetrics(namespace string, reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		state := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "breaker_state",
			Help:      "Current breaker state: 0=closed,1=open,2=half-open",
		}, []string{"target"})
		transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breaker_transition_total",
			Help:      "Count of breaker state transitions",
		}, []string{"target", "from", "to"})
		BreakerState = register(reg, state).(*prometheus.GaugeVec)
		BreakerTransitions = register(reg, transitions).(*prometheus.CounterVec)
	})
}

func register(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector
		}
		panic(err)
	}
	return c
}

func setState(target string, s State) {
	if BreakerState == nil {
		return
	}
	var v float64
	switch s {
	case Open:
		v = 1
	case HalfOpen:
		v = 2
	}
	BreakerState.WithLabelValues(target).Set(v)
}

func recordTransition(target string, from, to State) {
	if BreakerTransitions == nil {
		return
	}
	BreakerTransitions.WithLabelValues(target, from.String(), to.String()).Inc()
}
