package kvfile

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the dump instrumentation of one store.
type metrics struct {
	dumps     *prometheus.CounterVec
	duration  prometheus.Histogram
	size      prometheus.Gauge
	rollbacks prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, path string) *metrics {
	m := &metrics{
		dumps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kvfile",
			Name:      "dumps_total",
			Help:      "Snapshot dumps by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kvfile",
			Name:      "dump_duration_seconds",
			Help:      "Time spent encoding and writing a snapshot.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kvfile",
			Name:      "snapshot_bytes",
			Help:      "Size of the last written snapshot.",
		}),
		rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kvfile",
			Name:      "rollbacks_total",
			Help:      "Mutations rolled back after a failed dump.",
		}),
	}

	if reg == nil {
		return m
	}

	reg = prometheus.WrapRegistererWith(prometheus.Labels{"file": path}, reg)
	m.dumps = register(reg, m.dumps)
	m.duration = register(reg, m.duration)
	m.size = register(reg, m.size)
	m.rollbacks = register(reg, m.rollbacks)
	return m
}

// register registers c, reusing an identical collector that is already
// registered (two stores reopening the same file).
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}
