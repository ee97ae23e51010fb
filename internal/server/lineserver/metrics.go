package lineserver

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	commands    *prometheus.CounterVec
	connections prometheus.Gauge
	rejected    *prometheus.CounterVec
}

// newMetrics creates the server collectors and registers them with reg
// when it is not nil.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kvfile",
			Subsystem: "server",
			Name:      "commands_total",
			Help:      "Commands processed by name and result.",
		}, []string{"cmd", "result"}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kvfile",
			Subsystem: "server",
			Name:      "connections",
			Help:      "Currently open client connections.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kvfile",
			Subsystem: "server",
			Name:      "rejected_total",
			Help:      "Requests or connections rejected by reason.",
		}, []string{"reason"}),
	}
	if reg != nil {
		reg.MustRegister(m.commands, m.connections, m.rejected)
	}
	return m
}

func (m *metrics) observe(cmd, result string) {
	m.commands.WithLabelValues(cmd, result).Inc()
}
