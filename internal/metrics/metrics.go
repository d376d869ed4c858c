package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager bundles the prometheus collectors of the server.
type Manager struct {
	// counters
	CounterAdvisoryRequests *prometheus.CounterVec
	CounterAdvisoryFailures *prometheus.CounterVec
	CounterExecutionLogs    prometheus.Counter
}

func NewTestManager() *Manager {
	return NewManager("coachapp", "server", prometheus.NewRegistry())
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterAdvisoryRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "advisory_requests",
		Help:      "The total number of advisory proxy invocations",
	}, []string{"endpoint"})
	counterAdvisoryFailures := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "advisory_failures",
		Help:      "The total number of failed advisory proxy invocations",
	}, []string{"endpoint", "kind"})
	counterExecutionLogs := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "execution_logs",
		Help:      "The total number of recorded workout execution logs",
	})

	return &Manager{
		CounterAdvisoryRequests: counterAdvisoryRequests,
		CounterAdvisoryFailures: counterAdvisoryFailures,
		CounterExecutionLogs:    counterExecutionLogs,
	}
}
