package interpreter

import (
	"github.com/fakalang/faka/pkg/interpreter/fault"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for monitoring service.
var (
	// statementsTotal prometheus metric.
	statementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of executed statements",
			Name:      "statements_total",
			Namespace: "faka",
		},
		[]string{"kind"},
	)
	// faultsTotal prometheus metric.
	faultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of fatal errors by class",
			Name:      "faults_total",
			Namespace: "faka",
		},
		[]string{"kind"},
	)
	// runsTotal prometheus metric.
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of completed program runs",
			Name:      "runs_total",
			Namespace: "faka",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		statementsTotal,
		faultsTotal,
		runsTotal,
	)
}

func updateStatementMetric(kind string) {
	statementsTotal.WithLabelValues(kind).Inc()
}

func updateFaultMetric(err error) {
	faultsTotal.WithLabelValues(fault.KindOf(err).String()).Inc()
}

func updateRunMetric(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	runsTotal.WithLabelValues(result).Inc()
}
