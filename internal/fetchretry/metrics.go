package fetchretry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("modlab.fetchretry")

var (
	// attemptsTotal counts every attempt by outcome.
	// Labels: outcome (ok, status, transient, network, timeout)
	attemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "modlab",
		Subsystem: "fetch",
		Name:      "attempts_total",
		Help:      "Store request attempts by outcome",
	}, []string{"outcome"})

	// retriesTotal counts attempts that were followed by a retry.
	retriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "modlab",
		Subsystem: "fetch",
		Name:      "retries_total",
		Help:      "Store requests retried after a transient failure",
	})
)
