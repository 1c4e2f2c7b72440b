package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AuthSuccesses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "intake_authorizations_total",
		Help: "Successful token authorizations.",
	})

	AuthFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "intake_authorization_failures_total",
		Help: "Rejected token authorizations.",
	})

	LookupFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_directory_lookup_failures_total",
			Help: "Directory lookups that missed or failed.",
		},
		[]string{"directory", "kind"},
	)

	RequestsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "intake_requests_submitted_total",
		Help: "Termination requests enqueued as pending.",
	})

	RequestsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "intake_requests_accepted_total",
		Help: "Termination requests archived by HR.",
	})

	LedgerSyncFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "intake_ledger_sync_failures_total",
		Help: "Best-effort ledger notifications that failed.",
	})
)

// Init registers the metrics in the default registry.
func Init() {
	prometheus.MustRegister(
		AuthSuccesses,
		AuthFailures,
		LookupFailures,
		RequestsSubmitted,
		RequestsAccepted,
		LedgerSyncFailures,
	)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
