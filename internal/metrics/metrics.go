package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewAssignmentTransitionsTotal returns a Prometheus counter vector for
// assignment state transitions, labeled by the resulting status.
func NewAssignmentTransitionsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_transitions_total",
		Help: "Total number of assignment state transitions by resulting status",
	}, []string{"status"})
}

// NewDispatchTotal returns a Prometheus counter vector for dispatch
// attempts, labeled by outcome (assigned, no_partners, already_assigned, error).
func NewDispatchTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_total",
		Help: "Total number of dispatch attempts by outcome",
	}, []string{"outcome"})
}

// NewNotificationFailuresTotal returns a Prometheus counter for push
// notifications that could not be delivered.
func NewNotificationFailuresTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_failures_total",
		Help: "Total number of failed push notification sends",
	})
}

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of retry attempts performed by gateways
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Total number of retry attempts performed by gateways",
	})
}
