// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Handled HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	GatewayQueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_queries_total",
		Help: "Statements sent to the remote store",
	}, []string{"backend", "status"})

	FeedbackNotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_notifications_total",
		Help: "Feedback notifications sent to the webhook",
	}, []string{"status"})

	SessionsIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sessions_issued_total",
		Help: "Admin sessions issued after a successful login",
	})
)

var registerOnce sync.Once

// Register adds all collectors to the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			GatewayQueriesTotal,
			FeedbackNotificationsTotal,
			SessionsIssuedTotal,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
