// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ageback"

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	LessonLinkResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lesson_link_resolutions_total",
		Help:      "External link resolutions by lesson field and outcome.",
	}, []string{"field", "outcome"})

	AccountTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_transitions_total",
		Help:      "Account lifecycle transitions.",
	}, []string{"transition"})

	CredentialEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_emails_total",
		Help:      "Credential email delivery attempts by result.",
	}, []string{"result"})
)

// Label values.
const (
	OutcomeResolved = "resolved"
	OutcomeFallback = "fallback"

	TransitionLeadCreated   = "lead_created"
	TransitionLeadRefreshed = "lead_refreshed"
	TransitionUpgraded      = "upgraded"
	TransitionRoleSet       = "role_set"

	ResultSent   = "sent"
	ResultFailed = "failed"
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
