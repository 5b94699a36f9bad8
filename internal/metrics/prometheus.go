package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TenantResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenant_resolutions_total",
			Help: "Tenant resolution attempts by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	SurveyDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_decisions_total",
			Help: "Post-stay survey dispatch decisions",
		},
		[]string{"decision"},
	)

	SummaryRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guest_summary_refreshes_total",
			Help: "Guest engagement summary recomputations by outcome",
		},
		[]string{"outcome"},
	)

	BookingQueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "booking_queue_depth",
			Help: "Current booking-event queue depth per tenant",
		},
		[]string{"tenant"},
	)

	ConsumersActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "booking_consumers_active",
			Help: "Number of running booking-event consumers per tenant",
		},
		[]string{"tenant"},
	)
)

// Init registers metrics with Prometheus
func Init() {
	prometheus.MustRegister(TenantResolutions)
	prometheus.MustRegister(SurveyDecisions)
	prometheus.MustRegister(SummaryRefreshes)
	prometheus.MustRegister(BookingQueueDepth)
	prometheus.MustRegister(ConsumersActive)
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
