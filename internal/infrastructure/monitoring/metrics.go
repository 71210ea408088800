package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sharky_db_query_duration_seconds",
			Help:    "Histogram of database query latencies.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query", "status"},
	)

	paymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sharky_payments_total",
			Help: "Total number of installment payment attempts by outcome.",
		},
		[]string{"status"},
	)

	scheduleGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sharky_schedule_generations_total",
			Help: "Total number of amortization schedule generation attempts by outcome.",
		},
		[]string{"status"},
	)

	preTerminationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sharky_preterminations_total",
			Help: "Total number of loan pre-termination attempts by outcome.",
		},
		[]string{"status"},
	)

	pastDueEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sharky_pastdue_events_total",
			Help: "Total number of past-due installment events published.",
		},
	)
)

func RecordDBQuery(query, status string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(query, status).Observe(duration.Seconds())
}

func RecordPayment(status string) {
	paymentsTotal.WithLabelValues(status).Inc()
}

func RecordScheduleGeneration(status string) {
	scheduleGenerationsTotal.WithLabelValues(status).Inc()
}

func RecordPreTermination(status string) {
	preTerminationsTotal.WithLabelValues(status).Inc()
}

func RecordPastDueEvent() {
	pastDueEventsTotal.Inc()
}
