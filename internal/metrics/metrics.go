// Package metrics exposes Prometheus metrics for submissions, payments and
// the delivery sweep.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	submissionsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visionboard_submissions_created_total",
			Help: "Submissions created, by board format (kanban, canvas)",
		},
		[]string{"format"},
	)

	// chargesTotal labels:
	//   - result: "created", "reused" or "error"
	chargesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visionboard_charges_total",
			Help: "Charge requests by result",
		},
		[]string{"result"},
	)

	// paymentSignals labels:
	//   - source: "poll" or "webhook"
	//   - target: local status the signal asked for
	//   - outcome: "applied" or "noop"
	paymentSignals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visionboard_payment_signals_total",
			Help: "Payment status signals received, by source and whether they changed state",
		},
		[]string{"source", "target", "outcome"},
	)

	sweepDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visionboard_sweep_deliveries_total",
			Help: "Submissions processed by the delivery sweep, by result (sent, failed)",
		},
		[]string{"result"},
	)

	sweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "visionboard_sweep_duration_seconds",
			Help:    "Duration of delivery sweep runs",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 300, 900},
		},
	)
)

func init() {
	prometheus.MustRegister(submissionsCreated)
	prometheus.MustRegister(chargesTotal)
	prometheus.MustRegister(paymentSignals)
	prometheus.MustRegister(sweepDeliveries)
	prometheus.MustRegister(sweepDuration)
}

func RecordSubmission(format string) {
	submissionsCreated.WithLabelValues(format).Inc()
}

func RecordCharge(result string) {
	chargesTotal.WithLabelValues(result).Inc()
}

// RecordPaymentSignal counts one poll or webhook signal. applied is false
// when the signal found nothing to change.
func RecordPaymentSignal(source, target string, applied bool) {
	outcome := "noop"
	if applied {
		outcome = "applied"
	}
	paymentSignals.WithLabelValues(source, target, outcome).Inc()
}

func RecordSweep(sent, failed int, durationSeconds float64) {
	sweepDeliveries.WithLabelValues("sent").Add(float64(sent))
	sweepDeliveries.WithLabelValues("failed").Add(float64(failed))
	sweepDuration.Observe(durationSeconds)
}
