package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymhub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// BookingsTotal counts booking attempts by outcome (created, full,
	// duplicate, past, no_credit, not_found, error).
	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_bookings_total",
			Help: "Total number of booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymhub_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	CreditsPurchasedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_credits_purchased_total",
			Help: "Total number of credits minted from confirmed payments",
		},
		[]string{"service_id"},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_payments_total",
			Help: "Total number of payments by status",
		},
		[]string{"status"},
	)

	CapacityEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_capacity_events_total",
			Help: "Capacity events published, by type and route",
		},
		[]string{"event_type", "route"},
	)

	WebsocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymhub_websocket_connections",
			Help: "Currently open websocket connections",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymhub_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(outcome string) {
	BookingsTotal.WithLabelValues(outcome).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordCreditsPurchased(serviceID string, quantity int) {
	CreditsPurchasedTotal.WithLabelValues(serviceID).Add(float64(quantity))
}

func RecordPayment(status string) {
	PaymentsTotal.WithLabelValues(status).Inc()
}

func RecordCapacityEvent(eventType, route string) {
	CapacityEventsTotal.WithLabelValues(eventType, route).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
