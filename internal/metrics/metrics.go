package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "armancoffee",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	ordersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "armancoffee",
			Name:      "orders_created_total",
			Help:      "Orders accepted by the order service.",
		},
	)

	orderTotals = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "armancoffee",
			Name:      "order_total_amount",
			Help:      "Distribution of order totals.",
			Buckets:   prometheus.ExponentialBuckets(50, 2, 10),
		},
	)

	paymentsSucceeded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "armancoffee",
			Name:      "payments_succeeded_total",
			Help:      "Payments that reached the success status.",
		},
	)

	otpSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "armancoffee",
			Name:      "otp_codes_sent_total",
			Help:      "One-time codes issued.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, ordersCreated, orderTotals, paymentsSucceeded, otpSent)
	})
}

// IncHTTP increments the request counter for an endpoint/status pair.
func IncHTTP(endpoint, status string) {
	httpRequests.WithLabelValues(endpoint, status).Inc()
}

// ObserveOrder records a created order and its total.
func ObserveOrder(total float64) {
	ordersCreated.Inc()
	orderTotals.Observe(total)
}

// IncPaymentSucceeded records a successful payment cascade.
func IncPaymentSucceeded() {
	paymentsSucceeded.Inc()
}

// IncOTPSent records an issued one-time code.
func IncOTPSent() {
	otpSent.Inc()
}
