package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CheckoutMetrics tracks checkout activity
type CheckoutMetrics struct {
	Checkouts      *prometheus.CounterVec
	ItemsProcessed prometheus.Counter
	ItemsFailed    prometheus.Counter
	StockConflicts prometheus.Counter
}

// NewCheckoutMetrics registers and returns the checkout metrics. Call once
// per process.
func NewCheckoutMetrics() *CheckoutMetrics {
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kingtires",
		Name:      "checkouts_total",
		Help:      "Total number of checkout calls by result status.",
	}, []string{"status"})
	processed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kingtires",
		Name:      "checkout_items_processed_total",
		Help:      "Total number of line items purchased.",
	})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kingtires",
		Name:      "checkout_items_failed_total",
		Help:      "Total number of line items that could not be purchased.",
	})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kingtires",
		Name:      "checkout_stock_conflicts_total",
		Help:      "Conditional stock decrements lost to a concurrent checkout.",
	})

	prometheus.MustRegister(checkouts, processed, failed, conflicts)
	return &CheckoutMetrics{
		Checkouts:      checkouts,
		ItemsProcessed: processed,
		ItemsFailed:    failed,
		StockConflicts: conflicts,
	}
}

// Handler returns the HTTP handler serving the metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
