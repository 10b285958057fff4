package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OrdersCreated = counter("orders", "created_total", "Orders committed by checkout.")

	// OrderFailures is labelled not_found, insufficient_stock, validation,
	// conflict or internal.
	OrderFailures = counterVec("orders", "failures_total", "Checkouts rejected, by reason.", "reason")

	OrderValue = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "value_dollars",
		Help:      "Order totals including shipping and tax.",
		Buckets:   []float64{10, 25, 50, 100, 200, 500, 1000},
	})

	UnitsSold = counterVec("inventory", "units_sold_total", "Units removed from stock by checkouts.", "sku")
)

func init() {
	Registry.MustRegister(OrdersCreated, OrderFailures, OrderValue, UnitsSold)
}

// RecordOrder counts a committed order and observes its total.
func RecordOrder(total float64) {
	OrdersCreated.Inc()
	OrderValue.Observe(total)
}

func RecordOrderFailure(reason string) {
	OrderFailures.WithLabelValues(reason).Inc()
}

// RecordUnitsSold adds qty to the sku's sold counter.
func RecordUnitsSold(sku string, qty int) {
	UnitsSold.WithLabelValues(sku).Add(float64(qty))
}
