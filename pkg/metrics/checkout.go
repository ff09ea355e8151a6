package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics tracks checkout and order placement outcomes.
type CheckoutMetrics struct {
	checkouts *prometheus.CounterVec
	orders    prometheus.Counter
	stockOuts prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders successfully placed.",
	})
	stockOuts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_stock_out_records_total",
		Help: "Stock-out ledger records written during checkout.",
	})
	reg.MustRegister(checkouts, orders, stockOuts)
	return &CheckoutMetrics{checkouts: checkouts, orders: orders, stockOuts: stockOuts}
}

// IncCheckout records one checkout attempt with the given outcome.
func (m *CheckoutMetrics) IncCheckout(outcome string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncOrderPlaced records a successfully placed order.
func (m *CheckoutMetrics) IncOrderPlaced() {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.Inc()
}

// AddStockOutRecords counts ledger rows written by a checkout.
func (m *CheckoutMetrics) AddStockOutRecords(n int) {
	if m == nil || m.stockOuts == nil || n <= 0 {
		return
	}
	m.stockOuts.Add(float64(n))
}
