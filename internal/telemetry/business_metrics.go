package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics counts the order-flow events the kitchen dashboard
// graphs. All methods are nil-safe so tests can pass a nil receiver.
type BusinessMetrics struct {
	ordersStarted   prometheus.Counter
	ordersAdvanced  *prometheus.CounterVec
	ordersFinalized prometheus.Counter
	ordersCancelled prometheus.Counter

	cartItemsAdded prometheus.Counter
	orderValue     prometheus.Histogram

	recommendationFallbacks prometheus.Counter
}

// NewBusinessMetrics registers the business metric family on the given
// registerer (nil uses the default registry).
func NewBusinessMetrics(reg prometheus.Registerer) *BusinessMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &BusinessMetrics{
		ordersStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "pos_orders_started_total",
			Help: "Orders submitted to the backend from a cart.",
		}),
		ordersAdvanced: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_orders_advanced_total",
			Help: "Status advances by target status tag.",
		}, []string{"to"}),
		ordersFinalized: factory.NewCounter(prometheus.CounterOpts{
			Name: "pos_orders_finalized_total",
			Help: "Orders marked delivered from the ready state.",
		}),
		ordersCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "pos_orders_cancelled_total",
			Help: "Orders cancelled.",
		}),
		cartItemsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "pos_cart_items_added_total",
			Help: "Cart line additions, merges included.",
		}),
		orderValue: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pos_order_value",
			Help:    "Total value of submitted orders.",
			Buckets: []float64{10, 25, 50, 100, 200, 500, 1000},
		}),
		recommendationFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "pos_recommendation_fallbacks_total",
			Help: "Times the local co-occurrence fallback produced the recommendations.",
		}),
	}
}

func (m *BusinessMetrics) OrderStarted(total float64) {
	if m == nil {
		return
	}
	m.ordersStarted.Inc()
	m.orderValue.Observe(total)
}

func (m *BusinessMetrics) OrderAdvanced(to string) {
	if m == nil {
		return
	}
	m.ordersAdvanced.WithLabelValues(to).Inc()
}

func (m *BusinessMetrics) OrderFinalized() {
	if m == nil {
		return
	}
	m.ordersFinalized.Inc()
}

func (m *BusinessMetrics) OrderCancelled() {
	if m == nil {
		return
	}
	m.ordersCancelled.Inc()
}

func (m *BusinessMetrics) CartItemAdded() {
	if m == nil {
		return
	}
	m.cartItemsAdded.Inc()
}

func (m *BusinessMetrics) RecommendationFallback() {
	if m == nil {
		return
	}
	m.recommendationFallbacks.Inc()
}
