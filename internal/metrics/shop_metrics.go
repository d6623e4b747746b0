package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ShopMetrics содержит метрики корзины и checkout.
type ShopMetrics struct {
	// Счётчики операций над корзиной по типу операции.
	cartOps *prometheus.CounterVec

	// Счётчики исходов checkout
	checkoutCompleted prometheus.Counter
	checkoutFailed    prometheus.Counter
	checkoutConflicts prometheus.Counter

	// Гистограмма времени выполнения checkout
	checkoutDuration prometheus.Histogram

	// Счётчики писем-подтверждений
	notificationSent   prometheus.Counter
	notificationFailed prometheus.Counter
}

// NewShopMetrics создаёт новый экземпляр метрик магазина.
func NewShopMetrics() *ShopMetrics {
	return newShopMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newShopMetricsWithRegisterer(registerer prometheus.Registerer) *ShopMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ShopMetrics{
		cartOps: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shop_cart_operations_total",
			Help: "Total number of cart mutations grouped by operation",
		}, []string{"op"}),
		checkoutCompleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_checkout_completed_total",
			Help: "Total number of successfully completed checkouts",
		}),
		checkoutFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_checkout_failed_total",
			Help: "Total number of failed checkouts",
		}),
		checkoutConflicts: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_checkout_conflicts_total",
			Help: "Total number of checkouts rejected by cart version conflict",
		}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "shop_checkout_duration_seconds",
			Help:    "Duration of checkout operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		notificationSent: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_order_emails_sent_total",
			Help: "Total number of order confirmation emails sent",
		}),
		notificationFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_order_emails_failed_total",
			Help: "Total number of order confirmation emails that failed to send",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordCartOp увеличивает счётчик операций над корзиной.
func (m *ShopMetrics) RecordCartOp(op string) {
	m.cartOps.WithLabelValues(op).Inc()
}

// RecordCheckoutCompleted увеличивает счётчик успешных checkout.
func (m *ShopMetrics) RecordCheckoutCompleted() {
	m.checkoutCompleted.Inc()
}

// RecordCheckoutFailed увеличивает счётчик неудачных checkout.
func (m *ShopMetrics) RecordCheckoutFailed() {
	m.checkoutFailed.Inc()
}

// RecordCheckoutConflict увеличивает счётчик конфликтов версий на checkout.
func (m *ShopMetrics) RecordCheckoutConflict() {
	m.checkoutConflicts.Inc()
}

// RecordCheckoutDuration записывает время выполнения checkout.
func (m *ShopMetrics) RecordCheckoutDuration(duration time.Duration) {
	m.checkoutDuration.Observe(duration.Seconds())
}

// RecordNotificationSent увеличивает счётчик отправленных писем.
func (m *ShopMetrics) RecordNotificationSent() {
	m.notificationSent.Inc()
}

// RecordNotificationFailed увеличивает счётчик неотправленных писем.
func (m *ShopMetrics) RecordNotificationFailed() {
	m.notificationFailed.Inc()
}
