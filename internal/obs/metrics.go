package obs

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics groups Prometheus collectors for HTTP observability.
type HTTPMetrics struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics registers and returns HTTP metrics collectors.
func NewHTTPMetrics(namespace string, reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &HTTPMetrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
	}
	m.ReqTotal = registerOrExisting(reg, m.ReqTotal)
	m.ReqDur = registerOrExisting(reg, m.ReqDur)
	m.InFlight = registerOrExisting(reg, m.InFlight)
	return m
}

// QuoteMetrics tracks pricing calculations.
type QuoteMetrics struct {
	Total    *prometheus.CounterVec
	Discount *prometheus.CounterVec
	Amount   prometheus.Histogram
}

// NewQuoteMetrics registers and returns quote collectors.
func NewQuoteMetrics(namespace string, reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &QuoteMetrics{
		Total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Count of quote requests by outcome.",
		}, []string{"result"}),
		Discount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_discounts_applied_total",
			Help:      "Count of discounts applied to successful quotes.",
		}, []string{"kind"}),
		Amount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_total_amount",
			Help:      "Distribution of quoted totals in currency units.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	m.Total = registerOrExisting(reg, m.Total)
	m.Discount = registerOrExisting(reg, m.Discount)
	m.Amount = registerOrExisting(reg, m.Amount)
	return m
}

// ObserveRejected counts a quote that failed validation.
func (m *QuoteMetrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.Total.WithLabelValues(reason).Inc()
}

// ObserveQuote records a successful quote and the discounts it carried.
func (m *QuoteMetrics) ObserveQuote(total float64, member, bigSpender, coupon bool) {
	if m == nil {
		return
	}
	m.Total.WithLabelValues("ok").Inc()
	m.Amount.Observe(total)
	if member {
		m.Discount.WithLabelValues("member").Inc()
	}
	if bigSpender {
		m.Discount.WithLabelValues("big_spender").Inc()
	}
	if coupon {
		m.Discount.WithLabelValues("coupon").Inc()
	}
}

// DurationMillis converts a duration into milliseconds as float64.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func registerOrExisting[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
