package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RefreshAttemptsTotal prometheus.Counter
	RefreshFailuresTotal prometheus.Counter
	RefreshDuration      prometheus.Histogram

	CurrencySwitchTotal *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		RefreshAttemptsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_refresh_attempts_total",
				Help: "Total number of rate refresh cycles started",
			},
		),

		RefreshFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_refresh_failures_total",
				Help: "Total number of rate refresh cycles that failed to fetch",
			},
		),

		RefreshDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rate_refresh_duration_seconds",
				Help:    "Duration of successful rate refresh cycles in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		CurrencySwitchTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "currency_switch_requests_total",
				Help: "Total number of currency switch requests by dimension",
			},
			[]string{"dimension"},
		),
	}
}
