package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type PrometheusRecorder struct {
	redemptions *prometheus.CounterVec
	durations   *prometheus.HistogramVec
}

// NewPrometheusRecorder registers the settlement metrics on reg and returns
// a recorder writing to them. Pass prometheus.DefaultRegisterer to use the
// process-wide registry.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	redemptions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bitserv",
			Name:      "redemptions_total",
			Help:      "Finished payment redemptions by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	durations := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bitserv",
			Name:      "redeem_duration_seconds",
			Help:      "Redeem call latency by method",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	reg.MustRegister(redemptions, durations)

	return &PrometheusRecorder{
		redemptions: redemptions,
		durations:   durations,
	}
}

func (p *PrometheusRecorder) RedemptionProcessed(method, outcome string) {
	p.redemptions.WithLabelValues(method, outcome).Inc()
}

func (p *PrometheusRecorder) RedeemDuration(method string, d time.Duration) {
	p.durations.WithLabelValues(method).Observe(d.Seconds())
}
