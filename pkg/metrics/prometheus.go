package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scansTotal      prometheus.Counter
	scanDuration    prometheus.Histogram
	signalsProduced prometheus.Counter
	compositeScore  *prometheus.GaugeVec
	lastPrice       *prometheus.GaugeVec
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scansTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tradescout_scans_total",
				Help: "Total number of screener runs executed",
			},
		),
		scanDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tradescout_scan_duration_seconds",
				Help:    "Duration of screener runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		signalsProduced: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tradescout_signals_produced_total",
				Help: "Total number of ranked signals produced",
			},
		),
		compositeScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tradescout_composite_score",
				Help: "Latest composite score per ticker",
			},
			[]string{"ticker"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tradescout_last_price",
				Help: "Last observed price for a ticker",
			},
			[]string{"ticker"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradescout_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradescout_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordScan records one completed screener run.
func (r *Recorder) RecordScan(produced int, seconds float64) {
	r.scansTotal.Inc()
	r.scanDuration.Observe(seconds)
	r.signalsProduced.Add(float64(produced))
}

// RecordSignal records the composite score of a ranked signal.
func (r *Recorder) RecordSignal(ticker string, composite float64) {
	r.compositeScore.WithLabelValues(ticker).Set(composite)
}

// RecordObservation records the last price seen for a ticker.
func (r *Recorder) RecordObservation(ticker string, price float64) {
	r.lastPrice.WithLabelValues(ticker).Set(price)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
