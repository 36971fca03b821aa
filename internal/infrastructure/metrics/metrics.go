package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Capital call metrics
	CapitalCalls  *prometheus.CounterVec
	FundingAmount prometheus.Histogram

	// Distribution metrics
	Distributions      *prometheus.CounterVec
	DistributionAmount prometheus.Histogram

	// Fund metrics projection
	MetricsRecomputes       *prometheus.CounterVec
	MetricsRecomputeSeconds prometheus.Histogram

	// Invariants
	ConsistencyViolations *prometheus.CounterVec
	TxRetries             *prometheus.CounterVec

	// Scheduler
	JobRuns *prometheus.CounterVec

	// Database metrics
	DBConnections *prometheus.GaugeVec
}

var amountBuckets = []float64{1000, 10000, 100000, 1000000, 10000000, 100000000}

// New creates and registers all Prometheus metrics on the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates and registers all Prometheus metrics on reg
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		CapitalCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundengine_capital_calls_total",
				Help: "Capital call lifecycle transitions by resulting status",
			},
			[]string{"status"},
		),
		FundingAmount: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "fundengine_funding_amount",
			Help:    "LP funding payment amounts",
			Buckets: amountBuckets,
		}),

		Distributions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundengine_distributions_total",
				Help: "Distribution lifecycle transitions by resulting status",
			},
			[]string{"status"},
		),
		DistributionAmount: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "fundengine_distribution_amount",
			Help:    "Paid distribution amounts",
			Buckets: amountBuckets,
		}),

		MetricsRecomputes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundengine_metrics_requests_total",
				Help: "Fund metrics requests by source",
			},
			[]string{"source"},
		),
		MetricsRecomputeSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "fundengine_metrics_recompute_seconds",
			Help:    "Duration of fund metrics recomputation",
			Buckets: prometheus.DefBuckets,
		}),

		ConsistencyViolations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundengine_consistency_violations_total",
				Help: "Detected invariant breaches",
			},
			[]string{"kind"},
		),
		TxRetries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundengine_tx_retries_total",
				Help: "Units of work re-run after a serialization conflict",
			},
			[]string{"operation"},
		),

		JobRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundengine_job_runs_total",
				Help: "Scheduled job runs",
			},
			[]string{"job", "status"},
		),

		DBConnections: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fundengine_db_connections",
				Help: "Database pool connections by state",
			},
			[]string{"state"},
		),
	}
}

// RecordCapitalCall counts a capital call reaching status.
func (m *Metrics) RecordCapitalCall(status string) {
	m.CapitalCalls.WithLabelValues(status).Inc()
}

// RecordFunding observes an LP funding payment.
func (m *Metrics) RecordFunding(amount float64) {
	m.FundingAmount.Observe(amount)
}

// RecordDistribution counts a distribution reaching status.
func (m *Metrics) RecordDistribution(status string, amount float64) {
	m.Distributions.WithLabelValues(status).Inc()
	if status == "paid" {
		m.DistributionAmount.Observe(amount)
	}
}

// RecordMetricsRecompute records a metrics request served from cache or recomputed.
func (m *Metrics) RecordMetricsRecompute(d time.Duration, cached bool) {
	if cached {
		m.MetricsRecomputes.WithLabelValues("cache").Inc()
		return
	}
	m.MetricsRecomputes.WithLabelValues("recompute").Inc()
	m.MetricsRecomputeSeconds.Observe(d.Seconds())
}

// RecordConsistencyViolation counts a detected invariant breach.
func (m *Metrics) RecordConsistencyViolation(kind string) {
	m.ConsistencyViolations.WithLabelValues(kind).Inc()
}

// RecordTxRetry counts a unit of work re-run.
func (m *Metrics) RecordTxRetry(operation string) {
	m.TxRetries.WithLabelValues(operation).Inc()
}

// RecordJobRun counts a scheduled job run.
func (m *Metrics) RecordJobRun(job string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.JobRuns.WithLabelValues(job, status).Inc()
}

// SetDBConnections publishes a pool snapshot.
func (m *Metrics) SetDBConnections(total, idle, acquired int32) {
	m.DBConnections.WithLabelValues("total").Set(float64(total))
	m.DBConnections.WithLabelValues("idle").Set(float64(idle))
	m.DBConnections.WithLabelValues("acquired").Set(float64(acquired))
}
