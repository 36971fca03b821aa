package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Job names, also used as metric labels.
const (
	JobRefreshMetrics = "refresh_metrics"
	JobMarkOverdue    = "mark_overdue_calls"
	JobPruneOutbox    = "prune_outbox"
	JobCleanupLimits  = "cleanup_rate_limiters"
	JobPoolStats      = "pool_stats"
)

type funcJob struct {
	name string
	fn   func(ctx context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

// NewFuncJob adapts fn to a Job.
func NewFuncJob(name string, fn func(ctx context.Context) error) Job {
	return funcJob{name: name, fn: fn}
}

// MetricsRefresher recomputes the metrics projection of every fund.
type MetricsRefresher interface {
	RefreshAllMetrics(ctx context.Context) (int, error)
}

// RefreshMetricsJob keeps stored metric snapshots and the cache warm.
func RefreshMetricsJob(r MetricsRefresher, log zerolog.Logger) Job {
	return NewFuncJob(JobRefreshMetrics, func(ctx context.Context) error {
		n, err := r.RefreshAllMetrics(ctx)
		if err != nil {
			return err
		}
		log.Info().Int("funds", n).Msg("fund metrics refreshed")
		return nil
	})
}

// OverdueMarker flips issued calls past their due date to overdue.
type OverdueMarker interface {
	MarkOverdueCalls(ctx context.Context, asOf time.Time) (int, error)
}

// MarkOverdueJob sweeps capital calls as of the run time. now may be nil.
func MarkOverdueJob(m OverdueMarker, now func() time.Time, log zerolog.Logger) Job {
	if now == nil {
		now = time.Now
	}
	return NewFuncJob(JobMarkOverdue, func(ctx context.Context) error {
		n, err := m.MarkOverdueCalls(ctx, now().UTC())
		if err != nil {
			return err
		}
		if n > 0 {
			log.Warn().Int("calls", n).Msg("capital calls marked overdue")
		}
		return nil
	})
}

// OutboxPruner removes relayed events.
type OutboxPruner interface {
	Prune(ctx context.Context, retention time.Duration) error
}

// PruneOutboxJob deletes events published longer ago than retention.
func PruneOutboxJob(p OutboxPruner, retention time.Duration) Job {
	return NewFuncJob(JobPruneOutbox, func(ctx context.Context) error {
		return p.Prune(ctx, retention)
	})
}

// LimiterCleaner drops per-client rate limiters.
type LimiterCleaner interface {
	CleanupLimiters()
}

// CleanupLimitersJob bounds the rate limiter's memory.
func CleanupLimitersJob(c LimiterCleaner) Job {
	return NewFuncJob(JobCleanupLimits, func(context.Context) error {
		c.CleanupLimiters()
		return nil
	})
}

// PoolStatsSink receives connection pool snapshots.
type PoolStatsSink interface {
	SetDBConnections(total, idle, acquired int32)
}

// PoolStatsJob samples the connection pool through stat.
func PoolStatsJob(stat func() (total, idle, acquired int32), sink PoolStatsSink) Job {
	return NewFuncJob(JobPoolStats, func(context.Context) error {
		sink.SetDBConnections(stat())
		return nil
	})
}
