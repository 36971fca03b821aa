package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/fundengine/internal/domain"
)

// Repositories groups the stores the use cases read and write.
type Repositories struct {
	Funds         FundRepository
	Commitments   CommitmentRepository
	CapitalCalls  CapitalCallRepository
	Distributions DistributionRepository
	Investments   InvestmentRepository
	Metrics       MetricsRepository
	Outbox        OutboxRepository
}

// Deps are the collaborators shared by every use case.
type Deps struct {
	TxManager TransactionManager
	Retrier   Retrier
	Repos     Repositories
	IDGen     IDGenerator
	Cache     MetricsCache
	Metrics   EngineMetrics
	Logger    zerolog.Logger
}

// unitOfWork runs multi-record writes as one serializable transaction.
type unitOfWork struct {
	Deps
}

func newUnitOfWork(d Deps) unitOfWork {
	if d.Metrics == nil {
		d.Metrics = nopMetrics{}
	}
	return unitOfWork{Deps: d}
}

// atomically runs fn in a serializable transaction and commits. A
// serialization conflict rolls everything back and re-runs fn against freshly
// read state. Either every write fn makes is committed or none is.
func (u *unitOfWork) atomically(ctx context.Context, op string, fn func(ctx context.Context, tx Transaction) error) error {
	attempt := 0
	run := func() error {
		attempt++
		if attempt > 1 {
			u.Metrics.RecordTxRetry(op)
		}

		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := u.TxManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer tx.Rollback(txCtx)

		if err := fn(txCtx, tx); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	var err error
	if u.Retrier != nil {
		err = u.Retrier.Retry(ctx, run)
	} else {
		err = run()
	}

	if err != nil && domain.IsConsistencyViolation(err) {
		u.Logger.Error().Err(err).Str("operation", op).Msg("consistency violation, unit of work rolled back")
		u.Metrics.RecordConsistencyViolation(op)
	}

	return err
}

// readSnapshot runs fn in a read-only transaction so every read sees the same state.
func (u *unitOfWork) readSnapshot(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := u.TxManager.BeginReadOnly(txCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(txCtx)

	if err := fn(txCtx, tx); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// emit records an outbox event inside tx.
func (u *unitOfWork) emit(ctx context.Context, tx Transaction, aggregateType, aggregateID, eventType string, payload map[string]any) error {
	if u.Repos.Outbox == nil {
		return nil
	}
	event := domain.NewOutboxEvent(u.IDGen.Generate(), aggregateType, aggregateID, eventType, payload, now())
	return u.Repos.Outbox.Create(ctx, tx, event)
}

// invalidate drops cached metrics for a fund after a committed write.
func (u *unitOfWork) invalidate(ctx context.Context, fundID string) {
	if u.Cache == nil {
		return
	}
	if err := u.Cache.Invalidate(ctx, fundID); err != nil {
		u.Logger.Warn().Err(err).Str("fund_id", fundID).Msg("failed to invalidate metrics cache")
	}
}

func now() time.Time {
	return time.Now().UTC()
}

type nopMetrics struct{}

func (nopMetrics) RecordCapitalCall(string)                   {}
func (nopMetrics) RecordFunding(float64)                      {}
func (nopMetrics) RecordDistribution(string, float64)         {}
func (nopMetrics) RecordMetricsRecompute(time.Duration, bool) {}
func (nopMetrics) RecordConsistencyViolation(string)          {}
func (nopMetrics) RecordTxRetry(string)                       {}
