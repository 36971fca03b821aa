package usecase

import (
	"context"
	"time"

	"github.com/iho/fundengine/internal/domain"
)

// FundRepository defines data access for funds.
type FundRepository interface {
	Create(ctx context.Context, tx Transaction, fund *domain.Fund) error
	GetByID(ctx context.Context, id string) (*domain.Fund, error)
	GetByIDTx(ctx context.Context, tx Transaction, id string) (*domain.Fund, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Fund, error)
	Update(ctx context.Context, tx Transaction, fund *domain.Fund) error
	List(ctx context.Context, limit, offset int) ([]*domain.Fund, error)
}

// CommitmentRepository defines data access for LP commitments.
type CommitmentRepository interface {
	Create(ctx context.Context, tx Transaction, commitment *domain.LPCommitment) error
	GetByID(ctx context.Context, id string) (*domain.LPCommitment, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.LPCommitment, error)
	ListByFund(ctx context.Context, fundID string) ([]*domain.LPCommitment, error)
	ListByFundTx(ctx context.Context, tx Transaction, fundID string) ([]*domain.LPCommitment, error)
	ListByFundForUpdate(ctx context.Context, tx Transaction, fundID string) ([]*domain.LPCommitment, error)
	Update(ctx context.Context, tx Transaction, commitment *domain.LPCommitment) error
}

// CapitalCallRepository defines data access for capital calls and their LP responses.
type CapitalCallRepository interface {
	Create(ctx context.Context, tx Transaction, call *domain.CapitalCall) error
	GetByID(ctx context.Context, id string) (*domain.CapitalCall, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.CapitalCall, error)
	ListByFund(ctx context.Context, fundID string) ([]*domain.CapitalCall, error)
	ListByFundTx(ctx context.Context, tx Transaction, fundID string) ([]*domain.CapitalCall, error)
	ListPastDue(ctx context.Context, asOf time.Time) ([]*domain.CapitalCall, error)
	NextCallNumber(ctx context.Context, tx Transaction, fundID string) (int, error)
	Update(ctx context.Context, tx Transaction, call *domain.CapitalCall) error
}

// DistributionRepository defines data access for distributions and their LP allocations.
type DistributionRepository interface {
	Create(ctx context.Context, tx Transaction, dist *domain.Distribution) error
	GetByID(ctx context.Context, id string) (*domain.Distribution, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Distribution, error)
	ListByFund(ctx context.Context, fundID string) ([]*domain.Distribution, error)
	ListByFundTx(ctx context.Context, tx Transaction, fundID string) ([]*domain.Distribution, error)
	NextDistributionNumber(ctx context.Context, tx Transaction, fundID string) (int, error)
	Update(ctx context.Context, tx Transaction, dist *domain.Distribution) error
}

// InvestmentRepository defines data access for portfolio investments.
type InvestmentRepository interface {
	Create(ctx context.Context, tx Transaction, inv *domain.PortfolioInvestment) error
	GetByID(ctx context.Context, id string) (*domain.PortfolioInvestment, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.PortfolioInvestment, error)
	ListByFund(ctx context.Context, fundID string) ([]*domain.PortfolioInvestment, error)
	ListByFundTx(ctx context.Context, tx Transaction, fundID string) ([]*domain.PortfolioInvestment, error)
	Update(ctx context.Context, tx Transaction, inv *domain.PortfolioInvestment) error
}

// MetricsRepository stores computed metrics snapshots. Snapshots are only
// ever inserted, one per recomputation.
type MetricsRepository interface {
	Save(ctx context.Context, tx Transaction, metrics *domain.FundMetrics) error
	GetLatest(ctx context.Context, fundID string) (*domain.FundMetrics, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	// Begin starts a serializable read-write transaction.
	Begin(ctx context.Context) (Transaction, error)
	// BeginReadOnly starts a repeatable-read, read-only transaction that sees
	// one consistent snapshot.
	BeginReadOnly(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation that failed on a transient conflict.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// MetricsCache caches computed fund metrics. Get returns nil, nil on a miss.
type MetricsCache interface {
	Get(ctx context.Context, fundID string) (*domain.FundMetrics, error)
	Set(ctx context.Context, metrics *domain.FundMetrics, ttl time.Duration) error
	Invalidate(ctx context.Context, fundID string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so the request can be retried.
	Release(ctx context.Context, key string) error
}

// EngineMetrics records business counters.
type EngineMetrics interface {
	RecordCapitalCall(status string)
	RecordFunding(amount float64)
	RecordDistribution(status string, amount float64)
	RecordMetricsRecompute(duration time.Duration, cached bool)
	RecordConsistencyViolation(kind string)
	RecordTxRetry(operation string)
}
