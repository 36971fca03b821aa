package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultMetricsCacheTTL is how long a computed FundMetrics stays cached
	DefaultMetricsCacheTTL = 5 * time.Minute

	// refreshPageSize is how many funds RefreshAllMetrics loads per page
	refreshPageSize = 100
)
