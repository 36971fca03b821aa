package postgres

import (
	"context"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/usecase"
)

const metricsColumns = `fund_id, total_commitments, unfunded_commitments, capital_called, distributions_paid,
	total_invested, realized_value, unrealized_value, total_value, dpi, rvpi, tvpi, moic, irr, lp_count,
	active_investment_count, realized_investment_count, calculated_at`

// MetricsRepository implements usecase.MetricsRepository. Rows are append-only.
type MetricsRepository struct {
	db Querier
}

// NewMetricsRepository creates a new MetricsRepository.
func NewMetricsRepository(db Querier) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// Save inserts a metrics snapshot.
func (r *MetricsRepository) Save(ctx context.Context, tx usecase.Transaction, m *domain.FundMetrics) error {
	_, err := pgxTx(tx).Exec(ctx, `INSERT INTO fund_metrics (`+metricsColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		m.FundID, m.TotalCommitments, m.UnfundedCommitments, m.CapitalCalled, m.DistributionsPaid,
		m.TotalInvested, m.RealizedValue, m.UnrealizedValue, m.TotalValue, m.DPI, m.RVPI, m.TVPI, m.MOIC,
		m.IRR, m.LPCount, m.ActiveInvestmentCount, m.RealizedInvestmentCount, m.CalculatedAt,
	)
	return err
}

// GetLatest returns the most recent snapshot for a fund.
func (r *MetricsRepository) GetLatest(ctx context.Context, fundID string) (*domain.FundMetrics, error) {
	var m domain.FundMetrics
	err := r.db.QueryRow(ctx, `SELECT `+metricsColumns+` FROM fund_metrics
		WHERE fund_id = $1 ORDER BY calculated_at DESC, id DESC LIMIT 1`, fundID,
	).Scan(
		&m.FundID, &m.TotalCommitments, &m.UnfundedCommitments, &m.CapitalCalled, &m.DistributionsPaid,
		&m.TotalInvested, &m.RealizedValue, &m.UnrealizedValue, &m.TotalValue, &m.DPI, &m.RVPI, &m.TVPI,
		&m.MOIC, &m.IRR, &m.LPCount, &m.ActiveInvestmentCount, &m.RealizedInvestmentCount, &m.CalculatedAt,
	)
	if err != nil {
		return nil, notFound(err, domain.ErrFundNotFound)
	}
	return &m, nil
}
