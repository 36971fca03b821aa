package postgres

import (
	"context"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/usecase"
)

const investmentColumns = `id, fund_id, company_name, sector, geography, status, investment_date, exit_date,
	total_invested, current_valuation, realized_value, unrealized_value, moic, version, created_at, updated_at`

// InvestmentRepository implements usecase.InvestmentRepository.
type InvestmentRepository struct {
	db Querier
}

// NewInvestmentRepository creates a new InvestmentRepository.
func NewInvestmentRepository(db Querier) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

// Create inserts a portfolio investment.
func (r *InvestmentRepository) Create(ctx context.Context, tx usecase.Transaction, p *domain.PortfolioInvestment) error {
	_, err := pgxTx(tx).Exec(ctx, `INSERT INTO portfolio_investments (`+investmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.FundID, p.CompanyName, p.Sector, p.Geography, p.Status, p.InvestmentDate, p.ExitDate,
		p.TotalInvested, p.CurrentValuation, p.RealizedValue, p.UnrealizedValue, p.MOIC, p.Version,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves an investment by ID.
func (r *InvestmentRepository) GetByID(ctx context.Context, id string) (*domain.PortfolioInvestment, error) {
	p, err := scanInvestment(r.db.QueryRow(ctx, `SELECT `+investmentColumns+` FROM portfolio_investments WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrInvestmentNotFound)
	}
	return p, nil
}

// GetByIDForUpdate retrieves an investment with a FOR UPDATE lock.
func (r *InvestmentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.PortfolioInvestment, error) {
	p, err := scanInvestment(pgxTx(tx).QueryRow(ctx,
		`SELECT `+investmentColumns+` FROM portfolio_investments WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrInvestmentNotFound)
	}
	return p, nil
}

// ListByFund lists a fund's investments in creation order.
func (r *InvestmentRepository) ListByFund(ctx context.Context, fundID string) ([]*domain.PortfolioInvestment, error) {
	return r.list(ctx, r.db, fundID)
}

// ListByFundTx lists a fund's investments inside a transaction.
func (r *InvestmentRepository) ListByFundTx(ctx context.Context, tx usecase.Transaction, fundID string) ([]*domain.PortfolioInvestment, error) {
	return r.list(ctx, pgxTx(tx), fundID)
}

// Update writes valuation and status.
func (r *InvestmentRepository) Update(ctx context.Context, tx usecase.Transaction, p *domain.PortfolioInvestment) error {
	return execOne(ctx, pgxTx(tx), domain.ErrInvestmentNotFound, `UPDATE portfolio_investments SET
		status = $2, exit_date = $3, total_invested = $4, current_valuation = $5, realized_value = $6,
		unrealized_value = $7, moic = $8, version = $9, updated_at = $10
		WHERE id = $1`,
		p.ID, p.Status, p.ExitDate, p.TotalInvested, p.CurrentValuation, p.RealizedValue, p.UnrealizedValue,
		p.MOIC, p.Version, p.UpdatedAt,
	)
}

func (r *InvestmentRepository) list(ctx context.Context, q Querier, fundID string) ([]*domain.PortfolioInvestment, error) {
	rows, err := q.Query(ctx, `SELECT `+investmentColumns+` FROM portfolio_investments
		WHERE fund_id = $1 ORDER BY created_at, id`, fundID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanInvestment)
}

func scanInvestment(row rowScanner) (*domain.PortfolioInvestment, error) {
	var p domain.PortfolioInvestment
	err := row.Scan(
		&p.ID, &p.FundID, &p.CompanyName, &p.Sector, &p.Geography, &p.Status, &p.InvestmentDate, &p.ExitDate,
		&p.TotalInvested, &p.CurrentValuation, &p.RealizedValue, &p.UnrealizedValue, &p.MOIC, &p.Version,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
