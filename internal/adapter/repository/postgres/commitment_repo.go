package postgres

import (
	"context"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/usecase"
)

const commitmentColumns = `id, fund_id, investor_id, investor_name, currency, exchange_rate, commitment_amount,
	capital_called, unfunded_commitment, capital_called_percent, distributions_received, ownership_percent,
	status, version, created_at, updated_at`

// CommitmentRepository implements usecase.CommitmentRepository.
type CommitmentRepository struct {
	db Querier
}

// NewCommitmentRepository creates a new CommitmentRepository.
func NewCommitmentRepository(db Querier) *CommitmentRepository {
	return &CommitmentRepository{db: db}
}

// Create inserts a commitment.
func (r *CommitmentRepository) Create(ctx context.Context, tx usecase.Transaction, c *domain.LPCommitment) error {
	_, err := pgxTx(tx).Exec(ctx, `INSERT INTO lp_commitments (`+commitmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		c.ID, c.FundID, c.InvestorID, c.InvestorName, c.Currency, c.ExchangeRate, c.CommitmentAmount,
		c.CapitalCalled, c.UnfundedCommitment, c.CapitalCalledPercent, c.DistributionsReceived,
		c.OwnershipPercent, c.Status, c.Version, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

// GetByID retrieves a commitment by ID.
func (r *CommitmentRepository) GetByID(ctx context.Context, id string) (*domain.LPCommitment, error) {
	c, err := scanCommitment(r.db.QueryRow(ctx, `SELECT `+commitmentColumns+` FROM lp_commitments WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrCommitmentNotFound)
	}
	return c, nil
}

// GetByIDForUpdate retrieves a commitment by ID with a FOR UPDATE lock.
func (r *CommitmentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LPCommitment, error) {
	c, err := scanCommitment(pgxTx(tx).QueryRow(ctx,
		`SELECT `+commitmentColumns+` FROM lp_commitments WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrCommitmentNotFound)
	}
	return c, nil
}

// ListByFund lists a fund's commitments in creation order.
func (r *CommitmentRepository) ListByFund(ctx context.Context, fundID string) ([]*domain.LPCommitment, error) {
	return r.list(ctx, r.db, "", fundID)
}

// ListByFundTx lists a fund's commitments inside a transaction.
func (r *CommitmentRepository) ListByFundTx(ctx context.Context, tx usecase.Transaction, fundID string) ([]*domain.LPCommitment, error) {
	return r.list(ctx, pgxTx(tx), "", fundID)
}

// ListByFundForUpdate lists and locks a fund's commitments.
func (r *CommitmentRepository) ListByFundForUpdate(ctx context.Context, tx usecase.Transaction, fundID string) ([]*domain.LPCommitment, error) {
	return r.list(ctx, pgxTx(tx), " FOR UPDATE", fundID)
}

// Update writes the balances, ownership and status of a commitment.
func (r *CommitmentRepository) Update(ctx context.Context, tx usecase.Transaction, c *domain.LPCommitment) error {
	return execOne(ctx, pgxTx(tx), domain.ErrCommitmentNotFound, `UPDATE lp_commitments SET
		investor_name = $2, exchange_rate = $3, commitment_amount = $4, capital_called = $5,
		unfunded_commitment = $6, capital_called_percent = $7, distributions_received = $8,
		ownership_percent = $9, status = $10, version = $11, updated_at = $12
		WHERE id = $1`,
		c.ID, c.InvestorName, c.ExchangeRate, c.CommitmentAmount, c.CapitalCalled, c.UnfundedCommitment,
		c.CapitalCalledPercent, c.DistributionsReceived, c.OwnershipPercent, c.Status, c.Version, c.UpdatedAt,
	)
}

func (r *CommitmentRepository) list(ctx context.Context, q Querier, lock, fundID string) ([]*domain.LPCommitment, error) {
	rows, err := q.Query(ctx, `SELECT `+commitmentColumns+` FROM lp_commitments
		WHERE fund_id = $1 ORDER BY created_at, id`+lock, fundID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCommitment)
}

func scanCommitment(row rowScanner) (*domain.LPCommitment, error) {
	var c domain.LPCommitment
	err := row.Scan(
		&c.ID, &c.FundID, &c.InvestorID, &c.InvestorName, &c.Currency, &c.ExchangeRate, &c.CommitmentAmount,
		&c.CapitalCalled, &c.UnfundedCommitment, &c.CapitalCalledPercent, &c.DistributionsReceived,
		&c.OwnershipPercent, &c.Status, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
