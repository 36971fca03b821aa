package postgres

import (
	"context"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/usecase"
)

const fundColumns = `id, name, currency, status, target_size, hard_cap, min_commitment, max_commitment,
	gp_commitment, management_fee_rate, carried_interest_rate, preferred_return_rate, gp_catchup_rate,
	waterfall_type, catchup_basis, version, created_at, updated_at`

// FundRepository implements usecase.FundRepository.
type FundRepository struct {
	db Querier
}

// NewFundRepository creates a new FundRepository.
func NewFundRepository(db Querier) *FundRepository {
	return &FundRepository{db: db}
}

// Create inserts a fund.
func (r *FundRepository) Create(ctx context.Context, tx usecase.Transaction, f *domain.Fund) error {
	_, err := pgxTx(tx).Exec(ctx, `INSERT INTO funds (`+fundColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		f.ID, f.Name, f.Currency, f.Status, f.TargetSize, f.HardCap, f.MinCommitment, f.MaxCommitment,
		f.GPCommitment, f.Terms.ManagementFeeRate, f.Terms.CarriedInterestRate, f.Terms.PreferredReturnRate,
		f.Terms.GPCatchupRate, f.Terms.WaterfallType, f.Terms.CatchupBasis, f.Version, f.CreatedAt, f.UpdatedAt,
	)
	return err
}

// GetByID retrieves a fund by ID.
func (r *FundRepository) GetByID(ctx context.Context, id string) (*domain.Fund, error) {
	return r.get(ctx, r.db, `SELECT `+fundColumns+` FROM funds WHERE id = $1`, id)
}

// GetByIDTx retrieves a fund inside a transaction without locking it.
func (r *FundRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Fund, error) {
	return r.get(ctx, pgxTx(tx), `SELECT `+fundColumns+` FROM funds WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a fund by ID with a FOR UPDATE lock.
func (r *FundRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Fund, error) {
	return r.get(ctx, pgxTx(tx), `SELECT `+fundColumns+` FROM funds WHERE id = $1 FOR UPDATE`, id)
}

// Update writes the mutable fund fields.
func (r *FundRepository) Update(ctx context.Context, tx usecase.Transaction, f *domain.Fund) error {
	return execOne(ctx, pgxTx(tx), domain.ErrFundNotFound, `UPDATE funds SET
		name = $2, status = $3, target_size = $4, hard_cap = $5, min_commitment = $6, max_commitment = $7,
		gp_commitment = $8, management_fee_rate = $9, carried_interest_rate = $10, preferred_return_rate = $11,
		gp_catchup_rate = $12, waterfall_type = $13, catchup_basis = $14, version = $15, updated_at = $16
		WHERE id = $1`,
		f.ID, f.Name, f.Status, f.TargetSize, f.HardCap, f.MinCommitment, f.MaxCommitment, f.GPCommitment,
		f.Terms.ManagementFeeRate, f.Terms.CarriedInterestRate, f.Terms.PreferredReturnRate, f.Terms.GPCatchupRate,
		f.Terms.WaterfallType, f.Terms.CatchupBasis, f.Version, f.UpdatedAt,
	)
}

// List lists funds with pagination.
func (r *FundRepository) List(ctx context.Context, limit, offset int) ([]*domain.Fund, error) {
	rows, err := r.db.Query(ctx, `SELECT `+fundColumns+` FROM funds ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanFund)
}

func (r *FundRepository) get(ctx context.Context, q Querier, sql, id string) (*domain.Fund, error) {
	f, err := scanFund(q.QueryRow(ctx, sql, id))
	if err != nil {
		return nil, notFound(err, domain.ErrFundNotFound)
	}
	return f, nil
}

func scanFund(row rowScanner) (*domain.Fund, error) {
	var f domain.Fund
	err := row.Scan(
		&f.ID, &f.Name, &f.Currency, &f.Status, &f.TargetSize, &f.HardCap, &f.MinCommitment, &f.MaxCommitment,
		&f.GPCommitment, &f.Terms.ManagementFeeRate, &f.Terms.CarriedInterestRate, &f.Terms.PreferredReturnRate,
		&f.Terms.GPCatchupRate, &f.Terms.WaterfallType, &f.Terms.CatchupBasis, &f.Version, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
