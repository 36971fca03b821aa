package postgres

import (
	"context"
	"encoding/json"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/usecase"
)

const distributionColumns = `id, fund_id, distribution_number, record_date, distribution_date, method,
	return_of_capital, capital_gain, dividend, interest, withholding_tax, recallable,
	total_distribution_amount, gp_amount, waterfall, status, paid_at, version, created_at, updated_at`

const allocationColumns = `distribution_id, commitment_id, investor_id, ownership_percent, gross_amount,
	tax_withheld, net_amount, status, paid_at`

// DistributionRepository implements usecase.DistributionRepository. The
// waterfall calculation behind a distribution is stored as JSONB.
type DistributionRepository struct {
	db Querier
}

// NewDistributionRepository creates a new DistributionRepository.
func NewDistributionRepository(db Querier) *DistributionRepository {
	return &DistributionRepository{db: db}
}

// Create inserts a distribution and its LP allocations.
func (r *DistributionRepository) Create(ctx context.Context, tx usecase.Transaction, d *domain.Distribution) error {
	q := pgxTx(tx)

	waterfall, err := marshalWaterfall(d.Waterfall)
	if err != nil {
		return err
	}

	b := d.Breakdown
	_, err = q.Exec(ctx, `INSERT INTO distributions (`+distributionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		d.ID, d.FundID, d.DistributionNumber, d.RecordDate, d.DistributionDate, d.Method,
		b.ReturnOfCapital, b.CapitalGain, b.Dividend, b.Interest, b.WithholdingTax, b.Recallable,
		d.TotalDistributionAmount, d.GPAmount, waterfall, d.Status, d.PaidAt, d.Version, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for i, a := range d.LPAllocations {
		_, err := q.Exec(ctx, `INSERT INTO distribution_allocations (position, `+allocationColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			i, d.ID, a.CommitmentID, a.InvestorID, a.OwnershipPercent, a.GrossAmount, a.TaxWithheld,
			a.NetAmount, a.Status, a.PaidAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a distribution with its allocations.
func (r *DistributionRepository) GetByID(ctx context.Context, id string) (*domain.Distribution, error) {
	return r.get(ctx, r.db, `SELECT `+distributionColumns+` FROM distributions WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a distribution with a FOR UPDATE lock.
func (r *DistributionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Distribution, error) {
	return r.get(ctx, pgxTx(tx), `SELECT `+distributionColumns+` FROM distributions WHERE id = $1 FOR UPDATE`, id)
}

// ListByFund lists a fund's distributions by number.
func (r *DistributionRepository) ListByFund(ctx context.Context, fundID string) ([]*domain.Distribution, error) {
	return r.list(ctx, r.db, fundID)
}

// ListByFundTx lists a fund's distributions inside a transaction.
func (r *DistributionRepository) ListByFundTx(ctx context.Context, tx usecase.Transaction, fundID string) ([]*domain.Distribution, error) {
	return r.list(ctx, pgxTx(tx), fundID)
}

// NextDistributionNumber returns the next sequential distribution number for a fund.
func (r *DistributionRepository) NextDistributionNumber(ctx context.Context, tx usecase.Transaction, fundID string) (int, error) {
	var next int
	err := pgxTx(tx).QueryRow(ctx,
		`SELECT COALESCE(MAX(distribution_number), 0) + 1 FROM distributions WHERE fund_id = $1`, fundID,
	).Scan(&next)
	return next, err
}

// Update writes the status and payment state of a distribution and its allocations.
func (r *DistributionRepository) Update(ctx context.Context, tx usecase.Transaction, d *domain.Distribution) error {
	q := pgxTx(tx)

	err := execOne(ctx, q, domain.ErrDistributionNotFound, `UPDATE distributions SET
		status = $2, paid_at = $3, version = $4, updated_at = $5
		WHERE id = $1`,
		d.ID, d.Status, d.PaidAt, d.Version, d.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for _, a := range d.LPAllocations {
		err := execOne(ctx, q, domain.ErrDistributionNotFound, `UPDATE distribution_allocations SET
			status = $3, paid_at = $4
			WHERE distribution_id = $1 AND commitment_id = $2`,
			d.ID, a.CommitmentID, a.Status, a.PaidAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *DistributionRepository) get(ctx context.Context, q Querier, sql, id string) (*domain.Distribution, error) {
	d, err := scanDistribution(q.QueryRow(ctx, sql, id))
	if err != nil {
		return nil, notFound(err, domain.ErrDistributionNotFound)
	}
	if err := r.attachAllocations(ctx, q, []*domain.Distribution{d}); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DistributionRepository) list(ctx context.Context, q Querier, fundID string) ([]*domain.Distribution, error) {
	rows, err := q.Query(ctx, `SELECT `+distributionColumns+` FROM distributions
		WHERE fund_id = $1 ORDER BY distribution_number`, fundID)
	if err != nil {
		return nil, err
	}
	dists, err := collect(rows, scanDistribution)
	if err != nil {
		return nil, err
	}
	if err := r.attachAllocations(ctx, q, dists); err != nil {
		return nil, err
	}
	return dists, nil
}

func (r *DistributionRepository) attachAllocations(ctx context.Context, q Querier, dists []*domain.Distribution) error {
	if len(dists) == 0 {
		return nil
	}

	ids := make([]string, len(dists))
	byID := make(map[string]*domain.Distribution, len(dists))
	for i, d := range dists {
		ids[i] = d.ID
		byID[d.ID] = d
	}

	rows, err := q.Query(ctx, `SELECT `+allocationColumns+` FROM distribution_allocations
		WHERE distribution_id = ANY($1) ORDER BY distribution_id, position`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			distID string
			a      domain.LPAllocation
		)
		if err := rows.Scan(&distID, &a.CommitmentID, &a.InvestorID, &a.OwnershipPercent, &a.GrossAmount,
			&a.TaxWithheld, &a.NetAmount, &a.Status, &a.PaidAt); err != nil {
			return err
		}
		if d, ok := byID[distID]; ok {
			d.LPAllocations = append(d.LPAllocations, a)
		}
	}

	return rows.Err()
}

func scanDistribution(row rowScanner) (*domain.Distribution, error) {
	var (
		d         domain.Distribution
		waterfall []byte
	)
	b := &d.Breakdown
	err := row.Scan(
		&d.ID, &d.FundID, &d.DistributionNumber, &d.RecordDate, &d.DistributionDate, &d.Method,
		&b.ReturnOfCapital, &b.CapitalGain, &b.Dividend, &b.Interest, &b.WithholdingTax, &b.Recallable,
		&d.TotalDistributionAmount, &d.GPAmount, &waterfall, &d.Status, &d.PaidAt, &d.Version,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(waterfall) > 0 {
		d.Waterfall = &domain.WaterfallCalculation{}
		if err := json.Unmarshal(waterfall, d.Waterfall); err != nil {
			return nil, err
		}
	}

	return &d, nil
}

func marshalWaterfall(w *domain.WaterfallCalculation) ([]byte, error) {
	if w == nil {
		return nil, nil
	}
	return json.Marshal(w)
}
