package postgres

import (
	"context"
	"time"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/usecase"
)

const callColumns = `id, fund_id, call_number, purpose, call_date, due_date, investment_amount, management_fee,
	partnership_expenses, organizational_expenses, total_call_amount, amount_received, amount_outstanding,
	percent_funded, status, version, created_at, updated_at`

const responseColumns = `call_id, commitment_id, investor_id, call_amount, funded_amount, status, funded_at`

// CapitalCallRepository implements usecase.CapitalCallRepository. LP responses
// live in their own table and are loaded with the call.
type CapitalCallRepository struct {
	db Querier
}

// NewCapitalCallRepository creates a new CapitalCallRepository.
func NewCapitalCallRepository(db Querier) *CapitalCallRepository {
	return &CapitalCallRepository{db: db}
}

// Create inserts a call and its LP responses.
func (r *CapitalCallRepository) Create(ctx context.Context, tx usecase.Transaction, c *domain.CapitalCall) error {
	q := pgxTx(tx)

	_, err := q.Exec(ctx, `INSERT INTO capital_calls (`+callColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		c.ID, c.FundID, c.CallNumber, c.Purpose, c.CallDate, c.DueDate, c.Components.Investment,
		c.Components.ManagementFee, c.Components.PartnershipExpenses, c.Components.OrganizationalExpenses,
		c.TotalCallAmount, c.AmountReceived, c.AmountOutstanding, c.PercentFunded, c.Status, c.Version,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for i, resp := range c.LPResponses {
		_, err := q.Exec(ctx, `INSERT INTO capital_call_responses (position, `+responseColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			i, c.ID, resp.CommitmentID, resp.InvestorID, resp.CallAmount, resp.FundedAmount, resp.Status, resp.FundedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a call with its responses.
func (r *CapitalCallRepository) GetByID(ctx context.Context, id string) (*domain.CapitalCall, error) {
	return r.get(ctx, r.db, `SELECT `+callColumns+` FROM capital_calls WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a call with a FOR UPDATE lock. The responses are
// covered by the call row lock since they are only written with it.
func (r *CapitalCallRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.CapitalCall, error) {
	return r.get(ctx, pgxTx(tx), `SELECT `+callColumns+` FROM capital_calls WHERE id = $1 FOR UPDATE`, id)
}

// ListByFund lists a fund's calls by call number.
func (r *CapitalCallRepository) ListByFund(ctx context.Context, fundID string) ([]*domain.CapitalCall, error) {
	return r.list(ctx, r.db, `SELECT `+callColumns+` FROM capital_calls WHERE fund_id = $1 ORDER BY call_number`, fundID)
}

// ListByFundTx lists a fund's calls inside a transaction.
func (r *CapitalCallRepository) ListByFundTx(ctx context.Context, tx usecase.Transaction, fundID string) ([]*domain.CapitalCall, error) {
	return r.list(ctx, pgxTx(tx), `SELECT `+callColumns+` FROM capital_calls WHERE fund_id = $1 ORDER BY call_number`, fundID)
}

// ListPastDue lists open calls whose due date is before asOf.
func (r *CapitalCallRepository) ListPastDue(ctx context.Context, asOf time.Time) ([]*domain.CapitalCall, error) {
	return r.list(ctx, r.db, `SELECT `+callColumns+` FROM capital_calls
		WHERE status IN ('issued', 'partially_funded') AND due_date < $1
		ORDER BY due_date, id`, asOf)
}

// NextCallNumber returns the next sequential call number for a fund.
func (r *CapitalCallRepository) NextCallNumber(ctx context.Context, tx usecase.Transaction, fundID string) (int, error) {
	var next int
	err := pgxTx(tx).QueryRow(ctx,
		`SELECT COALESCE(MAX(call_number), 0) + 1 FROM capital_calls WHERE fund_id = $1`, fundID,
	).Scan(&next)
	return next, err
}

// Update writes the call totals, status and every response.
func (r *CapitalCallRepository) Update(ctx context.Context, tx usecase.Transaction, c *domain.CapitalCall) error {
	q := pgxTx(tx)

	err := execOne(ctx, q, domain.ErrCapitalCallNotFound, `UPDATE capital_calls SET
		purpose = $2, due_date = $3, amount_received = $4, amount_outstanding = $5, percent_funded = $6,
		status = $7, version = $8, updated_at = $9
		WHERE id = $1`,
		c.ID, c.Purpose, c.DueDate, c.AmountReceived, c.AmountOutstanding, c.PercentFunded, c.Status,
		c.Version, c.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for _, resp := range c.LPResponses {
		err := execOne(ctx, q, domain.ErrNoCallResponse, `UPDATE capital_call_responses SET
			funded_amount = $3, status = $4, funded_at = $5
			WHERE call_id = $1 AND commitment_id = $2`,
			c.ID, resp.CommitmentID, resp.FundedAmount, resp.Status, resp.FundedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *CapitalCallRepository) get(ctx context.Context, q Querier, sql, id string) (*domain.CapitalCall, error) {
	call, err := scanCapitalCall(q.QueryRow(ctx, sql, id))
	if err != nil {
		return nil, notFound(err, domain.ErrCapitalCallNotFound)
	}
	if err := r.attachResponses(ctx, q, []*domain.CapitalCall{call}); err != nil {
		return nil, err
	}
	return call, nil
}

func (r *CapitalCallRepository) list(ctx context.Context, q Querier, sql string, arg any) ([]*domain.CapitalCall, error) {
	rows, err := q.Query(ctx, sql, arg)
	if err != nil {
		return nil, err
	}
	calls, err := collect(rows, scanCapitalCall)
	if err != nil {
		return nil, err
	}
	if err := r.attachResponses(ctx, q, calls); err != nil {
		return nil, err
	}
	return calls, nil
}

func (r *CapitalCallRepository) attachResponses(ctx context.Context, q Querier, calls []*domain.CapitalCall) error {
	if len(calls) == 0 {
		return nil
	}

	ids := make([]string, len(calls))
	byID := make(map[string]*domain.CapitalCall, len(calls))
	for i, c := range calls {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	rows, err := q.Query(ctx, `SELECT `+responseColumns+` FROM capital_call_responses
		WHERE call_id = ANY($1) ORDER BY call_id, position`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			callID string
			resp   domain.LPCallResponse
		)
		if err := rows.Scan(&callID, &resp.CommitmentID, &resp.InvestorID, &resp.CallAmount,
			&resp.FundedAmount, &resp.Status, &resp.FundedAt); err != nil {
			return err
		}
		if c, ok := byID[callID]; ok {
			c.LPResponses = append(c.LPResponses, resp)
		}
	}

	return rows.Err()
}

func scanCapitalCall(row rowScanner) (*domain.CapitalCall, error) {
	var c domain.CapitalCall
	err := row.Scan(
		&c.ID, &c.FundID, &c.CallNumber, &c.Purpose, &c.CallDate, &c.DueDate, &c.Components.Investment,
		&c.Components.ManagementFee, &c.Components.PartnershipExpenses, &c.Components.OrganizationalExpenses,
		&c.TotalCallAmount, &c.AmountReceived, &c.AmountOutstanding, &c.PercentFunded, &c.Status, &c.Version,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
