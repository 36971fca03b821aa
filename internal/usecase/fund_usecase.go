package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/engine"
)

// FundUseCase handles fund formation, terms and LP commitments.
type FundUseCase struct {
	unitOfWork
}

// NewFundUseCase creates a new FundUseCase.
func NewFundUseCase(d Deps) *FundUseCase {
	d.Logger = d.Logger.With().Str("usecase", "fund").Logger()
	return &FundUseCase{unitOfWork: newUnitOfWork(d)}
}

// CreateFundInput represents input for creating a fund.
type CreateFundInput struct {
	Name          string
	Currency      string
	TargetSize    decimal.Decimal
	HardCap       decimal.Decimal
	MinCommitment decimal.Decimal
	MaxCommitment decimal.Decimal
	GPCommitment  decimal.Decimal
	Terms         domain.FundTerms
}

// CreateFund validates and stores a new fund.
func (uc *FundUseCase) CreateFund(ctx context.Context, input CreateFundInput) (*domain.Fund, error) {
	ts := now()
	fund := &domain.Fund{
		ID:            uc.IDGen.Generate(),
		Name:          strings.TrimSpace(input.Name),
		Currency:      strings.ToUpper(strings.TrimSpace(input.Currency)),
		Status:        domain.FundStatusFundraising,
		TargetSize:    input.TargetSize,
		HardCap:       input.HardCap,
		MinCommitment: input.MinCommitment,
		MaxCommitment: input.MaxCommitment,
		GPCommitment:  input.GPCommitment,
		Terms:         input.Terms.WithDefaults(),
		Version:       1,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}

	if err := fund.Validate(); err != nil {
		return nil, err
	}

	err := uc.atomically(ctx, "create_fund", func(ctx context.Context, tx Transaction) error {
		if err := uc.Repos.Funds.Create(ctx, tx, fund); err != nil {
			return err
		}
		return uc.emit(ctx, tx, domain.AggregateTypeFund, fund.ID, domain.EventTypeFundCreated, map[string]any{
			"name":        fund.Name,
			"currency":    fund.Currency,
			"target_size": fund.TargetSize.String(),
			"hard_cap":    fund.HardCap.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	uc.Logger.Info().Str("fund_id", fund.ID).Str("name", fund.Name).Msg("fund created")
	return fund, nil
}

// GetFund retrieves a fund by ID.
func (uc *FundUseCase) GetFund(ctx context.Context, id string) (*domain.Fund, error) {
	return uc.Repos.Funds.GetByID(ctx, id)
}

// ListFunds lists funds with pagination.
func (uc *FundUseCase) ListFunds(ctx context.Context, limit, offset int) ([]*domain.Fund, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.Repos.Funds.List(ctx, limit, offset)
}

// UpdateFundTerms replaces a fund's economic terms. It is the only path that
// changes terms.
func (uc *FundUseCase) UpdateFundTerms(ctx context.Context, fundID string, terms domain.FundTerms) (*domain.Fund, error) {
	terms = terms.WithDefaults()
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Fund
	err := uc.atomically(ctx, "update_fund_terms", func(ctx context.Context, tx Transaction) error {
		fund, err := uc.Repos.Funds.GetByIDForUpdate(ctx, tx, fundID)
		if err != nil {
			return err
		}

		fund.Terms = terms
		fund.Version++
		fund.UpdatedAt = now()

		if err := uc.Repos.Funds.Update(ctx, tx, fund); err != nil {
			return err
		}

		updated = fund
		return uc.emit(ctx, tx, domain.AggregateTypeFund, fund.ID, domain.EventTypeFundTermsUpdated, map[string]any{
			"carried_interest_rate": terms.CarriedInterestRate.String(),
			"preferred_return_rate": terms.PreferredReturnRate.String(),
			"gp_catchup_rate":       terms.GPCatchupRate.String(),
			"catchup_basis":         string(terms.CatchupBasis),
		})
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// AddCommitmentInput represents input for adding an LP commitment.
type AddCommitmentInput struct {
	FundID       string
	InvestorID   string
	InvestorName string
	Amount       decimal.Decimal
	Currency     string
	ExchangeRate decimal.Decimal
}

// AddCommitment admits an LP to the fund. The new commitment is inserted and
// every commitment's ownership percentage is rebalanced in the same unit of
// work, so ownership across the fund always sums to 100.
func (uc *FundUseCase) AddCommitment(ctx context.Context, input AddCommitmentInput) (*domain.LPCommitment, error) {
	if err := domain.ValidateName(input.InvestorName); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if input.ExchangeRate.IsNegative() {
		return nil, domain.ErrNegativeValue
	}

	var created *domain.LPCommitment
	err := uc.atomically(ctx, "add_commitment", func(ctx context.Context, tx Transaction) error {
		fund, err := uc.Repos.Funds.GetByIDForUpdate(ctx, tx, input.FundID)
		if err != nil {
			return err
		}

		existing, err := uc.Repos.Commitments.ListByFundForUpdate(ctx, tx, fund.ID)
		if err != nil {
			return err
		}

		if err := fund.AcceptsCommitment(input.Amount, domain.TotalCommitted(existing)); err != nil {
			return err
		}

		ts := now()
		c := &domain.LPCommitment{
			ID:                    uc.IDGen.Generate(),
			FundID:                fund.ID,
			InvestorID:            input.InvestorID,
			InvestorName:          strings.TrimSpace(input.InvestorName),
			Currency:              fund.Currency,
			ExchangeRate:          decimal.NewFromInt(1),
			CommitmentAmount:      input.Amount,
			CapitalCalled:         decimal.Zero,
			UnfundedCommitment:    input.Amount,
			CapitalCalledPercent:  decimal.Zero,
			DistributionsReceived: decimal.Zero,
			Status:                domain.CommitmentStatusActive,
			Version:               1,
			CreatedAt:             ts,
			UpdatedAt:             ts,
		}
		if input.Currency != "" {
			c.Currency = strings.ToUpper(input.Currency)
		}
		if input.ExchangeRate.IsPositive() {
			c.ExchangeRate = input.ExchangeRate
		}
		if c.InvestorID == "" {
			c.InvestorID = uc.IDGen.Generate()
		}

		all := append(existing, c)
		amounts := make([]decimal.Decimal, len(all))
		for i, lp := range all {
			amounts[i] = lp.CommitmentAmount
		}
		ownership := engine.OwnershipPercents(amounts)
		c.OwnershipPercent = ownership[len(all)-1]

		if err := uc.Repos.Commitments.Create(ctx, tx, c); err != nil {
			return err
		}

		for i, lp := range existing {
			if lp.OwnershipPercent.Equal(ownership[i]) {
				continue
			}
			lp.OwnershipPercent = ownership[i]
			lp.Version++
			lp.UpdatedAt = ts
			if err := uc.Repos.Commitments.Update(ctx, tx, lp); err != nil {
				return err
			}
		}

		created = c
		return uc.emit(ctx, tx, domain.AggregateTypeCommitment, c.ID, domain.EventTypeCommitmentAdded, map[string]any{
			"fund_id":     fund.ID,
			"investor_id": c.InvestorID,
			"amount":      c.CommitmentAmount.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, input.FundID)
	return created, nil
}

// GetCommitment retrieves a commitment by ID.
func (uc *FundUseCase) GetCommitment(ctx context.Context, id string) (*domain.LPCommitment, error) {
	return uc.Repos.Commitments.GetByID(ctx, id)
}

// ListCommitments lists a fund's commitments.
func (uc *FundUseCase) ListCommitments(ctx context.Context, fundID string) ([]*domain.LPCommitment, error) {
	if _, err := uc.Repos.Funds.GetByID(ctx, fundID); err != nil {
		return nil, err
	}
	return uc.Repos.Commitments.ListByFund(ctx, fundID)
}
