package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
)

// PortfolioUseCase handles the fund's portfolio investments.
type PortfolioUseCase struct {
	unitOfWork
}

// NewPortfolioUseCase creates a new PortfolioUseCase.
func NewPortfolioUseCase(d Deps) *PortfolioUseCase {
	d.Logger = d.Logger.With().Str("usecase", "portfolio").Logger()
	return &PortfolioUseCase{unitOfWork: newUnitOfWork(d)}
}

// AddInvestmentInput represents input for recording a portfolio investment.
type AddInvestmentInput struct {
	FundID         string
	CompanyName    string
	Sector         string
	Geography      string
	InvestmentDate time.Time
	Amount         decimal.Decimal
	Status         domain.InvestmentStatus
}

// AddInvestment records a new position at cost.
func (uc *PortfolioUseCase) AddInvestment(ctx context.Context, input AddInvestmentInput) (*domain.PortfolioInvestment, error) {
	if err := domain.ValidateName(input.CompanyName); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	status := input.Status
	if status == "" {
		status = domain.InvestmentStatusActive
	}
	if !status.IsValid() {
		return nil, domain.ErrInvalidStateChange
	}

	ts := now()
	inv := &domain.PortfolioInvestment{
		ID:               uc.IDGen.Generate(),
		FundID:           input.FundID,
		CompanyName:      strings.TrimSpace(input.CompanyName),
		Sector:           strings.TrimSpace(input.Sector),
		Geography:        strings.TrimSpace(input.Geography),
		Status:           status,
		InvestmentDate:   input.InvestmentDate,
		TotalInvested:    input.Amount,
		CurrentValuation: input.Amount,
		RealizedValue:    decimal.Zero,
		UnrealizedValue:  input.Amount,
		Version:          1,
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}
	if inv.InvestmentDate.IsZero() {
		inv.InvestmentDate = ts
	}
	inv.RefreshMOIC()

	err := uc.atomically(ctx, "add_investment", func(ctx context.Context, tx Transaction) error {
		if _, err := uc.Repos.Funds.GetByIDTx(ctx, tx, input.FundID); err != nil {
			return err
		}
		return uc.Repos.Investments.Create(ctx, tx, inv)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, input.FundID)
	return inv, nil
}

// UpdateValuationInput represents a revaluation of one investment.
type UpdateValuationInput struct {
	InvestmentID string
	Realized     decimal.Decimal
	Unrealized   decimal.Decimal
	Status       domain.InvestmentStatus
	ExitDate     *time.Time
}

// UpdateValuation revalues an investment and refreshes its MOIC.
func (uc *PortfolioUseCase) UpdateValuation(ctx context.Context, input UpdateValuationInput) (*domain.PortfolioInvestment, error) {
	var updated *domain.PortfolioInvestment
	err := uc.atomically(ctx, "update_valuation", func(ctx context.Context, tx Transaction) error {
		inv, err := uc.Repos.Investments.GetByIDForUpdate(ctx, tx, input.InvestmentID)
		if err != nil {
			return err
		}

		status := input.Status
		if status == "" {
			status = inv.Status
		}
		if err := inv.Revalue(input.Realized, input.Unrealized, status, now()); err != nil {
			return err
		}
		if input.ExitDate != nil {
			inv.ExitDate = input.ExitDate
		}

		updated = inv
		return uc.Repos.Investments.Update(ctx, tx, inv)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, updated.FundID)
	return updated, nil
}

// GetInvestment retrieves an investment by ID.
func (uc *PortfolioUseCase) GetInvestment(ctx context.Context, id string) (*domain.PortfolioInvestment, error) {
	return uc.Repos.Investments.GetByID(ctx, id)
}

// ListInvestments lists a fund's investments.
func (uc *PortfolioUseCase) ListInvestments(ctx context.Context, fundID string) ([]*domain.PortfolioInvestment, error) {
	if _, err := uc.Repos.Funds.GetByID(ctx, fundID); err != nil {
		return nil, err
	}
	return uc.Repos.Investments.ListByFund(ctx, fundID)
}
