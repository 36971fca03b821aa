package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/usecase"
)

// FundTermsRequest carries the economic terms of a fund. Rates are percentages.
type FundTermsRequest struct {
	ManagementFeeRate   decimal.Decimal `json:"management_fee_rate"`
	CarriedInterestRate decimal.Decimal `json:"carried_interest_rate"`
	PreferredReturnRate decimal.Decimal `json:"preferred_return_rate"`
	GPCatchupRate       decimal.Decimal `json:"gp_catchup_rate"`
	WaterfallType       string          `json:"waterfall_type,omitempty"`
	CatchupBasis        string          `json:"catchup_basis,omitempty"`
}

// ToDomain converts to domain terms with defaults applied.
func (r FundTermsRequest) ToDomain() domain.FundTerms {
	return domain.FundTerms{
		ManagementFeeRate:   r.ManagementFeeRate,
		CarriedInterestRate: r.CarriedInterestRate,
		PreferredReturnRate: r.PreferredReturnRate,
		GPCatchupRate:       r.GPCatchupRate,
		WaterfallType:       domain.WaterfallType(r.WaterfallType),
		CatchupBasis:        domain.CatchupBasis(r.CatchupBasis),
	}.WithDefaults()
}

// CreateFundRequest represents a request to create a fund.
type CreateFundRequest struct {
	Name          string           `json:"name"`
	Currency      string           `json:"currency"`
	TargetSize    decimal.Decimal  `json:"target_size"`
	HardCap       decimal.Decimal  `json:"hard_cap"`
	MinCommitment decimal.Decimal  `json:"min_commitment"`
	MaxCommitment decimal.Decimal  `json:"max_commitment"`
	GPCommitment  decimal.Decimal  `json:"gp_commitment"`
	Terms         FundTermsRequest `json:"terms"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateFundRequest) ToUseCaseInput() usecase.CreateFundInput {
	return usecase.CreateFundInput{
		Name:          r.Name,
		Currency:      r.Currency,
		TargetSize:    r.TargetSize,
		HardCap:       r.HardCap,
		MinCommitment: r.MinCommitment,
		MaxCommitment: r.MaxCommitment,
		GPCommitment:  r.GPCommitment,
		Terms:         r.Terms.ToDomain(),
	}
}

// AddCommitmentRequest represents a request to admit an LP.
type AddCommitmentRequest struct {
	InvestorID   string          `json:"investor_id,omitempty"`
	InvestorName string          `json:"investor_name"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency,omitempty"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

// ToUseCaseInput converts to use case input.
func (r *AddCommitmentRequest) ToUseCaseInput(fundID string) usecase.AddCommitmentInput {
	return usecase.AddCommitmentInput{
		FundID:       fundID,
		InvestorID:   r.InvestorID,
		InvestorName: r.InvestorName,
		Amount:       r.Amount,
		Currency:     r.Currency,
		ExchangeRate: r.ExchangeRate,
	}
}

// AddInvestmentRequest represents a request to record a portfolio investment.
type AddInvestmentRequest struct {
	CompanyName    string          `json:"company_name"`
	Sector         string          `json:"sector"`
	Geography      string          `json:"geography"`
	InvestmentDate *time.Time      `json:"investment_date,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddInvestmentRequest) ToUseCaseInput(fundID string) usecase.AddInvestmentInput {
	in := usecase.AddInvestmentInput{
		FundID:      fundID,
		CompanyName: r.CompanyName,
		Sector:      r.Sector,
		Geography:   r.Geography,
		Amount:      r.Amount,
		Status:      domain.InvestmentStatus(r.Status),
	}
	if r.InvestmentDate != nil {
		in.InvestmentDate = *r.InvestmentDate
	}
	return in
}

// UpdateValuationRequest represents a revaluation of an investment.
type UpdateValuationRequest struct {
	Realized   decimal.Decimal `json:"realized_value"`
	Unrealized decimal.Decimal `json:"unrealized_value"`
	Status     string          `json:"status,omitempty"`
	ExitDate   *time.Time      `json:"exit_date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateValuationRequest) ToUseCaseInput(investmentID string) usecase.UpdateValuationInput {
	return usecase.UpdateValuationInput{
		InvestmentID: investmentID,
		Realized:     r.Realized,
		Unrealized:   r.Unrealized,
		Status:       domain.InvestmentStatus(r.Status),
		ExitDate:     r.ExitDate,
	}
}

// CreateCapitalCallRequest represents a request to draft a capital call.
type CreateCapitalCallRequest struct {
	Purpose                string          `json:"purpose"`
	CallDate               *time.Time      `json:"call_date,omitempty"`
	DueDate                *time.Time      `json:"due_date,omitempty"`
	Investment             decimal.Decimal `json:"investment"`
	ManagementFee          decimal.Decimal `json:"management_fee"`
	PartnershipExpenses    decimal.Decimal `json:"partnership_expenses"`
	OrganizationalExpenses decimal.Decimal `json:"organizational_expenses"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCapitalCallRequest) ToUseCaseInput(fundID string) usecase.CreateCapitalCallInput {
	in := usecase.CreateCapitalCallInput{
		FundID:  fundID,
		Purpose: r.Purpose,
		Components: domain.CallComponents{
			Investment:             r.Investment,
			ManagementFee:          r.ManagementFee,
			PartnershipExpenses:    r.PartnershipExpenses,
			OrganizationalExpenses: r.OrganizationalExpenses,
		},
	}
	if r.CallDate != nil {
		in.CallDate = *r.CallDate
	}
	if r.DueDate != nil {
		in.DueDate = *r.DueDate
	}
	return in
}

// RecordFundingRequest represents an LP payment against a capital call.
type RecordFundingRequest struct {
	CommitmentID string          `json:"commitment_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordFundingRequest) ToUseCaseInput(callID string) usecase.RecordFundingInput {
	return usecase.RecordFundingInput{
		CallID:       callID,
		CommitmentID: r.CommitmentID,
		Amount:       r.Amount,
	}
}

// CreateDistributionRequest represents a request to draft a distribution.
type CreateDistributionRequest struct {
	RecordDate       *time.Time      `json:"record_date,omitempty"`
	DistributionDate *time.Time      `json:"distribution_date,omitempty"`
	Method           string          `json:"method,omitempty"`
	ReturnOfCapital  decimal.Decimal `json:"return_of_capital"`
	CapitalGain      decimal.Decimal `json:"capital_gain"`
	Dividend         decimal.Decimal `json:"dividend"`
	Interest         decimal.Decimal `json:"interest"`
	WithholdingTax   decimal.Decimal `json:"withholding_tax"`
	Recallable       decimal.Decimal `json:"recallable"`
	WithholdingRate  decimal.Decimal `json:"withholding_rate"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDistributionRequest) ToUseCaseInput(fundID string) usecase.CreateDistributionInput {
	in := usecase.CreateDistributionInput{
		FundID: fundID,
		Method: domain.DistributionMethod(r.Method),
		Breakdown: domain.DistributionBreakdown{
			ReturnOfCapital: r.ReturnOfCapital,
			CapitalGain:     r.CapitalGain,
			Dividend:        r.Dividend,
			Interest:        r.Interest,
			WithholdingTax:  r.WithholdingTax,
			Recallable:      r.Recallable,
		},
		WithholdingRate: r.WithholdingRate,
	}
	if r.RecordDate != nil {
		in.RecordDate = *r.RecordDate
	}
	if r.DistributionDate != nil {
		in.DistributionDate = *r.DistributionDate
	}
	return in
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
