package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps a collection.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// NewList builds a ListResponse by converting every item.
func NewList[S any, T any](items []S, convert func(S) T) ListResponse[T] {
	data := make([]T, len(items))
	for i, item := range items {
		data[i] = convert(item)
	}
	return ListResponse[T]{Data: data, Count: len(data)}
}

// FundTermsResponse represents fund terms in API responses.
type FundTermsResponse struct {
	ManagementFeeRate   decimal.Decimal `json:"management_fee_rate"`
	CarriedInterestRate decimal.Decimal `json:"carried_interest_rate"`
	PreferredReturnRate decimal.Decimal `json:"preferred_return_rate"`
	GPCatchupRate       decimal.Decimal `json:"gp_catchup_rate"`
	WaterfallType       string          `json:"waterfall_type"`
	CatchupBasis        string          `json:"catchup_basis"`
}

// FundResponse represents a fund in API responses.
type FundResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Currency      string            `json:"currency"`
	Status        string            `json:"status"`
	TargetSize    decimal.Decimal   `json:"target_size"`
	HardCap       decimal.Decimal   `json:"hard_cap"`
	MinCommitment decimal.Decimal   `json:"min_commitment"`
	MaxCommitment decimal.Decimal   `json:"max_commitment"`
	GPCommitment  decimal.Decimal   `json:"gp_commitment"`
	Terms         FundTermsResponse `json:"terms"`
	Version       int64             `json:"version"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// FundFromDomain converts a domain fund to a response.
func FundFromDomain(f *domain.Fund) *FundResponse {
	return &FundResponse{
		ID:            f.ID,
		Name:          f.Name,
		Currency:      f.Currency,
		Status:        string(f.Status),
		TargetSize:    f.TargetSize,
		HardCap:       f.HardCap,
		MinCommitment: f.MinCommitment,
		MaxCommitment: f.MaxCommitment,
		GPCommitment:  f.GPCommitment,
		Terms: FundTermsResponse{
			ManagementFeeRate:   f.Terms.ManagementFeeRate,
			CarriedInterestRate: f.Terms.CarriedInterestRate,
			PreferredReturnRate: f.Terms.PreferredReturnRate,
			GPCatchupRate:       f.Terms.GPCatchupRate,
			WaterfallType:       string(f.Terms.WaterfallType),
			CatchupBasis:        string(f.Terms.CatchupBasis),
		},
		Version:   f.Version,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// CommitmentResponse represents an LP commitment in API responses.
type CommitmentResponse struct {
	ID                    string          `json:"id"`
	FundID                string          `json:"fund_id"`
	InvestorID            string          `json:"investor_id"`
	InvestorName          string          `json:"investor_name"`
	Currency              string          `json:"currency"`
	ExchangeRate          decimal.Decimal `json:"exchange_rate"`
	CommitmentAmount      decimal.Decimal `json:"commitment_amount"`
	CapitalCalled         decimal.Decimal `json:"capital_called"`
	UnfundedCommitment    decimal.Decimal `json:"unfunded_commitment"`
	CapitalCalledPercent  decimal.Decimal `json:"capital_called_percent"`
	DistributionsReceived decimal.Decimal `json:"distributions_received"`
	OwnershipPercent      decimal.Decimal `json:"ownership_percent"`
	Status                string          `json:"status"`
	Version               int64           `json:"version"`
}

// CommitmentFromDomain converts a domain commitment to a response.
func CommitmentFromDomain(c *domain.LPCommitment) *CommitmentResponse {
	return &CommitmentResponse{
		ID:                    c.ID,
		FundID:                c.FundID,
		InvestorID:            c.InvestorID,
		InvestorName:          c.InvestorName,
		Currency:              c.Currency,
		ExchangeRate:          c.ExchangeRate,
		CommitmentAmount:      c.CommitmentAmount,
		CapitalCalled:         c.CapitalCalled,
		UnfundedCommitment:    c.UnfundedCommitment,
		CapitalCalledPercent:  c.CapitalCalledPercent.Round(4),
		DistributionsReceived: c.DistributionsReceived,
		OwnershipPercent:      c.OwnershipPercent,
		Status:                string(c.Status),
		Version:               c.Version,
	}
}

// LPCallResponseResponse is one LP's share of a capital call.
type LPCallResponseResponse struct {
	CommitmentID string          `json:"commitment_id"`
	InvestorID   string          `json:"investor_id"`
	CallAmount   decimal.Decimal `json:"call_amount"`
	FundedAmount decimal.Decimal `json:"funded_amount"`
	Status       string          `json:"status"`
	FundedAt     *time.Time      `json:"funded_at,omitempty"`
}

// CapitalCallResponse represents a capital call in API responses.
type CapitalCallResponse struct {
	ID                     string                   `json:"id"`
	FundID                 string                   `json:"fund_id"`
	CallNumber             int                      `json:"call_number"`
	Purpose                string                   `json:"purpose"`
	CallDate               time.Time                `json:"call_date"`
	DueDate                time.Time                `json:"due_date"`
	Investment             decimal.Decimal          `json:"investment"`
	ManagementFee          decimal.Decimal          `json:"management_fee"`
	PartnershipExpenses    decimal.Decimal          `json:"partnership_expenses"`
	OrganizationalExpenses decimal.Decimal          `json:"organizational_expenses"`
	TotalCallAmount        decimal.Decimal          `json:"total_call_amount"`
	AmountReceived         decimal.Decimal          `json:"amount_received"`
	AmountOutstanding      decimal.Decimal          `json:"amount_outstanding"`
	PercentFunded          decimal.Decimal          `json:"percent_funded"`
	Status                 string                   `json:"status"`
	LPResponses            []LPCallResponseResponse `json:"lp_responses"`
	Version                int64                    `json:"version"`
}

// CapitalCallFromDomain converts a domain capital call to a response.
func CapitalCallFromDomain(c *domain.CapitalCall) *CapitalCallResponse {
	responses := make([]LPCallResponseResponse, len(c.LPResponses))
	for i, r := range c.LPResponses {
		responses[i] = LPCallResponseResponse{
			CommitmentID: r.CommitmentID,
			InvestorID:   r.InvestorID,
			CallAmount:   r.CallAmount,
			FundedAmount: r.FundedAmount,
			Status:       string(r.Status),
			FundedAt:     r.FundedAt,
		}
	}

	return &CapitalCallResponse{
		ID:                     c.ID,
		FundID:                 c.FundID,
		CallNumber:             c.CallNumber,
		Purpose:                c.Purpose,
		CallDate:               c.CallDate,
		DueDate:                c.DueDate,
		Investment:             c.Components.Investment,
		ManagementFee:          c.Components.ManagementFee,
		PartnershipExpenses:    c.Components.PartnershipExpenses,
		OrganizationalExpenses: c.Components.OrganizationalExpenses,
		TotalCallAmount:        c.TotalCallAmount,
		AmountReceived:         c.AmountReceived,
		AmountOutstanding:      c.AmountOutstanding,
		PercentFunded:          c.PercentFunded.Round(4),
		Status:                 string(c.Status),
		LPResponses:            responses,
		Version:                c.Version,
	}
}

// LPAllocationResponse is one LP's share of a distribution.
type LPAllocationResponse struct {
	CommitmentID     string          `json:"commitment_id"`
	InvestorID       string          `json:"investor_id"`
	OwnershipPercent decimal.Decimal `json:"ownership_percent"`
	GrossAmount      decimal.Decimal `json:"gross_amount"`
	TaxWithheld      decimal.Decimal `json:"tax_withheld"`
	NetAmount        decimal.Decimal `json:"net_amount"`
	Status           string          `json:"status"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
}

// DistributionResponse represents a distribution in API responses.
type DistributionResponse struct {
	ID                      string                       `json:"id"`
	FundID                  string                       `json:"fund_id"`
	DistributionNumber      int                          `json:"distribution_number"`
	RecordDate              time.Time                    `json:"record_date"`
	DistributionDate        time.Time                    `json:"distribution_date"`
	Method                  string                       `json:"method"`
	ReturnOfCapital         decimal.Decimal              `json:"return_of_capital"`
	CapitalGain             decimal.Decimal              `json:"capital_gain"`
	Dividend                decimal.Decimal              `json:"dividend"`
	Interest                decimal.Decimal              `json:"interest"`
	WithholdingTax          decimal.Decimal              `json:"withholding_tax"`
	Recallable              decimal.Decimal              `json:"recallable"`
	TotalDistributionAmount decimal.Decimal              `json:"total_distribution_amount"`
	GPAmount                decimal.Decimal              `json:"gp_amount"`
	LPAllocations           []LPAllocationResponse       `json:"lp_allocations"`
	Waterfall               *domain.WaterfallCalculation `json:"waterfall,omitempty"`
	Status                  string                       `json:"status"`
	PaidAt                  *time.Time                   `json:"paid_at,omitempty"`
	Version                 int64                        `json:"version"`
}

// DistributionFromDomain converts a domain distribution to a response.
func DistributionFromDomain(d *domain.Distribution) *DistributionResponse {
	allocations := make([]LPAllocationResponse, len(d.LPAllocations))
	for i, a := range d.LPAllocations {
		allocations[i] = LPAllocationResponse{
			CommitmentID:     a.CommitmentID,
			InvestorID:       a.InvestorID,
			OwnershipPercent: a.OwnershipPercent,
			GrossAmount:      a.GrossAmount,
			TaxWithheld:      a.TaxWithheld,
			NetAmount:        a.NetAmount,
			Status:           string(a.Status),
			PaidAt:           a.PaidAt,
		}
	}

	return &DistributionResponse{
		ID:                      d.ID,
		FundID:                  d.FundID,
		DistributionNumber:      d.DistributionNumber,
		RecordDate:              d.RecordDate,
		DistributionDate:        d.DistributionDate,
		Method:                  string(d.Method),
		ReturnOfCapital:         d.Breakdown.ReturnOfCapital,
		CapitalGain:             d.Breakdown.CapitalGain,
		Dividend:                d.Breakdown.Dividend,
		Interest:                d.Breakdown.Interest,
		WithholdingTax:          d.Breakdown.WithholdingTax,
		Recallable:              d.Breakdown.Recallable,
		TotalDistributionAmount: d.TotalDistributionAmount,
		GPAmount:                d.GPAmount,
		LPAllocations:           allocations,
		Waterfall:               d.Waterfall,
		Status:                  string(d.Status),
		PaidAt:                  d.PaidAt,
		Version:                 d.Version,
	}
}

// InvestmentResponse represents a portfolio investment in API responses.
type InvestmentResponse struct {
	ID               string          `json:"id"`
	FundID           string          `json:"fund_id"`
	CompanyName      string          `json:"company_name"`
	Sector           string          `json:"sector"`
	Geography        string          `json:"geography"`
	Status           string          `json:"status"`
	InvestmentDate   time.Time       `json:"investment_date"`
	ExitDate         *time.Time      `json:"exit_date,omitempty"`
	TotalInvested    decimal.Decimal `json:"total_invested"`
	CurrentValuation decimal.Decimal `json:"current_valuation"`
	RealizedValue    decimal.Decimal `json:"realized_value"`
	UnrealizedValue  decimal.Decimal `json:"unrealized_value"`
	MOIC             decimal.Decimal `json:"moic"`
	Version          int64           `json:"version"`
}

// InvestmentFromDomain converts a domain investment to a response.
func InvestmentFromDomain(p *domain.PortfolioInvestment) *InvestmentResponse {
	return &InvestmentResponse{
		ID:               p.ID,
		FundID:           p.FundID,
		CompanyName:      p.CompanyName,
		Sector:           p.Sector,
		Geography:        p.Geography,
		Status:           string(p.Status),
		InvestmentDate:   p.InvestmentDate,
		ExitDate:         p.ExitDate,
		TotalInvested:    p.TotalInvested,
		CurrentValuation: p.CurrentValuation,
		RealizedValue:    p.RealizedValue,
		UnrealizedValue:  p.UnrealizedValue,
		MOIC:             p.MOIC.Round(4),
		Version:          p.Version,
	}
}

// FundMetricsResponse represents computed fund metrics in API responses.
type FundMetricsResponse struct {
	FundID                  string          `json:"fund_id"`
	TotalCommitments        decimal.Decimal `json:"total_commitments"`
	UnfundedCommitments     decimal.Decimal `json:"unfunded_commitments"`
	CapitalCalled           decimal.Decimal `json:"capital_called"`
	DistributionsPaid       decimal.Decimal `json:"distributions_paid"`
	TotalInvested           decimal.Decimal `json:"total_invested"`
	RealizedValue           decimal.Decimal `json:"realized_value"`
	UnrealizedValue         decimal.Decimal `json:"unrealized_value"`
	TotalValue              decimal.Decimal `json:"total_value"`
	DPI                     float64         `json:"dpi"`
	RVPI                    float64         `json:"rvpi"`
	TVPI                    float64         `json:"tvpi"`
	MOIC                    float64         `json:"moic"`
	IRR                     float64         `json:"irr"`
	LPCount                 int             `json:"lp_count"`
	ActiveInvestmentCount   int             `json:"active_investment_count"`
	RealizedInvestmentCount int             `json:"realized_investment_count"`
	CalculatedAt            time.Time       `json:"calculated_at"`
}

// FundMetricsFromDomain converts domain metrics to a response.
func FundMetricsFromDomain(m *domain.FundMetrics) *FundMetricsResponse {
	return &FundMetricsResponse{
		FundID:                  m.FundID,
		TotalCommitments:        m.TotalCommitments,
		UnfundedCommitments:     m.UnfundedCommitments,
		CapitalCalled:           m.CapitalCalled,
		DistributionsPaid:       m.DistributionsPaid,
		TotalInvested:           m.TotalInvested,
		RealizedValue:           m.RealizedValue,
		UnrealizedValue:         m.UnrealizedValue,
		TotalValue:              m.TotalValue,
		DPI:                     m.DPI,
		RVPI:                    m.RVPI,
		TVPI:                    m.TVPI,
		MOIC:                    m.MOIC,
		IRR:                     m.IRR,
		LPCount:                 m.LPCount,
		ActiveInvestmentCount:   m.ActiveInvestmentCount,
		RealizedInvestmentCount: m.RealizedInvestmentCount,
		CalculatedAt:            m.CalculatedAt,
	}
}
