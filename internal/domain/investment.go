package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvestmentStatus string

const (
	InvestmentStatusCommitted  InvestmentStatus = "committed"
	InvestmentStatusFunded     InvestmentStatus = "funded"
	InvestmentStatusActive     InvestmentStatus = "active"
	InvestmentStatusRealized   InvestmentStatus = "realized"
	InvestmentStatusImpaired   InvestmentStatus = "impaired"
	InvestmentStatusWrittenOff InvestmentStatus = "written_off"
)

var validInvestmentStatuses = map[InvestmentStatus]bool{
	InvestmentStatusCommitted:  true,
	InvestmentStatusFunded:     true,
	InvestmentStatusActive:     true,
	InvestmentStatusRealized:   true,
	InvestmentStatusImpaired:   true,
	InvestmentStatusWrittenOff: true,
}

// IsValid reports whether s is a known status.
func (s InvestmentStatus) IsValid() bool {
	return validInvestmentStatuses[s]
}

// PortfolioInvestment is a position the fund holds in a portfolio company.
type PortfolioInvestment struct {
	ID               string
	FundID           string
	CompanyName      string
	Sector           string
	Geography        string
	Status           InvestmentStatus
	InvestmentDate   time.Time
	ExitDate         *time.Time
	TotalInvested    decimal.Decimal
	CurrentValuation decimal.Decimal
	RealizedValue    decimal.Decimal
	UnrealizedValue  decimal.Decimal
	MOIC             decimal.Decimal
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TotalValue is realized plus unrealized value.
func (p *PortfolioInvestment) TotalValue() decimal.Decimal {
	return p.RealizedValue.Add(p.UnrealizedValue)
}

// Revalue sets the realized and unrealized values and refreshes MOIC.
func (p *PortfolioInvestment) Revalue(realized, unrealized decimal.Decimal, status InvestmentStatus, at time.Time) error {
	if realized.IsNegative() || unrealized.IsNegative() {
		return ErrNegativeValue
	}
	if !status.IsValid() {
		return ErrInvalidStateChange
	}

	p.RealizedValue = realized
	p.UnrealizedValue = unrealized
	p.CurrentValuation = unrealized
	p.Status = status
	p.RefreshMOIC()
	p.Version++
	p.UpdatedAt = at

	return nil
}

// RefreshMOIC recomputes MOIC as total value over invested capital, 0 when nothing is invested.
func (p *PortfolioInvestment) RefreshMOIC() {
	if p.TotalInvested.IsZero() {
		p.MOIC = decimal.Zero
		return
	}
	p.MOIC = p.TotalValue().Div(p.TotalInvested)
}
