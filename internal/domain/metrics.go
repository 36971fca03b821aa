package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundMetrics is a derived projection of a fund's records. It is always
// recomputed in full and never edited field by field.
type FundMetrics struct {
	FundID                  string          `msgpack:"fund_id"`
	TotalCommitments        decimal.Decimal `msgpack:"total_commitments"`
	UnfundedCommitments     decimal.Decimal `msgpack:"unfunded_commitments"`
	CapitalCalled           decimal.Decimal `msgpack:"capital_called"`
	DistributionsPaid       decimal.Decimal `msgpack:"distributions_paid"`
	TotalInvested           decimal.Decimal `msgpack:"total_invested"`
	RealizedValue           decimal.Decimal `msgpack:"realized_value"`
	UnrealizedValue         decimal.Decimal `msgpack:"unrealized_value"`
	TotalValue              decimal.Decimal `msgpack:"total_value"`
	DPI                     float64         `msgpack:"dpi"`
	RVPI                    float64         `msgpack:"rvpi"`
	TVPI                    float64         `msgpack:"tvpi"`
	MOIC                    float64         `msgpack:"moic"`
	IRR                     float64         `msgpack:"irr"`
	LPCount                 int             `msgpack:"lp_count"`
	ActiveInvestmentCount   int             `msgpack:"active_investment_count"`
	RealizedInvestmentCount int             `msgpack:"realized_investment_count"`
	CalculatedAt            time.Time       `msgpack:"calculated_at"`
}

// FundSnapshot is the consistent record set a metrics projection reads.
type FundSnapshot struct {
	Fund          *Fund
	Commitments   []*LPCommitment
	CapitalCalls  []*CapitalCall
	Distributions []*Distribution
	Investments   []*PortfolioInvestment
}
