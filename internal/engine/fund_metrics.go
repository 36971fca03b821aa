package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
)

// DefaultHoldingYears is the assumed holding period of the IRR approximation.
const DefaultHoldingYears = 3.0

// MetricsOptions tunes the metrics projection.
type MetricsOptions struct {
	HoldingYears float64
}

func (o MetricsOptions) holdingYears() float64 {
	if o.HoldingYears <= 0 {
		return DefaultHoldingYears
	}
	return o.HoldingYears
}

// CapitalCalledTotal sums the call amount of fully funded calls.
func CapitalCalledTotal(calls []*domain.CapitalCall) decimal.Decimal {
	total := decimal.Zero
	for _, c := range calls {
		if c.Status == domain.CallStatusFullyFunded {
			total = total.Add(c.TotalCallAmount)
		}
	}
	return total
}

// DistributionsPaidTotal sums the amount of paid distributions.
func DistributionsPaidTotal(dists []*domain.Distribution) decimal.Decimal {
	total := decimal.Zero
	for _, d := range dists {
		if d.Status == domain.DistributionStatusPaid {
			total = total.Add(d.TotalDistributionAmount)
		}
	}
	return total
}

// ComputeFundMetrics projects a fund snapshot into its performance metrics.
// The result depends only on the snapshot and calculatedAt. A snapshot holding
// a negative unfunded commitment or outstanding call amount is rejected.
func ComputeFundMetrics(snap *domain.FundSnapshot, opts MetricsOptions, calculatedAt time.Time) (*domain.FundMetrics, error) {
	if snap == nil || snap.Fund == nil {
		return nil, domain.ErrFundNotFound
	}
	if err := CheckSnapshot(snap); err != nil {
		return nil, err
	}

	m := &domain.FundMetrics{
		FundID:              snap.Fund.ID,
		TotalCommitments:    domain.TotalCommitted(snap.Commitments),
		UnfundedCommitments: domain.TotalUnfunded(snap.Commitments),
		CapitalCalled:       CapitalCalledTotal(snap.CapitalCalls),
		DistributionsPaid:   DistributionsPaidTotal(snap.Distributions),
		TotalInvested:       decimal.Zero,
		RealizedValue:       decimal.Zero,
		UnrealizedValue:     decimal.Zero,
		LPCount:             len(snap.Commitments),
		CalculatedAt:        calculatedAt,
	}

	for _, inv := range snap.Investments {
		m.TotalInvested = m.TotalInvested.Add(inv.TotalInvested)
		m.RealizedValue = m.RealizedValue.Add(inv.RealizedValue)

		switch inv.Status {
		case domain.InvestmentStatusActive:
			m.UnrealizedValue = m.UnrealizedValue.Add(inv.UnrealizedValue)
			m.ActiveInvestmentCount++
		case domain.InvestmentStatusRealized:
			m.RealizedInvestmentCount++
		}
	}
	m.TotalValue = m.RealizedValue.Add(m.UnrealizedValue)

	m.DPI = Ratio(m.DistributionsPaid, m.CapitalCalled)
	m.RVPI = Ratio(m.UnrealizedValue, m.CapitalCalled)
	m.TVPI = Ratio(m.TotalValue, m.CapitalCalled)
	m.MOIC = Ratio(m.TotalValue, m.TotalInvested)
	m.IRR = ApproximateIRR(m.DistributionsPaid, m.UnrealizedValue, m.CapitalCalled, opts.holdingYears())

	return m, nil
}

// ApproximateIRR annualises the fund multiple over a fixed holding period.
// It is not a dated cash-flow IRR. Returns 0 when nothing has been called.
func ApproximateIRR(distributed, unrealized, called decimal.Decimal, years float64) float64 {
	if !called.IsPositive() || years <= 0 {
		return 0
	}
	multiple := distributed.Add(unrealized).Div(called).InexactFloat64()
	return math.Pow(multiple, 1/years) - 1
}

// CheckSnapshot reports the first impossible balance found in a snapshot.
func CheckSnapshot(snap *domain.FundSnapshot) error {
	for _, c := range snap.Commitments {
		if err := c.CheckInvariants(); err != nil {
			return fmt.Errorf("commitment %s: %w", c.ID, err)
		}
	}
	for _, call := range snap.CapitalCalls {
		if err := call.CheckInvariants(); err != nil {
			return fmt.Errorf("capital call %s: %w", call.ID, err)
		}
	}
	for _, d := range snap.Distributions {
		if err := d.CheckInvariants(); err != nil {
			return fmt.Errorf("distribution %s: %w", d.ID, err)
		}
	}
	return nil
}
