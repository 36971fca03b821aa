package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DistributionStatus string

const (
	DistributionStatusDraft     DistributionStatus = "draft"
	DistributionStatusApproved  DistributionStatus = "approved"
	DistributionStatusPaid      DistributionStatus = "paid"
	DistributionStatusCancelled DistributionStatus = "cancelled"
)

// DistributionMethod selects how proceeds are split before they reach LPs.
type DistributionMethod string

const (
	// DistributionProRata splits the whole amount by ownership, with no carry.
	DistributionProRata DistributionMethod = "pro_rata"
	// DistributionWaterfall runs the fund waterfall first and splits the LP side by ownership.
	DistributionWaterfall DistributionMethod = "waterfall"
)

type AllocationStatus string

const (
	AllocationStatusPending AllocationStatus = "pending"
	AllocationStatusPaid    AllocationStatus = "paid"
)

// DistributionBreakdown classifies a distribution by type. WithholdingTax is
// informational and not part of the distributable total.
type DistributionBreakdown struct {
	ReturnOfCapital decimal.Decimal
	CapitalGain     decimal.Decimal
	Dividend        decimal.Decimal
	Interest        decimal.Decimal
	WithholdingTax  decimal.Decimal
	Recallable      decimal.Decimal
}

// Total is the distributable amount.
func (b DistributionBreakdown) Total() decimal.Decimal {
	return b.ReturnOfCapital.Add(b.CapitalGain).Add(b.Dividend).Add(b.Interest).Add(b.Recallable)
}

// Validate rejects negative parts and an empty distribution.
func (b DistributionBreakdown) Validate() error {
	for _, v := range []decimal.Decimal{b.ReturnOfCapital, b.CapitalGain, b.Dividend, b.Interest, b.WithholdingTax, b.Recallable} {
		if v.IsNegative() {
			return ErrInvalidBreakdown
		}
	}
	if !b.Total().IsPositive() {
		return ErrInvalidBreakdown
	}
	return nil
}

// LPAllocation is one LP's share of a distribution.
type LPAllocation struct {
	CommitmentID     string
	InvestorID       string
	OwnershipPercent decimal.Decimal
	GrossAmount      decimal.Decimal
	TaxWithheld      decimal.Decimal
	NetAmount        decimal.Decimal
	Status           AllocationStatus
	PaidAt           *time.Time
}

// Distribution returns proceeds to the partners of a fund.
type Distribution struct {
	ID                      string
	FundID                  string
	DistributionNumber      int
	RecordDate              time.Time
	DistributionDate        time.Time
	Method                  DistributionMethod
	Breakdown               DistributionBreakdown
	TotalDistributionAmount decimal.Decimal
	GPAmount                decimal.Decimal
	LPAllocations           []LPAllocation
	Waterfall               *WaterfallCalculation
	Status                  DistributionStatus
	PaidAt                  *time.Time
	Version                 int64
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// TotalNet sums the net amounts allocated to LPs.
func (d *Distribution) TotalNet() decimal.Decimal {
	total := decimal.Zero
	for _, a := range d.LPAllocations {
		total = total.Add(a.NetAmount)
	}
	return total
}

// CheckInvariants verifies LP net amounts plus the GP share do not exceed the total.
func (d *Distribution) CheckInvariants() error {
	if d.TotalNet().Add(d.GPAmount).GreaterThan(d.TotalDistributionAmount) {
		return ErrOverallocated
	}
	return nil
}

// Clone returns a deep copy.
func (d *Distribution) Clone() *Distribution {
	cp := *d
	cp.LPAllocations = make([]LPAllocation, len(d.LPAllocations))
	copy(cp.LPAllocations, d.LPAllocations)
	return &cp
}

// ValidateDates ensures the payment date does not precede the record date.
func ValidateDates(recordDate, distributionDate time.Time) error {
	if distributionDate.Before(recordDate) {
		return ErrDistributionDate
	}
	return nil
}
