package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommitmentStatus string

const (
	CommitmentStatusActive      CommitmentStatus = "active"
	CommitmentStatusFullyCalled CommitmentStatus = "fully_called"
	CommitmentStatusDefaulted   CommitmentStatus = "defaulted"
)

// LPCommitment is one investor's commitment to one fund. Commitments are never
// deleted; they only move between statuses.
type LPCommitment struct {
	ID                    string
	FundID                string
	InvestorID            string
	InvestorName          string
	Currency              string
	ExchangeRate          decimal.Decimal
	CommitmentAmount      decimal.Decimal
	CapitalCalled         decimal.Decimal
	UnfundedCommitment    decimal.Decimal
	CapitalCalledPercent  decimal.Decimal
	DistributionsReceived decimal.Decimal
	OwnershipPercent      decimal.Decimal
	Status                CommitmentStatus
	Version               int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ApplyFunding records a capital contribution and refreshes the derived
// balances. It fails instead of letting the unfunded balance go negative.
func (c *LPCommitment) ApplyFunding(amount decimal.Decimal, at time.Time) error {
	called := c.CapitalCalled.Add(amount)
	unfunded := c.CommitmentAmount.Sub(called)
	if unfunded.IsNegative() {
		return ErrFundingExceedsUnfunded
	}

	c.CapitalCalled = called
	c.UnfundedCommitment = unfunded
	c.CapitalCalledPercent = percentOf(called, c.CommitmentAmount)
	if unfunded.IsZero() && c.Status == CommitmentStatusActive {
		c.Status = CommitmentStatusFullyCalled
	}
	c.Version++
	c.UpdatedAt = at

	return nil
}

// ApplyDistribution records a paid distribution.
func (c *LPCommitment) ApplyDistribution(net decimal.Decimal, at time.Time) {
	c.DistributionsReceived = c.DistributionsReceived.Add(net)
	c.Version++
	c.UpdatedAt = at
}

// CheckInvariants reports a consistency violation for impossible balances.
func (c *LPCommitment) CheckInvariants() error {
	if c.UnfundedCommitment.IsNegative() {
		return ErrNegativeUnfunded
	}
	return nil
}

// TotalCommitted sums commitment amounts.
func TotalCommitted(commitments []*LPCommitment) decimal.Decimal {
	total := decimal.Zero
	for _, c := range commitments {
		total = total.Add(c.CommitmentAmount)
	}
	return total
}

// TotalUnfunded sums unfunded commitments.
func TotalUnfunded(commitments []*LPCommitment) decimal.Decimal {
	total := decimal.Zero
	for _, c := range commitments {
		total = total.Add(c.UnfundedCommitment)
	}
	return total
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

var hundred = decimal.NewFromInt(100)
