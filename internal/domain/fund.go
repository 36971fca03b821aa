package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WaterfallType is the contractual waterfall style recorded in fund terms.
type WaterfallType string

const (
	WaterfallEuropean WaterfallType = "european"
	WaterfallAmerican WaterfallType = "american"
)

// CatchupBasis selects which LP distributions feed the GP catch-up target
// base * carry / (100 - carry).
//
// The default, CatchupBasisPreferredReturn, bases the target on the preferred
// return paid in the calculation: with 8% preferred on 1,000,000 called and
// 20% carry the GP catches up 20,000. CatchupBasisTotalLP bases it on every
// amount paid to LPs so far in the calculation, return of capital included,
// which yields a much larger catch-up for the same distribution. Funds whose
// documents use that reading opt in through FundTerms.
type CatchupBasis string

const (
	// CatchupBasisPreferredReturn sizes catch-up on the preferred return paid in the calculation.
	CatchupBasisPreferredReturn CatchupBasis = "preferred_return"
	// CatchupBasisTotalLP sizes catch-up on everything paid to LPs so far in the calculation.
	CatchupBasisTotalLP CatchupBasis = "total_lp"
)

type FundStatus string

const (
	FundStatusFundraising FundStatus = "fundraising"
	FundStatusInvesting   FundStatus = "investing"
	FundStatusHarvesting  FundStatus = "harvesting"
	FundStatusClosed      FundStatus = "closed"
)

// FundTerms holds the economic terms of a fund. Rates are percentages in [0, 100].
type FundTerms struct {
	ManagementFeeRate   decimal.Decimal
	CarriedInterestRate decimal.Decimal
	PreferredReturnRate decimal.Decimal
	GPCatchupRate       decimal.Decimal
	WaterfallType       WaterfallType
	CatchupBasis        CatchupBasis
}

// Validate checks rate bounds and enum values.
func (t FundTerms) Validate() error {
	for _, rate := range []decimal.Decimal{
		t.ManagementFeeRate,
		t.CarriedInterestRate,
		t.PreferredReturnRate,
		t.GPCatchupRate,
	} {
		if err := ValidatePercent(rate); err != nil {
			return err
		}
	}

	switch t.WaterfallType {
	case WaterfallEuropean, WaterfallAmerican:
	default:
		return ErrInvalidWaterfall
	}

	switch t.CatchupBasis {
	case CatchupBasisPreferredReturn, CatchupBasisTotalLP:
	default:
		return ErrInvalidCatchupBasis
	}

	return nil
}

// WithDefaults fills unset enum fields.
func (t FundTerms) WithDefaults() FundTerms {
	if t.WaterfallType == "" {
		t.WaterfallType = WaterfallEuropean
	}
	if t.CatchupBasis == "" {
		t.CatchupBasis = CatchupBasisPreferredReturn
	}
	return t
}

// Fund is a closed-end investment vehicle. Terms change only through an
// explicit terms update, never as a side effect of allocation.
type Fund struct {
	ID            string
	Name          string
	Currency      string
	Status        FundStatus
	TargetSize    decimal.Decimal
	HardCap       decimal.Decimal
	MinCommitment decimal.Decimal
	MaxCommitment decimal.Decimal
	GPCommitment  decimal.Decimal
	Terms         FundTerms
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate enforces the fund formation invariants.
func (f *Fund) Validate() error {
	if err := ValidateName(f.Name); err != nil {
		return err
	}
	if err := ValidateCurrency(f.Currency); err != nil {
		return err
	}

	for _, v := range []decimal.Decimal{f.TargetSize, f.HardCap, f.MinCommitment, f.MaxCommitment, f.GPCommitment} {
		if v.IsNegative() {
			return ErrNegativeValue
		}
	}

	if f.TargetSize.IsZero() {
		return ErrInvalidAmount
	}
	if f.HardCap.LessThan(f.TargetSize) {
		return ErrHardCapBelowTarget
	}
	if f.MaxCommitment.LessThan(f.MinCommitment) {
		return ErrCommitmentBounds
	}

	return f.Terms.Validate()
}

// AcceptsCommitment checks a prospective commitment against the fund limits,
// given the sum of commitments already on the books.
func (f *Fund) AcceptsCommitment(amount, existingTotal decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if amount.LessThan(f.MinCommitment) || amount.GreaterThan(f.MaxCommitment) {
		return ErrCommitmentOutOfRange
	}
	if existingTotal.Add(amount).GreaterThan(f.HardCap) {
		return ErrHardCapExceeded
	}
	return nil
}
