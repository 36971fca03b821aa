package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
)

// TaxRule decides how much of an LP's gross distribution is withheld.
type TaxRule interface {
	Withholding(commitment *domain.LPCommitment, gross decimal.Decimal) decimal.Decimal
}

// NoWithholding withholds nothing.
type NoWithholding struct{}

func (NoWithholding) Withholding(*domain.LPCommitment, decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

// FlatWithholding withholds Rate percent of every gross allocation.
type FlatWithholding struct {
	Rate decimal.Decimal
}

func (f FlatWithholding) Withholding(_ *domain.LPCommitment, gross decimal.Decimal) decimal.Decimal {
	return RoundMoney(PercentOf(gross, f.Rate))
}

// DistributionInput describes a distribution to allocate.
type DistributionInput struct {
	Fund               *domain.Fund
	Commitments        []*domain.LPCommitment
	Method             domain.DistributionMethod
	Total              decimal.Decimal
	CapitalCalled      decimal.Decimal
	PriorDistributions decimal.Decimal
	Tax                TaxRule
}

// DistributionPlan is the computed split of a distribution.
type DistributionPlan struct {
	GPAmount    decimal.Decimal
	Allocations []domain.LPAllocation
	Waterfall   *domain.WaterfallCalculation
}

// AllocateDistribution splits a distribution between the GP and the LPs. With
// the waterfall method the GP takes the waterfall's GP total first; the LP
// pool is then shared by ownership percentage. Gross LP amounts plus the GP
// amount always equal the total.
func AllocateDistribution(in DistributionInput) (*DistributionPlan, error) {
	if !in.Total.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if len(in.Commitments) == 0 {
		return nil, domain.ErrNoCommitments
	}
	if in.Tax == nil {
		in.Tax = NoWithholding{}
	}

	plan := &DistributionPlan{GPAmount: decimal.Zero}

	switch in.Method {
	case domain.DistributionProRata, "":
	case domain.DistributionWaterfall:
		if in.Fund == nil {
			return nil, domain.ErrFundNotFound
		}
		plan.Waterfall = ComputeWaterfall(WaterfallInput{
			FundID:             in.Fund.ID,
			Terms:              in.Fund.Terms,
			CapitalCalled:      in.CapitalCalled,
			PriorDistributions: in.PriorDistributions,
			Amount:             in.Total,
		})
		plan.GPAmount = plan.Waterfall.TotalToGP
	default:
		return nil, domain.ErrInvalidDistMethod
	}

	pool := in.Total.Sub(plan.GPAmount)
	percents := make([]decimal.Decimal, len(in.Commitments))
	for i, c := range in.Commitments {
		percents[i] = c.OwnershipPercent
	}
	gross := SplitProRata(pool, percents)

	plan.Allocations = make([]domain.LPAllocation, len(in.Commitments))
	for i, c := range in.Commitments {
		tax := in.Tax.Withholding(c, gross[i])
		tax = decimal.Min(NonNegative(tax), gross[i])
		plan.Allocations[i] = domain.LPAllocation{
			CommitmentID:     c.ID,
			InvestorID:       c.InvestorID,
			OwnershipPercent: c.OwnershipPercent,
			GrossAmount:      gross[i],
			TaxWithheld:      tax,
			NetAmount:        gross[i].Sub(tax),
			Status:           domain.AllocationStatusPending,
		}
	}

	return plan, nil
}

// CheckWaterfallBasis reports whether a distribution's stored waterfall was
// computed against the fund's current capital called and distributions paid.
// A plan drafted before another distribution was paid would otherwise treat
// capital that has already been returned as still outstanding. Pro-rata
// distributions do not depend on fund history and always pass.
func CheckWaterfallBasis(dist *domain.Distribution, capitalCalled, distributionsPaid decimal.Decimal) error {
	w := dist.Waterfall
	if dist.Method != domain.DistributionWaterfall || w == nil {
		return nil
	}
	if !w.CapitalCalled.Equal(NonNegative(capitalCalled)) ||
		!w.PriorDistributionsPaid.Equal(NonNegative(distributionsPaid)) {
		return fmt.Errorf("%w: drafted against called %s and paid %s, now called %s and paid %s",
			domain.ErrStaleDistribution, w.CapitalCalled, w.PriorDistributionsPaid, capitalCalled, distributionsPaid)
	}
	return nil
}

// PaymentResult is every record one distribution payment rewrites.
type PaymentResult struct {
	Distribution *domain.Distribution
	Commitments  []*domain.LPCommitment
}

// ApplyDistributionPayment marks every allocation paid and credits each LP's
// commitment with its net amount. Either every referenced commitment is
// updated or an error is returned and nothing is. The distribution's own
// lifecycle status is left to the caller.
func ApplyDistributionPayment(dist *domain.Distribution, commitments []*domain.LPCommitment, at time.Time) (*PaymentResult, error) {
	byID := make(map[string]*domain.LPCommitment, len(commitments))
	for _, c := range commitments {
		byID[c.ID] = c
	}

	next := dist.Clone()
	updated := make([]*domain.LPCommitment, 0, len(next.LPAllocations))
	paidAt := at

	for i := range next.LPAllocations {
		alloc := &next.LPAllocations[i]
		c, ok := byID[alloc.CommitmentID]
		if !ok {
			return nil, fmt.Errorf("%w: commitment %s missing from payment", domain.ErrPartialApplication, alloc.CommitmentID)
		}

		cp := *c
		cp.ApplyDistribution(alloc.NetAmount, at)
		updated = append(updated, &cp)

		alloc.Status = domain.AllocationStatusPaid
		alloc.PaidAt = &paidAt
	}

	next.PaidAt = &paidAt
	next.Version++
	next.UpdatedAt = at

	if err := next.CheckInvariants(); err != nil {
		return nil, err
	}

	return &PaymentResult{Distribution: next, Commitments: updated}, nil
}
