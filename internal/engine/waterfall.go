package engine

import (
	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
)

// WaterfallInput is everything the waterfall needs. CapitalCalled and
// PriorDistributions are fund-level totals before this distribution.
type WaterfallInput struct {
	FundID             string
	Terms              domain.FundTerms
	CapitalCalled      decimal.Decimal
	PriorDistributions decimal.Decimal
	Amount             decimal.Decimal
}

// waterfallState is threaded through the tiers; each tier returns a new one.
type waterfallState struct {
	remaining decimal.Decimal
	lpPaid    decimal.Decimal
	prefPaid  decimal.Decimal
}

func (s waterfallState) consume(lp, gp decimal.Decimal) waterfallState {
	s.remaining = s.remaining.Sub(lp).Sub(gp)
	s.lpPaid = s.lpPaid.Add(lp)
	return s
}

// tierStep computes one tier. ok is false when the tier does not apply.
type tierStep func(in WaterfallInput, st waterfallState) (res domain.TierResult, next waterfallState, ok bool)

type tier struct {
	kind  domain.TierKind
	label string
	step  tierStep
}

// waterfallTiers run strictly in this order.
var waterfallTiers = []tier{
	{domain.TierReturnOfCapital, "Return of Capital", returnOfCapital},
	{domain.TierPreferredReturn, "Preferred Return", preferredReturn},
	{domain.TierGPCatchup, "GP Catch-up", gpCatchup},
	{domain.TierCarriedInterest, "Carried Interest", carriedInterest},
}

// ComputeWaterfall splits in.Amount across the fund's distribution tiers.
// The tier shares always add up to exactly in.Amount. Negative inputs are
// treated as zero.
func ComputeWaterfall(in WaterfallInput) *domain.WaterfallCalculation {
	in.Terms = in.Terms.WithDefaults()
	in.Amount = NonNegative(in.Amount)
	in.CapitalCalled = NonNegative(in.CapitalCalled)
	in.PriorDistributions = NonNegative(in.PriorDistributions)

	calc := &domain.WaterfallCalculation{
		FundID:                 in.FundID,
		DistributionAmount:     in.Amount,
		CapitalCalled:          in.CapitalCalled,
		PriorDistributionsPaid: in.PriorDistributions,
		TotalToLP:              decimal.Zero,
		TotalToGP:              decimal.Zero,
	}

	st := waterfallState{remaining: in.Amount, lpPaid: decimal.Zero, prefPaid: decimal.Zero}
	for _, t := range waterfallTiers {
		res, next, ok := t.step(in, st)
		if !ok {
			continue
		}
		res.Tier = t.kind.Number()
		res.Kind = t.kind
		res.Label = t.label
		calc.Tiers = append(calc.Tiers, res)
		calc.TotalToLP = calc.TotalToLP.Add(res.LPShare)
		calc.TotalToGP = calc.TotalToGP.Add(res.GPShare)
		st = next
	}

	calc.EffectiveCarry = SharePercent(calc.TotalToGP, in.Amount)
	return calc
}

// lpOnly pays up to need entirely to LPs.
func lpOnly(need decimal.Decimal, st waterfallState) (domain.TierResult, waterfallState) {
	paid := decimal.Min(st.remaining, need)
	res := domain.TierResult{
		LPShare:   paid,
		GPShare:   decimal.Zero,
		LPPercent: hundred,
		GPPercent: decimal.Zero,
		Complete:  paid.GreaterThanOrEqual(need),
	}
	return res, st.consume(paid, decimal.Zero)
}

// returnOfCapital returns contributed capital not yet returned by earlier distributions.
func returnOfCapital(in WaterfallInput, st waterfallState) (domain.TierResult, waterfallState, bool) {
	need := NonNegative(in.CapitalCalled.Sub(in.PriorDistributions))
	res, next := lpOnly(need, st)
	return res, next, true
}

// preferredReturn pays the hurdle on called capital, less anything already
// distributed above called capital.
func preferredReturn(in WaterfallInput, st waterfallState) (domain.TierResult, waterfallState, bool) {
	hurdle := PercentOf(in.CapitalCalled, in.Terms.PreferredReturnRate)
	alreadyPaid := NonNegative(in.PriorDistributions.Sub(in.CapitalCalled))
	need := NonNegative(hurdle.Sub(alreadyPaid))

	res, next := lpOnly(need, st)
	next.prefPaid = next.prefPaid.Add(res.LPShare)
	return res, next, true
}

// gpCatchup lets the GP catch up to its carry share of the catch-up base.
func gpCatchup(in WaterfallInput, st waterfallState) (domain.TierResult, waterfallState, bool) {
	rate := in.Terms.GPCatchupRate
	if !st.remaining.IsPositive() || !rate.IsPositive() {
		return domain.TierResult{}, st, false
	}

	base := st.prefPaid
	if in.Terms.CatchupBasis == domain.CatchupBasisTotalLP {
		base = st.lpPaid
	}

	carry := in.Terms.CarriedInterestRate
	target := RoundMoney(SafeDiv(base.Mul(carry), hundred.Sub(carry)))
	consumed := decimal.Min(st.remaining, target)
	gp := RoundMoney(PercentOf(consumed, rate))
	lp := consumed.Sub(gp)

	res := domain.TierResult{
		LPShare:   lp,
		GPShare:   gp,
		LPPercent: hundred.Sub(rate),
		GPPercent: rate,
		Complete:  consumed.GreaterThanOrEqual(target),
	}
	return res, st.consume(lp, gp), true
}

// carriedInterest splits whatever is left by the carry rate.
func carriedInterest(in WaterfallInput, st waterfallState) (domain.TierResult, waterfallState, bool) {
	carry := in.Terms.CarriedInterestRate
	gp := RoundMoney(PercentOf(st.remaining, carry))
	lp := st.remaining.Sub(gp)

	res := domain.TierResult{
		LPShare:   lp,
		GPShare:   gp,
		LPPercent: hundred.Sub(carry),
		GPPercent: carry,
		Complete:  true,
	}
	return res, st.consume(lp, gp), true
}
