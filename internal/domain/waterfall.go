package domain

import "github.com/shopspring/decimal"

// TierKind identifies a waterfall tier. Tiers always run in the declared order.
type TierKind string

const (
	TierReturnOfCapital TierKind = "return_of_capital"
	TierPreferredReturn TierKind = "preferred_return"
	TierGPCatchup       TierKind = "gp_catchup"
	TierCarriedInterest TierKind = "carried_interest"
)

// Number is the tier's fixed position, 1 through 4. It does not shift when an
// earlier tier is skipped.
func (k TierKind) Number() int {
	switch k {
	case TierReturnOfCapital:
		return 1
	case TierPreferredReturn:
		return 2
	case TierGPCatchup:
		return 3
	case TierCarriedInterest:
		return 4
	}
	return 0
}

// TierResult is the outcome of a single waterfall tier.
type TierResult struct {
	Tier      int             `json:"tier"`
	Kind      TierKind        `json:"kind"`
	Label     string          `json:"label"`
	LPShare   decimal.Decimal `json:"lp_share"`
	GPShare   decimal.Decimal `json:"gp_share"`
	LPPercent decimal.Decimal `json:"lp_percent"`
	GPPercent decimal.Decimal `json:"gp_percent"`
	Complete  bool            `json:"complete"`
}

// Total is what the tier consumed.
func (t TierResult) Total() decimal.Decimal {
	return t.LPShare.Add(t.GPShare)
}

// WaterfallCalculation is the tier-by-tier split of one distribution amount.
type WaterfallCalculation struct {
	FundID                 string          `json:"fund_id"`
	DistributionAmount     decimal.Decimal `json:"distribution_amount"`
	CapitalCalled          decimal.Decimal `json:"capital_called"`
	PriorDistributionsPaid decimal.Decimal `json:"prior_distributions_paid"`
	Tiers                  []TierResult    `json:"tiers"`
	TotalToLP              decimal.Decimal `json:"total_to_lp"`
	TotalToGP              decimal.Decimal `json:"total_to_gp"`
	EffectiveCarry         decimal.Decimal `json:"effective_carry"`
}

// Tier returns the result for kind, if that tier ran.
func (w *WaterfallCalculation) Tier(kind TierKind) (TierResult, bool) {
	for _, t := range w.Tiers {
		if t.Kind == kind {
			return t, true
		}
	}
	return TierResult{}, false
}
