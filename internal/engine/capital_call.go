package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
)

// AllocateCall validates a call against the fund's commitments and splits
// components.Total() across them by ownership. The call is rejected when it
// exceeds the fund's total unfunded commitments.
func AllocateCall(commitments []*domain.LPCommitment, components domain.CallComponents) ([]domain.LPCallResponse, decimal.Decimal, error) {
	if err := components.Validate(); err != nil {
		return nil, decimal.Zero, err
	}

	total := components.Total()
	if total.GreaterThan(domain.TotalUnfunded(commitments)) {
		return nil, decimal.Zero, domain.ErrCallExceedsUnfunded
	}

	return CallResponses(commitments, total), total, nil
}

// CallResponses splits total across commitments by ownership, one pending
// response per commitment. The call amounts always add up to total; no
// commitments yields no responses.
func CallResponses(commitments []*domain.LPCommitment, total decimal.Decimal) []domain.LPCallResponse {
	percents := make([]decimal.Decimal, len(commitments))
	for i, c := range commitments {
		percents[i] = c.OwnershipPercent
	}
	shares := SplitProRata(total, percents)

	responses := make([]domain.LPCallResponse, len(commitments))
	for i, c := range commitments {
		responses[i] = domain.LPCallResponse{
			CommitmentID: c.ID,
			InvestorID:   c.InvestorID,
			CallAmount:   shares[i],
			FundedAmount: decimal.Zero,
			Status:       domain.ResponseStatusPending,
		}
	}
	return responses
}

// FundingResult is the pair of records one funding payment rewrites.
type FundingResult struct {
	Call       *domain.CapitalCall
	Commitment *domain.LPCommitment
}

// ApplyFunding applies a payment from one LP to a capital call. The inputs are
// left untouched; the caller persists both returned records together or neither.
// The call's status is not advanced here; FundedStatus reports the target.
func ApplyFunding(call *domain.CapitalCall, commitment *domain.LPCommitment, amount decimal.Decimal, at time.Time) (*FundingResult, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if !call.AcceptsFunding() {
		return nil, domain.ErrCallNotFundable
	}
	if amount.GreaterThan(call.AmountOutstanding) {
		return nil, domain.ErrOverfunding
	}

	nextCall := call.Clone()
	resp := nextCall.Response(commitment.ID)
	if resp == nil {
		return nil, domain.ErrNoCallResponse
	}

	nextCommitment := *commitment
	if err := nextCommitment.ApplyFunding(amount, at); err != nil {
		return nil, err
	}

	resp.FundedAmount = resp.FundedAmount.Add(amount)
	fundedAt := at
	resp.FundedAt = &fundedAt
	if resp.FundedAmount.GreaterThanOrEqual(resp.CallAmount) {
		resp.Status = domain.ResponseStatusFunded
	} else {
		resp.Status = domain.ResponseStatusPartial
	}

	nextCall.AmountReceived = nextCall.AmountReceived.Add(amount)
	nextCall.AmountOutstanding = nextCall.TotalCallAmount.Sub(nextCall.AmountReceived)
	nextCall.PercentFunded = SharePercent(nextCall.AmountReceived, nextCall.TotalCallAmount)
	nextCall.Version++
	nextCall.UpdatedAt = at

	if err := nextCall.CheckInvariants(); err != nil {
		return nil, err
	}
	if err := nextCommitment.CheckInvariants(); err != nil {
		return nil, err
	}

	return &FundingResult{Call: nextCall, Commitment: &nextCommitment}, nil
}

// FundedStatus derives a fundable call's status from how much of it has been received.
// A call with nothing received keeps its current status.
func FundedStatus(call *domain.CapitalCall) domain.CapitalCallStatus {
	switch {
	case call.PercentFunded.GreaterThanOrEqual(hundred):
		return domain.CallStatusFullyFunded
	case call.AmountReceived.IsPositive():
		return domain.CallStatusPartiallyFunded
	default:
		return call.Status
	}
}
