package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/engine"
	"github.com/iho/fundengine/internal/statemachine"
)

// CapitalCallUseCase handles capital call business logic.
type CapitalCallUseCase struct {
	unitOfWork
}

// NewCapitalCallUseCase creates a new CapitalCallUseCase.
func NewCapitalCallUseCase(d Deps) *CapitalCallUseCase {
	d.Logger = d.Logger.With().Str("usecase", "capital_call").Logger()
	return &CapitalCallUseCase{unitOfWork: newUnitOfWork(d)}
}

// CreateCapitalCallInput represents input for creating a capital call.
type CreateCapitalCallInput struct {
	FundID     string
	Purpose    string
	CallDate   time.Time
	DueDate    time.Time
	Components domain.CallComponents
}

// CreateCapitalCall drafts a capital call split pro rata across the fund's
// LPs. A call larger than the fund's total unfunded commitments is rejected
// and nothing is written.
func (uc *CapitalCallUseCase) CreateCapitalCall(ctx context.Context, input CreateCapitalCallInput) (*domain.CapitalCall, error) {
	if err := input.Components.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.Components.Total()); err != nil {
		return nil, err
	}

	ts := now()
	callDate := input.CallDate
	if callDate.IsZero() {
		callDate = ts
	}
	if !input.DueDate.IsZero() && input.DueDate.Before(callDate) {
		return nil, domain.ErrCallDueDate
	}

	var created *domain.CapitalCall
	err := uc.atomically(ctx, "create_capital_call", func(ctx context.Context, tx Transaction) error {
		fund, err := uc.Repos.Funds.GetByIDForUpdate(ctx, tx, input.FundID)
		if err != nil {
			return err
		}

		commitments, err := uc.Repos.Commitments.ListByFundForUpdate(ctx, tx, fund.ID)
		if err != nil {
			return err
		}

		responses, total, err := engine.AllocateCall(commitments, input.Components)
		if err != nil {
			return err
		}

		number, err := uc.Repos.CapitalCalls.NextCallNumber(ctx, tx, fund.ID)
		if err != nil {
			return err
		}

		call := &domain.CapitalCall{
			ID:                uc.IDGen.Generate(),
			FundID:            fund.ID,
			CallNumber:        number,
			Purpose:           strings.TrimSpace(input.Purpose),
			CallDate:          callDate,
			DueDate:           input.DueDate,
			Components:        input.Components,
			TotalCallAmount:   total,
			AmountReceived:    decimal.Zero,
			AmountOutstanding: total,
			PercentFunded:     decimal.Zero,
			Status:            domain.CallStatusDraft,
			LPResponses:       responses,
			Version:           1,
			CreatedAt:         ts,
			UpdatedAt:         ts,
		}

		if err := uc.Repos.CapitalCalls.Create(ctx, tx, call); err != nil {
			return err
		}

		created = call
		return uc.emit(ctx, tx, domain.AggregateTypeCapitalCall, call.ID, domain.EventTypeCapitalCallCreated, map[string]any{
			"fund_id":     fund.ID,
			"call_number": call.CallNumber,
			"total":       total.String(),
			"lp_count":    len(responses),
		})
	})
	if err != nil {
		return nil, err
	}

	uc.Metrics.RecordCapitalCall(string(created.Status))
	uc.Logger.Info().
		Str("fund_id", created.FundID).
		Str("call_id", created.ID).
		Str("total", created.TotalCallAmount.String()).
		Msg("capital call drafted")

	return created, nil
}

// IssueCapitalCall sends a draft call to LPs.
func (uc *CapitalCallUseCase) IssueCapitalCall(ctx context.Context, callID string) (*domain.CapitalCall, error) {
	return uc.transition(ctx, "issue_capital_call", callID, domain.EventTypeCapitalCallIssued,
		func(ctx context.Context, m *statemachine.CapitalCallFSM) error { return m.Issue(ctx) })
}

// CancelCapitalCall withdraws a call that has not received funding.
func (uc *CapitalCallUseCase) CancelCapitalCall(ctx context.Context, callID string) (*domain.CapitalCall, error) {
	return uc.transition(ctx, "cancel_capital_call", callID, domain.EventTypeCapitalCallCancelled,
		func(ctx context.Context, m *statemachine.CapitalCallFSM) error { return m.Cancel(ctx) })
}

func (uc *CapitalCallUseCase) transition(
	ctx context.Context,
	op, callID, eventType string,
	apply func(context.Context, *statemachine.CapitalCallFSM) error,
) (*domain.CapitalCall, error) {
	var updated *domain.CapitalCall
	err := uc.atomically(ctx, op, func(ctx context.Context, tx Transaction) error {
		call, err := uc.Repos.CapitalCalls.GetByIDForUpdate(ctx, tx, callID)
		if err != nil {
			return err
		}

		if err := apply(ctx, statemachine.NewCapitalCallFSM(call)); err != nil {
			return err
		}
		call.Version++
		call.UpdatedAt = now()

		if err := uc.Repos.CapitalCalls.Update(ctx, tx, call); err != nil {
			return err
		}

		updated = call
		return uc.emit(ctx, tx, domain.AggregateTypeCapitalCall, call.ID, eventType, map[string]any{
			"fund_id": call.FundID,
			"status":  string(call.Status),
		})
	})
	if err != nil {
		return nil, err
	}

	uc.Metrics.RecordCapitalCall(string(updated.Status))
	return updated, nil
}

// RecordFundingInput represents one LP payment against a capital call.
type RecordFundingInput struct {
	CallID       string
	CommitmentID string
	Amount       decimal.Decimal
}

// RecordLPFunding applies an LP payment. The LP's response, the call's
// received and outstanding amounts, the call status and the LP commitment's
// called and unfunded balances are updated together or not at all.
func (uc *CapitalCallUseCase) RecordLPFunding(ctx context.Context, input RecordFundingInput) (*domain.CapitalCall, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	var updated *domain.CapitalCall
	err := uc.atomically(ctx, "record_funding", func(ctx context.Context, tx Transaction) error {
		call, err := uc.Repos.CapitalCalls.GetByIDForUpdate(ctx, tx, input.CallID)
		if err != nil {
			return err
		}

		commitment, err := uc.Repos.Commitments.GetByIDForUpdate(ctx, tx, input.CommitmentID)
		if err != nil {
			return err
		}
		if commitment.FundID != call.FundID {
			return domain.ErrNoCallResponse
		}

		ts := now()
		res, err := engine.ApplyFunding(call, commitment, input.Amount, ts)
		if err != nil {
			return err
		}

		if err := statemachine.NewCapitalCallFSM(res.Call).SettleFunding(ctx, engine.FundedStatus(res.Call)); err != nil {
			return err
		}

		if err := uc.Repos.CapitalCalls.Update(ctx, tx, res.Call); err != nil {
			return err
		}
		if err := uc.Repos.Commitments.Update(ctx, tx, res.Commitment); err != nil {
			return err
		}

		updated = res.Call
		return uc.emit(ctx, tx, domain.AggregateTypeCapitalCall, call.ID, domain.EventTypeCapitalCallFunded, map[string]any{
			"fund_id":        call.FundID,
			"commitment_id":  commitment.ID,
			"amount":         input.Amount.String(),
			"percent_funded": res.Call.PercentFunded.String(),
			"status":         string(res.Call.Status),
		})
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, updated.FundID)
	uc.Metrics.RecordFunding(input.Amount.InexactFloat64())
	uc.Metrics.RecordCapitalCall(string(updated.Status))

	return updated, nil
}

// MarkOverdueCalls flags every issued or partially funded call whose due date
// is before asOf. It returns how many calls were marked.
func (uc *CapitalCallUseCase) MarkOverdueCalls(ctx context.Context, asOf time.Time) (int, error) {
	candidates, err := uc.Repos.CapitalCalls.ListPastDue(ctx, asOf)
	if err != nil {
		return 0, err
	}

	marked := 0
	var errs []error
	for _, c := range candidates {
		changed := false
		err := uc.atomically(ctx, "mark_overdue", func(ctx context.Context, tx Transaction) error {
			changed = false
			call, err := uc.Repos.CapitalCalls.GetByIDForUpdate(ctx, tx, c.ID)
			if err != nil {
				return err
			}

			m := statemachine.NewCapitalCallFSM(call)
			if call.DueDate.IsZero() || !call.DueDate.Before(asOf) || !m.Can(statemachine.CallEventMarkOverdue) {
				return nil
			}
			if err := m.MarkOverdue(ctx); err != nil {
				return err
			}
			call.Version++
			call.UpdatedAt = now()

			if err := uc.Repos.CapitalCalls.Update(ctx, tx, call); err != nil {
				return err
			}

			changed = true
			return uc.emit(ctx, tx, domain.AggregateTypeCapitalCall, call.ID, domain.EventTypeCapitalCallOverdue, map[string]any{
				"fund_id":     call.FundID,
				"due_date":    call.DueDate,
				"outstanding": call.AmountOutstanding.String(),
			})
		})
		if err != nil {
			uc.Logger.Error().Err(err).Str("call_id", c.ID).Msg("failed to mark capital call overdue")
			errs = append(errs, err)
			continue
		}
		if changed {
			marked++
			uc.Metrics.RecordCapitalCall(string(domain.CallStatusOverdue))
		}
	}

	return marked, errors.Join(errs...)
}

// GetCapitalCall retrieves a capital call by ID.
func (uc *CapitalCallUseCase) GetCapitalCall(ctx context.Context, id string) (*domain.CapitalCall, error) {
	return uc.Repos.CapitalCalls.GetByID(ctx, id)
}

// ListCapitalCalls lists a fund's capital calls.
func (uc *CapitalCallUseCase) ListCapitalCalls(ctx context.Context, fundID string) ([]*domain.CapitalCall, error) {
	if _, err := uc.Repos.Funds.GetByID(ctx, fundID); err != nil {
		return nil, err
	}
	return uc.Repos.CapitalCalls.ListByFund(ctx, fundID)
}
