package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/engine"
	"github.com/iho/fundengine/internal/statemachine"
)

// DistributionUseCase handles distribution business logic.
type DistributionUseCase struct {
	unitOfWork
}

// NewDistributionUseCase creates a new DistributionUseCase.
func NewDistributionUseCase(d Deps) *DistributionUseCase {
	d.Logger = d.Logger.With().Str("usecase", "distribution").Logger()
	return &DistributionUseCase{unitOfWork: newUnitOfWork(d)}
}

// CreateDistributionInput represents input for creating a distribution.
type CreateDistributionInput struct {
	FundID           string
	RecordDate       time.Time
	DistributionDate time.Time
	Method           domain.DistributionMethod
	Breakdown        domain.DistributionBreakdown
	// WithholdingRate is a flat percentage withheld from every LP's gross amount.
	WithholdingRate decimal.Decimal
}

// CreateDistribution drafts a distribution with its LP allocations computed
// immediately. With the waterfall method the GP share comes from running the
// fund waterfall over the fund's history as of now.
func (uc *DistributionUseCase) CreateDistribution(ctx context.Context, input CreateDistributionInput) (*domain.Distribution, error) {
	if err := input.Breakdown.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.Breakdown.Total()); err != nil {
		return nil, err
	}

	ts := now()
	recordDate := input.RecordDate
	if recordDate.IsZero() {
		recordDate = ts
	}
	distDate := input.DistributionDate
	if distDate.IsZero() {
		distDate = recordDate
	}
	if err := domain.ValidateDates(recordDate, distDate); err != nil {
		return nil, err
	}

	method := input.Method
	if method == "" {
		method = domain.DistributionProRata
	}
	if method != domain.DistributionProRata && method != domain.DistributionWaterfall {
		return nil, domain.ErrInvalidDistMethod
	}

	if err := domain.ValidatePercent(input.WithholdingRate); err != nil {
		return nil, err
	}
	var tax engine.TaxRule = engine.NoWithholding{}
	if input.WithholdingRate.IsPositive() {
		tax = engine.FlatWithholding{Rate: input.WithholdingRate}
	}

	var created *domain.Distribution
	err := uc.atomically(ctx, "create_distribution", func(ctx context.Context, tx Transaction) error {
		fund, err := uc.Repos.Funds.GetByIDForUpdate(ctx, tx, input.FundID)
		if err != nil {
			return err
		}

		commitments, err := uc.Repos.Commitments.ListByFundTx(ctx, tx, fund.ID)
		if err != nil {
			return err
		}
		calls, err := uc.Repos.CapitalCalls.ListByFundTx(ctx, tx, fund.ID)
		if err != nil {
			return err
		}
		prior, err := uc.Repos.Distributions.ListByFundTx(ctx, tx, fund.ID)
		if err != nil {
			return err
		}

		total := input.Breakdown.Total()
		plan, err := engine.AllocateDistribution(engine.DistributionInput{
			Fund:               fund,
			Commitments:        commitments,
			Method:             method,
			Total:              total,
			CapitalCalled:      engine.CapitalCalledTotal(calls),
			PriorDistributions: engine.DistributionsPaidTotal(prior),
			Tax:                tax,
		})
		if err != nil {
			return err
		}

		number, err := uc.Repos.Distributions.NextDistributionNumber(ctx, tx, fund.ID)
		if err != nil {
			return err
		}

		dist := &domain.Distribution{
			ID:                      uc.IDGen.Generate(),
			FundID:                  fund.ID,
			DistributionNumber:      number,
			RecordDate:              recordDate,
			DistributionDate:        distDate,
			Method:                  method,
			Breakdown:               input.Breakdown,
			TotalDistributionAmount: total,
			GPAmount:                plan.GPAmount,
			LPAllocations:           plan.Allocations,
			Waterfall:               plan.Waterfall,
			Status:                  domain.DistributionStatusDraft,
			Version:                 1,
			CreatedAt:               ts,
			UpdatedAt:               ts,
		}
		if err := dist.CheckInvariants(); err != nil {
			return err
		}

		if err := uc.Repos.Distributions.Create(ctx, tx, dist); err != nil {
			return err
		}

		created = dist
		return uc.emit(ctx, tx, domain.AggregateTypeDistribution, dist.ID, domain.EventTypeDistributionCreated, map[string]any{
			"fund_id":             fund.ID,
			"distribution_number": dist.DistributionNumber,
			"method":              string(method),
			"total":               total.String(),
			"gp_amount":           plan.GPAmount.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	uc.Metrics.RecordDistribution(string(created.Status), created.TotalDistributionAmount.InexactFloat64())
	uc.Logger.Info().
		Str("fund_id", created.FundID).
		Str("distribution_id", created.ID).
		Str("method", string(created.Method)).
		Str("total", created.TotalDistributionAmount.String()).
		Msg("distribution drafted")

	return created, nil
}

// ApproveDistribution approves a draft distribution for payment.
func (uc *DistributionUseCase) ApproveDistribution(ctx context.Context, id string) (*domain.Distribution, error) {
	return uc.transition(ctx, "approve_distribution", id, domain.EventTypeDistributionApproved,
		func(ctx context.Context, m *statemachine.DistributionFSM) error { return m.Approve(ctx) })
}

// CancelDistribution cancels a distribution that has not been paid.
func (uc *DistributionUseCase) CancelDistribution(ctx context.Context, id string) (*domain.Distribution, error) {
	return uc.transition(ctx, "cancel_distribution", id, domain.EventTypeDistributionCancelled,
		func(ctx context.Context, m *statemachine.DistributionFSM) error { return m.Cancel(ctx) })
}

func (uc *DistributionUseCase) transition(
	ctx context.Context,
	op, id, eventType string,
	apply func(context.Context, *statemachine.DistributionFSM) error,
) (*domain.Distribution, error) {
	var updated *domain.Distribution
	err := uc.atomically(ctx, op, func(ctx context.Context, tx Transaction) error {
		dist, err := uc.Repos.Distributions.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := apply(ctx, statemachine.NewDistributionFSM(dist)); err != nil {
			return err
		}
		dist.Version++
		dist.UpdatedAt = now()

		if err := uc.Repos.Distributions.Update(ctx, tx, dist); err != nil {
			return err
		}

		updated = dist
		return uc.emit(ctx, tx, domain.AggregateTypeDistribution, dist.ID, eventType, map[string]any{
			"fund_id": dist.FundID,
			"status":  string(dist.Status),
		})
	})
	if err != nil {
		return nil, err
	}

	uc.Metrics.RecordDistribution(string(updated.Status), 0)
	return updated, nil
}

// PayDistribution pays an approved distribution. Every LP allocation is marked
// paid, every LP's distributions received is increased and the distribution
// becomes paid in a single unit of work. If any LP cannot be updated nothing
// is applied. A waterfall distribution whose basis no longer matches the
// fund's called capital and paid distributions is rejected with
// ErrStaleDistribution; it must be cancelled and drafted again.
func (uc *DistributionUseCase) PayDistribution(ctx context.Context, id string) (*domain.Distribution, error) {
	var paid *domain.Distribution
	err := uc.atomically(ctx, "pay_distribution", func(ctx context.Context, tx Transaction) error {
		dist, err := uc.Repos.Distributions.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if !statemachine.NewDistributionFSM(dist).Can(statemachine.DistEventPay) {
			return domain.ErrDistributionNotPayable
		}

		commitments, err := uc.Repos.Commitments.ListByFundForUpdate(ctx, tx, dist.FundID)
		if err != nil {
			return err
		}

		if dist.Method == domain.DistributionWaterfall {
			if _, err := uc.Repos.Funds.GetByIDForUpdate(ctx, tx, dist.FundID); err != nil {
				return err
			}
			calls, err := uc.Repos.CapitalCalls.ListByFundTx(ctx, tx, dist.FundID)
			if err != nil {
				return err
			}
			dists, err := uc.Repos.Distributions.ListByFundTx(ctx, tx, dist.FundID)
			if err != nil {
				return err
			}
			if err := engine.CheckWaterfallBasis(dist, engine.CapitalCalledTotal(calls), engine.DistributionsPaidTotal(dists)); err != nil {
				return err
			}
		}

		ts := now()
		res, err := engine.ApplyDistributionPayment(dist, commitments, ts)
		if err != nil {
			return err
		}

		if err := statemachine.NewDistributionFSM(res.Distribution).Pay(ctx); err != nil {
			return err
		}

		if err := uc.Repos.Distributions.Update(ctx, tx, res.Distribution); err != nil {
			return err
		}
		for _, c := range res.Commitments {
			if err := uc.Repos.Commitments.Update(ctx, tx, c); err != nil {
				return err
			}
		}

		paid = res.Distribution
		return uc.emit(ctx, tx, domain.AggregateTypeDistribution, dist.ID, domain.EventTypeDistributionPaid, map[string]any{
			"fund_id":   dist.FundID,
			"total":     dist.TotalDistributionAmount.String(),
			"total_net": res.Distribution.TotalNet().String(),
			"lp_count":  len(res.Commitments),
		})
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, paid.FundID)
	uc.Metrics.RecordDistribution(string(paid.Status), paid.TotalDistributionAmount.InexactFloat64())
	uc.Logger.Info().
		Str("fund_id", paid.FundID).
		Str("distribution_id", paid.ID).
		Msg("distribution paid")

	return paid, nil
}

// GetDistribution retrieves a distribution by ID.
func (uc *DistributionUseCase) GetDistribution(ctx context.Context, id string) (*domain.Distribution, error) {
	return uc.Repos.Distributions.GetByID(ctx, id)
}

// ListDistributions lists a fund's distributions.
func (uc *DistributionUseCase) ListDistributions(ctx context.Context, fundID string) ([]*domain.Distribution, error) {
	if _, err := uc.Repos.Funds.GetByID(ctx, fundID); err != nil {
		return nil, err
	}
	return uc.Repos.Distributions.ListByFund(ctx, fundID)
}
