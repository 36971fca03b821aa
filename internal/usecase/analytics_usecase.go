package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/engine"
)

// AnalyticsConfig tunes the derived calculations.
type AnalyticsConfig struct {
	HoldingYears  float64
	Concentration engine.ConcentrationPolicy
	CacheTTL      time.Duration
}

// AnalyticsUseCase computes waterfall previews, fund metrics and
// concentration reports. Nothing it computes is edited in place; every
// result is a fresh projection of the fund's records.
type AnalyticsUseCase struct {
	unitOfWork
	cfg AnalyticsConfig
}

// NewAnalyticsUseCase creates a new AnalyticsUseCase.
func NewAnalyticsUseCase(d Deps, cfg AnalyticsConfig) *AnalyticsUseCase {
	d.Logger = d.Logger.With().Str("usecase", "analytics").Logger()
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultMetricsCacheTTL
	}
	return &AnalyticsUseCase{unitOfWork: newUnitOfWork(d), cfg: cfg}
}

// CalculateWaterfall previews how amount would flow through the fund's
// waterfall given its history. Nothing is written.
func (uc *AnalyticsUseCase) CalculateWaterfall(ctx context.Context, fundID string, amount decimal.Decimal) (*domain.WaterfallCalculation, error) {
	if amount.IsNegative() {
		return nil, domain.ErrNegativeValue
	}

	var calc *domain.WaterfallCalculation
	err := uc.readSnapshot(ctx, func(ctx context.Context, tx Transaction) error {
		fund, err := uc.Repos.Funds.GetByIDTx(ctx, tx, fundID)
		if err != nil {
			return err
		}
		calls, err := uc.Repos.CapitalCalls.ListByFundTx(ctx, tx, fundID)
		if err != nil {
			return err
		}
		dists, err := uc.Repos.Distributions.ListByFundTx(ctx, tx, fundID)
		if err != nil {
			return err
		}

		calc = engine.ComputeWaterfall(engine.WaterfallInput{
			FundID:             fund.ID,
			Terms:              fund.Terms,
			CapitalCalled:      engine.CapitalCalledTotal(calls),
			PriorDistributions: engine.DistributionsPaidTotal(dists),
			Amount:             amount,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return calc, nil
}

// CalculateFundMetrics recomputes a fund's metrics from one consistent
// snapshot of its records, stores the result as a new snapshot row and
// refreshes the cache.
func (uc *AnalyticsUseCase) CalculateFundMetrics(ctx context.Context, fundID string) (*domain.FundMetrics, error) {
	start := time.Now()

	snap, err := uc.snapshot(ctx, fundID)
	if err != nil {
		return nil, err
	}

	m, err := engine.ComputeFundMetrics(snap, engine.MetricsOptions{HoldingYears: uc.cfg.HoldingYears}, now())
	if err != nil {
		if domain.IsConsistencyViolation(err) {
			uc.Logger.Error().Err(err).Str("fund_id", fundID).Msg("fund records failed consistency check")
			uc.Metrics.RecordConsistencyViolation("fund_metrics")
		}
		return nil, err
	}

	if uc.Repos.Metrics != nil {
		err = uc.atomically(ctx, "save_fund_metrics", func(ctx context.Context, tx Transaction) error {
			if err := uc.Repos.Metrics.Save(ctx, tx, m); err != nil {
				return err
			}
			return uc.emit(ctx, tx, domain.AggregateTypeFund, fundID, domain.EventTypeFundMetricsRecomputed, map[string]any{
				"tvpi":           m.TVPI,
				"dpi":            m.DPI,
				"rvpi":           m.RVPI,
				"irr":            m.IRR,
				"capital_called": m.CapitalCalled.String(),
			})
		})
		if err != nil {
			return nil, err
		}
	}

	if uc.Cache != nil {
		if err := uc.Cache.Set(ctx, m, uc.cfg.CacheTTL); err != nil {
			uc.Logger.Warn().Err(err).Str("fund_id", fundID).Msg("failed to cache fund metrics")
		}
	}

	uc.Metrics.RecordMetricsRecompute(time.Since(start), false)
	return m, nil
}

// GetCachedFundMetrics returns cached metrics when present and recomputes on a miss.
func (uc *AnalyticsUseCase) GetCachedFundMetrics(ctx context.Context, fundID string) (*domain.FundMetrics, error) {
	if uc.Cache != nil {
		start := time.Now()
		m, err := uc.Cache.Get(ctx, fundID)
		if err != nil {
			uc.Logger.Warn().Err(err).Str("fund_id", fundID).Msg("metrics cache read failed")
		}
		if m != nil {
			uc.Metrics.RecordMetricsRecompute(time.Since(start), true)
			return m, nil
		}
	}
	return uc.CalculateFundMetrics(ctx, fundID)
}

// CalculateConcentration scores how concentrated the fund's portfolio is.
func (uc *AnalyticsUseCase) CalculateConcentration(ctx context.Context, fundID string) (*domain.ConcentrationReport, error) {
	var investments []*domain.PortfolioInvestment
	err := uc.readSnapshot(ctx, func(ctx context.Context, tx Transaction) error {
		if _, err := uc.Repos.Funds.GetByIDTx(ctx, tx, fundID); err != nil {
			return err
		}
		var err error
		investments, err = uc.Repos.Investments.ListByFundTx(ctx, tx, fundID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return engine.ScoreConcentration(fundID, investments, uc.cfg.Concentration), nil
}

// RefreshAllMetrics recomputes metrics for every fund. A failing fund does not
// stop the others; all failures are returned joined.
func (uc *AnalyticsUseCase) RefreshAllMetrics(ctx context.Context) (int, error) {
	refreshed := 0
	var errs []error

	for offset := 0; ; offset += refreshPageSize {
		funds, err := uc.Repos.Funds.List(ctx, refreshPageSize, offset)
		if err != nil {
			return refreshed, errors.Join(append(errs, err)...)
		}

		for _, f := range funds {
			if err := ctx.Err(); err != nil {
				return refreshed, errors.Join(append(errs, err)...)
			}
			if _, err := uc.CalculateFundMetrics(ctx, f.ID); err != nil {
				uc.Logger.Error().Err(err).Str("fund_id", f.ID).Msg("metrics refresh failed")
				errs = append(errs, err)
				continue
			}
			refreshed++
		}

		if len(funds) < refreshPageSize {
			break
		}
	}

	return refreshed, errors.Join(errs...)
}

func (uc *AnalyticsUseCase) snapshot(ctx context.Context, fundID string) (*domain.FundSnapshot, error) {
	snap := &domain.FundSnapshot{}
	err := uc.readSnapshot(ctx, func(ctx context.Context, tx Transaction) error {
		var err error
		if snap.Fund, err = uc.Repos.Funds.GetByIDTx(ctx, tx, fundID); err != nil {
			return err
		}
		if snap.Commitments, err = uc.Repos.Commitments.ListByFundTx(ctx, tx, fundID); err != nil {
			return err
		}
		if snap.CapitalCalls, err = uc.Repos.CapitalCalls.ListByFundTx(ctx, tx, fundID); err != nil {
			return err
		}
		if snap.Distributions, err = uc.Repos.Distributions.ListByFundTx(ctx, tx, fundID); err != nil {
			return err
		}
		snap.Investments, err = uc.Repos.Investments.ListByFundTx(ctx, tx, fundID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
