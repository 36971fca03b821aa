package usecase_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/engine"
	"github.com/iho/fundengine/internal/report"
	"github.com/iho/fundengine/internal/usecase"
	"github.com/iho/fundengine/internal/usecase/mocks"
)

// seedHistory gives fund-1 two LPs, 1,000,000 called, 400,000 paid out and
// two investments: one active, one realized.
func (h *harness) seedHistory(t *testing.T) {
	t.Helper()
	h.seedTwoLPs(t)
	h.seedFundedCall(t, "call-1", "1000000")
	h.store.PutDistribution(&domain.Distribution{
		ID:                      "dist-1",
		FundID:                  "fund-1",
		DistributionNumber:      1,
		TotalDistributionAmount: dec("400000"),
		GPAmount:                decimal.Zero,
		Status:                  domain.DistributionStatusPaid,
	})
	h.store.PutInvestment(&domain.PortfolioInvestment{
		ID:              "inv-1",
		FundID:          "fund-1",
		CompanyName:     "Acme Robotics",
		Sector:          "Industrials",
		Geography:       "US",
		Status:          domain.InvestmentStatusActive,
		TotalInvested:   dec("800000"),
		RealizedValue:   decimal.Zero,
		UnrealizedValue: dec("1200000"),
	})
	h.store.PutInvestment(&domain.PortfolioInvestment{
		ID:              "inv-2",
		FundID:          "fund-1",
		CompanyName:     "Beta Health",
		Sector:          "Healthcare",
		Geography:       "EU",
		Status:          domain.InvestmentStatusRealized,
		TotalInvested:   dec("200000"),
		RealizedValue:   dec("500000"),
		UnrealizedValue: decimal.Zero,
	})
}

func TestAnalyticsUseCase_CalculateFundMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness()
	h.seedHistory(t)

	cache := mocks.NewMockMetricsCache(ctrl)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), 10*time.Minute).Return(nil)

	rec := mocks.NewMockEngineMetrics(ctrl)
	rec.EXPECT().RecordMetricsRecompute(gomock.Any(), false)

	d := h.deps()
	d.Cache = cache
	d.Metrics = rec
	uc := usecase.NewAnalyticsUseCase(d, usecase.AnalyticsConfig{CacheTTL: 10 * time.Minute})

	m, err := uc.CalculateFundMetrics(context.Background(), "fund-1")
	require.NoError(t, err)

	assert.True(t, m.CapitalCalled.Equal(dec("1000000")))
	assert.True(t, m.DistributionsPaid.Equal(dec("400000")))
	assert.True(t, m.UnrealizedValue.Equal(dec("1200000")))
	assert.InDelta(t, 0.4, m.DPI, 1e-9)
	assert.InDelta(t, 1.2, m.RVPI, 1e-9)
	assert.Equal(t, 2, m.LPCount)
	assert.Equal(t, 1, m.ActiveInvestmentCount)
	assert.Equal(t, 1, m.RealizedInvestmentCount)

	snaps := h.store.MetricsSnapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, "fund-1", snaps[0].FundID)
	assert.Equal(t, []string{domain.EventTypeFundMetricsRecomputed}, eventTypes(h.store.Events()))

	// Reads ran in a read-only snapshot, the write in its own transaction.
	var readOnly, readWrite int
	for _, tx := range h.txm.Txs {
		if tx.ReadOnly {
			readOnly++
		} else {
			readWrite++
		}
	}
	assert.Equal(t, 1, readOnly)
	assert.Equal(t, 1, readWrite)
}

func TestAnalyticsUseCase_CalculateFundMetrics_Idempotent(t *testing.T) {
	h := newHarness()
	h.seedHistory(t)
	uc := usecase.NewAnalyticsUseCase(h.deps(), usecase.AnalyticsConfig{})
	ctx := context.Background()

	first, err := uc.CalculateFundMetrics(ctx, "fund-1")
	require.NoError(t, err)
	second, err := uc.CalculateFundMetrics(ctx, "fund-1")
	require.NoError(t, err)

	assert.Equal(t, first.TVPI, second.TVPI)
	assert.Equal(t, first.IRR, second.IRR)
	assert.True(t, first.UnfundedCommitments.Equal(second.UnfundedCommitments))
	assert.Len(t, h.store.MetricsSnapshots(), 2)
}

func TestAnalyticsUseCase_CalculateFundMetrics_ConsistencyViolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness()
	h.seedFund(t)
	broken := h.seedCommitment(t, "c1", "1000000", "100")
	broken.UnfundedCommitment = dec("-1")
	h.store.PutCommitment(broken)

	rec := mocks.NewMockEngineMetrics(ctrl)
	rec.EXPECT().RecordConsistencyViolation("fund_metrics")

	d := h.deps()
	d.Metrics = rec
	uc := usecase.NewAnalyticsUseCase(d, usecase.AnalyticsConfig{})

	_, err := uc.CalculateFundMetrics(context.Background(), "fund-1")
	require.ErrorIs(t, err, domain.ErrConsistencyViolation)
	assert.Empty(t, h.store.MetricsSnapshots())
}

func TestAnalyticsUseCase_GetCachedFundMetrics(t *testing.T) {
	t.Run("hit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := newHarness()

		cached := &domain.FundMetrics{FundID: "fund-1", TVPI: 1.5}
		cache := mocks.NewMockMetricsCache(ctrl)
		cache.EXPECT().Get(gomock.Any(), "fund-1").Return(cached, nil)

		rec := mocks.NewMockEngineMetrics(ctrl)
		rec.EXPECT().RecordMetricsRecompute(gomock.Any(), true)

		d := h.deps()
		d.Cache = cache
		d.Metrics = rec
		uc := usecase.NewAnalyticsUseCase(d, usecase.AnalyticsConfig{})

		m, err := uc.GetCachedFundMetrics(context.Background(), "fund-1")
		require.NoError(t, err)
		assert.Same(t, cached, m)
		assert.Empty(t, h.txm.Txs)
	})

	t.Run("miss", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := newHarness()
		h.seedHistory(t)

		cache := mocks.NewMockMetricsCache(ctrl)
		gomock.InOrder(
			cache.EXPECT().Get(gomock.Any(), "fund-1").Return(nil, nil),
			cache.EXPECT().Set(gomock.Any(), gomock.Any(), usecase.DefaultMetricsCacheTTL).Return(nil),
		)

		d := h.deps()
		d.Cache = cache
		uc := usecase.NewAnalyticsUseCase(d, usecase.AnalyticsConfig{})

		m, err := uc.GetCachedFundMetrics(context.Background(), "fund-1")
		require.NoError(t, err)
		assert.InDelta(t, 0.4, m.DPI, 1e-9)
	})
}

func TestAnalyticsUseCase_CalculateWaterfall(t *testing.T) {
	h := newHarness()
	h.seedTwoLPs(t)
	h.seedFundedCall(t, "call-1", "1000000")
	uc := usecase.NewAnalyticsUseCase(h.deps(), usecase.AnalyticsConfig{})
	ctx := context.Background()

	calc, err := uc.CalculateWaterfall(ctx, "fund-1", dec("1200000"))
	require.NoError(t, err)
	assert.True(t, calc.TotalToLP.Equal(dec("1160000")))
	assert.True(t, calc.TotalToGP.Equal(dec("40000")))
	assert.True(t, calc.TotalToLP.Add(calc.TotalToGP).Equal(dec("1200000")))

	// A preview writes nothing.
	assert.Empty(t, h.store.Events())
	for _, tx := range h.txm.Txs {
		assert.True(t, tx.ReadOnly)
	}

	_, err = uc.CalculateWaterfall(ctx, "fund-1", dec("-1"))
	require.ErrorIs(t, err, domain.ErrNegativeValue)

	_, err = uc.CalculateWaterfall(ctx, "missing", dec("100"))
	require.ErrorIs(t, err, domain.ErrFundNotFound)
}

func TestAnalyticsUseCase_CalculateConcentration(t *testing.T) {
	h := newHarness()
	h.seedHistory(t)
	uc := usecase.NewAnalyticsUseCase(h.deps(), usecase.AnalyticsConfig{
		Concentration: engine.ConcentrationPolicy{MinInvestments: 2, MaxSinglePercent: 90, MaxSectorPercent: 90},
	})

	r, err := uc.CalculateConcentration(context.Background(), "fund-1")
	require.NoError(t, err)
	assert.Equal(t, 2, r.InvestmentCount)
	assert.InDelta(t, 80.0, r.LargestInvestmentPercent, 1e-9)
	assert.InDelta(t, 100.0, r.Top5InvestmentsPercent, 1e-9)
	assert.Empty(t, r.Notes)
	require.Len(t, r.BySector, 2)
	assert.Equal(t, "Industrials", r.BySector[0].Name)

	_, err = uc.CalculateConcentration(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrFundNotFound)
}

func TestAnalyticsUseCase_RefreshAllMetrics(t *testing.T) {
	h := newHarness()
	h.seedHistory(t)
	h.store.PutFund(&domain.Fund{ID: "fund-2", Name: "Empty Fund", Currency: "USD", Terms: standardTerms()})
	uc := usecase.NewAnalyticsUseCase(h.deps(), usecase.AnalyticsConfig{})

	n, err := uc.RefreshAllMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	snaps := h.store.MetricsSnapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, "fund-2", snaps[1].FundID)
	assert.Zero(t, snaps[1].TVPI)
}

func TestReportUseCase_BuildLPReport(t *testing.T) {
	h := newHarness()
	h.seedHistory(t)
	analytics := usecase.NewAnalyticsUseCase(h.deps(), usecase.AnalyticsConfig{})
	uc := usecase.NewReportUseCase(h.deps(), analytics)

	var buf bytes.Buffer
	require.NoError(t, uc.BuildLPReport(context.Background(), "fund-1", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(report.SheetLPs)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	err = uc.BuildLPReport(context.Background(), "missing", &bytes.Buffer{})
	require.ErrorIs(t, err, domain.ErrFundNotFound)
}
