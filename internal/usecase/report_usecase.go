package usecase

import (
	"context"
	"io"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/report"
)

// ReportUseCase builds LP-facing reports.
type ReportUseCase struct {
	unitOfWork
	analytics *AnalyticsUseCase
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(d Deps, analytics *AnalyticsUseCase) *ReportUseCase {
	d.Logger = d.Logger.With().Str("usecase", "report").Logger()
	return &ReportUseCase{unitOfWork: newUnitOfWork(d), analytics: analytics}
}

// BuildLPReport writes the LP capital-account workbook for a fund to w.
func (uc *ReportUseCase) BuildLPReport(ctx context.Context, fundID string, w io.Writer) error {
	var (
		fund        *domain.Fund
		commitments []*domain.LPCommitment
	)
	err := uc.readSnapshot(ctx, func(ctx context.Context, tx Transaction) error {
		var err error
		if fund, err = uc.Repos.Funds.GetByIDTx(ctx, tx, fundID); err != nil {
			return err
		}
		commitments, err = uc.Repos.Commitments.ListByFundTx(ctx, tx, fundID)
		return err
	})
	if err != nil {
		return err
	}

	metrics, err := uc.analytics.GetCachedFundMetrics(ctx, fundID)
	if err != nil {
		return err
	}

	return report.WriteLPWorkbook(w, report.LPReport{
		Fund:        fund,
		Commitments: commitments,
		Metrics:     metrics,
	})
}
