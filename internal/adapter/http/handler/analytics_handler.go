package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/adapter/http/dto"
	"github.com/iho/fundengine/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalyticsService defines the behavior needed by AnalyticsHandler.
type AnalyticsService interface {
	CalculateWaterfall(ctx context.Context, fundID string, amount decimal.Decimal) (*domain.WaterfallCalculation, error)
	CalculateFundMetrics(ctx context.Context, fundID string) (*domain.FundMetrics, error)
	GetCachedFundMetrics(ctx context.Context, fundID string) (*domain.FundMetrics, error)
	CalculateConcentration(ctx context.Context, fundID string) (*domain.ConcentrationReport, error)
}

// ReportService renders LP reports.
type ReportService interface {
	BuildLPReport(ctx context.Context, fundID string, w io.Writer) error
}

// AnalyticsHandler serves waterfall previews, fund metrics, concentration
// and LP reports.
type AnalyticsHandler struct {
	analyticsUC AnalyticsService
	reportUC    ReportService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsUC AnalyticsService, reportUC ReportService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsUC: analyticsUC, reportUC: reportUC}
}

// Waterfall previews how ?amount= would be split between LPs and the GP.
func (h *AnalyticsHandler) Waterfall(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("amount")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing amount", "")
		return
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	calc, err := h.analyticsUC.CalculateWaterfall(r.Context(), chi.URLParam(r, "id"), amount)
	if err != nil {
		writeDomainError(w, "failed to calculate waterfall", err)
		return
	}

	writeJSON(w, http.StatusOK, calc)
}

// Metrics returns fund metrics. Cached values are served unless ?fresh=true.
func (h *AnalyticsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "id")

	var (
		metrics *domain.FundMetrics
		err     error
	)
	if r.URL.Query().Get("fresh") == "true" {
		metrics, err = h.analyticsUC.CalculateFundMetrics(r.Context(), fundID)
	} else {
		metrics, err = h.analyticsUC.GetCachedFundMetrics(r.Context(), fundID)
	}
	if err != nil {
		writeDomainError(w, "failed to calculate metrics", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FundMetricsFromDomain(metrics))
}

// Concentration returns the portfolio concentration report.
func (h *AnalyticsHandler) Concentration(w http.ResponseWriter, r *http.Request) {
	report, err := h.analyticsUC.CalculateConcentration(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to calculate concentration", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// LPReport streams the LP statement workbook.
func (h *AnalyticsHandler) LPReport(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "id")

	// Buffer so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := h.reportUC.BuildLPReport(r.Context(), fundID, &buf); err != nil {
		writeDomainError(w, "failed to build report", err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="lp-report-`+fundID+`.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
