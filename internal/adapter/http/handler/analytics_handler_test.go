package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
)

type analyticsServiceStub struct {
	waterfallFn     func(ctx context.Context, fundID string, amount decimal.Decimal) (*domain.WaterfallCalculation, error)
	freshMetricsFn  func(ctx context.Context, fundID string) (*domain.FundMetrics, error)
	cachedMetricsFn func(ctx context.Context, fundID string) (*domain.FundMetrics, error)
	concentrationFn func(ctx context.Context, fundID string) (*domain.ConcentrationReport, error)
}

func (s *analyticsServiceStub) CalculateWaterfall(ctx context.Context, fundID string, amount decimal.Decimal) (*domain.WaterfallCalculation, error) {
	return s.waterfallFn(ctx, fundID, amount)
}

func (s *analyticsServiceStub) CalculateFundMetrics(ctx context.Context, fundID string) (*domain.FundMetrics, error) {
	return s.freshMetricsFn(ctx, fundID)
}

func (s *analyticsServiceStub) GetCachedFundMetrics(ctx context.Context, fundID string) (*domain.FundMetrics, error) {
	return s.cachedMetricsFn(ctx, fundID)
}

func (s *analyticsServiceStub) CalculateConcentration(ctx context.Context, fundID string) (*domain.ConcentrationReport, error) {
	return s.concentrationFn(ctx, fundID)
}

type reportServiceFunc func(ctx context.Context, fundID string, w io.Writer) error

func (f reportServiceFunc) BuildLPReport(ctx context.Context, fundID string, w io.Writer) error {
	return f(ctx, fundID, w)
}

func TestAnalyticsHandler_Waterfall(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"valid amount", "?amount=1200000", http.StatusOK},
		{"missing amount", "", http.StatusBadRequest},
		{"malformed amount", "?amount=lots", http.StatusBadRequest},
		{"negative amount", "?amount=-5", http.StatusBadRequest},
	}

	handler := NewAnalyticsHandler(&analyticsServiceStub{
		waterfallFn: func(ctx context.Context, fundID string, amount decimal.Decimal) (*domain.WaterfallCalculation, error) {
			if amount.IsNegative() {
				return nil, domain.ErrNegativeValue
			}
			return &domain.WaterfallCalculation{FundID: fundID, DistributionAmount: amount}, nil
		},
	}, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withURLParam(httptest.NewRequest(http.MethodGet, "/funds/fund-1/waterfall"+tt.query, nil), "id", "fund-1")
			rec := httptest.NewRecorder()

			handler.Waterfall(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAnalyticsHandler_Metrics_FreshBypassesCache(t *testing.T) {
	var fresh, cached int
	handler := NewAnalyticsHandler(&analyticsServiceStub{
		freshMetricsFn: func(ctx context.Context, fundID string) (*domain.FundMetrics, error) {
			fresh++
			return &domain.FundMetrics{FundID: fundID}, nil
		},
		cachedMetricsFn: func(ctx context.Context, fundID string) (*domain.FundMetrics, error) {
			cached++
			return &domain.FundMetrics{FundID: fundID}, nil
		},
	}, nil)

	for _, target := range []string{"/funds/fund-1/metrics", "/funds/fund-1/metrics?fresh=true"} {
		req := withURLParam(httptest.NewRequest(http.MethodGet, target, nil), "id", "fund-1")
		rec := httptest.NewRecorder()
		handler.Metrics(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", target, rec.Code)
		}
	}

	if fresh != 1 || cached != 1 {
		t.Fatalf("expected one fresh and one cached call, got %d and %d", fresh, cached)
	}
}

func TestAnalyticsHandler_Metrics_ConsistencyViolation(t *testing.T) {
	handler := NewAnalyticsHandler(&analyticsServiceStub{
		cachedMetricsFn: func(ctx context.Context, fundID string) (*domain.FundMetrics, error) {
			return nil, domain.ErrNegativeUnfunded
		},
	}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/funds/fund-1/metrics", nil), "id", "fund-1")
	rec := httptest.NewRecorder()

	handler.Metrics(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestAnalyticsHandler_LPReport(t *testing.T) {
	t.Run("streams workbook", func(t *testing.T) {
		handler := NewAnalyticsHandler(nil, reportServiceFunc(func(ctx context.Context, fundID string, w io.Writer) error {
			_, err := w.Write([]byte("PK-workbook"))
			return err
		}))

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/funds/fund-1/reports/lp.xlsx", nil), "id", "fund-1")
		rec := httptest.NewRecorder()

		handler.LPReport(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
			t.Fatalf("unexpected content type %s", ct)
		}
		if rec.Body.String() != "PK-workbook" {
			t.Fatalf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("failure is json", func(t *testing.T) {
		handler := NewAnalyticsHandler(nil, reportServiceFunc(func(ctx context.Context, fundID string, w io.Writer) error {
			_, _ = w.Write([]byte("partial"))
			return domain.ErrFundNotFound
		}))

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/funds/missing/reports/lp.xlsx", nil), "id", "missing")
		rec := httptest.NewRecorder()

		handler.LPReport(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %s", ct)
		}
	})
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		db         pingerFunc
		redis      RedisPinger
		wantStatus int
	}{
		{"all healthy", ok, ok, http.StatusOK},
		{"redis disabled", ok, nil, http.StatusOK},
		{"postgres down", down, ok, http.StatusServiceUnavailable},
		{"redis down", ok, down, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.db, tt.redis)
			rec := httptest.NewRecorder()

			handler.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
