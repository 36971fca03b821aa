package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/fundengine/internal/adapter/http/dto"
	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/usecase"
)

type distributionServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateDistributionInput) (*domain.Distribution, error)
	approveFn func(ctx context.Context, id string) (*domain.Distribution, error)
	cancelFn  func(ctx context.Context, id string) (*domain.Distribution, error)
	payFn     func(ctx context.Context, id string) (*domain.Distribution, error)
	getFn     func(ctx context.Context, id string) (*domain.Distribution, error)
	listFn    func(ctx context.Context, fundID string) ([]*domain.Distribution, error)
}

func (s *distributionServiceStub) CreateDistribution(ctx context.Context, input usecase.CreateDistributionInput) (*domain.Distribution, error) {
	return s.createFn(ctx, input)
}

func (s *distributionServiceStub) ApproveDistribution(ctx context.Context, id string) (*domain.Distribution, error) {
	return s.approveFn(ctx, id)
}

func (s *distributionServiceStub) CancelDistribution(ctx context.Context, id string) (*domain.Distribution, error) {
	return s.cancelFn(ctx, id)
}

func (s *distributionServiceStub) PayDistribution(ctx context.Context, id string) (*domain.Distribution, error) {
	return s.payFn(ctx, id)
}

func (s *distributionServiceStub) GetDistribution(ctx context.Context, id string) (*domain.Distribution, error) {
	return s.getFn(ctx, id)
}

func (s *distributionServiceStub) ListDistributions(ctx context.Context, fundID string) ([]*domain.Distribution, error) {
	return s.listFn(ctx, fundID)
}

func TestDistributionHandler_Create(t *testing.T) {
	var captured usecase.CreateDistributionInput
	handler := NewDistributionHandler(&distributionServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateDistributionInput) (*domain.Distribution, error) {
			captured = input
			return &domain.Distribution{ID: "dist-1", FundID: input.FundID, Method: input.Method, Status: domain.DistributionStatusDraft}, nil
		},
	})

	body := `{"method":"waterfall","capital_gain":"1200000","record_date":"2024-06-30T00:00:00Z","distribution_date":"2024-07-15T00:00:00Z"}`
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/funds/fund-1/distributions", bytes.NewBufferString(body)), "id", "fund-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Method != domain.DistributionWaterfall || captured.RecordDate.IsZero() {
		t.Fatalf("unexpected input %+v", captured)
	}

	var resp dto.DistributionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "draft" {
		t.Fatalf("expected draft, got %s", resp.Status)
	}
}

func TestDistributionHandler_Lifecycle(t *testing.T) {
	stub := &distributionServiceStub{
		approveFn: func(ctx context.Context, id string) (*domain.Distribution, error) {
			return &domain.Distribution{ID: id, Status: domain.DistributionStatusApproved}, nil
		},
		payFn: func(ctx context.Context, id string) (*domain.Distribution, error) {
			return nil, domain.ErrDistributionNotPayable
		},
		cancelFn: func(ctx context.Context, id string) (*domain.Distribution, error) {
			return nil, domain.ErrDistributionNotFound
		},
	}
	handler := NewDistributionHandler(stub)

	tests := []struct {
		name       string
		call       http.HandlerFunc
		wantStatus int
	}{
		{"approve", handler.Approve, http.StatusOK},
		{"pay unapproved", handler.Pay, http.StatusUnprocessableEntity},
		{"cancel missing", handler.Cancel, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withURLParam(httptest.NewRequest(http.MethodPost, "/distributions/dist-1", nil), "id", "dist-1")
			rec := httptest.NewRecorder()

			tt.call(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}
