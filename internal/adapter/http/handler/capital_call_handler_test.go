package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/usecase"
)

type capitalCallServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateCapitalCallInput) (*domain.CapitalCall, error)
	issueFn   func(ctx context.Context, callID string) (*domain.CapitalCall, error)
	cancelFn  func(ctx context.Context, callID string) (*domain.CapitalCall, error)
	fundingFn func(ctx context.Context, input usecase.RecordFundingInput) (*domain.CapitalCall, error)
	getFn     func(ctx context.Context, id string) (*domain.CapitalCall, error)
	listFn    func(ctx context.Context, fundID string) ([]*domain.CapitalCall, error)
}

func (s *capitalCallServiceStub) CreateCapitalCall(ctx context.Context, input usecase.CreateCapitalCallInput) (*domain.CapitalCall, error) {
	return s.createFn(ctx, input)
}

func (s *capitalCallServiceStub) IssueCapitalCall(ctx context.Context, callID string) (*domain.CapitalCall, error) {
	return s.issueFn(ctx, callID)
}

func (s *capitalCallServiceStub) CancelCapitalCall(ctx context.Context, callID string) (*domain.CapitalCall, error) {
	return s.cancelFn(ctx, callID)
}

func (s *capitalCallServiceStub) RecordLPFunding(ctx context.Context, input usecase.RecordFundingInput) (*domain.CapitalCall, error) {
	return s.fundingFn(ctx, input)
}

func (s *capitalCallServiceStub) GetCapitalCall(ctx context.Context, id string) (*domain.CapitalCall, error) {
	return s.getFn(ctx, id)
}

func (s *capitalCallServiceStub) ListCapitalCalls(ctx context.Context, fundID string) ([]*domain.CapitalCall, error) {
	return s.listFn(ctx, fundID)
}

func TestCapitalCallHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"created", nil, http.StatusCreated},
		{"exceeds unfunded", domain.ErrCallExceedsUnfunded, http.StatusBadRequest},
		{"unknown fund", domain.ErrFundNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCapitalCallHandler(&capitalCallServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateCapitalCallInput) (*domain.CapitalCall, error) {
					if input.FundID != "fund-1" {
						t.Fatalf("unexpected fund %q", input.FundID)
					}
					if !input.Components.Investment.Equal(decimal.NewFromInt(1000000)) {
						t.Fatalf("unexpected components %+v", input.Components)
					}
					if tt.err != nil {
						return nil, tt.err
					}
					return &domain.CapitalCall{ID: "call-1", FundID: "fund-1", Status: domain.CallStatusDraft}, nil
				},
			})

			body := `{"purpose":"Series A","investment":"1000000"}`
			req := withURLParam(httptest.NewRequest(http.MethodPost, "/funds/fund-1/capital-calls", bytes.NewBufferString(body)), "id", "fund-1")
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCapitalCallHandler_RecordFunding(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"applied", nil, http.StatusOK},
		{"overfunding", domain.ErrOverfunding, http.StatusBadRequest},
		{"cancelled call", domain.ErrCallNotFundable, http.StatusUnprocessableEntity},
		{"conflict", fmt.Errorf("%w after 3 retries", domain.ErrConcurrentWriteRetry), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured usecase.RecordFundingInput
			handler := NewCapitalCallHandler(&capitalCallServiceStub{
				fundingFn: func(ctx context.Context, input usecase.RecordFundingInput) (*domain.CapitalCall, error) {
					captured = input
					if tt.err != nil {
						return nil, tt.err
					}
					return &domain.CapitalCall{ID: input.CallID, Status: domain.CallStatusPartiallyFunded}, nil
				},
			})

			body := `{"commitment_id":"c1","amount":"250000"}`
			req := withURLParam(httptest.NewRequest(http.MethodPost, "/capital-calls/call-1/fundings", bytes.NewBufferString(body)), "id", "call-1")
			rec := httptest.NewRecorder()

			handler.RecordFunding(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if captured.CallID != "call-1" || captured.CommitmentID != "c1" {
				t.Fatalf("unexpected input %+v", captured)
			}
		})
	}
}

func TestCapitalCallHandler_IssueInvalidTransition(t *testing.T) {
	handler := NewCapitalCallHandler(&capitalCallServiceStub{
		issueFn: func(ctx context.Context, callID string) (*domain.CapitalCall, error) {
			return nil, domain.ErrInvalidStateChange
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/capital-calls/call-1/issue", nil), "id", "call-1")
	rec := httptest.NewRecorder()

	handler.Issue(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}
