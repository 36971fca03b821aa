package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/fundengine/internal/adapter/http/dto"
	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/usecase"
)

// CapitalCallService defines the behavior needed by CapitalCallHandler.
type CapitalCallService interface {
	CreateCapitalCall(ctx context.Context, input usecase.CreateCapitalCallInput) (*domain.CapitalCall, error)
	IssueCapitalCall(ctx context.Context, callID string) (*domain.CapitalCall, error)
	CancelCapitalCall(ctx context.Context, callID string) (*domain.CapitalCall, error)
	RecordLPFunding(ctx context.Context, input usecase.RecordFundingInput) (*domain.CapitalCall, error)
	GetCapitalCall(ctx context.Context, id string) (*domain.CapitalCall, error)
	ListCapitalCalls(ctx context.Context, fundID string) ([]*domain.CapitalCall, error)
}

// CapitalCallHandler handles capital call requests.
type CapitalCallHandler struct {
	callUC CapitalCallService
}

// NewCapitalCallHandler creates a new CapitalCallHandler.
func NewCapitalCallHandler(callUC CapitalCallService) *CapitalCallHandler {
	return &CapitalCallHandler{callUC: callUC}
}

// Create drafts a capital call and allocates it across LPs.
func (h *CapitalCallHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCapitalCallRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	call, err := h.callUC.CreateCapitalCall(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "failed to create capital call", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CapitalCallFromDomain(call))
}

// Get retrieves a capital call by ID.
func (h *CapitalCallHandler) Get(w http.ResponseWriter, r *http.Request) {
	call, err := h.callUC.GetCapitalCall(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get capital call", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CapitalCallFromDomain(call))
}

// List lists the fund's capital calls.
func (h *CapitalCallHandler) List(w http.ResponseWriter, r *http.Request) {
	calls, err := h.callUC.ListCapitalCalls(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list capital calls", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewList(calls, dto.CapitalCallFromDomain))
}

// Issue moves a draft call to issued.
func (h *CapitalCallHandler) Issue(w http.ResponseWriter, r *http.Request) {
	call, err := h.callUC.IssueCapitalCall(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to issue capital call", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CapitalCallFromDomain(call))
}

// Cancel cancels a call that has not received funding.
func (h *CapitalCallHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	call, err := h.callUC.CancelCapitalCall(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to cancel capital call", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CapitalCallFromDomain(call))
}

// RecordFunding applies an LP payment to the call.
func (h *CapitalCallHandler) RecordFunding(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordFundingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	call, err := h.callUC.RecordLPFunding(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "failed to record funding", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CapitalCallFromDomain(call))
}
