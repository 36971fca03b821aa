package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/fundengine/internal/adapter/http/dto"
	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/usecase"
)

// FundService defines the behavior needed by FundHandler.
type FundService interface {
	CreateFund(ctx context.Context, input usecase.CreateFundInput) (*domain.Fund, error)
	GetFund(ctx context.Context, id string) (*domain.Fund, error)
	ListFunds(ctx context.Context, limit, offset int) ([]*domain.Fund, error)
	UpdateFundTerms(ctx context.Context, fundID string, terms domain.FundTerms) (*domain.Fund, error)
	AddCommitment(ctx context.Context, input usecase.AddCommitmentInput) (*domain.LPCommitment, error)
	GetCommitment(ctx context.Context, id string) (*domain.LPCommitment, error)
	ListCommitments(ctx context.Context, fundID string) ([]*domain.LPCommitment, error)
}

// FundHandler handles fund and LP commitment requests.
type FundHandler struct {
	fundUC FundService
}

// NewFundHandler creates a new FundHandler.
func NewFundHandler(fundUC FundService) *FundHandler {
	return &FundHandler{fundUC: fundUC}
}

// Create creates a new fund.
func (h *FundHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFundRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fund, err := h.fundUC.CreateFund(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create fund", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FundFromDomain(fund))
}

// Get retrieves a fund by ID.
func (h *FundHandler) Get(w http.ResponseWriter, r *http.Request) {
	fund, err := h.fundUC.GetFund(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get fund", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FundFromDomain(fund))
}

// List lists funds.
func (h *FundHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	funds, err := h.fundUC.ListFunds(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list funds", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewList(funds, dto.FundFromDomain))
}

// UpdateTerms replaces the fund's economic terms.
func (h *FundHandler) UpdateTerms(w http.ResponseWriter, r *http.Request) {
	var req dto.FundTermsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fund, err := h.fundUC.UpdateFundTerms(r.Context(), chi.URLParam(r, "id"), req.ToDomain())
	if err != nil {
		writeDomainError(w, "failed to update terms", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FundFromDomain(fund))
}

// AddCommitment admits an LP to the fund.
func (h *FundHandler) AddCommitment(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCommitmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	commitment, err := h.fundUC.AddCommitment(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "failed to add commitment", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CommitmentFromDomain(commitment))
}

// GetCommitment retrieves an LP commitment by ID.
func (h *FundHandler) GetCommitment(w http.ResponseWriter, r *http.Request) {
	commitment, err := h.fundUC.GetCommitment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get commitment", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CommitmentFromDomain(commitment))
}

// ListCommitments lists the fund's LP commitments.
func (h *FundHandler) ListCommitments(w http.ResponseWriter, r *http.Request) {
	commitments, err := h.fundUC.ListCommitments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list commitments", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewList(commitments, dto.CommitmentFromDomain))
}
