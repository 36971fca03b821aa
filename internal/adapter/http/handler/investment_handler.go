package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/fundengine/internal/adapter/http/dto"
	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/usecase"
)

// PortfolioService defines the behavior needed by InvestmentHandler.
type PortfolioService interface {
	AddInvestment(ctx context.Context, input usecase.AddInvestmentInput) (*domain.PortfolioInvestment, error)
	UpdateValuation(ctx context.Context, input usecase.UpdateValuationInput) (*domain.PortfolioInvestment, error)
	GetInvestment(ctx context.Context, id string) (*domain.PortfolioInvestment, error)
	ListInvestments(ctx context.Context, fundID string) ([]*domain.PortfolioInvestment, error)
}

// InvestmentHandler handles portfolio investment requests.
type InvestmentHandler struct {
	portfolioUC PortfolioService
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(portfolioUC PortfolioService) *InvestmentHandler {
	return &InvestmentHandler{portfolioUC: portfolioUC}
}

// Create records a new investment for the fund in the URL.
func (h *InvestmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.AddInvestmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	inv, err := h.portfolioUC.AddInvestment(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "failed to add investment", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.InvestmentFromDomain(inv))
}

// Get retrieves an investment by ID.
func (h *InvestmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.portfolioUC.GetInvestment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get investment", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InvestmentFromDomain(inv))
}

// List lists the fund's investments.
func (h *InvestmentHandler) List(w http.ResponseWriter, r *http.Request) {
	investments, err := h.portfolioUC.ListInvestments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list investments", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewList(investments, dto.InvestmentFromDomain))
}

// UpdateValuation records a revaluation.
func (h *InvestmentHandler) UpdateValuation(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateValuationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	inv, err := h.portfolioUC.UpdateValuation(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "failed to update valuation", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InvestmentFromDomain(inv))
}
