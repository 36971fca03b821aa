package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/fundengine/internal/adapter/http/dto"
	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/usecase"
)

// DistributionService defines the behavior needed by DistributionHandler.
type DistributionService interface {
	CreateDistribution(ctx context.Context, input usecase.CreateDistributionInput) (*domain.Distribution, error)
	ApproveDistribution(ctx context.Context, id string) (*domain.Distribution, error)
	CancelDistribution(ctx context.Context, id string) (*domain.Distribution, error)
	PayDistribution(ctx context.Context, id string) (*domain.Distribution, error)
	GetDistribution(ctx context.Context, id string) (*domain.Distribution, error)
	ListDistributions(ctx context.Context, fundID string) ([]*domain.Distribution, error)
}

// DistributionHandler handles distribution requests.
type DistributionHandler struct {
	distUC DistributionService
}

// NewDistributionHandler creates a new DistributionHandler.
func NewDistributionHandler(distUC DistributionService) *DistributionHandler {
	return &DistributionHandler{distUC: distUC}
}

// Create drafts a distribution and allocates it across LPs.
func (h *DistributionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDistributionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	dist, err := h.distUC.CreateDistribution(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "failed to create distribution", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.DistributionFromDomain(dist))
}

// Get retrieves a distribution by ID.
func (h *DistributionHandler) Get(w http.ResponseWriter, r *http.Request) {
	dist, err := h.distUC.GetDistribution(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get distribution", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DistributionFromDomain(dist))
}

// List lists the fund's distributions.
func (h *DistributionHandler) List(w http.ResponseWriter, r *http.Request) {
	dists, err := h.distUC.ListDistributions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list distributions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewList(dists, dto.DistributionFromDomain))
}

// Approve approves a draft distribution.
func (h *DistributionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "failed to approve distribution", h.distUC.ApproveDistribution)
}

// Pay pays an approved distribution to every LP.
func (h *DistributionHandler) Pay(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "failed to pay distribution", h.distUC.PayDistribution)
}

// Cancel cancels an unpaid distribution.
func (h *DistributionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "failed to cancel distribution", h.distUC.CancelDistribution)
}

func (h *DistributionHandler) lifecycle(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	step func(ctx context.Context, id string) (*domain.Distribution, error),
) {
	dist, err := step(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, message, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DistributionFromDomain(dist))
}
