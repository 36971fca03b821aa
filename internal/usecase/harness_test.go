package usecase_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/usecase"
	"github.com/iho/fundengine/internal/usecase/mocks"
)

type harness struct {
	store       *mocks.Store
	txm         *mocks.MockTransactionManager
	retrier     *mocks.MockRetrier
	funds       *mocks.MockFundRepository
	commitments *mocks.MockCommitmentRepository
	calls       *mocks.MockCapitalCallRepository
	dists       *mocks.MockDistributionRepository
	investments *mocks.MockInvestmentRepository
	metrics     *mocks.MockMetricsRepository
	outbox      *mocks.MockOutboxRepository
}

func newHarness() *harness {
	store := mocks.NewStore()
	return &harness{
		store:       store,
		txm:         mocks.NewMockTransactionManager(store),
		retrier:     &mocks.MockRetrier{},
		funds:       mocks.NewMockFundRepository(store),
		commitments: mocks.NewMockCommitmentRepository(store),
		calls:       mocks.NewMockCapitalCallRepository(store),
		dists:       mocks.NewMockDistributionRepository(store),
		investments: mocks.NewMockInvestmentRepository(store),
		metrics:     mocks.NewMockMetricsRepository(store),
		outbox:      mocks.NewMockOutboxRepository(store),
	}
}

func (h *harness) deps() usecase.Deps {
	return usecase.Deps{
		TxManager: h.txm,
		Retrier:   h.retrier,
		Repos: usecase.Repositories{
			Funds:         h.funds,
			Commitments:   h.commitments,
			CapitalCalls:  h.calls,
			Distributions: h.dists,
			Investments:   h.investments,
			Metrics:       h.metrics,
			Outbox:        h.outbox,
		},
		IDGen:  mocks.NewMockIDGenerator(),
		Logger: zerolog.Nop(),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func standardTerms() domain.FundTerms {
	return domain.FundTerms{
		ManagementFeeRate:   dec("2"),
		CarriedInterestRate: dec("20"),
		PreferredReturnRate: dec("8"),
		GPCatchupRate:       dec("100"),
		WaterfallType:       domain.WaterfallEuropean,
		CatchupBasis:        domain.CatchupBasisPreferredReturn,
	}
}

func (h *harness) seedFund(t *testing.T) *domain.Fund {
	t.Helper()
	f := &domain.Fund{
		ID:            "fund-1",
		Name:          "Growth Fund I",
		Currency:      "USD",
		Status:        domain.FundStatusInvesting,
		TargetSize:    dec("10000000"),
		HardCap:       dec("12000000"),
		MinCommitment: dec("100000"),
		MaxCommitment: dec("10000000"),
		Terms:         standardTerms(),
		Version:       1,
		CreatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	h.store.PutFund(f)
	return f
}

// seedCommitment stores an uncalled commitment.
func (h *harness) seedCommitment(t *testing.T, id, amount, ownership string) *domain.LPCommitment {
	t.Helper()
	c := &domain.LPCommitment{
		ID:                    id,
		FundID:                "fund-1",
		InvestorID:            "inv-" + id,
		InvestorName:          "Investor " + id,
		Currency:              "USD",
		ExchangeRate:          decimal.NewFromInt(1),
		CommitmentAmount:      dec(amount),
		CapitalCalled:         decimal.Zero,
		UnfundedCommitment:    dec(amount),
		CapitalCalledPercent:  decimal.Zero,
		DistributionsReceived: decimal.Zero,
		OwnershipPercent:      dec(ownership),
		Status:                domain.CommitmentStatusActive,
		Version:               1,
	}
	h.store.PutCommitment(c)
	return c
}

// seedTwoLPs stores a 6M / 4M commitment pair on fund-1.
func (h *harness) seedTwoLPs(t *testing.T) {
	t.Helper()
	h.seedFund(t)
	h.seedCommitment(t, "c1", "6000000", "60")
	h.seedCommitment(t, "c2", "4000000", "40")
}

func eventTypes(events []*domain.OutboxEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.EventType
	}
	return out
}
