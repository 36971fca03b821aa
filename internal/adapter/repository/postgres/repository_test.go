package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
)

var testTime = time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

func columns(list string) []string {
	parts := strings.Split(list, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func beginMockTx(t *testing.T, pool pgxmock.PgxPoolIface) *Tx {
	t.Helper()
	pool.ExpectBegin()
	tx, err := pool.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	return &Tx{tx: tx}
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFundRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery(`(?s)SELECT .+ FROM funds WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	repo := NewFundRepository(pool)
	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrFundNotFound) {
		t.Fatalf("expected ErrFundNotFound, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestFundRepositoryGetByIDForUpdate(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectQuery(`(?s)SELECT .+ FROM funds WHERE id = \$1 FOR UPDATE`).
		WithArgs("fund-1").
		WillReturnRows(pool.NewRows(columns(fundColumns)).AddRow(
			"fund-1", "Growth Fund I", "USD", domain.FundStatusInvesting,
			d("10000000"), d("12000000"), d("100000"), d("5000000"), d("0"),
			d("2"), d("20"), d("8"), d("100"),
			domain.WaterfallEuropean, domain.CatchupBasisPreferredReturn, int64(3), testTime, testTime,
		))

	repo := NewFundRepository(pool)
	fund, err := repo.GetByIDForUpdate(context.Background(), tx, "fund-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !fund.HardCap.Equal(d("12000000")) {
		t.Errorf("expected hard cap 12000000, got %s", fund.HardCap)
	}
	if !fund.Terms.CarriedInterestRate.Equal(d("20")) {
		t.Errorf("expected carry 20, got %s", fund.Terms.CarriedInterestRate)
	}
	if fund.Version != 3 {
		t.Errorf("expected version 3, got %d", fund.Version)
	}

	assertExpectations(t, pool)
}

func TestCommitmentRepositoryUpdateMissingRow(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectExec(`UPDATE lp_commitments SET`).
		WithArgs(anyArgs(12)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewCommitmentRepository(pool)
	err := repo.Update(context.Background(), tx, &domain.LPCommitment{ID: "gone"})
	if !errors.Is(err, domain.ErrCommitmentNotFound) {
		t.Fatalf("expected ErrCommitmentNotFound, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestCapitalCallRepositoryCreateWritesResponses(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	call := &domain.CapitalCall{
		ID:                "call-1",
		FundID:            "fund-1",
		CallNumber:        1,
		CallDate:          testTime,
		DueDate:           testTime.AddDate(0, 0, 10),
		Components:        domain.CallComponents{Investment: d("1000000")},
		TotalCallAmount:   d("1000000"),
		AmountOutstanding: d("1000000"),
		Status:            domain.CallStatusDraft,
		Version:           1,
		LPResponses: []domain.LPCallResponse{
			{CommitmentID: "c1", InvestorID: "inv-1", CallAmount: d("600000"), Status: domain.ResponseStatusPending},
			{CommitmentID: "c2", InvestorID: "inv-2", CallAmount: d("400000"), Status: domain.ResponseStatusPending},
		},
	}

	pool.ExpectExec(`INSERT INTO capital_calls`).
		WithArgs(anyArgs(18)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec(`INSERT INTO capital_call_responses`).
		WithArgs(0, "call-1", "c1", "inv-1", d("600000"), pgxmock.AnyArg(), domain.ResponseStatusPending, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec(`INSERT INTO capital_call_responses`).
		WithArgs(1, "call-1", "c2", "inv-2", d("400000"), pgxmock.AnyArg(), domain.ResponseStatusPending, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewCapitalCallRepository(pool)
	if err := repo.Create(context.Background(), tx, call); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, pool)
}

func TestCapitalCallRepositoryGetByIDAttachesResponses(t *testing.T) {
	pool := newMockPool(t)

	pool.ExpectQuery(`(?s)SELECT .+ FROM capital_calls WHERE id = \$1`).
		WithArgs("call-1").
		WillReturnRows(pool.NewRows(columns(callColumns)).AddRow(
			"call-1", "fund-1", 1, "Series A follow-on", testTime, testTime.AddDate(0, 0, 10),
			d("1000000"), d("0"), d("0"), d("0"),
			d("1000000"), d("600000"), d("400000"), d("60"),
			domain.CallStatusPartiallyFunded, int64(2), testTime, testTime,
		))

	fundedAt := testTime.AddDate(0, 0, 2)
	pool.ExpectQuery(`(?s)SELECT .+ FROM capital_call_responses`).
		WithArgs([]string{"call-1"}).
		WillReturnRows(pool.NewRows(columns(responseColumns)).
			AddRow("call-1", "c1", "inv-1", d("600000"), d("600000"), domain.ResponseStatusFunded, &fundedAt).
			AddRow("call-1", "c2", "inv-2", d("400000"), d("0"), domain.ResponseStatusPending, nil))

	repo := NewCapitalCallRepository(pool)
	call, err := repo.GetByID(context.Background(), "call-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(call.LPResponses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(call.LPResponses))
	}
	if r := call.Response("c1"); r == nil || r.Status != domain.ResponseStatusFunded || r.FundedAt == nil {
		t.Errorf("unexpected c1 response %+v", r)
	}
	if r := call.Response("c2"); r == nil || r.FundedAt != nil {
		t.Errorf("unexpected c2 response %+v", r)
	}

	assertExpectations(t, pool)
}

func TestDistributionRepositoryDecodesWaterfall(t *testing.T) {
	pool := newMockPool(t)

	waterfall := []byte(`{"fund_id":"fund-1","distribution_amount":"1200000","total_to_lp":"1160000","total_to_gp":"40000",
		"tiers":[{"tier":1,"kind":"return_of_capital","lp_share":"1000000","gp_share":"0","complete":true}]}`)

	pool.ExpectQuery(`(?s)SELECT .+ FROM distributions WHERE id = \$1`).
		WithArgs("dist-1").
		WillReturnRows(pool.NewRows(columns(distributionColumns)).AddRow(
			"dist-1", "fund-1", 1, testTime, testTime, domain.DistributionWaterfall,
			d("0"), d("1200000"), d("0"), d("0"), d("0"), d("0"),
			d("1200000"), d("40000"), waterfall, domain.DistributionStatusApproved, nil, int64(2), testTime, testTime,
		))
	pool.ExpectQuery(`(?s)SELECT .+ FROM distribution_allocations`).
		WithArgs([]string{"dist-1"}).
		WillReturnRows(pool.NewRows(columns(allocationColumns)).
			AddRow("dist-1", "c1", "inv-1", d("60"), d("696000"), d("0"), d("696000"), domain.AllocationStatusPending, nil))

	repo := NewDistributionRepository(pool)
	dist, err := repo.GetByID(context.Background(), "dist-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dist.Waterfall == nil {
		t.Fatal("expected waterfall to be decoded")
	}
	if !dist.Waterfall.TotalToGP.Equal(d("40000")) {
		t.Errorf("expected GP 40000, got %s", dist.Waterfall.TotalToGP)
	}
	if tier, ok := dist.Waterfall.Tier(domain.TierReturnOfCapital); !ok || !tier.Complete {
		t.Errorf("expected completed return of capital tier, got %+v", tier)
	}
	if len(dist.LPAllocations) != 1 || !dist.LPAllocations[0].NetAmount.Equal(d("696000")) {
		t.Errorf("unexpected allocations %+v", dist.LPAllocations)
	}

	assertExpectations(t, pool)
}

func TestDistributionRepositoryNextNumber(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectQuery(`SELECT COALESCE\(MAX\(distribution_number\), 0\) \+ 1`).
		WithArgs("fund-1").
		WillReturnRows(pool.NewRows([]string{"next"}).AddRow(4))

	repo := NewDistributionRepository(pool)
	next, err := repo.NextDistributionNumber(context.Background(), tx, "fund-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != 4 {
		t.Errorf("expected 4, got %d", next)
	}

	assertExpectations(t, pool)
}

func TestOutboxRepositoryCreate(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	event := domain.NewOutboxEvent("evt-1", domain.AggregateTypeCapitalCall, "call-1",
		domain.EventTypeCapitalCallIssued, map[string]any{"fund_id": "fund-1"}, testTime)

	pool.ExpectExec(`INSERT INTO outbox_events`).
		WithArgs("evt-1", "call-1", domain.AggregateTypeCapitalCall, domain.EventTypeCapitalCallIssued,
			[]byte(`{"fund_id":"fund-1"}`), testTime, pgxmock.AnyArg(), false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewOutboxRepository(pool)
	if err := repo.Create(context.Background(), tx, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, pool)
}

func TestMetricsRepositoryGetLatestMissing(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery(`(?s)SELECT .+ FROM fund_metrics`).
		WithArgs("fund-1").
		WillReturnRows(pool.NewRows(columns(metricsColumns)))

	repo := NewMetricsRepository(pool)
	if _, err := repo.GetLatest(context.Background(), "fund-1"); !errors.Is(err, domain.ErrFundNotFound) {
		t.Fatalf("expected ErrFundNotFound, got %v", err)
	}

	assertExpectations(t, pool)
}
