package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/usecase"
)

func TestFundUseCase_CreateFund(t *testing.T) {
	tests := []struct {
		name      string
		input     usecase.CreateFundInput
		errorType error
	}{
		{
			name: "valid fund",
			input: usecase.CreateFundInput{
				Name:          "Growth Fund I",
				Currency:      "usd",
				TargetSize:    dec("10000000"),
				HardCap:       dec("12000000"),
				MinCommitment: dec("100000"),
				MaxCommitment: dec("5000000"),
				Terms:         standardTerms(),
			},
		},
		{
			name: "hard cap below target",
			input: usecase.CreateFundInput{
				Name:       "Growth Fund I",
				Currency:   "USD",
				TargetSize: dec("10000000"),
				HardCap:    dec("9000000"),
				Terms:      standardTerms(),
			},
			errorType: domain.ErrHardCapBelowTarget,
		},
		{
			name: "max commitment below min",
			input: usecase.CreateFundInput{
				Name:          "Growth Fund I",
				Currency:      "USD",
				TargetSize:    dec("10000000"),
				HardCap:       dec("10000000"),
				MinCommitment: dec("500000"),
				MaxCommitment: dec("100000"),
				Terms:         standardTerms(),
			},
			errorType: domain.ErrCommitmentBounds,
		},
		{
			name: "carry above 100",
			input: usecase.CreateFundInput{
				Name:       "Growth Fund I",
				Currency:   "USD",
				TargetSize: dec("10000000"),
				HardCap:    dec("10000000"),
				Terms: domain.FundTerms{
					CarriedInterestRate: dec("120"),
				},
			},
			errorType: domain.ErrInvalidRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			uc := usecase.NewFundUseCase(h.deps())

			fund, err := uc.CreateFund(context.Background(), tt.input)

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected %v, got %v", tt.errorType, err)
				}
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("expected validation family, got %v", err)
				}
				if len(h.store.Events()) != 0 {
					t.Error("expected no events for a rejected fund")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fund.Currency != "USD" {
				t.Errorf("expected currency USD, got %s", fund.Currency)
			}
			if fund.Terms.CatchupBasis != domain.CatchupBasisPreferredReturn {
				t.Errorf("expected default catch-up basis, got %s", fund.Terms.CatchupBasis)
			}
			if h.store.Fund(fund.ID) == nil {
				t.Error("fund not stored")
			}
			if got := eventTypes(h.store.Events()); len(got) != 1 || got[0] != domain.EventTypeFundCreated {
				t.Errorf("unexpected events %v", got)
			}
		})
	}
}

func TestFundUseCase_AddCommitment_RebalancesOwnership(t *testing.T) {
	h := newHarness()
	h.seedTwoLPs(t)
	uc := usecase.NewFundUseCase(h.deps())
	ctx := context.Background()

	c, err := uc.AddCommitment(ctx, usecase.AddCommitmentInput{
		FundID:       "fund-1",
		InvestorName: "Family Office C",
		Amount:       dec("2000000"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !c.UnfundedCommitment.Equal(dec("2000000")) {
		t.Errorf("expected unfunded 2000000, got %s", c.UnfundedCommitment)
	}
	if c.InvestorID == "" {
		t.Error("expected a generated investor id")
	}

	all, err := uc.ListCommitments(ctx, "fund-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 commitments, got %d", len(all))
	}

	sum := decimal.Zero
	for _, lp := range all {
		sum = sum.Add(lp.OwnershipPercent)
	}
	if !sum.Equal(decimal.NewFromInt(100)) {
		t.Errorf("ownership must sum to 100, got %s", sum)
	}
	if !all[0].OwnershipPercent.Equal(dec("50")) {
		t.Errorf("expected first LP rebalanced to 50, got %s", all[0].OwnershipPercent)
	}
	if all[0].Version != 2 {
		t.Errorf("expected rebalanced LP version bump, got %d", all[0].Version)
	}
}

func TestFundUseCase_AddCommitment_FirstLPOwnsEverything(t *testing.T) {
	h := newHarness()
	h.seedFund(t)
	uc := usecase.NewFundUseCase(h.deps())

	c, err := uc.AddCommitment(context.Background(), usecase.AddCommitmentInput{
		FundID:       "fund-1",
		InvestorName: "Anchor LP",
		Amount:       dec("1000000"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.OwnershipPercent.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected 100, got %s", c.OwnershipPercent)
	}
}

func TestFundUseCase_AddCommitment_Rejected(t *testing.T) {
	tests := []struct {
		name      string
		fundID    string
		amount    string
		errorType error
	}{
		{"hard cap exceeded", "fund-1", "3000000", domain.ErrHardCapExceeded},
		{"below minimum", "fund-1", "50000", domain.ErrCommitmentOutOfRange},
		{"non positive", "fund-1", "0", domain.ErrInvalidAmount},
		{"unknown fund", "missing", "1000000", domain.ErrFundNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.seedTwoLPs(t)
			uc := usecase.NewFundUseCase(h.deps())

			_, err := uc.AddCommitment(context.Background(), usecase.AddCommitmentInput{
				FundID:       tt.fundID,
				InvestorName: "Late LP",
				Amount:       dec(tt.amount),
			})
			if !errors.Is(err, tt.errorType) {
				t.Fatalf("expected %v, got %v", tt.errorType, err)
			}

			if got := h.store.Commitment("c1").OwnershipPercent; !got.Equal(dec("60")) {
				t.Errorf("existing ownership changed to %s", got)
			}
			all, _ := h.commitments.ListByFund(context.Background(), "fund-1")
			if len(all) != 2 {
				t.Errorf("expected 2 commitments, got %d", len(all))
			}
			if len(h.store.Events()) != 0 {
				t.Errorf("expected no events, got %v", eventTypes(h.store.Events()))
			}
		})
	}
}

func TestFundUseCase_UpdateFundTerms(t *testing.T) {
	h := newHarness()
	h.seedFund(t)
	uc := usecase.NewFundUseCase(h.deps())
	ctx := context.Background()

	terms := standardTerms()
	terms.CarriedInterestRate = dec("25")
	terms.CatchupBasis = domain.CatchupBasisTotalLP

	fund, err := uc.UpdateFundTerms(ctx, "fund-1", terms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fund.Version != 2 {
		t.Errorf("expected version 2, got %d", fund.Version)
	}
	if stored := h.store.Fund("fund-1"); !stored.Terms.CarriedInterestRate.Equal(dec("25")) {
		t.Errorf("terms not persisted: %s", stored.Terms.CarriedInterestRate)
	}

	bad := standardTerms()
	bad.PreferredReturnRate = dec("-1")
	if _, err := uc.UpdateFundTerms(ctx, "fund-1", bad); !errors.Is(err, domain.ErrInvalidRate) {
		t.Errorf("expected ErrInvalidRate, got %v", err)
	}
	if stored := h.store.Fund("fund-1"); stored.Version != 2 {
		t.Errorf("rejected update changed version to %d", stored.Version)
	}
}
