package statemachine

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/fundengine/internal/domain"
)

func TestCapitalCallFSM_Lifecycle(t *testing.T) {
	ctx := context.Background()
	call := &domain.CapitalCall{Status: domain.CallStatusDraft}
	m := NewCapitalCallFSM(call)

	if err := m.Issue(ctx); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if call.Status != domain.CallStatusIssued {
		t.Fatalf("expected issued, got %s", call.Status)
	}

	if err := m.SettleFunding(ctx, domain.CallStatusPartiallyFunded); err != nil {
		t.Fatalf("partial: %v", err)
	}
	// repeated partial payments keep the status
	if err := m.SettleFunding(ctx, domain.CallStatusPartiallyFunded); err != nil {
		t.Fatalf("second partial: %v", err)
	}
	if err := m.MarkOverdue(ctx); err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if err := m.SettleFunding(ctx, domain.CallStatusFullyFunded); err != nil {
		t.Fatalf("full: %v", err)
	}
	if call.Status != domain.CallStatusFullyFunded {
		t.Errorf("expected fully_funded, got %s", call.Status)
	}
}

func TestCapitalCallFSM_InvalidTransitions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		status domain.CapitalCallStatus
		apply  func(*CapitalCallFSM) error
	}{
		{"issue twice", domain.CallStatusIssued, func(m *CapitalCallFSM) error { return m.Issue(ctx) }},
		{"fund a draft", domain.CallStatusDraft, func(m *CapitalCallFSM) error {
			return m.SettleFunding(ctx, domain.CallStatusPartiallyFunded)
		}},
		{"fund a cancelled call", domain.CallStatusCancelled, func(m *CapitalCallFSM) error {
			return m.SettleFunding(ctx, domain.CallStatusFullyFunded)
		}},
		{"cancel funded call", domain.CallStatusFullyFunded, func(m *CapitalCallFSM) error { return m.Cancel(ctx) }},
		{"overdue draft", domain.CallStatusDraft, func(m *CapitalCallFSM) error { return m.MarkOverdue(ctx) }},
		{"settle to non funding status", domain.CallStatusIssued, func(m *CapitalCallFSM) error {
			return m.SettleFunding(ctx, domain.CallStatusCancelled)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := &domain.CapitalCall{Status: tt.status}
			err := tt.apply(NewCapitalCallFSM(call))

			if !errors.Is(err, domain.ErrInvalidStateChange) {
				t.Fatalf("expected ErrInvalidStateChange, got %v", err)
			}
			if call.Status != tt.status {
				t.Errorf("status changed to %s", call.Status)
			}
		})
	}
}

func TestCapitalCallFSM_CancelWithFundingRejected(t *testing.T) {
	call := &domain.CapitalCall{Status: domain.CallStatusIssued, AmountReceived: decimal.NewFromInt(5)}

	err := NewCapitalCallFSM(call).Cancel(context.Background())

	if !errors.Is(err, domain.ErrInvalidStateChange) {
		t.Fatalf("expected ErrInvalidStateChange, got %v", err)
	}
	if call.Status != domain.CallStatusIssued {
		t.Errorf("expected issued, got %s", call.Status)
	}
}

func TestDistributionFSM_Lifecycle(t *testing.T) {
	ctx := context.Background()
	dist := &domain.Distribution{Status: domain.DistributionStatusDraft}
	m := NewDistributionFSM(dist)

	if err := m.Pay(ctx); !errors.Is(err, domain.ErrDistributionNotPayable) {
		t.Fatalf("expected ErrDistributionNotPayable, got %v", err)
	}
	if err := m.Approve(ctx); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !m.Can(DistEventPay) {
		t.Fatal("approved distribution should be payable")
	}
	if err := m.Pay(ctx); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if dist.Status != domain.DistributionStatusPaid {
		t.Errorf("expected paid, got %s", dist.Status)
	}
	if err := m.Cancel(ctx); !errors.Is(err, domain.ErrInvalidStateChange) {
		t.Errorf("expected paid distribution to refuse cancel, got %v", err)
	}
}

func TestDistributionFSM_Cancel(t *testing.T) {
	for _, status := range []domain.DistributionStatus{domain.DistributionStatusDraft, domain.DistributionStatusApproved} {
		dist := &domain.Distribution{Status: status}
		if err := NewDistributionFSM(dist).Cancel(context.Background()); err != nil {
			t.Fatalf("cancel from %s: %v", status, err)
		}
		if dist.Status != domain.DistributionStatusCancelled {
			t.Errorf("expected cancelled, got %s", dist.Status)
		}
	}
}
