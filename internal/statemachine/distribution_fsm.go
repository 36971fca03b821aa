package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/iho/fundengine/internal/domain"
)

// Distribution events
const (
	DistEventApprove = "approve"
	DistEventPay     = "pay"
	DistEventCancel  = "cancel"
)

// DistributionFSM wraps a distribution with its lifecycle
type DistributionFSM struct {
	dist *domain.Distribution
	fsm  *fsm.FSM
}

// NewDistributionFSM creates a state machine positioned at the distribution's current status
func NewDistributionFSM(dist *domain.Distribution) *DistributionFSM {
	d := &DistributionFSM{dist: dist}

	d.fsm = fsm.NewFSM(
		string(dist.Status),
		fsm.Events{
			// draft → approved
			{Name: DistEventApprove, Src: []string{string(domain.DistributionStatusDraft)}, Dst: string(domain.DistributionStatusApproved)},

			// approved → paid
			{Name: DistEventPay, Src: []string{string(domain.DistributionStatusApproved)}, Dst: string(domain.DistributionStatusPaid)},

			// draft/approved → cancelled
			{Name: DistEventCancel, Src: []string{string(domain.DistributionStatusDraft), string(domain.DistributionStatusApproved)}, Dst: string(domain.DistributionStatusCancelled)},
		},
		fsm.Callbacks{},
	)

	return d
}

// Approve signs off a draft distribution
func (d *DistributionFSM) Approve(ctx context.Context) error {
	return d.event(ctx, DistEventApprove)
}

// Pay marks an approved distribution paid
func (d *DistributionFSM) Pay(ctx context.Context) error {
	if !d.fsm.Can(DistEventPay) {
		return fmt.Errorf("%w: status is %s", domain.ErrDistributionNotPayable, d.fsm.Current())
	}
	return d.event(ctx, DistEventPay)
}

// Cancel withdraws a distribution that has not been paid
func (d *DistributionFSM) Cancel(ctx context.Context) error {
	return d.event(ctx, DistEventCancel)
}

func (d *DistributionFSM) event(ctx context.Context, name string) error {
	from := d.fsm.Current()
	if err := d.fsm.Event(ctx, name); err != nil {
		return fmt.Errorf("%w: cannot %s distribution in state %s: %v", domain.ErrInvalidStateChange, name, from, err)
	}

	d.dist.Status = domain.DistributionStatus(d.fsm.Current())
	return nil
}

// Current returns the current state
func (d *DistributionFSM) Current() domain.DistributionStatus {
	return domain.DistributionStatus(d.fsm.Current())
}

// Can checks if a transition is possible
func (d *DistributionFSM) Can(event string) bool {
	return d.fsm.Can(event)
}
