package statemachine

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/iho/fundengine/internal/domain"
)

// Capital call events
const (
	CallEventIssue       = "issue"
	CallEventFundPartial = "fund_partial"
	CallEventFundFull    = "fund_full"
	CallEventMarkOverdue = "mark_overdue"
	CallEventCancel      = "cancel"
)

var fundable = []string{
	string(domain.CallStatusIssued),
	string(domain.CallStatusPartiallyFunded),
	string(domain.CallStatusOverdue),
}

// CapitalCallFSM wraps a capital call with its lifecycle
type CapitalCallFSM struct {
	call *domain.CapitalCall
	fsm  *fsm.FSM
}

// NewCapitalCallFSM creates a state machine positioned at the call's current status
func NewCapitalCallFSM(call *domain.CapitalCall) *CapitalCallFSM {
	c := &CapitalCallFSM{call: call}

	c.fsm = fsm.NewFSM(
		string(call.Status),
		fsm.Events{
			// draft → issued
			{Name: CallEventIssue, Src: []string{string(domain.CallStatusDraft)}, Dst: string(domain.CallStatusIssued)},

			// issued/partially_funded/overdue → partially_funded
			{Name: CallEventFundPartial, Src: fundable, Dst: string(domain.CallStatusPartiallyFunded)},

			// issued/partially_funded/overdue → fully_funded
			{Name: CallEventFundFull, Src: fundable, Dst: string(domain.CallStatusFullyFunded)},

			// issued/partially_funded → overdue
			{Name: CallEventMarkOverdue, Src: []string{string(domain.CallStatusIssued), string(domain.CallStatusPartiallyFunded)}, Dst: string(domain.CallStatusOverdue)},

			// draft/issued → cancelled, only while nothing has been received
			{Name: CallEventCancel, Src: []string{string(domain.CallStatusDraft), string(domain.CallStatusIssued)}, Dst: string(domain.CallStatusCancelled)},
		},
		fsm.Callbacks{
			"before_" + CallEventCancel: func(_ context.Context, e *fsm.Event) {
				if c.call.AmountReceived.IsPositive() {
					e.Cancel(errors.New("call has received funding"))
				}
			},
		},
	)

	return c
}

// Issue sends a draft call to LPs
func (c *CapitalCallFSM) Issue(ctx context.Context) error {
	return c.event(ctx, CallEventIssue)
}

// Cancel withdraws a call that has not received any funding
func (c *CapitalCallFSM) Cancel(ctx context.Context) error {
	return c.event(ctx, CallEventCancel)
}

// MarkOverdue flags an unpaid call past its due date
func (c *CapitalCallFSM) MarkOverdue(ctx context.Context) error {
	return c.event(ctx, CallEventMarkOverdue)
}

// SettleFunding moves the call to the status its funded amount implies.
// Staying in the same status is not an error.
func (c *CapitalCallFSM) SettleFunding(ctx context.Context, target domain.CapitalCallStatus) error {
	var event string
	switch target {
	case domain.CallStatusFullyFunded:
		event = CallEventFundFull
	case domain.CallStatusPartiallyFunded:
		event = CallEventFundPartial
	default:
		return fmt.Errorf("%w: %s is not a funding status", domain.ErrInvalidStateChange, target)
	}

	if c.fsm.Current() == string(target) {
		return nil
	}
	return c.event(ctx, event)
}

func (c *CapitalCallFSM) event(ctx context.Context, name string) error {
	from := c.fsm.Current()
	if err := c.fsm.Event(ctx, name); err != nil {
		return fmt.Errorf("%w: cannot %s capital call in state %s: %v", domain.ErrInvalidStateChange, name, from, err)
	}

	c.call.Status = domain.CapitalCallStatus(c.fsm.Current())
	return nil
}

// Current returns the current state
func (c *CapitalCallFSM) Current() domain.CapitalCallStatus {
	return domain.CapitalCallStatus(c.fsm.Current())
}

// Can checks if a transition is possible
func (c *CapitalCallFSM) Can(event string) bool {
	return c.fsm.Can(event)
}
