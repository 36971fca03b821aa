package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CapitalCallStatus string

const (
	CallStatusDraft           CapitalCallStatus = "draft"
	CallStatusIssued          CapitalCallStatus = "issued"
	CallStatusPartiallyFunded CapitalCallStatus = "partially_funded"
	CallStatusFullyFunded     CapitalCallStatus = "fully_funded"
	CallStatusOverdue         CapitalCallStatus = "overdue"
	CallStatusCancelled       CapitalCallStatus = "cancelled"
)

type ResponseStatus string

const (
	ResponseStatusPending ResponseStatus = "pending"
	ResponseStatusPartial ResponseStatus = "partial"
	ResponseStatusFunded  ResponseStatus = "funded"
)

// CallComponents are the four parts a capital call is made of.
type CallComponents struct {
	Investment             decimal.Decimal
	ManagementFee          decimal.Decimal
	PartnershipExpenses    decimal.Decimal
	OrganizationalExpenses decimal.Decimal
}

// Total is the sum of all components.
func (c CallComponents) Total() decimal.Decimal {
	return c.Investment.Add(c.ManagementFee).Add(c.PartnershipExpenses).Add(c.OrganizationalExpenses)
}

// Validate rejects negative components and an empty call.
func (c CallComponents) Validate() error {
	for _, v := range []decimal.Decimal{c.Investment, c.ManagementFee, c.PartnershipExpenses, c.OrganizationalExpenses} {
		if v.IsNegative() {
			return ErrInvalidCallComponents
		}
	}
	if !c.Total().IsPositive() {
		return ErrInvalidCallComponents
	}
	return nil
}

// LPCallResponse is one LP's share of a capital call and what it has paid.
type LPCallResponse struct {
	CommitmentID string
	InvestorID   string
	CallAmount   decimal.Decimal
	FundedAmount decimal.Decimal
	Status       ResponseStatus
	FundedAt     *time.Time
}

// CapitalCall requests contributions from every LP of a fund.
type CapitalCall struct {
	ID                string
	FundID            string
	CallNumber        int
	Purpose           string
	CallDate          time.Time
	DueDate           time.Time
	Components        CallComponents
	TotalCallAmount   decimal.Decimal
	AmountReceived    decimal.Decimal
	AmountOutstanding decimal.Decimal
	PercentFunded     decimal.Decimal
	Status            CapitalCallStatus
	LPResponses       []LPCallResponse
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Response returns the response for a commitment, or nil.
func (c *CapitalCall) Response(commitmentID string) *LPCallResponse {
	for i := range c.LPResponses {
		if c.LPResponses[i].CommitmentID == commitmentID {
			return &c.LPResponses[i]
		}
	}
	return nil
}

// AcceptsFunding reports whether payments may be recorded against the call.
func (c *CapitalCall) AcceptsFunding() bool {
	switch c.Status {
	case CallStatusIssued, CallStatusPartiallyFunded, CallStatusOverdue:
		return true
	}
	return false
}

// CheckInvariants reports a consistency violation for impossible balances.
func (c *CapitalCall) CheckInvariants() error {
	if c.AmountOutstanding.IsNegative() {
		return ErrNegativeOutstanding
	}
	return nil
}

// Clone returns a deep copy.
func (c *CapitalCall) Clone() *CapitalCall {
	cp := *c
	cp.LPResponses = make([]LPCallResponse, len(c.LPResponses))
	copy(cp.LPResponses, c.LPResponses)
	return &cp
}
