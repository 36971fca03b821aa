package domain

import "time"

// Event types
const (
	EventTypeFundCreated           = "fund.created"
	EventTypeFundTermsUpdated      = "fund.terms_updated"
	EventTypeCommitmentAdded       = "commitment.added"
	EventTypeCapitalCallCreated    = "capital_call.created"
	EventTypeCapitalCallIssued     = "capital_call.issued"
	EventTypeCapitalCallFunded     = "capital_call.funding_recorded"
	EventTypeCapitalCallCancelled  = "capital_call.cancelled"
	EventTypeCapitalCallOverdue    = "capital_call.overdue"
	EventTypeDistributionCreated   = "distribution.created"
	EventTypeDistributionApproved  = "distribution.approved"
	EventTypeDistributionPaid      = "distribution.paid"
	EventTypeDistributionCancelled = "distribution.cancelled"
	EventTypeFundMetricsRecomputed = "fund.metrics_recomputed"
)

// Aggregate types
const (
	AggregateTypeFund         = "fund"
	AggregateTypeCommitment   = "commitment"
	AggregateTypeCapitalCall  = "capital_call"
	AggregateTypeDistribution = "distribution"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// NewOutboxEvent builds an unpublished event.
func NewOutboxEvent(id, aggregateType, aggregateID, eventType string, payload map[string]any, at time.Time) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     at,
	}
}
