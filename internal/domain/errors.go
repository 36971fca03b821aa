package domain

import (
	"errors"
	"fmt"
)

// Error families. Every specific error below wraps exactly one of them so
// callers can branch on the family with errors.Is.
var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("not found")
	ErrConsistencyViolation = errors.New("consistency violation")
)

var (
	// Fund errors
	ErrFundNotFound        = fmt.Errorf("fund %w", ErrNotFound)
	ErrHardCapBelowTarget  = fmt.Errorf("%w: hard cap must be at least the target size", ErrValidation)
	ErrCommitmentBounds    = fmt.Errorf("%w: max commitment must be at least min commitment", ErrValidation)
	ErrInvalidRate         = fmt.Errorf("%w: rate must be between 0 and 100", ErrValidation)
	ErrInvalidWaterfall    = fmt.Errorf("%w: unknown waterfall type", ErrValidation)
	ErrInvalidCatchupBasis = fmt.Errorf("%w: unknown catch-up basis", ErrValidation)

	// Commitment errors
	ErrCommitmentNotFound     = fmt.Errorf("commitment %w", ErrNotFound)
	ErrCommitmentOutOfRange   = fmt.Errorf("%w: commitment amount outside fund limits", ErrValidation)
	ErrHardCapExceeded        = fmt.Errorf("%w: total commitments would exceed hard cap", ErrValidation)
	ErrFundingExceedsUnfunded = fmt.Errorf("%w: funding exceeds the LP's unfunded commitment", ErrValidation)

	// Capital call errors
	ErrCapitalCallNotFound   = fmt.Errorf("capital call %w", ErrNotFound)
	ErrCallExceedsUnfunded   = fmt.Errorf("%w: call amount exceeds total unfunded commitments", ErrValidation)
	ErrOverfunding           = fmt.Errorf("%w: funding exceeds the call's outstanding amount", ErrValidation)
	ErrNoCallResponse        = fmt.Errorf("%w: LP has no response on this capital call", ErrValidation)
	ErrCallNotFundable       = fmt.Errorf("%w: capital call is not accepting funding", ErrValidation)
	ErrInvalidCallComponents = fmt.Errorf("%w: call components must be non-negative and sum to a positive amount", ErrValidation)
	ErrCallDueDate           = fmt.Errorf("%w: due date precedes call date", ErrValidation)

	// Distribution errors
	ErrDistributionNotFound   = fmt.Errorf("distribution %w", ErrNotFound)
	ErrDistributionDate       = fmt.Errorf("%w: distribution date precedes record date", ErrValidation)
	ErrInvalidBreakdown       = fmt.Errorf("%w: distribution breakdown must be non-negative and sum to a positive amount", ErrValidation)
	ErrInvalidDistMethod      = fmt.Errorf("%w: unknown distribution method", ErrValidation)
	ErrNoCommitments          = fmt.Errorf("%w: fund has no LP commitments", ErrValidation)
	ErrInvalidStateChange     = fmt.Errorf("%w: invalid lifecycle transition", ErrValidation)
	ErrDistributionNotPayable = fmt.Errorf("%w: distribution must be approved before payment", ErrValidation)
	ErrStaleDistribution      = fmt.Errorf("%w: fund history changed since the waterfall was computed; cancel and redraft", ErrValidation)

	// Investment errors
	ErrInvestmentNotFound = fmt.Errorf("investment %w", ErrNotFound)

	// Shared
	ErrInvalidAmount = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrNegativeValue = fmt.Errorf("%w: amount must not be negative", ErrValidation)

	// Consistency
	ErrNegativeUnfunded     = fmt.Errorf("%w: negative unfunded commitment", ErrConsistencyViolation)
	ErrNegativeOutstanding  = fmt.Errorf("%w: negative outstanding amount", ErrConsistencyViolation)
	ErrPartialApplication   = fmt.Errorf("%w: atomic unit partially applied", ErrConsistencyViolation)
	ErrOverallocated        = fmt.Errorf("%w: allocations exceed distribution total", ErrConsistencyViolation)
	ErrConcurrentWriteRetry = errors.New("concurrent write conflict persisted after retries")
)

// IsValidation reports whether err is caller-correctable.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err references a missing record.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConsistencyViolation reports whether err signals a broken invariant.
func IsConsistencyViolation(err error) bool { return errors.Is(err, ErrConsistencyViolation) }
