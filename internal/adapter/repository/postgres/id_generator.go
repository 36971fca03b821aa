package postgres

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator issues record and event ids. Ids from one generator sort in
// issue order, even within a millisecond, so outbox events keyed by id replay
// in the order their units of work wrote them.
type ULIDGenerator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
}

// NewULIDGenerator creates a generator on the wall clock.
func NewULIDGenerator() *ULIDGenerator {
	return NewULIDGeneratorWithClock(time.Now)
}

// NewULIDGeneratorWithClock creates a generator stamping ids with now.
func NewULIDGeneratorWithClock(now func() time.Time) *ULIDGenerator {
	return &ULIDGenerator{
		now:     now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Generate returns the next id.
func (g *ULIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}
