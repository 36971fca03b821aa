package postgres

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULIDGenerator_SortsInIssueOrder(t *testing.T) {
	at := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	g := NewULIDGeneratorWithClock(func() time.Time { return at })

	ids := make([]string, 500)
	for i := range ids {
		ids[i] = g.Generate()
	}

	assert.True(t, sort.StringsAreSorted(ids), "ids within one millisecond must stay ordered")

	parsed, err := ulid.Parse(ids[0])
	require.NoError(t, err)
	assert.True(t, ulid.Time(parsed.Time()).Equal(at))
}

func TestULIDGenerator_ConcurrentUnique(t *testing.T) {
	g := NewULIDGenerator()

	const workers, perWorker = 8, 200
	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := g.Generate()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
