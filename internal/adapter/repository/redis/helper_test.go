package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	"github.com/iho/fundengine/internal/domain"
)

// newTestRedisClient starts an in-process Redis that is torn down with the test.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

// sampleMetrics is a fund metrics snapshot as the analytics use case caches it.
func sampleMetrics(fundID string) *domain.FundMetrics {
	return &domain.FundMetrics{
		FundID:       fundID,
		DPI:          0.4,
		RVPI:         1.2,
		TVPI:         1.6,
		LPCount:      2,
		CalculatedAt: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	}
}
