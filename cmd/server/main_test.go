package main

import (
	"net/http"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fundengine/internal/adapter/http/middleware"
	"github.com/iho/fundengine/internal/infrastructure/config"
	"github.com/iho/fundengine/internal/infrastructure/eventpublisher"
	"github.com/iho/fundengine/internal/usecase"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTPPort:                      "9090",
		HTTPReadTimeout:               5 * time.Second,
		HTTPWriteTimeout:              6 * time.Second,
		HTTPIdleTimeout:               7 * time.Second,
		TxMaxRetries:                  3,
		IRRHoldingYears:               4,
		ConcentrationMinInvestments:   8,
		ConcentrationMaxSinglePercent: 20,
		ConcentrationMaxSectorPercent: 40,
		MetricsCacheTTL:               time.Minute,
		MetricsRefreshSchedule:        "@every 15m",
		OverdueCheckSchedule:          "0 1 * * *",
		OutboxPruneSchedule:           "@daily",
		PoolStatsSchedule:             "",
		OutboxRetention:               time.Hour,
		EventStream:                   "test:events",
	}
}

type recorderSink struct{}

func (recorderSink) RecordJobRun(string, error)           {}
func (recorderSink) SetDBConnections(int32, int32, int32) {}

func TestAnalyticsConfig(t *testing.T) {
	got := analyticsConfig(testConfig())

	assert.Equal(t, 4.0, got.HoldingYears)
	assert.Equal(t, 8, got.Concentration.MinInvestments)
	assert.Equal(t, 20.0, got.Concentration.MaxSinglePercent)
	assert.Equal(t, 40.0, got.Concentration.MaxSectorPercent)
	assert.Equal(t, time.Minute, got.CacheTTL)
}

func TestNewHTTPServer(t *testing.T) {
	h := http.NewServeMux()
	srv := newHTTPServer(testConfig(), h)

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)
	assert.Equal(t, 6*time.Second, srv.WriteTimeout)
	assert.Equal(t, 7*time.Second, srv.IdleTimeout)
}

func TestNewEventSink(t *testing.T) {
	cfg := testConfig()

	_, ok := newEventSink(nil, cfg, zerolog.Nop()).(*eventpublisher.LogPublisher)
	assert.True(t, ok, "expected log publisher without redis")

	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	defer client.Close()

	_, ok = newEventSink(client, cfg, zerolog.Nop()).(*eventpublisher.RedisStreamPublisher)
	assert.True(t, ok, "expected redis stream publisher")
}

func TestNewDepsWiresEveryRepository(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	deps := newDeps(nil, mock, testConfig(), nil, zerolog.Nop())

	assert.NotNil(t, deps.Retrier)
	assert.NotNil(t, deps.IDGen)
	assert.NotNil(t, deps.Repos.Funds)
	assert.NotNil(t, deps.Repos.Commitments)
	assert.NotNil(t, deps.Repos.CapitalCalls)
	assert.NotNil(t, deps.Repos.Distributions)
	assert.NotNil(t, deps.Repos.Investments)
	assert.NotNil(t, deps.Repos.Metrics)
	assert.NotNil(t, deps.Repos.Outbox)
	assert.Nil(t, deps.Cache, "cache is set only when redis is configured")
}

func TestSchedulerRegistration(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cfg := testConfig()
	deps := newDeps(nil, mock, cfg, nil, zerolog.Nop())
	a := &app{
		log:         zerolog.Nop(),
		analytics:   usecase.NewAnalyticsUseCase(deps, analyticsConfig(cfg)),
		calls:       usecase.NewCapitalCallUseCase(deps),
		rateLimiter: middleware.NewRateLimiter(1, 1),
		publisher: eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: deps.Repos.Outbox,
			Publisher:  eventpublisher.NewLogPublisher(zerolog.Nop()),
			Logger:     zerolog.Nop(),
		}),
	}
	stat := func() (int32, int32, int32) { return 0, 0, 0 }

	s, err := a.scheduler(cfg, stat, recorderSink{})
	require.NoError(t, err)
	require.NotNil(t, s)

	cfg.OverdueCheckSchedule = "every tuesday"
	_, err = a.scheduler(cfg, stat, recorderSink{})
	assert.Error(t, err)
}
