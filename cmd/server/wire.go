package main

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/fundengine/internal/adapter/http"
	"github.com/iho/fundengine/internal/adapter/http/handler"
	"github.com/iho/fundengine/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/fundengine/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/fundengine/internal/adapter/repository/redis"
	"github.com/iho/fundengine/internal/engine"
	"github.com/iho/fundengine/internal/infrastructure/config"
	"github.com/iho/fundengine/internal/infrastructure/eventpublisher"
	"github.com/iho/fundengine/internal/infrastructure/scheduler"
	"github.com/iho/fundengine/internal/usecase"
)

// jobTimeout bounds a single scheduled run.
const jobTimeout = 10 * time.Minute

// app is the assembled engine: use cases behind the HTTP router plus the
// background relay.
type app struct {
	log         zerolog.Logger
	analytics   *usecase.AnalyticsUseCase
	calls       *usecase.CapitalCallUseCase
	rateLimiter *middleware.RateLimiter
	publisher   *eventpublisher.EventPublisher
	router      http.Handler
}

func newApp(pool *pgxpool.Pool, redisClient *goredis.Client, cfg *config.Config, m usecase.EngineMetrics, log zerolog.Logger) *app {
	deps := newDeps(postgresRepo.NewTxManager(pool), pool, cfg, m, log)

	// Interfaces stay nil without Redis so the router and use cases can
	// tell the feature is off.
	var idempotency usecase.IdempotencyStore
	var redisPing handler.RedisPinger
	if redisClient != nil {
		deps.Cache = redisRepo.NewMetricsCache(redisClient)
		idempotency = redisRepo.NewIdempotencyStore(redisClient)
		redisPing = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	fundUC := usecase.NewFundUseCase(deps)
	portfolioUC := usecase.NewPortfolioUseCase(deps)
	callUC := usecase.NewCapitalCallUseCase(deps)
	distUC := usecase.NewDistributionUseCase(deps)
	analyticsUC := usecase.NewAnalyticsUseCase(deps, analyticsConfig(cfg))
	reportUC := usecase.NewReportUseCase(deps, analyticsUC)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		FundHandler:         handler.NewFundHandler(fundUC),
		InvestmentHandler:   handler.NewInvestmentHandler(portfolioUC),
		CapitalCallHandler:  handler.NewCapitalCallHandler(callUC),
		DistributionHandler: handler.NewDistributionHandler(distUC),
		AnalyticsHandler:    handler.NewAnalyticsHandler(analyticsUC, reportUC),
		HealthHandler:       handler.NewHealthHandler(pool, redisPing),
		IdempotencyStore:    idempotency,
		IdempotencyTTL:      cfg.IdempotencyTTL,
		RateLimiter:         limiter,
		Logger:              log,
	})

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: deps.Repos.Outbox,
		Publisher:  newEventSink(redisClient, cfg, log),
		Logger:     log,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})

	return &app{
		log:         log,
		analytics:   analyticsUC,
		calls:       callUC,
		rateLimiter: limiter,
		publisher:   publisher,
		router:      router,
	}
}

func newDeps(txm usecase.TransactionManager, db postgresRepo.Querier, cfg *config.Config, m usecase.EngineMetrics, log zerolog.Logger) usecase.Deps {
	return usecase.Deps{
		TxManager: txm,
		Retrier:   postgresRepo.NewRetrier(cfg.TxMaxRetries, log),
		Repos: usecase.Repositories{
			Funds:         postgresRepo.NewFundRepository(db),
			Commitments:   postgresRepo.NewCommitmentRepository(db),
			CapitalCalls:  postgresRepo.NewCapitalCallRepository(db),
			Distributions: postgresRepo.NewDistributionRepository(db),
			Investments:   postgresRepo.NewInvestmentRepository(db),
			Metrics:       postgresRepo.NewMetricsRepository(db),
			Outbox:        postgresRepo.NewOutboxRepository(db),
		},
		IDGen:   postgresRepo.NewULIDGenerator(),
		Metrics: m,
		Logger:  log,
	}
}

func analyticsConfig(cfg *config.Config) usecase.AnalyticsConfig {
	return usecase.AnalyticsConfig{
		HoldingYears: cfg.IRRHoldingYears,
		Concentration: engine.ConcentrationPolicy{
			MinInvestments:   cfg.ConcentrationMinInvestments,
			MaxSinglePercent: cfg.ConcentrationMaxSinglePercent,
			MaxSectorPercent: cfg.ConcentrationMaxSectorPercent,
		},
		CacheTTL: cfg.MetricsCacheTTL,
	}
}

// newEventSink appends events to a Redis stream, or logs them when Redis
// is disabled.
func newEventSink(redisClient *goredis.Client, cfg *config.Config, log zerolog.Logger) eventpublisher.Publisher {
	if redisClient == nil {
		return eventpublisher.NewLogPublisher(log)
	}
	return eventpublisher.NewRedisStreamPublisher(redisClient, cfg.EventStream, cfg.EventStreamMax)
}

// scheduler registers the maintenance jobs on their configured schedules.
func (a *app) scheduler(cfg *config.Config, stat func() (int32, int32, int32), m interface {
	scheduler.JobRecorder
	scheduler.PoolStatsSink
}) (*scheduler.Scheduler, error) {
	s := scheduler.New(a.log, m, jobTimeout)

	jobs := []struct {
		schedule string
		job      scheduler.Job
	}{
		{cfg.MetricsRefreshSchedule, scheduler.RefreshMetricsJob(a.analytics, a.log)},
		{cfg.OverdueCheckSchedule, scheduler.MarkOverdueJob(a.calls, nil, a.log)},
		{cfg.OutboxPruneSchedule, scheduler.PruneOutboxJob(a.publisher, cfg.OutboxRetention)},
		{"@hourly", scheduler.CleanupLimitersJob(a.rateLimiter)},
		{cfg.PoolStatsSchedule, scheduler.PoolStatsJob(stat, m)},
	}

	for _, j := range jobs {
		if err := s.AddJob(j.schedule, j.job); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func poolStat(pool *pgxpool.Pool) func() (int32, int32, int32) {
	return func() (int32, int32, int32) {
		st := pool.Stat()
		return st.TotalConns(), st.IdleConns(), st.AcquiredConns()
	}
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}
