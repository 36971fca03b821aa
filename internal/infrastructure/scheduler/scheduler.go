package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job represents a scheduled job.
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// JobRecorder receives the outcome of every run.
type JobRecorder interface {
	RecordJobRun(job string, err error)
}

// Scheduler manages background jobs. A run that is still in progress when
// its next tick fires is skipped rather than overlapped.
type Scheduler struct {
	cron     *cron.Cron
	log      zerolog.Logger
	recorder JobRecorder
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new scheduler. Each run gets its own context bounded by
// timeout; zero means no per-run deadline. recorder may be nil.
func New(log zerolog.Logger, recorder JobRecorder, timeout time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:      log.With().Str("component", "scheduler").Logger(),
		recorder: recorder,
		timeout:  timeout,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
}

// Stop cancels in-flight runs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// AddJob registers job on a cron schedule. An empty schedule leaves the
// job disabled.
// Schedule examples:
//   - "0 1 * * *"    - 01:00 every day
//   - "@hourly"      - Every hour
//   - "@every 15m"   - Every 15 minutes
func (s *Scheduler) AddJob(schedule string, job Job) error {
	if schedule == "" {
		s.log.Info().Str("job", job.Name()).Msg("job disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, func() { _ = s.run(job) }); err != nil {
		return err
	}

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("job registered")

	return nil
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("running job immediately")
	return s.run(job)
}

func (s *Scheduler) run(job Job) error {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	s.log.Debug().Str("job", job.Name()).Msg("running job")

	err := job.Run(ctx)
	if s.recorder != nil {
		s.recorder.RecordJobRun(job.Name(), err)
	}

	if err != nil {
		s.log.Error().Err(err).Str("job", job.Name()).Msg("job failed")
		return err
	}

	s.log.Debug().
		Str("job", job.Name()).
		Dur("took", time.Since(start)).
		Msg("job completed")
	return nil
}
