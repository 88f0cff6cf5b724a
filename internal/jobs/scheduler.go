package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

type Schedule int

const Hourly Schedule = iota

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
	Schedule() Schedule
}

type Scheduler struct {
	scheduler *gocron.Scheduler
	jobs      []Job
	logger    *zap.Logger
	started   bool
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		logger:    logger.Named("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *Scheduler) execute(job Job) {
	log := s.logger.With(zap.String("job", job.Name()))
	start := time.Now()
	if err := job.Execute(s.ctx); err != nil {
		log.Error("job failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return
	}
	log.Info("job completed", zap.Duration("duration", time.Since(start)))
}

func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch job.Schedule() {
	case Hourly:
		_, err = s.scheduler.Every(1).Hour().Do(s.execute, job)
	default:
		err = fmt.Errorf("unknown schedule %d", job.Schedule())
	}
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.Name(), err)
	}

	s.jobs = append(s.jobs, job)
	s.logger.Info("job registered", zap.String("job", job.Name()))
	return nil
}

// Start runs the scheduler in the background. It is a no-op with no jobs.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || len(s.jobs) == 0 {
		return
	}
	s.scheduler.StartAsync()
	s.started = true

	for _, j := range s.scheduler.Jobs() {
		s.logger.Info("job scheduled", zap.Time("next_run", j.NextRun()))
	}
}

// Stop cancels in-flight jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()
	if !s.started {
		return
	}
	s.scheduler.Stop()
	s.started = false
	s.logger.Info("scheduler stopped")
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start()
	<-ctx.Done()
	s.Stop()
	return nil
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *Scheduler) JobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Trigger runs a registered job synchronously, outside its schedule.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	s.mu.Lock()
	var target Job
	for _, j := range s.jobs {
		if j.Name() == name {
			target = j
			break
		}
	}
	s.mu.Unlock()

	if target == nil {
		return fmt.Errorf("job not found: %s", name)
	}
	return target.Execute(ctx)
}
