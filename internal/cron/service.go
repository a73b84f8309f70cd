package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pattadon/shopstock-backend/pkg/logger"
	"github.com/pattadon/shopstock-backend/pkg/metrics"
)

// Job is one scheduled unit of work. Run receives a context that is
// cancelled when the worker shuts down.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Service runs registered jobs on their intervals, one run at a time
// per job across all worker replicas via the redis lock.
type Service struct {
	jobs    []Job
	lock    *RedisLock
	metrics *metrics.CronJobMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService constructs the job runner. Metrics are optional.
func NewService(lock *RedisLock, jobMetrics *metrics.CronJobMetrics, logg *logger.Logger) (*Service, error) {
	if lock == nil {
		return nil, fmt.Errorf("job lock required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{lock: lock, metrics: jobMetrics, logg: logg, now: time.Now}, nil
}

// Register adds a job to the schedule. Must be called before Start.
func (s *Service) Register(job Job) error {
	if job.Name == "" {
		return fmt.Errorf("job name required")
	}
	if job.Interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", job.Name)
	}
	if job.Run == nil {
		return fmt.Errorf("job %s: run func required", job.Name)
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Start runs every registered job on its interval until the context is
// cancelled. Each job fires once immediately on startup.
func (s *Service) Start(ctx context.Context) {
	var wg sync.WaitGroup
	for _, job := range s.jobs {
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			s.runLoop(ctx, job)
		}(job)
	}
	wg.Wait()
}

func (s *Service) runLoop(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.RunOnce(ctx, job)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx, job)
		}
	}
}

// RunOnce executes one guarded run of the job: lock, run, record.
func (s *Service) RunOnce(ctx context.Context, job Job) {
	jobCtx := s.logg.WithField(ctx, "job", job.Name)

	acquired, err := s.lock.Acquire(jobCtx, job.Name)
	if err != nil {
		s.logg.Error(jobCtx, "cron: acquire job lock", err)
		s.metrics.IncFailure(job.Name)
		return
	}
	if !acquired {
		s.logg.Info(jobCtx, "cron: job locked by another worker, skipping")
		return
	}
	defer func() {
		if err := s.lock.Release(jobCtx, job.Name); err != nil {
			s.logg.Error(jobCtx, "cron: release job lock", err)
		}
	}()

	started := s.now()
	err = job.Run(jobCtx)
	s.metrics.ObserveDuration(job.Name, s.now().Sub(started))
	if err != nil {
		s.metrics.IncFailure(job.Name)
		s.logg.Error(jobCtx, "cron: job failed", err)
		return
	}
	s.metrics.IncSuccess(job.Name)
	s.logg.Info(jobCtx, "cron: job completed")
}
