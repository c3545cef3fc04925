// Package scheduler enqueues the catalog's maintenance tasks on cron
// schedules. The work itself runs on the task queue.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Enqueuer puts a task on the queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) error
}

// Job is a task enqueued on a schedule.
type Job struct {
	Name     string
	Schedule string
	Task     backlite.Task
}

// MaintenanceScheduler runs Jobs on their cron schedules.
type MaintenanceScheduler struct {
	enqueuer Enqueuer
	log      *zap.Logger

	cron       *cron.Cron
	mu         sync.RWMutex
	jobs       map[string]Job
	entries    map[string]cron.EntryID
	isRunning  bool
	ctx        context.Context
	cancelFunc context.CancelFunc
}

func NewMaintenanceScheduler(enqueuer Enqueuer, log *zap.Logger) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		enqueuer: enqueuer,
		log:      log.Named("scheduler"),
		cron:     cron.New(cron.WithParser(parser)),
		jobs:     make(map[string]Job),
		entries:  make(map[string]cron.EntryID),
	}
}

// Start validates and schedules every job, then starts the cron loop. No
// job is scheduled when any schedule is invalid. The scheduler stops when
// ctx is cancelled.
func (s *MaintenanceScheduler) Start(ctx context.Context, jobs ...Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	for _, job := range jobs {
		if err := ValidateCronSchedule(job.Schedule); err != nil {
			return fmt.Errorf("invalid cron schedule %q for %s: %w", job.Schedule, job.Name, err)
		}
	}

	s.ctx, s.cancelFunc = context.WithCancel(ctx)

	for _, job := range jobs {
		job := job
		entryID, err := s.cron.AddFunc(job.Schedule, func() {
			s.enqueue(job)
		})
		if err != nil {
			return fmt.Errorf("failed to schedule %s: %w", job.Name, err)
		}
		s.jobs[job.Name] = job
		s.entries[job.Name] = entryID

		next, _ := NextRunTime(job.Schedule, time.Now())
		s.log.Info("job scheduled",
			zap.String("job", job.Name),
			zap.String("schedule", job.Schedule),
			zap.Time("next_run", next))
	}

	s.cron.Start()
	s.isRunning = true

	go func(ctx context.Context) {
		<-ctx.Done()
		s.Stop()
	}(s.ctx)

	return nil
}

// Stop stops scheduling and waits for enqueues in flight.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cancelFunc()
	s.isRunning = false
	s.log.Info("scheduler stopped")
}

// RunNow enqueues a scheduled job immediately.
func (s *MaintenanceScheduler) RunNow(ctx context.Context, name string) error {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.enqueuer.Enqueue(ctx, job.Task)
}

// IsRunning returns whether the scheduler is active.
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the job will next be enqueued, or nil when it is not
// scheduled.
func (s *MaintenanceScheduler) NextRun(name string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.entries[name]
	if !ok || !s.isRunning {
		return nil
	}
	next := s.cron.Entry(id).Next
	return &next
}

// NextRuns returns the next activation of every scheduled job. It is empty
// when the scheduler is stopped.
func (s *MaintenanceScheduler) NextRuns() map[string]time.Time {
	s.mu.RLock()
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	s.mu.RUnlock()

	runs := make(map[string]time.Time, len(names))
	for _, name := range names {
		if next := s.NextRun(name); next != nil && !next.IsZero() {
			runs[name] = *next
		}
	}
	return runs
}

func (s *MaintenanceScheduler) enqueue(job Job) {
	if err := s.enqueuer.Enqueue(s.ctx, job.Task); err != nil {
		s.log.Error("failed to enqueue job", zap.String("job", job.Name), zap.Error(err))
		return
	}
	s.log.Debug("job enqueued", zap.String("job", job.Name))
}
