package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"
)

// Scheduler runs a single job once a day, at a fixed time of day.
type Scheduler struct {
	scheduler *gocron.Scheduler
	job       func()
}

func New(location *time.Location, job func()) *Scheduler {
	if location == nil {
		location = time.Local
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(location),
		job:       job,
	}
}

// Start registers the daily job at `at` (HH:MM) and starts the scheduler without blocking.
func (s *Scheduler) Start(at string) error {
	job, err := s.scheduler.Every(1).Day().At(at).Do(s.job)
	if err != nil {
		return fmt.Errorf("schedule daily job at %q: %w", at, err)
	}

	s.scheduler.StartAsync()
	log.Debugf("daily job scheduled, next run: %s", job.NextRun())

	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) NextRun() time.Time {
	_, next := s.scheduler.NextRun()
	return next
}
