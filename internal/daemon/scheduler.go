package daemon

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler wraps gocron for periodic localization runs.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a scheduler that sends a trigger on every interval tick.
func NewScheduler(interval time.Duration, trigger chan<- string) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			select {
			case trigger <- "schedule":
			default:
				// A run is already pending; skip this tick.
			}
		}),
		gocron.WithName("periodic-localization"),
	)
	if err != nil {
		return nil, fmt.Errorf("create periodic job: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}
