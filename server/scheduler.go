package server

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// job is a scheduled job
type job interface {
	Run() error
	Name() string
}

// scheduler runs background jobs
type scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func newScheduler(log zerolog.Logger) *scheduler {
	return &scheduler{
		cron: cron.New(),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

func (s *scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("Scheduler started")
}

func (s *scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers job on a cron schedule, e.g. "*/5 * * * *" or "@every 5m".
func (s *scheduler) AddJob(schedule string, j job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.log.Debug().Str("job", j.Name()).Msg("Running job")
		if err := j.Run(); err != nil {
			s.log.Error().Err(err).Str("job", j.Name()).Msg("Job failed")
			return
		}
		s.log.Debug().Str("job", j.Name()).Msg("Job completed")
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("schedule", schedule).Str("job", j.Name()).Msg("Job registered")
	return nil
}

// refreshJob reloads the portfolio and the news feed.
type refreshJob struct{ s *Server }

func (refreshJob) Name() string { return "refresh" }

func (j refreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	return j.s.Refresh(ctx)
}
