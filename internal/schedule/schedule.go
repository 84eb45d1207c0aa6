// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schedule runs the digest job on a cron schedule.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler manages the cron entry for recurring digest runs. A run that
// is still going when the next one is due is skipped.
type Scheduler struct {
	cron    *cron.Cron
	job     func()
	entryID cron.EntryID
	logger  zerolog.Logger
}

// New creates a scheduler for job.
func New(job func(), logger zerolog.Logger) *Scheduler {
	return &Scheduler{job: job, logger: logger}
}

// Update sets the five-field cron spec and IANA timezone, replacing any
// previous schedule.
func (s *Scheduler) Update(spec, timezone string) error {
	if timezone == "" {
		timezone = "UTC"
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	if s.cron != nil {
		s.cron.Stop()
	}
	cl := cronLogger{s.logger}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	entryID, err := s.cron.AddFunc(spec, s.job)
	if err != nil {
		return fmt.Errorf("adding cron job: %w", err)
	}
	s.entryID = entryID
	return nil
}

// Next returns the next scheduled run, or the zero time when unscheduled
// or not started.
func (s *Scheduler) Next() time.Time {
	if s.cron == nil {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// NextAfter returns the first run strictly after t.
func (s *Scheduler) NextAfter(t time.Time) time.Time {
	if s.cron == nil {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Schedule.Next(t.In(s.cron.Location()))
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	if s.cron != nil {
		s.cron.Start()
	}
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.cron == nil {
		return fmt.Errorf("no schedule set")
	}
	s.Start()
	s.logger.Info().Time("next", s.Next()).Msg("scheduler started")
	<-ctx.Done()
	s.Stop()
	return nil
}

// cronLogger adapts zerolog to the cron.Logger interface.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
