// Package sweeper schedules the nightly penalty sweep and the customer
// reminder job.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/microfin/collection-service/internal/config"
	"github.com/microfin/collection-service/internal/service"
)

// Sweeper owns the cron runner
type Sweeper struct {
	cron *cron.Cron
	svc  *service.Service
	log  *logrus.Logger
	cfg  *config.Config
}

// New creates a sweeper bound to the service layer
func New(svc *service.Service, log *logrus.Logger, cfg *config.Config) *Sweeper {
	return &Sweeper{
		cron: cron.New(),
		svc:  svc,
		log:  log,
		cfg:  cfg,
	}
}

// Start registers the penalty sweep and reminder jobs and starts the
// cron runner
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.SweepSpec, s.runSweep); err != nil {
		return fmt.Errorf("failed to schedule penalty sweep: %w", err)
	}
	if _, err := s.cron.AddFunc(s.cfg.ReminderSpec, s.runReminders); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}
	s.cron.Start()
	s.log.Infof("Sweeper started: sweep %q, reminders %q", s.cfg.SweepSpec, s.cfg.ReminderSpec)
	return nil
}

// Stop stops the cron runner, waiting for running jobs
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Sweeper stopped")
}

func (s *Sweeper) runSweep() {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if _, err := s.svc.RunPenaltySweep(context.Background(), today); err != nil {
		s.log.Errorf("Penalty sweep failed: %v", err)
	}
}

func (s *Sweeper) runReminders() {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if err := s.svc.SendReminders(today); err != nil {
		s.log.Errorf("Reminder run failed: %v", err)
	}
}
