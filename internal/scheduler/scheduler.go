// Package scheduler runs the periodic signal jobs and answers chat commands.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"SignalsPro/internal/config"
	"SignalsPro/internal/logger"
	"SignalsPro/internal/notifier"
	"SignalsPro/internal/session"
)

const sendRetries = 3

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Session  *session.Manager
	Notifier notifier.Sender
	Config   *config.Config
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sm *session.Manager, n notifier.Sender, cfg *config.Config) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Session:  sm,
		Notifier: n,
		Config:   cfg,
		Ctx:      ctx,
	}
}

// RegisterAll registers the signal task and, when configured, the backtest task.
func (s *Scheduler) RegisterAll(signalCron, backtestCron string) error {
	if _, err := s.Cron.AddFunc(signalCron, s.signalTask); err != nil {
		return fmt.Errorf("register signal task: %w", err)
	}
	if backtestCron == "" {
		return nil
	}
	if _, err := s.Cron.AddFunc(backtestCron, s.backtestTask); err != nil {
		return fmt.Errorf("register backtest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Info("scheduler started with %d jobs", len(s.Cron.Entries()))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.Info("scheduler stopped")
}

// RunSignalsNow executes the signal task immediately (for RUN_ON_START).
func (s *Scheduler) RunSignalsNow() {
	s.signalTask()
}

func (s *Scheduler) signalTask() {
	logger.Info("running signal task for %d watch entries", len(s.Config.Schedule.Watchlist))
	for _, w := range s.Config.Schedule.Watchlist {
		if s.Ctx.Err() != nil {
			return
		}
		gran, err := s.Config.Granularity(w.Timeframe)
		if err != nil {
			logger.Error("watch %s: %v", w.Asset, err)
			continue
		}
		a, err := s.Session.Analyze(s.Ctx, w.Asset, gran, session.TriggerSchedule)
		if err != nil {
			logger.Error("scheduled signal %s/%s: %v", w.Asset, w.Timeframe, err)
			s.trySend(notifier.FormatError(err))
			continue
		}
		s.trySend(notifier.FormatSignalReport(a))
	}
}

func (s *Scheduler) backtestTask() {
	logger.Info("running backtest task")
	for _, w := range s.Config.Schedule.Watchlist {
		if s.Ctx.Err() != nil {
			return
		}
		gran, err := s.Config.Granularity(w.Timeframe)
		if err != nil {
			logger.Error("watch %s: %v", w.Asset, err)
			continue
		}
		report, err := s.Session.Backtest(s.Ctx, w.Asset, gran)
		if err != nil {
			logger.Error("scheduled backtest %s/%s: %v", w.Asset, w.Timeframe, err)
			s.trySend(notifier.FormatError(err))
			continue
		}
		s.trySend(notifier.FormatBacktestReport(report))
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		logger.Error("send notification: %v", err)
	}
}
