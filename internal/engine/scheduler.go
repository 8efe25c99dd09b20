package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/slash/internal/metrics"
)

// Scheduler triggers the all-users alert pass on a fixed interval. A tick
// that fires while the previous pass is still running is skipped.
type Scheduler struct {
	cron    *cron.Cron
	engine  *Engine
	log     *slog.Logger
	entryID cron.EntryID
}

// NewScheduler creates a Scheduler running an alert pass every interval.
func NewScheduler(eng *Engine, interval time.Duration, log *slog.Logger) (*Scheduler, error) {
	if interval < time.Second {
		return nil, fmt.Errorf("alert interval %s is shorter than 1s", interval)
	}

	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
	}

	id, err := c.AddFunc("@every "+interval.String(), s.runAlertPass)
	if err != nil {
		return nil, fmt.Errorf("scheduling alert pass: %w", err)
	}
	s.entryID = id

	return s, nil
}

// Start begins running scheduled passes.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
	s.SyncNextRunTimestamp()
}

// Stop stops the scheduler. The returned context is done once a running pass
// has finished.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// SyncNextRunTimestamp publishes the next scheduled pass time as a gauge.
func (s *Scheduler) SyncNextRunTimestamp() {
	next := s.cron.Entry(s.entryID).Next
	if next.IsZero() {
		return
	}
	metrics.SchedulerNextAlertPassTimestamp.Set(float64(next.Unix()))
}

func (s *Scheduler) runAlertPass() {
	defer s.SyncNextRunTimestamp()

	ctx := context.Background()
	s.log.Info("scheduled alert pass starting")
	if _, err := s.engine.RunAlertPassForAllUsers(ctx); err != nil {
		s.log.Error("scheduled alert pass failed", "error", err)
	}
}

// cronLogger adapts slog to cron.Logger. Routine cron chatter goes to debug;
// skipped ticks are surfaced at warn.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	if msg == "skip" {
		metrics.SchedulerSkippedTicksTotal.Inc()
		l.log.Warn("alert pass still running, skipping tick")
		return
	}
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
