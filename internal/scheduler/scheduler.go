// Package scheduler drives the agent's polling loop: assemble a snapshot,
// deliver it, log the outcome, sleep, repeat. The loop never terminates on a
// cycle failure; the only exit is context cancellation.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hostbeat/agent/internal/config"
	"github.com/hostbeat/agent/internal/models"
)

// Assembler produces one snapshot per cycle. Assembly must not fail; source
// problems degrade to absent fields inside the snapshot.
type Assembler interface {
	Assemble(ctx context.Context, now time.Time) models.Snapshot
}

// Deliverer sends one snapshot to the ingest endpoint.
type Deliverer interface {
	Send(ctx context.Context, snap models.Snapshot) error
}

// Loop runs collection and delivery at the configured interval.
// Retry is cycle-granular: a failed delivery is logged and dropped, and the
// next attempt is the next scheduled cycle.
type Loop struct {
	assembler Assembler
	deliverer Deliverer
	cfg       *config.Config
	logger    *zap.Logger
}

// New creates a polling loop over the given assembler and deliverer.
func New(assembler Assembler, deliverer Deliverer, cfg *config.Config, logger *zap.Logger) *Loop {
	return &Loop{
		assembler: assembler,
		deliverer: deliverer,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run executes cycles until the context is cancelled. The sleep between
// cycles subtracts the cycle's own duration from the nominal interval so the
// schedule doesn't drift, clamped to the configured floor so a misconfigured
// or abnormally fast cycle can't spin the loop.
func (l *Loop) Run(ctx context.Context) {
	for {
		cycleStart := time.Now()
		l.RunOnce(ctx)

		if ctx.Err() != nil {
			return
		}

		sleep := sleepDuration(
			l.cfg.Collection.Interval.Duration,
			time.Since(cycleStart),
			l.cfg.Collection.SleepFloor.Duration,
		)

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// RunOnce executes a single collect-and-deliver cycle and logs its outcome:
// exactly one line per cycle. The returned error is nil on success; callers
// running the loop ignore it, the -once entry point uses it as an exit code.
func (l *Loop) RunOnce(ctx context.Context) error {
	snap, err := l.cycle(ctx)
	if err != nil {
		l.logger.Error("Cycle failed", zap.Error(err))
		return err
	}
	l.logger.Info("Snapshot delivered",
		zap.String("agent_id", snap.AgentID),
		zap.Time("collected_at", snap.CollectedAt))
	return nil
}

// cycle assembles and delivers one snapshot. A panic escaping the assembler
// or deliverer beyond their own failure contracts is contained here and
// reported as the cycle's error, so one bad cycle can never kill the agent.
func (l *Loop) cycle(ctx context.Context) (snap models.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	snap = l.assembler.Assemble(ctx, time.Now())
	if err := l.deliverer.Send(ctx, snap); err != nil {
		return snap, err
	}
	return snap, nil
}

// sleepDuration computes the time to sleep after a cycle:
// max(nominal - cycleElapsed, floor).
func sleepDuration(nominal, cycleElapsed, floor time.Duration) time.Duration {
	d := nominal - cycleElapsed
	if d < floor {
		d = floor
	}
	return d
}
