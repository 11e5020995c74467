// Package scheduler provides the daily retention trigger. The schedule fires
// once per interval while armed; runs missed while the process was down are
// not backfilled.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-tracklog/pkg/types"
)

// Runner executes one retention pass for the given window.
type Runner func(ctx context.Context, days int) error

// DailyConfig wires the trigger.
type DailyConfig struct {
	Runner Runner
	// Interval between runs. Defaults to 24 hours.
	Interval time.Duration
	Logger   types.Logger
}

// Daily fires the runner on a fixed cadence while armed. Arm replaces any
// existing schedule, Disarm cancels it, and Tick forces a manual run which is
// a no-op while disarmed.
type Daily struct {
	mu       sync.Mutex
	runner   Runner
	interval time.Duration
	logger   types.Logger
	days     int
	stop     chan struct{}
}

// NewDaily constructs the trigger. It starts disarmed.
func NewDaily(cfg DailyConfig) *Daily {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Daily{
		runner:   cfg.Runner,
		interval: interval,
		logger:   logger,
	}
}

var _ types.Scheduler = (*Daily)(nil)

// Arm schedules a run every interval with the given retention window. Arming
// with a non-positive window disarms instead.
func (d *Daily) Arm(days int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	if days <= 0 {
		d.days = 0
		return
	}
	d.days = days
	stop := make(chan struct{})
	d.stop = stop
	go d.loop(stop)
	d.logger.Info("cleanup schedule armed", "days", days)
}

// Disarm cancels the schedule.
func (d *Daily) Disarm() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stop != nil {
		d.logger.Info("cleanup schedule disarmed")
	}
	d.stopLocked()
	d.days = 0
}

// Tick runs one retention pass now. While disarmed it does nothing.
func (d *Daily) Tick(ctx context.Context) error {
	d.mu.Lock()
	days := d.days
	armed := d.stop != nil
	runner := d.runner
	d.mu.Unlock()

	if !armed || days <= 0 || runner == nil {
		return nil
	}
	if err := runner(ctx, days); err != nil {
		d.logger.Error("scheduled cleanup failed", err, "days", days)
		return err
	}
	return nil
}

func (d *Daily) loop(stop chan struct{}) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			_ = d.Tick(context.Background())
		}
	}
}

func (d *Daily) stopLocked() {
	if d.stop != nil {
		close(d.stop)
		d.stop = nil
	}
}
