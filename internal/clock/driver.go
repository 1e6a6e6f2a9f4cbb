package clock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/fracture/pkg/logger"
)

// Default driver configuration constants.
const (
	defaultFrameInterval = time.Second / 60
)

// ErrAlreadyRunning is returned when Run is called twice on one driver.
var ErrAlreadyRunning = errors.New("driver already running")

// Stepper is anything that moves forward when given a frame duration.
type Stepper interface {
	Advance(d time.Duration)
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithInterval sets the frame interval.
func WithInterval(interval time.Duration) DriverOption {
	return func(d *Driver) {
		if interval > 0 {
			d.interval = interval
		}
	}
}

// WithFixedStep advances by exactly one interval per tick instead of the
// measured wall time, so a slow host does not skip cues.
func WithFixedStep() DriverOption {
	return func(d *Driver) {
		d.fixed = true
	}
}

// WithFrameHook registers fn to run after every advance.
func WithFrameHook(fn func(elapsed time.Duration)) DriverOption {
	return func(d *Driver) {
		d.onFrame = fn
	}
}

// WithDriverLogger sets the logger.
func WithDriverLogger(l logger.Logger) DriverOption {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// Driver pumps a Stepper from the wall clock at a fixed frame interval.
type Driver struct {
	target   Stepper
	interval time.Duration
	fixed    bool
	onFrame  func(time.Duration)

	// Shutdown control
	started  atomic.Bool
	stopOnce sync.Once
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewDriver creates a driver for target.
func NewDriver(target Stepper, opts ...DriverOption) *Driver {
	d := &Driver{
		target:   target,
		interval: defaultFrameInterval,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run advances the target every interval until ctx is done or Stop is called.
func (d *Driver) Run(ctx context.Context) error {
	if !d.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(d.done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Debug(ctx, "driver started", logger.Duration("interval", d.interval))
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			d.logger.Debug(ctx, "driver stopped", logger.String("reason", "context"))
			return nil
		case <-d.shutdown:
			d.logger.Debug(ctx, "driver stopped", logger.String("reason", "shutdown"))
			return nil
		case now := <-ticker.C:
			step := now.Sub(last)
			if d.fixed {
				step = d.interval
			}
			last = now
			d.target.Advance(step)
			if d.onFrame != nil {
				d.onFrame(step)
			}
		}
	}
}

// Stop signals Run to return and waits for it, bounded by ctx.
func (d *Driver) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() { close(d.shutdown) })
	if !d.started.Load() {
		return nil
	}

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		d.logger.Warn(ctx, "driver stop timed out")
		return fmt.Errorf("driver stop timed out: %w", ctx.Err())
	}
}
