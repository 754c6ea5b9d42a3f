package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vnykmshr/gobridge/pkg/bridge/loop"
	gbcontext "github.com/vnykmshr/gobridge/pkg/common/context"
	gberrors "github.com/vnykmshr/gobridge/pkg/common/errors"
	"github.com/vnykmshr/gobridge/pkg/common/validation"
)

// Unit represents one unit of asynchronous work executed through the bridge.
// The bridge is opaque to what a unit computes.
type Unit interface {
	// Execute runs the unit with the given context. The context is canceled
	// only when the dispatch loop shuts down, never by an abandoned wait.
	Execute(ctx context.Context) (interface{}, error)
}

// UnitFunc is a function type that implements the Unit interface.
type UnitFunc func(ctx context.Context) (interface{}, error)

// Execute implements the Unit interface for UnitFunc.
func (f UnitFunc) Execute(ctx context.Context) (interface{}, error) {
	return f(ctx)
}

// Runner is the call interface worker goroutines use. A Bridge implements
// it, as does the metrics wrapper.
type Runner interface {
	Run(ctx context.Context, unit Unit) (interface{}, error)
}

// DefaultPollInterval is how often a blocked caller checks for external
// interruption while waiting for its unit to resolve.
const DefaultPollInterval = 100 * time.Millisecond

// Config holds configuration options for creating a Bridge.
type Config struct {
	// Thread is the dispatch loop the bridge submits to. Required.
	Thread *loop.Thread

	// PollInterval bounds each wait in the completion loop; every expiry is
	// a checkpoint where interruption of the caller's context is observed.
	// Defaults to DefaultPollInterval.
	PollInterval time.Duration

	// Logger receives bridge diagnostics. Defaults to a no-op logger.
	Logger *zerolog.Logger

	// OnCleanup is called after each forced collection pass with the time
	// the pass took. Used by the metrics wrapper.
	OnCleanup func(d time.Duration)
}

// Bridge converts asynchronous execution on a dispatch loop into ordinary
// blocking calls. It holds no per-invocation state; all bookkeeping lives
// in the ephemeral invocation and is dropped before Run returns.
type Bridge struct {
	thread       *loop.Thread
	pollInterval time.Duration
	logger       zerolog.Logger
	onCleanup    func(d time.Duration)
}

// New creates a Bridge bound to the given dispatch loop thread.
func New(cfg Config) (*Bridge, error) {
	if cfg.Thread == nil {
		return nil, gberrors.NewValidationError("bridge", "thread", nil, "cannot be nil").
			WithHint("provide a started loop.Thread")
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if err := validation.ValidatePositiveDuration("bridge", "poll_interval", cfg.PollInterval); err != nil {
		return nil, err
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Bridge{
		thread:       cfg.Thread,
		pollInterval: cfg.PollInterval,
		logger:       logger,
		onCleanup:    cfg.OnCleanup,
	}, nil
}

// Thread returns the dispatch loop thread the bridge submits to.
func (b *Bridge) Thread() *loop.Thread {
	return b.thread
}

// Run executes unit on the dispatch loop and blocks until it resolves,
// returning its value or failure exactly as if the unit had run in-line.
//
// The caller's ctx does not cancel the unit: it is observed at poll
// checkpoints and lets the caller stop waiting, while the unit keeps
// executing on the loop. A failure is returned as a *TaskError wrapping the
// unit's error; before Run returns, every bridge-internal reference to the
// failure is cleared and a full collection pass runs, so memory retained
// per failed call is owned entirely by the caller.
func (b *Bridge) Run(ctx context.Context, unit Unit) (interface{}, error) {
	if unit == nil {
		return nil, gberrors.NewValidationError("bridge", "unit", nil, "cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	inv := newInvocation()
	inv.setState(StateSubmitted)
	handle, err := b.thread.Submit(inv.supervise(unit))
	if err != nil {
		return nil, err
	}

	timer := time.NewTimer(b.pollInterval)
	defer timer.Stop()
	for waiting := true; waiting; {
		select {
		case <-handle.Done():
			waiting = false
		case <-timer.C:
			if gbcontext.IsCanceled(ctx) {
				// Abandon the wait. The unit keeps running on the loop;
				// its outcome dies with the invocation we drop here.
				b.logger.Debug().Msg("wait abandoned at interruption checkpoint")
				return nil, fmt.Errorf("bridge: wait abandoned: %w", ctx.Err())
			}
			timer.Reset(b.pollInterval)
		}
	}

	// Drop the handle before touching the outcome so it cannot become a
	// second path through which the failure stays reachable.
	aborted := handle.Aborted()
	handle = nil

	return b.resolve(inv, aborted)
}

// resolve retrieves the outcome from a resolved invocation and performs
// cleanup. Exactly one of the slots is populated on normal completion; a
// resolved invocation with neither is an abandoned unit and surfaces as
// ErrAborted, never a silent default.
func (b *Bridge) resolve(inv *invocation, aborted bool) (interface{}, error) {
	if f := inv.outcome.takeFailure(); f != nil {
		err := newTaskError(f)
		f = nil
		d := inv.outcome.releaseAndCollect()
		inv.setState(StateCleaned)
		if b.onCleanup != nil {
			b.onCleanup(d)
		}
		return nil, err
	}

	if v, ok := inv.outcome.takeValue(); ok {
		inv.setState(StateCleaned)
		return v, nil
	}

	inv.setState(StateCleaned)
	if aborted {
		return nil, fmt.Errorf("bridge: unit abandoned before it ran: %w", gberrors.ErrAborted)
	}
	return nil, fmt.Errorf("bridge: unit resolved without an outcome: %w", gberrors.ErrAborted)
}
