package loop

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	gberrors "github.com/vnykmshr/gobridge/pkg/common/errors"
	"github.com/vnykmshr/gobridge/pkg/common/validation"
)

// State describes the lifecycle state of a Thread.
type State int32

const (
	// StateNew means the thread has been created but not started.
	StateNew State = iota
	// StateRunning means the dispatch loop is accepting submissions.
	StateRunning
	// StateStopped means the thread was shut down cleanly.
	StateStopped
	// StateDead means the dispatch loop itself terminated unexpectedly.
	StateDead
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Handle is the token returned by Submit. It carries no outcome data;
// it only signals that the submitted function has resolved. Callers must
// drop the handle as soon as the submission resolves.
type Handle struct {
	done    chan struct{}
	aborted atomic.Bool
}

// Done returns a channel closed when the submission has resolved,
// either by running to completion or by being abandoned during Stop.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Aborted reports whether the submission was abandoned before it ran.
// Only meaningful after Done is closed.
func (h *Handle) Aborted() bool {
	return h.aborted.Load()
}

func (h *Handle) abort() {
	h.aborted.Store(true)
	close(h.done)
}

type submission struct {
	fn     func(ctx context.Context)
	handle *Handle
}

// Config holds configuration options for a dispatch loop thread.
type Config struct {
	// Name identifies the thread in logs and metrics. Defaults to "default".
	Name string

	// Logger receives lifecycle events. Defaults to a no-op logger.
	Logger *zerolog.Logger

	// QueueSize is the capacity of the submission queue. Defaults to 64.
	QueueSize int

	// StartTimeout bounds how long Start waits for the dispatch loop to
	// come up. Defaults to 1 second.
	StartTimeout time.Duration

	// StopTimeout bounds how long Stop waits for in-flight units after
	// canceling their context. Defaults to 5 seconds.
	StopTimeout time.Duration
}

// Thread owns a single background dispatch goroutine. Any number of other
// goroutines may call Submit; the submission queue is the only
// synchronization boundary between them and the loop.
type Thread struct {
	name         string
	logger       zerolog.Logger
	queueSize    int
	startTimeout time.Duration
	stopTimeout  time.Duration

	state    atomic.Int32
	started  atomic.Bool
	inflight atomic.Int64

	submitCh chan submission
	readyCh  chan struct{}
	stopCh   chan struct{}
	stopped  chan struct{}

	baseCtx context.Context
	cancel  context.CancelFunc

	unitWg    sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// New creates a dispatch loop thread with the given configuration.
// The thread does not run until Start is called.
func New(cfg Config) (*Thread, error) {
	if cfg.Name == "" {
		cfg.Name = "default"
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 64
	}
	if err := validation.ValidatePositive("loop", "queue_size", cfg.QueueSize); err != nil {
		return nil, err
	}
	if cfg.StartTimeout == 0 {
		cfg.StartTimeout = time.Second
	}
	if cfg.StopTimeout == 0 {
		cfg.StopTimeout = 5 * time.Second
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("loop", cfg.Name).Logger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Thread{
		name:         cfg.Name,
		logger:       logger,
		queueSize:    cfg.QueueSize,
		startTimeout: cfg.StartTimeout,
		stopTimeout:  cfg.StopTimeout,
		submitCh:     make(chan submission, cfg.QueueSize),
		readyCh:      make(chan struct{}),
		stopCh:       make(chan struct{}),
		stopped:      make(chan struct{}),
		baseCtx:      ctx,
		cancel:       cancel,
	}, nil
}

// Name returns the thread's configured name.
func (t *Thread) Name() string {
	return t.name
}

// State returns the current lifecycle state.
func (t *Thread) State() State {
	return State(t.state.Load())
}

// Queued returns the number of submissions waiting for dispatch.
func (t *Thread) Queued() int {
	return len(t.submitCh)
}

// InFlight returns the number of units currently executing on the loop.
func (t *Thread) InFlight() int64 {
	return t.inflight.Load()
}

// Start launches the dispatch loop and blocks until it is accepting
// submissions. It is idempotent; calling Start on a running thread is a
// no-op, and starting a stopped or dead thread returns ErrUnavailable.
func (t *Thread) Start() error {
	switch t.State() {
	case StateRunning:
		return nil
	case StateStopped, StateDead:
		return fmt.Errorf("loop %q: cannot restart: %w", t.name, gberrors.ErrUnavailable)
	}

	var err error
	t.startOnce.Do(func() {
		t.started.Store(true)
		t.logger.Info().Msg("starting dispatch loop")
		go t.run()

		select {
		case <-t.readyCh:
			t.state.Store(int32(StateRunning))
			t.logger.Info().Msg("dispatch loop is running")
		case <-t.stopped:
			err = fmt.Errorf("loop %q: dispatch loop exited during startup: %w", t.name, gberrors.ErrUnavailable)
		case <-time.After(t.startTimeout):
			err = fmt.Errorf("loop %q: dispatch loop failed to start within %v: %w", t.name, t.startTimeout, gberrors.ErrTimeout)
		}
	})
	if err != nil {
		return err
	}
	if t.State() != StateRunning {
		return fmt.Errorf("loop %q: not running: %w", t.name, gberrors.ErrUnavailable)
	}
	return nil
}

// Submit enqueues fn for execution on the loop. It is safe to call from any
// goroutine and does not wait for fn to run. The returned Handle resolves
// when fn has completed or been abandoned. Submissions to a thread that is
// not running fail fast with ErrUnavailable.
func (t *Thread) Submit(fn func(ctx context.Context)) (*Handle, error) {
	if fn == nil {
		return nil, gberrors.NewValidationError("loop", "fn", nil, "cannot be nil")
	}

	switch t.State() {
	case StateNew:
		return nil, fmt.Errorf("loop %q: not started: %w", t.name, gberrors.ErrUnavailable)
	case StateStopped:
		return nil, fmt.Errorf("loop %q: stopped: %w", t.name, gberrors.ErrUnavailable)
	case StateDead:
		return nil, fmt.Errorf("loop %q: dispatch loop has died: %w", t.name, gberrors.ErrUnavailable)
	}

	h := &Handle{done: make(chan struct{})}
	select {
	case t.submitCh <- submission{fn: fn, handle: h}:
		return h, nil
	case <-t.stopCh:
		return nil, fmt.Errorf("loop %q: stopped: %w", t.name, gberrors.ErrUnavailable)
	case <-t.stopped:
		return nil, fmt.Errorf("loop %q: dispatch loop has died: %w", t.name, gberrors.ErrUnavailable)
	}
}

// Stop shuts the thread down: the context passed to in-flight units is
// canceled, queued submissions that never ran resolve as aborted, and the
// dispatch goroutine exits once in-flight units finish or StopTimeout
// elapses. Stop is idempotent. The returned channel closes when the
// dispatch goroutine has exited.
func (t *Thread) Stop() <-chan struct{} {
	t.stopOnce.Do(func() {
		if t.State() != StateDead {
			t.state.Store(int32(StateStopped))
		}
		t.logger.Info().Msg("stopping dispatch loop")
		t.cancel()
		close(t.stopCh)

		if !t.started.Load() {
			// Never ran; nothing to join.
			close(t.stopped)
		}
	})
	return t.stopped
}

// run is the dispatch loop. It is the only goroutine that reads the
// submission queue; each accepted unit executes on its own goroutine so a
// suspended unit never blocks dispatch of the next.
func (t *Thread) run() {
	defer close(t.stopped)
	defer func() {
		if r := recover(); r != nil {
			t.state.Store(int32(StateDead))
			t.cancel()
			t.logger.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("dispatch loop terminated unexpectedly")
		}
	}()

	close(t.readyCh)

	for {
		select {
		case <-t.stopCh:
			t.drain()
			t.awaitUnits()
			t.logger.Info().Msg("dispatch loop stopped")
			return
		case sub := <-t.submitCh:
			t.dispatch(sub)
		}
	}
}

func (t *Thread) dispatch(sub submission) {
	t.unitWg.Add(1)
	t.inflight.Add(1)
	go func() {
		defer func() {
			// The supervisory wrapper submitted by the bridge recovers
			// its own panics; this recover only protects the process
			// from bare Submit callers.
			if r := recover(); r != nil {
				t.logger.Error().
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("submitted unit panicked")
			}
			t.inflight.Add(-1)
			t.unitWg.Done()
			close(sub.handle.done)
		}()
		sub.fn(t.baseCtx)
	}()
}

// drain resolves queued submissions that will never run.
func (t *Thread) drain() {
	for {
		select {
		case sub := <-t.submitCh:
			sub.handle.abort()
		default:
			return
		}
	}
}

func (t *Thread) awaitUnits() {
	done := make(chan struct{})
	go func() {
		t.unitWg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(t.stopTimeout):
		t.logger.Warn().
			Int64("inflight", t.InFlight()).
			Msg("timed out waiting for in-flight units")
	}
}
