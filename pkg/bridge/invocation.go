package bridge

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
)

// InvocationState tracks an invocation through its lifecycle. Cleaned is
// terminal; invocations are never reused.
type InvocationState int32

const (
	StateCreated InvocationState = iota
	StateSubmitted
	StateRunning
	StateCompletedOK
	StateCompletedError
	StateAborted
	StateCleaned
)

func (s InvocationState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateSubmitted:
		return "submitted"
	case StateRunning:
		return "running"
	case StateCompletedOK:
		return "completed_ok"
	case StateCompletedError:
		return "completed_error"
	case StateAborted:
		return "aborted"
	case StateCleaned:
		return "cleaned"
	default:
		return "unknown"
	}
}

// invocation is the per-call bookkeeping for one trip through the bridge.
// Every reference to it is dropped when Run returns.
type invocation struct {
	state   atomic.Int32
	outcome slot
}

func newInvocation() *invocation {
	return &invocation{}
}

func (inv *invocation) setState(s InvocationState) {
	inv.state.Store(int32(s))
}

func (inv *invocation) currentState() InvocationState {
	return InvocationState(inv.state.Load())
}

// supervise wraps the unit in the closure submitted to the loop. The
// closure stores the outcome into the invocation's slot and never lets the
// raw failure escape: a returned error or recovered panic goes into the
// failure slot together with the stack captured where it surfaced.
func (inv *invocation) supervise(unit Unit) func(ctx context.Context) {
	return func(ctx context.Context) {
		inv.setState(StateRunning)
		defer func() {
			if r := recover(); r != nil {
				inv.outcome.capture(&failure{
					err:        fmt.Errorf("unit panicked: %v", r),
					panicValue: r,
					stack:      debug.Stack(),
				})
				inv.setState(StateCompletedError)
			}
		}()

		v, err := unit.Execute(ctx)
		if err != nil {
			inv.outcome.capture(&failure{
				err:   err,
				stack: debug.Stack(),
			})
			inv.setState(StateCompletedError)
			return
		}
		inv.outcome.complete(v)
		inv.setState(StateCompletedOK)
	}
}
