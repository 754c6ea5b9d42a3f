package bridge

import (
	"context"
	"sync"

	"github.com/vnykmshr/gobridge/pkg/bridge/loop"
)

// The process-wide default bridge, built on the loop package's default
// thread. The worker runtime acquires it lazily on first use and shuts it
// down once during graceful exit.
var (
	defaultMu     sync.Mutex
	defaultBridge *Bridge
)

// Acquire returns the process-wide Bridge, lazily constructing it (and
// starting the default dispatch loop thread) on first call. Safe under
// concurrent first use. After Shutdown it fails with ErrUnavailable.
func Acquire() (*Bridge, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultBridge != nil && defaultBridge.thread.State() == loop.StateRunning {
		return defaultBridge, nil
	}

	th, err := loop.Default()
	if err != nil {
		return nil, err
	}
	b, err := New(Config{Thread: th})
	if err != nil {
		return nil, err
	}
	defaultBridge = b
	return b, nil
}

// Run executes unit through the process-wide bridge. See Bridge.Run.
func Run(ctx context.Context, unit Unit) (interface{}, error) {
	b, err := Acquire()
	if err != nil {
		return nil, err
	}
	return b.Run(ctx, unit)
}

// Shutdown tears the process-wide bridge down: outstanding units have their
// context canceled, the dispatch loop stops and its goroutine is joined.
// Idempotent; any Run after Shutdown fails fast with ErrUnavailable.
func Shutdown() {
	defaultMu.Lock()
	defaultBridge = nil
	defaultMu.Unlock()
	loop.ShutdownDefault()
}

// ResetForTest clears the process-wide bridge and loop thread so a later
// Acquire constructs fresh instances. Intended for tests.
func ResetForTest() {
	defaultMu.Lock()
	defaultBridge = nil
	defaultMu.Unlock()
	loop.ResetDefault()
}
