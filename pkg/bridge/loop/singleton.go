package loop

import (
	"fmt"
	"sync"

	gberrors "github.com/vnykmshr/gobridge/pkg/common/errors"
)

// The process-wide default thread. Constructed lazily on first use and torn
// down once by ShutdownDefault during process exit.
var (
	defaultMu     sync.Mutex
	defaultThread *Thread
	defaultClosed bool
)

// Default returns the process-wide dispatch loop thread, lazily constructing
// and starting it on first call. It is safe for concurrent first use; exactly
// one thread is ever constructed. After ShutdownDefault it returns
// ErrUnavailable.
func Default() (*Thread, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultClosed {
		return nil, fmt.Errorf("loop: default thread has been shut down: %w", gberrors.ErrUnavailable)
	}
	if defaultThread != nil {
		return defaultThread, nil
	}

	t, err := New(Config{Name: "default"})
	if err != nil {
		return nil, err
	}
	if err := t.Start(); err != nil {
		return nil, err
	}
	defaultThread = t
	return t, nil
}

// SetDefault installs t as the process-wide thread. The worker runtime calls
// this at startup when it wants to own construction rather than rely on lazy
// initialization. It replaces but does not stop any existing default.
func SetDefault(t *Thread) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultThread = t
	defaultClosed = t == nil
}

// ShutdownDefault stops the process-wide thread and waits for its dispatch
// goroutine to exit. It is idempotent; every subsequent Default call fails
// fast with ErrUnavailable.
func ShutdownDefault() {
	defaultMu.Lock()
	t := defaultThread
	defaultThread = nil
	defaultClosed = true
	defaultMu.Unlock()

	if t != nil {
		<-t.Stop()
	}
}

// ResetDefault clears the default thread state so a later Default call
// constructs a fresh one. Intended for tests.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultThread = nil
	defaultClosed = false
}
