package bridge

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"
)

// failure is the captured form of a unit failure: the error, the stack at
// the point of capture, and the recovered value when the unit panicked.
// It is stored and cleared as one atomic triple so no partial failure state
// is ever observable.
type failure struct {
	err        error
	panicValue interface{}
	stack      []byte
}

// slot holds at most one outcome for an invocation: either a value or a
// captured failure, never both. Reads empty the slot so no reference
// survives inside the bridge once the caller has the outcome.
type slot struct {
	mu       sync.Mutex
	value    interface{}
	hasValue bool
	fail     *failure
}

// complete stores a success value. It is a no-op if the slot is already
// populated; the first outcome wins.
func (s *slot) complete(v interface{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasValue || s.fail != nil {
		return false
	}
	s.value = v
	s.hasValue = true
	return true
}

// capture stores a failure triple. It is a no-op if the slot is already
// populated.
func (s *slot) capture(f *failure) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasValue || s.fail != nil {
		return false
	}
	s.fail = f
	return true
}

// takeValue returns and clears the stored value.
func (s *slot) takeValue() (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasValue {
		return nil, false
	}
	v := s.value
	s.value = nil
	s.hasValue = false
	return v, true
}

// takeFailure returns and clears the stored failure.
func (s *slot) takeFailure() *failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.fail
	s.fail = nil
	return f
}

// releaseAndCollect empties every field of the slot and then forces a
// synchronous, complete collection pass. The runtime's incremental pacing
// does not fire often enough under tight retry loops to reclaim large
// failure payloads before the next one arrives, so the bridge collects
// eagerly on every failure path. Returns how long the pass took.
func (s *slot) releaseAndCollect() time.Duration {
	s.mu.Lock()
	s.value = nil
	s.hasValue = false
	if s.fail != nil {
		s.fail.err = nil
		s.fail.panicValue = nil
		s.fail.stack = nil
		s.fail = nil
	}
	s.mu.Unlock()

	start := time.Now()
	runtime.GC()
	debug.FreeOSMemory()
	return time.Since(start)
}
