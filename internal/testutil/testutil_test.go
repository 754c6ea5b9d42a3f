package testutil

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(t)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected context to have a deadline")
	}
	if time.Until(deadline) > TestTimeout {
		t.Errorf("deadline too far in the future: %v", deadline)
	}
}

func TestAssertErrorIs(t *testing.T) {
	sentinel := errors.New("sentinel")
	wrapped := errors.Join(errors.New("outer"), sentinel)
	AssertErrorIs(t, wrapped, sentinel)
}

func TestEventually(t *testing.T) {
	var n atomic.Int32
	Eventually(t, time.Second, time.Millisecond, func() bool {
		return n.Add(1) >= 3
	}, "counter should reach 3")
}
