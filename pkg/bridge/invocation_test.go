package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/vnykmshr/gobridge/internal/testutil"
)

func TestInvocationStateString(t *testing.T) {
	tests := []struct {
		state InvocationState
		want  string
	}{
		{StateCreated, "created"},
		{StateSubmitted, "submitted"},
		{StateRunning, "running"},
		{StateCompletedOK, "completed_ok"},
		{StateCompletedError, "completed_error"},
		{StateAborted, "aborted"},
		{StateCleaned, "cleaned"},
		{InvocationState(99), "unknown"},
	}

	for _, tt := range tests {
		testutil.AssertEqual(t, tt.state.String(), tt.want)
	}
}

func TestSuperviseStoresValue(t *testing.T) {
	inv := newInvocation()
	fn := inv.supervise(UnitFunc(func(ctx context.Context) (interface{}, error) {
		return "done", nil
	}))
	fn(context.Background())

	testutil.AssertEqual(t, inv.currentState(), StateCompletedOK)
	v, ok := inv.outcome.takeValue()
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, v.(string), "done")
	if inv.outcome.takeFailure() != nil {
		t.Error("failure slot should be empty on success")
	}
}

func TestSuperviseCapturesError(t *testing.T) {
	inv := newInvocation()
	boom := errors.New("boom")
	fn := inv.supervise(UnitFunc(func(ctx context.Context) (interface{}, error) {
		return nil, boom
	}))
	fn(context.Background())

	testutil.AssertEqual(t, inv.currentState(), StateCompletedError)
	f := inv.outcome.takeFailure()
	if f == nil {
		t.Fatal("expected captured failure")
	}
	testutil.AssertErrorIs(t, f.err, boom)
	if len(f.stack) == 0 {
		t.Error("expected stack capture")
	}
	_, ok := inv.outcome.takeValue()
	testutil.AssertEqual(t, ok, false)
}

func TestSuperviseCapturesPanicWithoutEscaping(t *testing.T) {
	inv := newInvocation()
	fn := inv.supervise(UnitFunc(func(ctx context.Context) (interface{}, error) {
		panic("kaboom")
	}))

	// Must not propagate.
	fn(context.Background())

	testutil.AssertEqual(t, inv.currentState(), StateCompletedError)
	f := inv.outcome.takeFailure()
	if f == nil {
		t.Fatal("expected captured failure")
	}
	testutil.AssertEqual(t, f.panicValue.(string), "kaboom")
}
