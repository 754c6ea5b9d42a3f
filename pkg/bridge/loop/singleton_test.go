package loop

import (
	"sync"
	"testing"

	"github.com/vnykmshr/gobridge/internal/testutil"
	gberrors "github.com/vnykmshr/gobridge/pkg/common/errors"
)

func TestDefaultLazyConstruction(t *testing.T) {
	ResetDefault()
	t.Cleanup(func() {
		ShutdownDefault()
		ResetDefault()
	})

	th, err := Default()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, th.State(), StateRunning)

	again, err := Default()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, th == again, true)
}

func TestDefaultConcurrentFirstUse(t *testing.T) {
	ResetDefault()
	t.Cleanup(func() {
		ShutdownDefault()
		ResetDefault()
	})

	const n = 16
	threads := make([]*Thread, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			th, err := Default()
			if err != nil {
				t.Errorf("Default failed: %v", err)
				return
			}
			threads[i] = th
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		testutil.AssertEqual(t, threads[i] == threads[0], true)
	}
}

func TestShutdownDefault(t *testing.T) {
	ResetDefault()
	t.Cleanup(ResetDefault)

	th, err := Default()
	testutil.AssertNoError(t, err)

	ShutdownDefault()
	ShutdownDefault() // idempotent

	testutil.AssertEqual(t, th.State(), StateStopped)

	_, err = Default()
	testutil.AssertErrorIs(t, err, gberrors.ErrUnavailable)
}

func TestSetDefault(t *testing.T) {
	ResetDefault()
	t.Cleanup(func() {
		ShutdownDefault()
		ResetDefault()
	})

	th, err := New(Config{Name: "custom"})
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, th.Start())
	SetDefault(th)

	got, err := Default()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got == th, true)
}
