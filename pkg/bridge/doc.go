/*
Package bridge converts asynchronous execution on a shared dispatch loop
into ordinary blocking calls.

Many preemptive worker goroutines each call Run with a unit of work; one
background dispatch loop executes all units concurrently; each caller blocks
until its own unit resolves and then observes the value or failure exactly
as if the unit had run in-line. The bridge guarantees that a failed
invocation leaves no memory behind: the captured failure and everything it
references are released and collected before control returns to the caller,
so a tight retry loop of failing units holding large payloads stays at
constant memory instead of growing with every attempt.

Basic usage:

	th, _ := loop.New(loop.Config{Name: "workers"})
	_ = th.Start()
	defer func() { <-th.Stop() }()

	b, err := bridge.New(bridge.Config{Thread: th})
	if err != nil {
		log.Fatal(err)
	}

	v, err := b.Run(ctx, bridge.UnitFunc(func(ctx context.Context) (interface{}, error) {
		return fetch(ctx, url)
	}))

Or through the process-wide singleton, which lazily starts the default
dispatch loop on first use:

	v, err := bridge.Run(ctx, unit)
	...
	bridge.Shutdown() // on process exit; later Runs fail fast

Units:

A Unit is opaque to the bridge. Its context is canceled only when the
dispatch loop shuts down; an abandoned wait never cancels the unit.

	unit := bridge.UnitFunc(func(ctx context.Context) (interface{}, error) {
		select {
		case v := <-resultCh:
			return v, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

Waiting and interruption:

Run waits in a bounded loop of Config.PollInterval. Each expiry is a
checkpoint where cancellation of the caller's context is observed; the wait
is then abandoned and Run returns the context error while the unit keeps
executing on the loop. True mid-flight cancellation is out of scope.

Failure semantics:

A unit failure (returned error or recovered panic) is captured on the loop
as one atomic triple of error, stack and panic value, stored in the
invocation's failure slot, and re-raised to the caller as a *TaskError:

	v, err := b.Run(ctx, unit)
	var te *bridge.TaskError
	if errors.As(err, &te) {
		log.Printf("unit failed: %v\n%s", te, te.Stack())
	}

errors.Is and errors.As see through the TaskError to the unit's original
error, so callers classify failures the same way they would for in-line
execution. After building the TaskError the bridge clears every field of the
failure slot and forces a complete collection pass; the error held by the
caller is then the only live reference to the failure.

Errors from the bridge itself are fatal and never retried internally:
submissions after Shutdown, or to a dead dispatch loop, fail immediately
with an error matching errors.ErrUnavailable from pkg/common/errors; an
invocation that resolves without an outcome (abandoned during Stop before it
ran) fails with ErrAborted.

Retry policy belongs to the caller. The bridge never retries a unit and
never suppresses its failure; it only guarantees that propagating the
failure is memory-neutral.

Metrics:

NewWithMetrics wraps a bridge with Prometheus instrumentation covering
invocation volume and outcome taxonomy, latency, blocked callers, forced
collection passes and dispatch loop state. See pkg/metrics.

Thread safety:

All bridge operations are safe for concurrent use. The dispatch loop's
submission queue is the only synchronization boundary; the bridge itself
holds no per-invocation state between calls.
*/
package bridge
