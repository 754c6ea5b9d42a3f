/*
Package loop provides the dispatch loop thread behind the invocation bridge.

A Thread owns one background goroutine that accepts submissions from any
number of other goroutines and hands each one to the runtime scheduler for
concurrent execution. The submission queue is the only synchronization
boundary; no other shared mutable state exists.

	th, err := loop.New(loop.Config{Name: "workers"})
	if err != nil {
		log.Fatal(err)
	}
	if err := th.Start(); err != nil {
		log.Fatal(err)
	}
	defer func() { <-th.Stop() }()

	handle, err := th.Submit(func(ctx context.Context) {
		// runs on the loop
	})
	if err != nil {
		log.Fatal(err)
	}
	<-handle.Done()

Lifecycle:

Start is idempotent and blocks until the loop is accepting work. Stop cancels
the context passed to in-flight units, resolves queued-but-unstarted
submissions as aborted, and joins the dispatch goroutine; it never cancels a
unit mid-execution beyond that context signal. A stopped or dead thread
rejects every submission with errors matching ErrUnavailable, immediately and
without retrying.

If a panic escapes the dispatch loop itself the thread is marked dead; this
is distinct from a panic inside a submitted unit, which is recovered per
unit and never affects the loop.

The Default/SetDefault/ShutdownDefault functions manage the process-wide
singleton thread the bridge package builds on. Construction is lazy and
guarded so concurrent first use creates exactly one thread.
*/
package loop
