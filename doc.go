/*
Package gobridge provides a synchronous-to-asynchronous execution bridge for
Go applications: many worker goroutines block on one shared dispatch loop
and receive their unit's outcome with guaranteed memory-neutral failure
propagation.

Invocation Bridge (pkg/bridge):
  - bridge: blocking Run over a shared dispatch loop, leak-free failure re-raise
  - bridge/loop: the dispatch loop thread and its process-wide singleton

Supporting packages:
  - metrics: Prometheus instrumentation for bridge and loop
  - common/errors: error taxonomy shared across the library

Example usage:

	import (
		"github.com/vnykmshr/gobridge/pkg/bridge"
	)

	v, err := bridge.Run(ctx, bridge.UnitFunc(func(ctx context.Context) (interface{}, error) {
		return doAsyncWork(ctx)
	}))
	if err != nil {
		// unit failure, re-raised with original classification
	}
	defer bridge.Shutdown()
*/
package gobridge
