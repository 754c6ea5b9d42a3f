/*
Package metrics provides Prometheus instrumentation for gobridge components.

All metrics live under the "gobridge" namespace, split into bridge, cleanup
and loop subsystems. Components are wired to a Registry through their
metrics-enabled constructors; the DefaultRegistry registers against
prometheus.DefaultRegisterer.

Basic usage:

	registry := prometheus.NewRegistry()
	cfg := metrics.Config{Enabled: true, Registry: registry}

	b, err := bridge.NewWithMetrics(bridgeCfg, "workers", cfg)
	if err != nil {
		log.Fatal(err)
	}

	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

The exported metric families cover invocation volume and outcome taxonomy
(completed, failed, aborted, abandoned, rejected), invocation latency,
callers currently blocked, forced collection passes performed by the outcome
cleanup path, and dispatch loop state.
*/
package metrics
