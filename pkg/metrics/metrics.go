// Package metrics provides Prometheus instrumentation for gobridge components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for gobridge components.
type Registry struct {
	// Invocation Bridge Metrics
	BridgeInvocations *prometheus.CounterVec
	BridgeCompleted   *prometheus.CounterVec
	BridgeFailed      *prometheus.CounterVec
	BridgeAborted     *prometheus.CounterVec
	BridgeAbandoned   *prometheus.CounterVec
	BridgeRejected    *prometheus.CounterVec
	BridgeDuration    *prometheus.HistogramVec
	BridgeInflight    *prometheus.GaugeVec

	// Outcome Cleanup Metrics
	CleanupCollections *prometheus.CounterVec
	CleanupDuration    *prometheus.HistogramVec

	// Dispatch Loop Metrics
	LoopState         *prometheus.GaugeVec
	LoopQueued        *prometheus.GaugeVec
	LoopUnitsInflight *prometheus.GaugeVec
}

// DefaultRegistry is the default metrics registry used by gobridge components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Invocation Bridge Metrics
		BridgeInvocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gobridge",
				Subsystem: "bridge",
				Name:      "invocations_total",
				Help:      "Total number of invocations submitted through the bridge",
			},
			[]string{"bridge_name"},
		),

		BridgeCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gobridge",
				Subsystem: "bridge",
				Name:      "completed_total",
				Help:      "Total number of invocations that returned a value",
			},
			[]string{"bridge_name"},
		),

		BridgeFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gobridge",
				Subsystem: "bridge",
				Name:      "failed_total",
				Help:      "Total number of invocations that re-raised a unit failure",
			},
			[]string{"bridge_name"},
		),

		BridgeAborted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gobridge",
				Subsystem: "bridge",
				Name:      "aborted_total",
				Help:      "Total number of invocations resolved without an outcome",
			},
			[]string{"bridge_name"},
		),

		BridgeAbandoned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gobridge",
				Subsystem: "bridge",
				Name:      "abandoned_total",
				Help:      "Total number of waits abandoned at an interruption checkpoint",
			},
			[]string{"bridge_name"},
		),

		BridgeRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gobridge",
				Subsystem: "bridge",
				Name:      "rejected_total",
				Help:      "Total number of submissions rejected by an unavailable loop",
			},
			[]string{"bridge_name"},
		),

		BridgeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gobridge",
				Subsystem: "bridge",
				Name:      "invocation_duration_seconds",
				Help:      "Wall time from submission to outcome retrieval",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"bridge_name"},
		),

		BridgeInflight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gobridge",
				Subsystem: "bridge",
				Name:      "inflight",
				Help:      "Number of callers currently blocked on an invocation",
			},
			[]string{"bridge_name"},
		),

		// Outcome Cleanup Metrics
		CleanupCollections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gobridge",
				Subsystem: "cleanup",
				Name:      "collections_total",
				Help:      "Total number of forced collection passes after failures",
			},
			[]string{"bridge_name"},
		),

		CleanupDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gobridge",
				Subsystem: "cleanup",
				Name:      "collection_duration_seconds",
				Help:      "Time spent in forced collection passes",
				Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
			},
			[]string{"bridge_name"},
		),

		// Dispatch Loop Metrics
		LoopState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gobridge",
				Subsystem: "loop",
				Name:      "state",
				Help:      "Dispatch loop state (0=new, 1=running, 2=stopped, 3=dead)",
			},
			[]string{"loop_name"},
		),

		LoopQueued: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gobridge",
				Subsystem: "loop",
				Name:      "queued_submissions",
				Help:      "Number of submissions waiting for dispatch",
			},
			[]string{"loop_name"},
		),

		LoopUnitsInflight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gobridge",
				Subsystem: "loop",
				Name:      "units_inflight",
				Help:      "Number of units currently executing on the loop",
			},
			[]string{"loop_name"},
		),
	}
}
