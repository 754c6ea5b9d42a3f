package bridge

import (
	"context"
	"errors"
	"time"

	gberrors "github.com/vnykmshr/gobridge/pkg/common/errors"
	"github.com/vnykmshr/gobridge/pkg/metrics"
)

// MetricsBridge wraps a Bridge with Prometheus metrics collection.
type MetricsBridge struct {
	bridge   *Bridge
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a new bridge with metrics enabled.
func NewWithMetrics(cfg Config, name string, metricsConfig metrics.Config) (Runner, error) {
	if !metricsConfig.Enabled {
		return New(cfg)
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	mb := &MetricsBridge{
		name:     name,
		registry: registry,
		enabled:  true,
	}

	// The cleanup hook is the only way to observe forced collection passes,
	// which happen inside Run before it returns.
	cfg.OnCleanup = func(d time.Duration) {
		if mb.enabled {
			mb.registry.CleanupCollections.WithLabelValues(mb.name).Inc()
			mb.registry.CleanupDuration.WithLabelValues(mb.name).Observe(d.Seconds())
		}
	}

	base, err := New(cfg)
	if err != nil {
		return nil, err
	}
	mb.bridge = base
	mb.updateLoopMetrics()
	return mb, nil
}

// updateLoopMetrics refreshes the dispatch loop gauges.
func (mb *MetricsBridge) updateLoopMetrics() {
	if !mb.enabled {
		return
	}
	th := mb.bridge.thread
	mb.registry.LoopState.WithLabelValues(th.Name()).Set(float64(th.State()))
	mb.registry.LoopQueued.WithLabelValues(th.Name()).Set(float64(th.Queued()))
	mb.registry.LoopUnitsInflight.WithLabelValues(th.Name()).Set(float64(th.InFlight()))
}

// Run executes unit through the underlying bridge and records metrics.
func (mb *MetricsBridge) Run(ctx context.Context, unit Unit) (interface{}, error) {
	if !mb.enabled {
		return mb.bridge.Run(ctx, unit)
	}

	mb.registry.BridgeInvocations.WithLabelValues(mb.name).Inc()
	mb.registry.BridgeInflight.WithLabelValues(mb.name).Inc()
	start := time.Now()

	v, err := mb.bridge.Run(ctx, unit)

	mb.registry.BridgeInflight.WithLabelValues(mb.name).Dec()
	mb.registry.BridgeDuration.WithLabelValues(mb.name).Observe(time.Since(start).Seconds())

	var taskErr *TaskError
	switch {
	case err == nil:
		mb.registry.BridgeCompleted.WithLabelValues(mb.name).Inc()
	case errors.As(err, &taskErr):
		mb.registry.BridgeFailed.WithLabelValues(mb.name).Inc()
	case errors.Is(err, gberrors.ErrUnavailable):
		mb.registry.BridgeRejected.WithLabelValues(mb.name).Inc()
	case errors.Is(err, gberrors.ErrAborted):
		mb.registry.BridgeAborted.WithLabelValues(mb.name).Inc()
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		mb.registry.BridgeAbandoned.WithLabelValues(mb.name).Inc()
	default:
		mb.registry.BridgeFailed.WithLabelValues(mb.name).Inc()
	}

	mb.updateLoopMetrics()
	return v, err
}

// EnableMetrics enables metrics collection.
func (mb *MetricsBridge) EnableMetrics(config metrics.Config) error {
	mb.enabled = config.Enabled
	if config.Registry != nil {
		mb.registry = metrics.NewRegistry(config.Registry)
	}
	if mb.enabled {
		mb.updateLoopMetrics()
	}
	return nil
}

// DisableMetrics disables metrics collection.
func (mb *MetricsBridge) DisableMetrics() {
	mb.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mb *MetricsBridge) MetricsEnabled() bool {
	return mb.enabled
}
