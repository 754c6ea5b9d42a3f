package bridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vnykmshr/gobridge/internal/testutil"
	"github.com/vnykmshr/gobridge/pkg/bridge/loop"
	"github.com/vnykmshr/gobridge/pkg/metrics"
)

func newMetricsBridge(t *testing.T) (*MetricsBridge, *prometheus.Registry) {
	t.Helper()
	th, err := loop.New(loop.Config{Name: "metrics-test"})
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, th.Start())
	t.Cleanup(func() { <-th.Stop() })

	reg := prometheus.NewRegistry()
	r, err := NewWithMetrics(
		Config{Thread: th, PollInterval: 10 * time.Millisecond},
		"test",
		metrics.Config{Enabled: true, Registry: reg},
	)
	testutil.AssertNoError(t, err)

	mb, ok := r.(*MetricsBridge)
	if !ok {
		t.Fatalf("expected *MetricsBridge, got %T", r)
	}
	return mb, reg
}

func TestMetricsDisabledReturnsPlainBridge(t *testing.T) {
	th, err := loop.New(loop.Config{})
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, th.Start())
	t.Cleanup(func() { <-th.Stop() })

	r, err := NewWithMetrics(Config{Thread: th}, "plain", metrics.Config{Enabled: false})
	testutil.AssertNoError(t, err)
	if _, ok := r.(*Bridge); !ok {
		t.Fatalf("expected *Bridge when metrics disabled, got %T", r)
	}
}

func TestMetricsCountOutcomes(t *testing.T) {
	mb, _ := newMetricsBridge(t)

	_, err := mb.Run(context.Background(), UnitFunc(func(ctx context.Context) (interface{}, error) {
		return 1, nil
	}))
	testutil.AssertNoError(t, err)

	_, err = mb.Run(context.Background(), UnitFunc(func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("boom")
	}))
	testutil.AssertError(t, err)

	reg := mb.registry
	testutil.AssertEqual(t, promtest.ToFloat64(reg.BridgeInvocations.WithLabelValues("test")), 2.0)
	testutil.AssertEqual(t, promtest.ToFloat64(reg.BridgeCompleted.WithLabelValues("test")), 1.0)
	testutil.AssertEqual(t, promtest.ToFloat64(reg.BridgeFailed.WithLabelValues("test")), 1.0)
	testutil.AssertEqual(t, promtest.ToFloat64(reg.BridgeInflight.WithLabelValues("test")), 0.0)
	testutil.AssertEqual(t, promtest.ToFloat64(reg.CleanupCollections.WithLabelValues("test")), 1.0)
}

func TestMetricsToggle(t *testing.T) {
	mb, _ := newMetricsBridge(t)

	testutil.AssertEqual(t, mb.MetricsEnabled(), true)
	mb.DisableMetrics()
	testutil.AssertEqual(t, mb.MetricsEnabled(), false)

	// Runs still work with metrics off.
	v, err := mb.Run(context.Background(), UnitFunc(func(ctx context.Context) (interface{}, error) {
		return 7, nil
	}))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v.(int), 7)

	testutil.AssertNoError(t, mb.EnableMetrics(metrics.Config{Enabled: true, Registry: prometheus.NewRegistry()}))
	testutil.AssertEqual(t, mb.MetricsEnabled(), true)
}
