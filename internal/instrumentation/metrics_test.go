package instrumentation

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	metrics, err := NewMetrics(meter, false)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	if metrics == nil {
		t.Fatal("NewMetrics() returned nil")
	}

	// With a noop meter metric values cannot be read back; recording must
	// at least not panic.
	ctx := context.Background()
	metrics.RecordGraphRequest(ctx, "GET", 200, 0, 40*time.Millisecond)
	metrics.RecordGraphRequest(ctx, "POST", 429, 2, time.Second)
	metrics.RecordTokenRefresh(ctx, StatusSuccess)
	metrics.RecordLogin(ctx, StatusError)
	metrics.RecordToolInvocation(ctx, "list-mail", StatusSuccess, "work", 5*time.Millisecond)
	metrics.IncrementActiveSessions(ctx)
	metrics.DecrementActiveSessions(ctx)
}

func TestZeroValueMetricsIsNoOp(t *testing.T) {
	// A zero-value Metrics is what uninstrumented servers carry. Every
	// recorder must tolerate it.
	m := &Metrics{}
	ctx := context.Background()

	m.RecordGraphRequest(ctx, "GET", 200, 0, time.Millisecond)
	m.RecordTokenRefresh(ctx, StatusSuccess)
	m.RecordLogin(ctx, StatusSuccess)
	m.RecordToolInvocation(ctx, "list-mail", StatusSuccess, "", time.Millisecond)
	m.IncrementActiveSessions(ctx)
	m.DecrementActiveSessions(ctx)
}

func TestNewMetricsDetailedLabels(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	metrics, err := NewMetrics(meter, true)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	// Account label path only runs with detailed labels on.
	metrics.RecordToolInvocation(context.Background(), "list-mail", StatusSuccess, "work@example.com", time.Millisecond)
}
