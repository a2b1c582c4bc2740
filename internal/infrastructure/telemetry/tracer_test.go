package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

// installRecorder enables tracing with an in-memory exporter and restores the
// previous global provider when the test ends
func installRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	previous := otel.GetTracerProvider()
	exporter := tracetest.NewInMemoryExporter()

	shutdown, err := SetupTracing(context.Background(), Config{
		Enabled:       true,
		ServiceName:   "clothing-store-test",
		SamplingRatio: 1,
	}, zap.NewNop(), WithSpanExporter(exporter))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = shutdown(context.Background())
		otel.SetTracerProvider(previous)
	})
	return exporter
}

func flush(t *testing.T) {
	t.Helper()
	if tp, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); ok {
		require.NoError(t, tp.ForceFlush(context.Background()))
	}
}

func TestSetupTracing_Disabled(t *testing.T) {
	previous := otel.GetTracerProvider()

	shutdown, err := SetupTracing(context.Background(), Config{Enabled: false}, zap.NewNop())

	require.NoError(t, err)
	assert.Same(t, previous, otel.GetTracerProvider())
	assert.NoError(t, shutdown(context.Background()))
}

func TestStartServiceSpan(t *testing.T) {
	exporter := installRecorder(t)

	func() (err error) {
		_, span := StartServiceSpan(context.Background(), "order", "place_cod")
		defer EndSpan(span, &err)
		return errors.New("cart is empty")
	}()
	_, plain := StartServiceSpan(context.Background(), "cart", "add")
	plain.End()
	flush(t)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "order.place_cod", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "cart is empty", spans[0].Status.Description)
	assert.Equal(t, "cart.add", spans[1].Name)
	assert.Equal(t, codes.Unset, spans[1].Status.Code)
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}
