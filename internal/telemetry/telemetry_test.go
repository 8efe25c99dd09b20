package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/donaldgifford/slash/internal/config"
	"github.com/donaldgifford/slash/pkg/logger"
)

func TestSetup_Disabled(t *testing.T) {
	t.Parallel()

	for _, cfg := range []*config.TelemetryConfig{nil, {Enabled: false, Endpoint: "ignored:4317"}} {
		tracer, shutdown, err := Setup(context.Background(), cfg, logger.Discard())
		require.NoError(t, err)
		require.NotNil(t, tracer)

		_, span := tracer.Start(context.Background(), "noop")
		assert.False(t, span.SpanContext().IsValid())
		span.End()

		assert.NoError(t, shutdown(context.Background()))
	}
}

func TestSetup_Enabled(t *testing.T) {
	cfg := &config.TelemetryConfig{
		Enabled:     true,
		Endpoint:    "127.0.0.1:4317",
		Insecure:    true,
		ServiceName: "slash-test",
		SampleRatio: 1,
	}

	tracer, shutdown, err := Setup(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)

	_, isSDK := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, isSDK)

	_, span := tracer.Start(context.Background(), "sampled")
	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.SpanContext().IsSampled())
	span.End()

	// The collector is not running; only make sure shutdown returns.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
