package tracing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jhoicas/ordenes-api/internal/infrastructure/tracing"
	"github.com/jhoicas/ordenes-api/pkg/config"
)

func TestSetup_SinEndpointEsNoop(t *testing.T) {
	tp, shutdown, err := tracing.Setup(context.Background(), config.TracingConfig{}, "ordenes-api", "test")
	require.NoError(t, err)
	require.NotNil(t, tp)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	assert.False(t, span.SpanContext().IsValid(), "el provider no-op no genera spans reales")
	span.End()
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_ConEndpoint(t *testing.T) {
	tp, shutdown, err := tracing.Setup(context.Background(),
		config.TracingConfig{OTLPEndpoint: "http://localhost:4318"}, "ordenes-api", "test")
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = shutdown(ctx)
}

func TestSetup_ConEndpointDescribeElServicio(t *testing.T) {
	tp, shutdown, err := tracing.Setup(context.Background(),
		config.TracingConfig{OTLPEndpoint: "http://localhost:4318"}, "ordenes-api", "staging")
	require.NoError(t, err, "el resource no debe chocar con el schema del SDK")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = shutdown(ctx)
	}()

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	ro, ok := span.(sdktrace.ReadOnlySpan)
	require.True(t, ok)

	attrs := map[string]string{}
	for _, kv := range ro.Resource().Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "ordenes-api", attrs["service.name"])
	assert.Equal(t, "staging", attrs["deployment.environment"])
	assert.Equal(t, "opentelemetry", attrs["telemetry.sdk.name"])
}
