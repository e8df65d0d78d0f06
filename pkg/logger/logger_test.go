package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/ordenes-api/pkg/logger"
)

func TestNew_JSONConServicioYNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Service: "ordenes-api", Out: &buf})

	l.Info().Msg("no debe salir")
	l.Warn().Msg("sí sale")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "sí sale", line["message"])
	assert.Equal(t, "ordenes-api", line["service"])
	assert.Equal(t, "warn", line["level"])
}

func TestFromContext_AgregaTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Out: &buf})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled,
	}))

	zl := l.FromContext(ctx)
	zl.Info().Msg("con traza")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", line["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", line["span_id"])
}

func TestFromContext_SinSpan(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Out: &buf})

	zl := l.FromContext(context.Background())
	zl.Info().Msg("sin traza")
	assert.NotContains(t, buf.String(), "trace_id")
}
