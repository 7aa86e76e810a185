package obs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/frozen-toko/internal/obs"
)

func TestInitTracerNoneExporter(t *testing.T) {
	shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{Exporter: "NONE"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitTracerRejectsUnknownExporter(t *testing.T) {
	_, err := obs.InitTracer(context.Background(), obs.TracingConfig{Exporter: "zipkin"})
	require.ErrorContains(t, err, "zipkin")
}

func TestSamplerRatio(t *testing.T) {
	require.Contains(t, obs.Sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
	for _, ratio := range []float64{0, -1, 1.5, 1} {
		require.Contains(t, obs.Sampler(ratio).Description(), "root:AlwaysOnSampler", "ratio=%v", ratio)
	}
}

func TestOTLPOptions(t *testing.T) {
	require.Empty(t, obs.OTLPOptions(" "))
	require.Len(t, obs.OTLPOptions("https://collector.example:4318/v1/traces"), 1)
	require.Len(t, obs.OTLPOptions("otel-collector:4318"), 2)
}
