package obs

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// TracingConfig controls tracer provider initialisation.
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Exporter       string
	SamplingRatio  float64
	Environment    string
}

const (
	ExporterOTLP = "otlp"
	ExporterNone = "none"
)

// InitTracer installs the global tracer provider and W3C propagators and returns the
// provider's shutdown function. ExporterNone leaves the global no-op provider in place.
func InitTracer(ctx context.Context, cfg TracingConfig) (func(context.Context) error, error) {
	exporter := strings.ToLower(strings.TrimSpace(cfg.Exporter))
	switch exporter {
	case ExporterNone:
		return func(context.Context) error { return nil }, nil
	case "", ExporterOTLP:
	default:
		return nil, fmt.Errorf("unsupported tracing exporter: %s", exporter)
	}
	spanExporter, err := otlptracehttp.New(ctx, OTLPOptions(cfg.Endpoint)...)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	attrs := []attribute.KeyValue{
		semconv.ServiceNameKey.String(cfg.ServiceName),
		semconv.DeploymentEnvironmentKey.String(cfg.Environment),
	}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersionKey.String(cfg.ServiceVersion))
	}
	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(attrs...),
	)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(Sampler(cfg.SamplingRatio)),
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

// Sampler honours the caller's sampling decision and samples new traces at ratio.
// Ratios outside (0,1] sample everything.
func Sampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// OTLPOptions maps OBS_OTLP_ENDPOINT to exporter options. A full URL is used as is; a
// bare host:port is a plaintext collector. Empty leaves the OTEL_EXPORTER_OTLP_*
// environment in charge.
func OTLPOptions(endpoint string) []otlptracehttp.Option {
	endpoint = strings.TrimSpace(endpoint)
	switch {
	case endpoint == "":
		return nil
	case strings.Contains(endpoint, "://"):
		return []otlptracehttp.Option{otlptracehttp.WithEndpointURL(endpoint)}
	default:
		return []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure()}
	}
}
