// Package observability provides OpenTelemetry tracing for ticketbridge.
// Until Init is called, spans go through the default no-op provider, so
// instrumented code paths need no initialization guard.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

var (
	initOnce sync.Once
	provider *sdktrace.TracerProvider
)

const tracerName = "github.com/ajitpratap0/ticketbridge"

// Config contains tracing configuration
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// SamplingRate in [0,1]; 0 disables sampling, 1 samples everything
	SamplingRate float64
}

// Init sets up the global tracer provider with a stdout exporter
func Init(cfg Config) error {
	var err error

	initOnce.Do(func() {
		var res *resource.Resource
		res, err = resource.New(context.Background(),
			resource.WithAttributes(
				semconv.ServiceNameKey.String(cfg.ServiceName),
				semconv.ServiceVersionKey.String(cfg.ServiceVersion),
				semconv.DeploymentEnvironmentKey.String(cfg.Environment),
			),
		)
		if err != nil {
			err = fmt.Errorf("failed to create resource: %w", err)
			return
		}

		var exporter sdktrace.SpanExporter
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			err = fmt.Errorf("failed to create stdout exporter: %w", err)
			return
		}

		var sampler sdktrace.Sampler
		switch {
		case cfg.SamplingRate <= 0:
			sampler = sdktrace.NeverSample()
		case cfg.SamplingRate >= 1.0:
			sampler = sdktrace.AlwaysSample()
		default:
			sampler = sdktrace.TraceIDRatioBased(cfg.SamplingRate)
		}

		provider = sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sampler),
			sdktrace.WithBatcher(exporter),
		)
		otel.SetTracerProvider(provider)
	})

	return err
}

// Shutdown flushes and stops the tracer provider
func Shutdown(ctx context.Context) error {
	if provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return provider.Shutdown(ctx)
}

// Span wraps an OpenTelemetry span with the small surface the adapter needs
type Span struct {
	span trace.Span
}

// StartSpan starts a span on the global tracer
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &Span{span: span}
}

// End completes the span
func (s *Span) End() {
	s.span.End()
}

// RecordError records an error on the span and marks it failed
func (s *Span) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetStatus maps an HTTP status code onto the span status
func (s *Span) SetStatus(statusCode int) {
	s.span.SetAttributes(attribute.Int("http.status_code", statusCode))
	if statusCode >= http.StatusBadRequest {
		s.span.SetStatus(codes.Error, http.StatusText(statusCode))
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
}

// SetAttributes adds attributes to the span
func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}

// String builds a string span attribute
func String(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// Int builds an int span attribute
func Int(key string, value int) attribute.KeyValue {
	return attribute.Int(key, value)
}

// Bool builds a bool span attribute
func Bool(key string, value bool) attribute.KeyValue {
	return attribute.Bool(key, value)
}
