// Package telemetry wires the OpenTelemetry API for the rest of the module.
// No SDK is installed here: spans and instruments are no-ops until the host
// process registers global providers.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/myblog-api"

// Tracer returns the module tracer from the global provider
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan starts an internal span named after the operation
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err (if any) on span and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// HTTPMetrics holds the server request instruments
type HTTPMetrics struct {
	Requests metric.Int64Counter
	Duration metric.Float64Histogram
}

// NewHTTPMetrics creates the request counter and latency histogram on the global meter
func NewHTTPMetrics() *HTTPMetrics {
	return newHTTPMetrics(otel.Meter(instrumentationName))
}

func newHTTPMetrics(meter metric.Meter) *HTTPMetrics {
	// instrument creation only fails on invalid names
	requests, _ := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Total number of HTTP requests served"),
		metric.WithUnit("{request}"),
	)
	duration, _ := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)
	return &HTTPMetrics{Requests: requests, Duration: duration}
}

// Record adds one finished request to both instruments
func (m *HTTPMetrics) Record(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", status),
	)
	m.Requests.Add(ctx, 1, attrs)
	m.Duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}
