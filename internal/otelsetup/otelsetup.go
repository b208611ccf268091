// Licensed to Andrew Kroh under one or more agreements.
// Andrew Kroh licenses this file to you under the Apache 2.0 License.
// See the LICENSE file in the project root for more information.

// Package otelsetup provides OpenTelemetry bootstrap helpers.
package otelsetup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/contrib/exporters/autoexport"
	"go.opentelemetry.io/contrib/instrumentation/host"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config selects the optional instrumentation started by Setup.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// RuntimeMetrics starts Go runtime metrics (GC, goroutines, memory).
	RuntimeMetrics bool

	// HostMetrics starts host CPU, memory and network metrics.
	HostMetrics bool
}

// Setup initializes OpenTelemetry trace and metric providers. Exporters
// are chosen by the standard OTEL_TRACES_EXPORTER and
// OTEL_METRICS_EXPORTER environment variables ("otlp", "console",
// "none", ...). It returns a shutdown function that should be deferred
// by the caller.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error

	// Build the shutdown function that calls all registered shutdown functions.
	shutdown = func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdownFuncs {
			if fnErr := fn(ctx); fnErr != nil {
				errs = append(errs, fnErr)
			}
		}
		return errors.Join(errs...)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return shutdown, err
	}

	// Set up the propagator (W3C TraceContext + Baggage).
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	spanExporter, err := autoexport.NewSpanExporter(ctx)
	if err != nil {
		return shutdown, fmt.Errorf("creating span exporter: %w", err)
	}
	if !autoexport.IsNoneSpanExporter(spanExporter) {
		tracerProvider := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(spanExporter),
			sdktrace.WithResource(res),
		)
		shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
		otel.SetTracerProvider(tracerProvider)
	}

	reader, err := autoexport.NewMetricReader(ctx)
	if err != nil {
		return shutdown, fmt.Errorf("creating metric reader: %w", err)
	}
	if autoexport.IsNoneMetricReader(reader) {
		return shutdown, nil
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(reader),
		metric.WithResource(res),
	)
	shutdownFuncs = append(shutdownFuncs, meterProvider.Shutdown)
	otel.SetMeterProvider(meterProvider)

	if cfg.RuntimeMetrics {
		if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
			return shutdown, fmt.Errorf("starting runtime metrics: %w", err)
		}
	}
	if cfg.HostMetrics {
		if err := host.Start(host.WithMeterProvider(meterProvider)); err != nil {
			return shutdown, fmt.Errorf("starting host metrics: %w", err)
		}
	}

	return shutdown, nil
}

// NewLogger creates a new slog.Logger with JSON output at the given level
// and the span and GitHub request ids from the record context.
func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewContextHandler(jsonHandler))
}
