// Package o11y builds the logger, tracer provider and metrics registry shared
// by the server.
package o11y

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"

	"ridereservation/internal/config"
)

type Observability struct {
	Logger   *slog.Logger
	Tracer   *trace.TracerProvider
	Registry *prometheus.Registry
}

// Setup writes JSON logs to stdout. See SetupWithWriter.
func Setup(ctx context.Context, cfg config.ObservabilityConfig) (*Observability, func(), error) {
	return SetupWithWriter(ctx, cfg, os.Stdout)
}

// SetupWithWriter is Setup with the log destination made explicit. The
// returned cleanup flushes and stops the tracer provider; it is safe to call
// even when Setup fails.
func SetupWithWriter(ctx context.Context, cfg config.ObservabilityConfig, w io.Writer) (*Observability, func(), error) {
	noop := func() {}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, noop, err
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	opts := []trace.TracerProviderOption{
		trace.WithSampler(trace.ParentBased(trace.AlwaysSample())),
	}
	if cfg.TracingEnabled {
		exporter, err := otlptracehttp.New(ctx,
			otlptracehttp.WithInsecure(),
			otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
		)
		if err != nil {
			return nil, noop, err
		}
		opts = append(opts, trace.WithBatcher(exporter))
	}
	tp := trace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	cleanup := func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("tracer provider shutdown failed", slog.Any("error", err))
		}
	}

	return &Observability{
		Logger:   logger,
		Tracer:   tp,
		Registry: registry,
	}, cleanup, nil
}
