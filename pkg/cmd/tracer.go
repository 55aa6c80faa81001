package cmd

import (
	"context"
	"log/slog"

	"github.com/pagecraft/pagecraft/pkg/otelhelper"
	"go.opentelemetry.io/otel/trace"
)

// NewTracer returns an OTLP tracer when enabled and a no-op tracer otherwise, together
// with the function that flushes it on shutdown.
//
//nolint:ireturn // OpenTelemetry tracers are interfaces
func NewTracer(ctx context.Context, logger *slog.Logger, serviceName string, enabled bool) (trace.Tracer, func(context.Context) error, error) {
	if !enabled {
		return otelhelper.NoopTracer(), func(context.Context) error { return nil }, nil
	}

	logger.InfoContext(ctx, "Exporting traces over OTLP", "service", serviceName)

	return otelhelper.NewTracer(ctx, serviceName)
}
