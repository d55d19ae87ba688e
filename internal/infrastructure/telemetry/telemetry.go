// Package telemetry wires OpenTelemetry tracing, metrics and log export
// over OTLP/gRPC.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/masala/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// ServiceVersion is reported as service.version on every signal
var ServiceVersion = "dev"

// Providers owns the SDK providers created by Setup
type Providers struct {
	Tracer *TracerProvider
	Meter  *MeterProvider
	Logs   *LoggerProvider
}

// Setup creates the tracer, meter and logger providers enabled in cfg and
// registers them globally. Disabled signals get no-op providers.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Providers, error) {
	tp, err := NewTracerProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	mp, err := NewMeterProvider(ctx, cfg, logger)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	lp, err := NewLoggerProvider(ctx, cfg, logger)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, err
	}
	return &Providers{Tracer: tp, Meter: mp, Logs: lp}, nil
}

// Shutdown flushes and stops every provider, returning all errors joined
func (p *Providers) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return errors.Join(
		p.Logs.Shutdown(ctx),
		p.Meter.Shutdown(ctx),
		p.Tracer.Shutdown(ctx),
	)
}

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
