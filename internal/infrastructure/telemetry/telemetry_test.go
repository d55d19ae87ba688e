package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/masala/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ==================== Providers ====================

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{ServiceName: "test"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Tracer.Enabled())
	assert.NotNil(t, p.Tracer.Tracer("x"))
	assert.NotNil(t, p.Meter.Meter("x"))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestLoggerProvider_BridgeDisabledReturnsBase(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	base := zap.New(core)
	lp := &LoggerProvider{logger: zap.NewNop()}
	assert.Same(t, base, lp.Bridge(base, zapcore.InfoLevel))
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "AlwaysOnSampler"},
		{2, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sampler(tt.ratio).Description())
	}
}

// ==================== Spans ====================

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestStartSpan_RecordsNameAndError(t *testing.T) {
	rec := withRecorder(t)

	_, span := StartSpan(context.Background(), "OrderService", "SaveAllocations", AttrOrderID.String("o-1"))
	End(span, errors.New("boom"))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "OrderService.SaveAllocations", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), AttrOrderID.String("o-1"))
	require.Len(t, spans[0].Events(), 1)
}

func TestEnd_NilErrorKeepsStatusUnset(t *testing.T) {
	rec := withRecorder(t)

	_, span := StartSpan(context.Background(), "svc", "op")
	End(span, nil)

	require.Len(t, rec.Ended(), 1)
	assert.Equal(t, codes.Unset, rec.Ended()[0].Status().Code)
}

// ==================== DB tracing ====================

func TestRegisterDBTracing(t *testing.T) {
	rec := withRecorder(t)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := config.TelemetryConfig{DBTraceEnabled: true, DBSlowQueryThresh: time.Nanosecond}
	require.NoError(t, RegisterDBTracing(db, cfg, zap.NewNop()))

	var n int
	require.NoError(t, db.WithContext(context.Background()).Raw("SELECT 1").Scan(&n).Error)
	assert.Equal(t, 1, n)
	assert.NotEmpty(t, rec.Ended())
}

func TestRegisterDBTracing_DisabledIsNoop(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	assert.NoError(t, RegisterDBTracing(db, config.TelemetryConfig{}, zap.NewNop()))
}

// ==================== Allocation metrics ====================

func collect(t *testing.T, reader sdkmetric.Reader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestAllocationMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProviderWithReader(reader)
	m, err := NewAllocationMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordSave(ctx, 3, nil)
	m.RecordSave(ctx, 0, errors.New("fail"))
	m.RecordTransition(ctx, "PACKED", nil)
	m.RecordDeduction(ctx, "kg", decimal.RequireFromString("1.5"))
	m.RecordDeduction(ctx, "kg", decimal.RequireFromString("0.5"))

	got := collect(t, reader)

	saves := got["allocation.saves"].Data.(metricdata.Sum[int64])
	var total int64
	for _, dp := range saves.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(2), total)
	assert.Len(t, saves.DataPoints, 2)

	hist := got["allocation.records"].Data.(metricdata.Histogram[int64])
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)

	deducted := got["inventory.deducted_quantity"].Data.(metricdata.Sum[float64])
	require.Len(t, deducted.DataPoints, 1)
	assert.InDelta(t, 2.0, deducted.DataPoints[0].Value, 1e-9)

	assert.NoError(t, mp.Shutdown(ctx))
}

func TestAllocationMetrics_NilIsSafe(t *testing.T) {
	var m *AllocationMetrics
	assert.NotPanics(t, func() {
		m.RecordSave(context.Background(), 1, nil)
		m.RecordTransition(context.Background(), "PACKED", nil)
		m.RecordDeduction(context.Background(), "kg", decimal.NewFromInt(1))
	})
}
