package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AllocationMetrics counts allocation saves, status transitions and stock
// deductions
type AllocationMetrics struct {
	saves       metric.Int64Counter
	records     metric.Int64Histogram
	transitions metric.Int64Counter
	deducted    metric.Float64Counter
}

// NewAllocationMetrics registers the instruments on meter
func NewAllocationMetrics(meter metric.Meter) (*AllocationMetrics, error) {
	saves, err := meter.Int64Counter("allocation.saves",
		metric.WithDescription("Allocation sets saved, by outcome"))
	if err != nil {
		return nil, err
	}
	records, err := meter.Int64Histogram("allocation.records",
		metric.WithDescription("Allocation records per saved set"))
	if err != nil {
		return nil, err
	}
	transitions, err := meter.Int64Counter("order.status_transitions",
		metric.WithDescription("Order status transitions, by target status and outcome"))
	if err != nil {
		return nil, err
	}
	deducted, err := meter.Float64Counter("inventory.deducted_quantity",
		metric.WithDescription("Quantity deducted from stock batches on delivery"))
	if err != nil {
		return nil, err
	}
	return &AllocationMetrics{saves: saves, records: records, transitions: transitions, deducted: deducted}, nil
}

// RecordSave counts one save attempt; records is ignored when err is non-nil
func (m *AllocationMetrics) RecordSave(ctx context.Context, records int, err error) {
	if m == nil {
		return
	}
	m.saves.Add(ctx, 1, metric.WithAttributes(outcome(err)))
	if err == nil {
		m.records.Record(ctx, int64(records))
	}
}

// RecordTransition counts one status change request
func (m *AllocationMetrics) RecordTransition(ctx context.Context, to string, err error) {
	if m == nil {
		return
	}
	m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", to), outcome(err)))
}

// RecordDeduction adds a deducted quantity for a unit of measure
func (m *AllocationMetrics) RecordDeduction(ctx context.Context, unit string, qty decimal.Decimal) {
	if m == nil {
		return
	}
	m.deducted.Add(ctx, qty.InexactFloat64(), metric.WithAttributes(attribute.String("unit", unit)))
}

func outcome(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("outcome", "error")
	}
	return attribute.String("outcome", "ok")
}
