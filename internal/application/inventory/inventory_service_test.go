package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/inventory"
	"github.com/masala/backend/internal/domain/order"
	"github.com/masala/backend/internal/domain/shared"
	"github.com/masala/backend/internal/infrastructure/cache"
	"github.com/masala/backend/internal/infrastructure/event"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ==================== Fakes ====================

// fakeBatchRepository keeps batches in memory. WithTx works on a copy and
// commits it only when fn succeeds.
type fakeBatchRepository struct {
	mu      sync.Mutex
	records map[uuid.UUID]inventory.StockBatch
	order   []uuid.UUID
	saveErr error
}

func newFakeBatchRepository(batches ...*inventory.StockBatch) *fakeBatchRepository {
	r := &fakeBatchRepository{records: make(map[uuid.UUID]inventory.StockBatch)}
	for _, b := range batches {
		r.put(*b)
	}
	return r
}

func (r *fakeBatchRepository) put(b inventory.StockBatch) {
	if _, ok := r.records[b.ID]; !ok {
		r.order = append(r.order, b.ID)
	}
	r.records[b.ID] = b
}

func (r *fakeBatchRepository) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	b, ok := r.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &b, nil
}

func (r *fakeBatchRepository) FindByProduct(_ context.Context, productID uuid.UUID) ([]inventory.StockBatch, error) {
	out := make([]inventory.StockBatch, 0)
	for _, id := range r.order {
		if b := r.records[id]; b.ProductID == productID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepository) FindAvailable(_ context.Context, productID uuid.UUID, batch string) ([]inventory.StockBatch, error) {
	out := make([]inventory.StockBatch, 0)
	for _, id := range r.order {
		if b := r.records[id]; b.ProductID == productID && b.Batch == batch && b.HasStock() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepository) Save(_ context.Context, b *inventory.StockBatch) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.put(*b)
	return nil
}

func (r *fakeBatchRepository) SaveAll(ctx context.Context, batches []*inventory.StockBatch) error {
	for _, b := range batches {
		if err := r.Save(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeBatchRepository) WithTx(_ context.Context, fn func(repo inventory.StockBatchRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx := &fakeBatchRepository{records: make(map[uuid.UUID]inventory.StockBatch), saveErr: r.saveErr}
	for _, id := range r.order {
		tx.put(r.records[id])
	}
	if err := fn(tx); err != nil {
		return err
	}
	r.records, r.order = tx.records, tx.order
	return nil
}

func (r *fakeBatchRepository) consumed(id uuid.UUID) decimal.Decimal {
	return r.records[id].Consumed
}

type fakeAllocations struct {
	byOrder map[uuid.UUID][]order.Allocation
}

func (f *fakeAllocations) FindByOrder(_ context.Context, orderID uuid.UUID) ([]order.Allocation, error) {
	return f.byOrder[orderID], nil
}

func (f *fakeAllocations) ReplaceForOrder(_ context.Context, orderID uuid.UUID, allocations []order.Allocation) error {
	f.byOrder[orderID] = allocations
	return nil
}

func newBatch(t *testing.T, productID uuid.UUID, label string, qty int64, expiry *time.Time) *inventory.StockBatch {
	t.Helper()
	b, err := inventory.NewStockBatch(productID, "Cumin", label, "kg", decimal.NewFromInt(qty), decimal.NewFromInt(100), expiry)
	require.NoError(t, err)
	return b
}

func deliveredEvent(t *testing.T) (*order.Order, *order.OrderDeliveredEvent) {
	t.Helper()
	o, err := order.NewOrder("ORD-3001", "Hotel Saffron", "")
	require.NoError(t, err)
	return o, order.NewOrderDeliveredEvent(o)
}

func allocationFor(orderID, productID uuid.UUID, key, batch string, qty int64) order.Allocation {
	return order.Allocation{ID: uuid.New(), OrderID: orderID, OrderItemKey: key, ProductID: productID, Batch: batch, Quantity: decimal.NewFromInt(qty), Unit: "kg"}
}

// ==================== InventoryService ====================

func TestInventoryService_ListBatchesForProduct(t *testing.T) {
	pid := uuid.New()
	soon := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(72 * time.Hour)
	used := newBatch(t, pid, "A-EMPTY", 2, &soon)
	used.Deduct(decimal.NewFromInt(2))
	repo := newFakeBatchRepository(
		newBatch(t, pid, "B-LATE", 4, &later),
		newBatch(t, pid, "A-SOON", 3, &soon),
		newBatch(t, pid, "A-SOON", 2, &soon),
		used,
		newBatch(t, uuid.New(), "OTHER", 9, nil),
	)
	svc := NewInventoryService(repo, zap.NewNop())

	got, err := svc.ListBatchesForProduct(context.Background(), pid)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A-SOON", got[0].Batch)
	assert.True(t, got[0].TotalQuantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "B-LATE", got[1].Batch)

	_, err = svc.ListBatchesForProduct(context.Background(), uuid.Nil)
	assert.Error(t, err)
}

func TestInventoryService_ReceiveBatch(t *testing.T) {
	repo := newFakeBatchRepository()
	bus := event.NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	received := 0
	bus.Subscribe(handlerFunc(func(ctx context.Context, e shared.DomainEvent) error {
		received++
		return nil
	}), inventory.EventTypeStockBatchReceived)

	svc := NewInventoryService(repo, zap.NewNop())
	svc.SetEventPublisher(bus)
	pid := uuid.New()

	resp, err := svc.ReceiveBatch(context.Background(), ReceiveBatchRequest{
		ProductID: pid, ProductName: "Cardamom", Batch: "CA-11", Quantity: decimal.NewFromInt(10), Unit: "kg", UnitCost: decimal.NewFromInt(1800),
	})
	require.NoError(t, err)
	assert.True(t, resp.Available.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 1, received)

	_, err = svc.ReceiveBatch(context.Background(), ReceiveBatchRequest{ProductID: pid, Batch: "CA-12", Quantity: decimal.Zero, Unit: "kg"})
	assert.Error(t, err)
}

type handlerFunc func(ctx context.Context, e shared.DomainEvent) error

func (f handlerFunc) Handle(ctx context.Context, e shared.DomainEvent) error { return f(ctx, e) }
func (f handlerFunc) EventTypes() []string                                 { return nil }

// ==================== OrderDeliveredHandler ====================

func TestOrderDeliveredHandler_DeductsFEFOWithinLabel(t *testing.T) {
	pid := uuid.New()
	first := newBatch(t, pid, "CU-01", 3, nil)
	second := newBatch(t, pid, "CU-01", 5, nil)
	other := newBatch(t, pid, "CU-02", 4, nil)
	repo := newFakeBatchRepository(first, second, other)

	o, evt := deliveredEvent(t)
	allocs := &fakeAllocations{byOrder: map[uuid.UUID][]order.Allocation{o.ID: {
		allocationFor(o.ID, pid, "item-1", "CU-01", 2),
		allocationFor(o.ID, pid, "item-2::0", "CU-01", 2),
		allocationFor(o.ID, pid, "item-2::0", "CU-02", 1),
	}}}
	h := NewOrderDeliveredHandler(allocs, repo, zap.NewNop())

	require.NoError(t, h.Handle(context.Background(), evt))
	assert.True(t, repo.consumed(first.ID).Equal(decimal.NewFromInt(3)))
	assert.True(t, repo.consumed(second.ID).Equal(decimal.NewFromInt(1)))
	assert.True(t, repo.consumed(other.ID).Equal(decimal.NewFromInt(1)))
}

func TestOrderDeliveredHandler_InsufficientStockChangesNothing(t *testing.T) {
	pid := uuid.New()
	ok := newBatch(t, pid, "CU-01", 5, nil)
	short := newBatch(t, pid, "CU-02", 1, nil)
	repo := newFakeBatchRepository(ok, short)

	o, evt := deliveredEvent(t)
	allocs := &fakeAllocations{byOrder: map[uuid.UUID][]order.Allocation{o.ID: {
		allocationFor(o.ID, pid, "item-1", "CU-01", 2),
		allocationFor(o.ID, pid, "item-1", "CU-02", 3),
	}}}
	h := NewOrderDeliveredHandler(allocs, repo, zap.NewNop())

	err := h.Handle(context.Background(), evt)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.True(t, repo.consumed(ok.ID).IsZero())
	assert.True(t, repo.consumed(short.ID).IsZero())
}

func TestOrderDeliveredHandler_NoAllocations(t *testing.T) {
	_, evt := deliveredEvent(t)
	h := NewOrderDeliveredHandler(&fakeAllocations{byOrder: map[uuid.UUID][]order.Allocation{}}, newFakeBatchRepository(), zap.NewNop())
	assert.NoError(t, h.Handle(context.Background(), evt))
}

func TestOrderDeliveredHandler_WrongEvent(t *testing.T) {
	o, _ := deliveredEvent(t)
	h := NewOrderDeliveredHandler(&fakeAllocations{}, newFakeBatchRepository(), zap.NewNop())
	assert.Error(t, h.Handle(context.Background(), order.NewOrderCreatedEvent(o)))
	assert.Equal(t, []string{order.EventTypeOrderDelivered}, h.EventTypes())
}

func TestOrderDeliveredHandler_RedeliveryDeductsOnce(t *testing.T) {
	pid := uuid.New()
	b := newBatch(t, pid, "CU-01", 10, nil)
	repo := newFakeBatchRepository(b)
	o, evt := deliveredEvent(t)
	allocs := &fakeAllocations{byOrder: map[uuid.UUID][]order.Allocation{o.ID: {
		allocationFor(o.ID, pid, "item-1", "CU-01", 4),
	}}}

	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	defer store.Close()
	h := event.NewIdempotentHandler(NewOrderDeliveredHandler(allocs, repo, zap.NewNop()), store, shared.DefaultIdempotencyConfig(), zap.NewNop())

	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), evt))
	assert.True(t, repo.consumed(b.ID).Equal(decimal.NewFromInt(4)))
	assert.Equal(t, int64(1), h.Stats().Duplicate)
}

func TestOrderDeliveredHandler_SaveFailure(t *testing.T) {
	pid := uuid.New()
	b := newBatch(t, pid, "CU-01", 10, nil)
	repo := newFakeBatchRepository(b)
	repo.saveErr = errors.New("disk full")
	o, evt := deliveredEvent(t)
	allocs := &fakeAllocations{byOrder: map[uuid.UUID][]order.Allocation{o.ID: {
		allocationFor(o.ID, pid, "item-1", "CU-01", 4),
	}}}

	err := NewOrderDeliveredHandler(allocs, repo, zap.NewNop()).Handle(context.Background(), evt)
	assert.Error(t, err)
	assert.True(t, repo.consumed(b.ID).IsZero())
}
