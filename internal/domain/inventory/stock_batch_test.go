package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBatch(t *testing.T, productID uuid.UUID, label string, qty int64, expiry *time.Time) StockBatch {
	t.Helper()
	b, err := NewStockBatch(productID, "Turmeric", label, "kg", decimal.NewFromInt(qty), decimal.NewFromInt(100), expiry)
	require.NoError(t, err)
	return *b
}

func TestNewStockBatch_Validation(t *testing.T) {
	pid := uuid.New()
	_, err := NewStockBatch(uuid.Nil, "x", "B1", "kg", decimal.NewFromInt(1), decimal.Zero, nil)
	assert.Error(t, err)
	_, err = NewStockBatch(pid, "x", " ", "kg", decimal.NewFromInt(1), decimal.Zero, nil)
	assert.Error(t, err)
	_, err = NewStockBatch(pid, "x", "B1", "", decimal.NewFromInt(1), decimal.Zero, nil)
	assert.Error(t, err)
	_, err = NewStockBatch(pid, "x", "B1", "kg", decimal.Zero, decimal.Zero, nil)
	assert.Error(t, err)
	_, err = NewStockBatch(pid, "x", "B1", "kg", decimal.NewFromInt(1), decimal.NewFromInt(-1), nil)
	assert.Error(t, err)

	b, err := NewStockBatch(pid, "x", "B1", "kg", decimal.NewFromInt(1), decimal.Zero, nil)
	require.NoError(t, err)
	require.Len(t, b.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeStockBatchReceived, b.GetDomainEvents()[0].EventType())
}

func TestStockBatch_DeductAndRestore(t *testing.T) {
	b := newBatch(t, uuid.New(), "B1", 5, nil)

	taken := b.Deduct(decimal.NewFromInt(3))
	assert.True(t, taken.Equal(decimal.NewFromInt(3)))
	assert.True(t, b.Available().Equal(decimal.NewFromInt(2)))

	taken = b.Deduct(decimal.NewFromInt(4))
	assert.True(t, taken.Equal(decimal.NewFromInt(2)))
	assert.False(t, b.HasStock())

	assert.True(t, b.Deduct(decimal.NewFromInt(-1)).IsZero())

	require.NoError(t, b.Restore(decimal.NewFromInt(1)))
	assert.True(t, b.Available().Equal(decimal.NewFromInt(1)))
	assert.Error(t, b.Restore(decimal.NewFromInt(10)))
}

func TestSummarize(t *testing.T) {
	pid := uuid.New()
	soon := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(72 * time.Hour)

	b1a := newBatch(t, pid, "B1", 2, &later)
	b1b := newBatch(t, pid, "B1", 1, &later)
	b2 := newBatch(t, pid, "B2", 4, &soon)
	b3 := newBatch(t, pid, "B3", 3, nil)
	empty := newBatch(t, pid, "B0", 1, nil)
	empty.Deduct(decimal.NewFromInt(1))
	a0 := newBatch(t, pid, "A0", 1, nil)

	got := Summarize([]StockBatch{b1a, b3, empty, b2, b1b, a0})
	require.Len(t, got, 4)

	assert.Equal(t, "B2", got[0].Batch)
	assert.Equal(t, "B1", got[1].Batch)
	assert.True(t, got[1].TotalQuantity.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, "A0", got[2].Batch)
	assert.Equal(t, "B3", got[3].Batch)
	assert.Equal(t, "kg", got[3].Unit)

	found, ok := Find(got, "B3")
	assert.True(t, ok)
	assert.True(t, found.TotalQuantity.Equal(decimal.NewFromInt(3)))
	_, ok = Find(got, "B0")
	assert.False(t, ok)
}
