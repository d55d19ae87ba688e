package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder("ORD-1001", "Sharma Caterers", "9800000000")
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	o := newTestOrder(t)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 1, o.Version)
	require.Len(t, o.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeOrderCreated, o.GetDomainEvents()[0].EventType())

	_, err := NewOrder("", "x", "")
	assert.Error(t, err)
	_, err = NewOrder("ORD-1", "  ", "")
	assert.Error(t, err)
}

func TestOrder_AddItem(t *testing.T) {
	o := newTestOrder(t)
	pid := uuid.New()

	regular, err := NewRegularItem(&pid, "Garam Masala", "kg", decimal.NewFromInt(5), decimal.NewFromInt(400))
	require.NoError(t, err)
	require.NoError(t, o.AddItem(regular))

	mix, err := NewMixItem("House Blend", "kg", decimal.NewFromInt(3), decimal.NewFromInt(350),
		[]byte(`[{"productId":"`+uuid.NewString()+`","name":"Cumin","calculatedQuantity":2,"unit":"kg","price":300}]`))
	require.NoError(t, err)
	require.NoError(t, o.AddItem(mix))

	assert.Equal(t, 2, o.ItemCount())
	assert.Equal(t, 1, o.Items[0].LineNo)
	assert.Equal(t, 2, o.Items[1].LineNo)
	assert.Equal(t, o.ID, o.Items[1].OrderID)
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(3050)))
	assert.NotNil(t, o.Item(mix.ID))
	assert.Nil(t, o.Item(uuid.New()))

	shape, err := DetectMixShape(o.Items[1].MixPayload)
	require.NoError(t, err)
	assert.Equal(t, MixShapeObject, shape)
}

func TestOrder_AddItem_OnlyWhenPending(t *testing.T) {
	o := newTestOrder(t)
	_, err := o.TransitionTo(StatusConfirmed, "ops", "")
	require.NoError(t, err)

	item, err := NewRegularItem(nil, "Custom packing", "pack", decimal.NewFromInt(1), decimal.Zero)
	require.NoError(t, err)
	assert.Error(t, o.AddItem(item))
}

func TestNewItem_Validation(t *testing.T) {
	_, err := NewRegularItem(nil, "", "kg", decimal.NewFromInt(1), decimal.Zero)
	assert.Error(t, err)
	_, err = NewRegularItem(nil, "Salt", "", decimal.NewFromInt(1), decimal.Zero)
	assert.Error(t, err)
	_, err = NewRegularItem(nil, "Salt", "kg", decimal.Zero, decimal.Zero)
	assert.Error(t, err)
	_, err = NewRegularItem(nil, "Salt", "kg", decimal.NewFromInt(1), decimal.NewFromInt(-1))
	assert.Error(t, err)

	nilID := uuid.Nil
	item, err := NewRegularItem(&nilID, "Salt", "kg", decimal.NewFromInt(1), decimal.Zero)
	require.NoError(t, err)
	assert.False(t, item.HasProduct())

	_, err = NewMixItem("Blend", "kg", decimal.NewFromInt(1), decimal.Zero, []byte(`{"components":[]}`))
	assert.Error(t, err)
	_, err = NewMixItem("Blend", "kg", decimal.NewFromInt(1), decimal.Zero, []byte(`"oops"`))
	assert.Error(t, err)
}

func TestOrder_TransitionTo(t *testing.T) {
	o := newTestOrder(t)
	o.ClearDomainEvents()

	change, err := o.TransitionTo(StatusProcessing, "asha", "batches picked")
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.Equal(t, StatusPending, change.From)
	assert.Equal(t, StatusProcessing, change.To)
	assert.Equal(t, "asha", change.ChangedBy)
	assert.Equal(t, "batches picked", change.Notes)
	assert.Equal(t, StatusProcessing, o.Status)
	assert.Equal(t, 2, o.Version)

	// same status is a no-op
	change, err = o.TransitionTo(StatusProcessing, "asha", "")
	require.NoError(t, err)
	assert.Nil(t, change)
	assert.Equal(t, 2, o.Version)

	_, err = o.TransitionTo(StatusPending, "asha", "")
	assert.Error(t, err)

	_, err = o.TransitionTo(StatusReady, "", "")
	require.NoError(t, err)
	change, err = o.TransitionTo(StatusDelivered, "", "")
	require.NoError(t, err)
	assert.Equal(t, "system", change.ChangedBy)

	var types []string
	for _, e := range o.GetDomainEvents() {
		types = append(types, e.EventType())
	}
	assert.Equal(t, []string{
		EventTypeOrderStatusChanged,
		EventTypeOrderStatusChanged,
		EventTypeOrderStatusChanged,
		EventTypeOrderDelivered,
	}, types)

	_, err = o.TransitionTo(StatusCancelled, "", "")
	assert.Error(t, err)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusReady, false},
		{StatusConfirmed, StatusProcessing, true},
		{StatusProcessing, StatusConfirmed, true},
		{StatusProcessing, StatusReady, true},
		{StatusReady, StatusDelivered, true},
		{StatusReady, StatusCancelled, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Processing ")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, s)

	_, err = ParseStatus("shipped")
	assert.Error(t, err)
}

func TestNewAllocation(t *testing.T) {
	orderID := uuid.New()
	pid := uuid.New()

	a, err := NewAllocation(orderID, " item::0 ", pid, " B1 ", decimal.NewFromInt(2), "kg")
	require.NoError(t, err)
	assert.Equal(t, "item::0", a.OrderItemKey)
	assert.Equal(t, "B1", a.Batch)

	_, err = NewAllocation(orderID, "", pid, "B1", decimal.NewFromInt(1), "kg")
	assert.Error(t, err)
	_, err = NewAllocation(orderID, "k", uuid.Nil, "B1", decimal.NewFromInt(1), "kg")
	assert.Error(t, err)
	_, err = NewAllocation(orderID, "k", pid, "", decimal.NewFromInt(1), "kg")
	assert.Error(t, err)
	_, err = NewAllocation(orderID, "k", pid, "B1", decimal.Zero, "kg")
	assert.Error(t, err)
}
