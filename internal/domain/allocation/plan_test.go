package allocation

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_RecordReplacesAndRemaining(t *testing.T) {
	units, _ := ComputeUnits(scenarioItems(t))
	plan := NewPlan(units, DefaultTolerance)
	p1 := unitFor(t, units, "P1")

	require.NoError(t, plan.Record(p1.Key, []BatchAllocation{{Batch: "B1", Quantity: dec("3")}}))
	assert.True(t, plan.Remaining(p1.Key).Equal(dec("2")))

	require.NoError(t, plan.Record(p1.Key, []BatchAllocation{{Batch: "B2", Quantity: dec("1")}, {Batch: "B2", Quantity: dec("1")}, {Batch: "B9", Quantity: dec("0")}}))
	allocs := plan.Allocations(p1.Key)
	require.Len(t, allocs, 1)
	assert.Equal(t, "B2", allocs[0].Batch)
	assert.True(t, allocs[0].Quantity.Equal(dec("2")))
	assert.Equal(t, "kg", allocs[0].Unit)

	require.NoError(t, plan.Record(p1.Key, []BatchAllocation{{Batch: "B1", Quantity: dec("7")}}))
	assert.True(t, plan.Remaining(p1.Key).IsZero(), "remaining is floored at zero")

	require.NoError(t, plan.Record(p1.Key, nil))
	assert.Empty(t, plan.Allocations(p1.Key))

	err := plan.Record("nope", nil)
	assert.True(t, errors.Is(err, ErrUnknownUnit))
	assert.True(t, plan.Remaining("nope").IsZero())
}

func TestPlan_ValidateWithinTolerance(t *testing.T) {
	units, _ := ComputeUnits([]order.Item{regularItem(t, productP1, "P1", "5")})
	key := units[0].Key

	tests := []struct {
		name      string
		allocated string
		ok        bool
	}{
		{"exact", "5", true},
		{"under by tolerance", "4.9995", true},
		{"over by tolerance", "5.0005", true},
		{"under beyond tolerance", "4.9994", false},
		{"over beyond tolerance", "5.0006", false},
		{"nothing", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := NewPlan(units, DefaultTolerance)
			require.NoError(t, plan.Record(key, []BatchAllocation{{Batch: "B1", Quantity: dec(tt.allocated)}}))
			err := plan.Validate()
			if tt.ok {
				assert.NoError(t, err)
				assert.True(t, plan.IsUnitComplete(key))
			} else {
				var mismatch *MismatchError
				require.ErrorAs(t, err, &mismatch)
				assert.Equal(t, key, mismatch.UnitKey)
				assert.False(t, plan.IsUnitComplete(key))
			}
		})
	}
}

func TestPlan_ShortfallNamesProduct(t *testing.T) {
	units, _ := ComputeUnits(scenarioItems(t))
	plan := NewPlan(units, DefaultTolerance)

	require.NoError(t, plan.Record(unitFor(t, units, "P1").Key, []BatchAllocation{{Batch: "B1", Quantity: dec("3")}}))
	require.NoError(t, plan.Record(unitFor(t, units, "P2").Key, []BatchAllocation{{Batch: "B3", Quantity: dec("2")}}))
	require.NoError(t, plan.Record(unitFor(t, units, "P3").Key, []BatchAllocation{{Batch: "B4", Quantity: dec("1")}}))

	err := plan.Validate()
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "P1", mismatch.ProductName)
	assert.Contains(t, err.Error(), "required 5, allocated 3")
	assert.False(t, mismatch.Excess())
	assert.Len(t, plan.Mismatches(), 1)
}

func TestPlan_FlattenScenario(t *testing.T) {
	orderID := uuid.New()
	units, _ := ComputeUnits(scenarioItems(t))
	plan := NewPlan(units, DefaultTolerance)

	p1, p2, p3 := unitFor(t, units, "P1"), unitFor(t, units, "P2"), unitFor(t, units, "P3")
	require.NoError(t, plan.Record(p1.Key, []BatchAllocation{{Batch: "B1", Quantity: dec("3")}, {Batch: "B2", Quantity: dec("2")}}))
	require.NoError(t, plan.Record(p2.Key, []BatchAllocation{{Batch: "B3", Quantity: dec("2")}}))
	require.NoError(t, plan.Record(p3.Key, []BatchAllocation{{Batch: "B4", Quantity: dec("1")}}))
	require.NoError(t, plan.Validate())

	records := plan.Flatten(orderID)
	require.Len(t, records, 4)
	assert.Equal(t, p1.Key, records[0].OrderItemKey)
	assert.Equal(t, "B2", records[1].Batch)
	assert.Equal(t, p2.Key, records[2].OrderItemKey)
	assert.Equal(t, productP3, records[3].ProductID)
	for _, r := range records {
		assert.Equal(t, orderID, r.OrderID)
		assert.Equal(t, "kg", r.Unit)
	}
	assert.True(t, plan.Matches(records))

	records[0].Quantity = dec("2.5")
	assert.False(t, plan.Matches(records))
}

func TestPlan_MergeReplacesPersisted(t *testing.T) {
	units, _ := ComputeUnits(scenarioItems(t))
	plan := NewPlan(units, DefaultTolerance)
	p1 := unitFor(t, units, "P1")

	require.NoError(t, plan.Record(p1.Key, []BatchAllocation{{Batch: "B9", Quantity: dec("5")}}))

	orphan := order.Allocation{OrderItemKey: "legacy-17", Batch: "B1", Quantity: dec("1")}
	orphans := plan.Merge([]order.Allocation{
		{OrderItemKey: p1.Key, Batch: "B1", Quantity: dec("3"), Unit: "kg"},
		{OrderItemKey: p1.Key, Batch: "B2", Quantity: dec("2"), Unit: "kg"},
		orphan,
	})

	assert.Equal(t, []order.Allocation{orphan}, orphans)
	allocs := plan.Allocations(p1.Key)
	require.Len(t, allocs, 2)
	assert.True(t, plan.Allocated(p1.Key).Equal(dec("5")))

	// merging the same records twice does not double them
	plan.Merge([]order.Allocation{
		{OrderItemKey: p1.Key, Batch: "B1", Quantity: dec("3"), Unit: "kg"},
		{OrderItemKey: p1.Key, Batch: "B2", Quantity: dec("2"), Unit: "kg"},
	})
	assert.True(t, plan.Allocated(p1.Key).Equal(dec("5")))
}

func TestPlan_Rebase(t *testing.T) {
	items := scenarioItems(t)
	units, _ := ComputeUnits(items)
	plan := NewPlan(units, DefaultTolerance)
	p1, p2 := unitFor(t, units, "P1"), unitFor(t, units, "P2")

	require.NoError(t, plan.Record(p1.Key, []BatchAllocation{{Batch: "B1", Quantity: dec("5")}}))
	require.NoError(t, plan.Record(p2.Key, []BatchAllocation{{Batch: "B3", Quantity: dec("2")}}))

	fewer, _ := ComputeUnits(items[:1])
	plan.Rebase(fewer)

	assert.Len(t, plan.Units(), 1)
	assert.True(t, plan.Allocated(p1.Key).Equal(dec("5")))
	assert.True(t, plan.Allocated(p2.Key).IsZero())
	assert.NoError(t, plan.Validate())
}
