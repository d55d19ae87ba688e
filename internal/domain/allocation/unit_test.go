package allocation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitKeys(t *testing.T) {
	id := uuid.New()

	assert.Equal(t, id.String(), RegularKey(id))
	assert.Equal(t, id.String()+"::2", ComponentKey(id, 2))

	got, idx, err := ParseKey(ComponentKey(id, 2))
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, 2, idx)

	got, idx, err = ParseKey(RegularKey(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, -1, idx)

	_, _, err = ParseKey("17")
	assert.Error(t, err)
	_, _, err = ParseKey(id.String() + "::x")
	assert.Error(t, err)
	_, _, err = ParseKey(id.String() + "::-1")
	assert.Error(t, err)
}

func TestComputeUnits_MixExpansion(t *testing.T) {
	mix := mixItem(t, "Garam Blend",
		component(productP1, "Cumin", "1"),
		component(productP2, "Cardamom", "0.5"),
		component(productP1, "Cumin roasted", "0.25"),
	)
	regular := regularItem(t, productP3, "Turmeric", "4")

	units, skipped := ComputeUnits([]order.Item{regular, mix})
	assert.Empty(t, skipped)
	require.Len(t, units, 4)

	mixUnits := units[1:]
	keys := make(map[string]bool)
	for i, u := range mixUnits {
		assert.Equal(t, UnitKindMixComponent, u.Kind)
		assert.Equal(t, mix.ID, u.ItemID)
		assert.Equal(t, i, u.ComponentIndex)
		assert.Equal(t, ComponentKey(mix.ID, i), u.Key)
		assert.Equal(t, "Garam Blend", u.ParentName)
		keys[u.Key] = true
	}
	assert.Len(t, keys, 3)
	assert.Equal(t, RegularKey(regular.ID), units[0].Key)
	assert.True(t, units[2].Required.Equal(dec("0.5")))
}

func TestComputeUnits_ReportsSkippedItems(t *testing.T) {
	freeText, err := order.NewRegularItem(nil, "Gift box", "pcs", dec("1"), dec("50"))
	require.NoError(t, err)

	broken := mixItem(t, "Broken", component(productP1, "x", "1"))
	broken.MixPayload = []byte(`{"oops":true}`)

	partial := mixItem(t, "Partial", component(productP1, "Cumin", "1"))
	partial.MixPayload = []byte(`[{"productId":"` + productP1.String() + `","name":"Cumin","calculatedQuantity":1,"unit":"kg","price":1},
		{"productId":"","name":"Mystery","calculatedQuantity":1,"unit":"kg","price":1},
		{"productId":"` + productP2.String() + `","name":"Zero","calculatedQuantity":0,"unit":"kg","price":1}]`)

	units, skipped := ComputeUnits([]order.Item{*freeText, broken, partial})
	require.Len(t, units, 1)
	assert.Equal(t, ComponentKey(partial.ID, 0), units[0].Key)

	require.Len(t, skipped, 4)
	assert.Equal(t, SkippedItem{ItemID: freeText.ID, ComponentIndex: -1, Name: "Gift box", Reason: ReasonNoProduct}, skipped[0])
	assert.Equal(t, ReasonBadMixPayload, skipped[1].Reason)
	assert.Equal(t, "Mystery", skipped[2].Name)
	assert.Equal(t, ReasonComponentNoProd, skipped[2].Reason)
	assert.Equal(t, 1, skipped[2].ComponentIndex)
	assert.Equal(t, ReasonNoQuantity, skipped[3].Reason)
	assert.Equal(t, "Mystery (component 2): component has no product reference", skipped[2].String())
}

func TestGroupUnits(t *testing.T) {
	mixA := mixItem(t, "Blend A", component(productP1, "a1", "1"), component(productP2, "a2", "1"))
	mixB := mixItem(t, "Blend B", component(productP3, "b1", "1"))
	items := []order.Item{mixA, regularItem(t, productP1, "Pepper", "1"), mixB, regularItem(t, productP2, "Salt", "1")}

	units, _ := ComputeUnits(items)
	groups := GroupUnits(units)
	require.Len(t, groups, 3)

	assert.Equal(t, RegularGroupKey, groups[0].Key)
	assert.Len(t, groups[0].Units, 2)
	assert.Equal(t, "Blend A", groups[1].Title)
	assert.Len(t, groups[1].Units, 2)
	assert.Equal(t, mixB.ID.String(), groups[2].Key)

	assert.Empty(t, GroupUnits(nil))
}

func TestDistinctProducts(t *testing.T) {
	items := []order.Item{
		regularItem(t, productP1, "a", "1"),
		regularItem(t, productP2, "b", "1"),
		mixItem(t, "m", component(productP1, "c", "1"), component(productP2, "d", "1"), component(productP1, "e", "1")),
	}
	units, _ := ComputeUnits(items)
	require.Len(t, units, 5)
	assert.Equal(t, []uuid.UUID{productP1, productP2}, DistinctProducts(units))
}
