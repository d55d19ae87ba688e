package allocation

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	productP1 = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	productP2 = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	productP3 = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func regularItem(t *testing.T, productID uuid.UUID, name string, qty string) order.Item {
	t.Helper()
	item, err := order.NewRegularItem(&productID, name, "kg", dec(qty), dec("100"))
	require.NoError(t, err)
	return *item
}

func mixItem(t *testing.T, name string, components ...order.MixComponent) order.Item {
	t.Helper()
	payload, err := order.EncodeMixComponents(components)
	require.NoError(t, err)
	item, err := order.NewMixItem(name, "kg", dec("1"), dec("500"), payload)
	require.NoError(t, err)
	return *item
}

func component(productID uuid.UUID, name, qty string) order.MixComponent {
	id := productID
	return order.MixComponent{ProductID: &id, RawProductID: id.String(), Name: name, Quantity: dec(qty), Unit: "kg", UnitPrice: dec("10")}
}

// scenarioItems is one regular line (P1, 5kg) and one mix of P2 2kg and P3 1kg
func scenarioItems(t *testing.T) []order.Item {
	t.Helper()
	return []order.Item{
		regularItem(t, productP1, "P1", "5"),
		mixItem(t, "Chaat Blend", component(productP2, "P2", "2"), component(productP3, "P3", "1")),
	}
}

func unitFor(t *testing.T, units []Unit, productName string) Unit {
	t.Helper()
	for _, u := range units {
		if u.ProductName == productName {
			return u
		}
	}
	require.FailNow(t, fmt.Sprintf("no unit for %s", productName))
	return Unit{}
}
