// Package allocation holds the pure bookkeeping of matching order lines to
// inventory batches: deriving allocation units from an order, tracking the
// batches chosen per unit, and the per-unit batch picker.
package allocation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// KeySeparator joins a mix item ID and a component index in a unit key
const KeySeparator = "::"

// UnitKind tells regular lines from mix components
type UnitKind string

const (
	UnitKindRegular      UnitKind = "regular"
	UnitKindMixComponent UnitKind = "mix_component"
)

// Unit is the smallest quantity-bearing thing that must be matched to batches
type Unit struct {
	Key            string
	Kind           UnitKind
	ItemID         uuid.UUID
	ComponentIndex int // -1 for regular lines
	ParentName     string
	ProductID      uuid.UUID
	ProductName    string
	Required       decimal.Decimal
	Unit           string
	UnitPrice      decimal.Decimal
}

// RegularKey returns the unit key of a regular line
func RegularKey(itemID uuid.UUID) string {
	return itemID.String()
}

// ComponentKey returns the unit key of a mix component
func ComponentKey(itemID uuid.UUID, index int) string {
	return itemID.String() + KeySeparator + strconv.Itoa(index)
}

// ParseKey splits a unit key. The index is -1 for regular keys.
func ParseKey(key string) (uuid.UUID, int, error) {
	idPart, idxPart, composite := strings.Cut(key, KeySeparator)
	id, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("invalid unit key %q: %w", key, err)
	}
	if !composite {
		return id, -1, nil
	}
	idx, err := strconv.Atoi(idxPart)
	if err != nil || idx < 0 {
		return uuid.Nil, 0, fmt.Errorf("invalid component index in unit key %q", key)
	}
	return id, idx, nil
}

// Skip reasons
const (
	ReasonNoProduct       = "no product reference"
	ReasonBadMixPayload   = "mix components could not be read"
	ReasonEmptyMix        = "mix has no components"
	ReasonNoQuantity      = "required quantity is zero"
	ReasonComponentNoProd = "component has no product reference"
)

// SkippedItem describes a line or component that produced no unit
type SkippedItem struct {
	ItemID         uuid.UUID
	ComponentIndex int
	Name           string
	Reason         string
}

func (s SkippedItem) String() string {
	if s.ComponentIndex >= 0 {
		return fmt.Sprintf("%s (component %d): %s", s.Name, s.ComponentIndex+1, s.Reason)
	}
	return fmt.Sprintf("%s: %s", s.Name, s.Reason)
}

// ComputeUnits derives allocation units from order lines in line order.
// Lines and components that cannot be matched to a product are reported
// as skipped instead of being dropped silently.
func ComputeUnits(items []order.Item) ([]Unit, []SkippedItem) {
	units := make([]Unit, 0, len(items))
	skipped := make([]SkippedItem, 0)

	for i := range items {
		item := &items[i]
		if !item.IsMix() {
			if !item.HasProduct() {
				skipped = append(skipped, SkippedItem{ItemID: item.ID, ComponentIndex: -1, Name: item.ProductName, Reason: ReasonNoProduct})
				continue
			}
			if !item.Quantity.IsPositive() {
				skipped = append(skipped, SkippedItem{ItemID: item.ID, ComponentIndex: -1, Name: item.ProductName, Reason: ReasonNoQuantity})
				continue
			}
			units = append(units, Unit{
				Key:            RegularKey(item.ID),
				Kind:           UnitKindRegular,
				ItemID:         item.ID,
				ComponentIndex: -1,
				ProductID:      *item.ProductID,
				ProductName:    item.ProductName,
				Required:       item.Quantity,
				Unit:           item.Unit,
				UnitPrice:      item.UnitPrice,
			})
			continue
		}

		components, err := item.MixComponents()
		if err != nil {
			skipped = append(skipped, SkippedItem{ItemID: item.ID, ComponentIndex: -1, Name: item.ProductName, Reason: ReasonBadMixPayload})
			continue
		}
		if len(components) == 0 {
			skipped = append(skipped, SkippedItem{ItemID: item.ID, ComponentIndex: -1, Name: item.ProductName, Reason: ReasonEmptyMix})
			continue
		}
		for _, c := range components {
			name := c.Name
			if name == "" {
				name = fmt.Sprintf("%s #%d", item.ProductName, c.Index+1)
			}
			if !c.HasProduct() {
				skipped = append(skipped, SkippedItem{ItemID: item.ID, ComponentIndex: c.Index, Name: name, Reason: ReasonComponentNoProd})
				continue
			}
			if !c.Quantity.IsPositive() {
				skipped = append(skipped, SkippedItem{ItemID: item.ID, ComponentIndex: c.Index, Name: name, Reason: ReasonNoQuantity})
				continue
			}
			unit := c.Unit
			if unit == "" {
				unit = item.Unit
			}
			units = append(units, Unit{
				Key:            ComponentKey(item.ID, c.Index),
				Kind:           UnitKindMixComponent,
				ItemID:         item.ID,
				ComponentIndex: c.Index,
				ParentName:     item.ProductName,
				ProductID:      *c.ProductID,
				ProductName:    name,
				Required:       c.Quantity,
				Unit:           unit,
				UnitPrice:      c.UnitPrice,
			})
		}
	}
	return units, skipped
}

// RegularGroupKey is the key of the group holding all regular lines
const RegularGroupKey = "regular"

// Group is a display grouping of units
type Group struct {
	Key   string
	Title string
	Units []Unit
}

// GroupUnits puts regular lines in one group, first, followed by one group
// per mix line in the order the mix lines appear.
func GroupUnits(units []Unit) []Group {
	regular := Group{Key: RegularGroupKey, Title: "Regular products"}
	mixes := make([]Group, 0)
	mixIndex := make(map[uuid.UUID]int)

	for _, u := range units {
		if u.Kind == UnitKindRegular {
			regular.Units = append(regular.Units, u)
			continue
		}
		idx, ok := mixIndex[u.ItemID]
		if !ok {
			idx = len(mixes)
			mixIndex[u.ItemID] = idx
			mixes = append(mixes, Group{Key: u.ItemID.String(), Title: u.ParentName})
		}
		mixes[idx].Units = append(mixes[idx].Units, u)
	}

	groups := make([]Group, 0, len(mixes)+1)
	if len(regular.Units) > 0 {
		groups = append(groups, regular)
	}
	return append(groups, mixes...)
}

// DistinctProducts returns each product referenced by units once, in first-seen order
func DistinctProducts(units []Unit) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(units))
	out := make([]uuid.UUID, 0, len(units))
	for _, u := range units {
		if _, ok := seen[u.ProductID]; ok {
			continue
		}
		seen[u.ProductID] = struct{}{}
		out = append(out, u.ProductID)
	}
	return out
}
