package allocation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// BatchAllocation is a quantity taken from one batch
type BatchAllocation struct {
	Batch    string          `json:"batch" yaml:"batch"`
	Quantity decimal.Decimal `json:"quantity" yaml:"quantity"`
	Unit     string          `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Sum totals the quantities of a batch list
func Sum(allocs []BatchAllocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Quantity)
	}
	return total
}

// Plan maps each allocation unit of one order to the batches chosen for it.
// A Plan is not safe for concurrent use.
type Plan struct {
	units     []Unit
	index     map[string]int
	entries   map[string][]BatchAllocation
	tolerance decimal.Decimal
}

// NewPlan creates an empty plan over units
func NewPlan(units []Unit, tolerance decimal.Decimal) *Plan {
	p := &Plan{
		entries:   make(map[string][]BatchAllocation),
		tolerance: normalizeTolerance(tolerance),
	}
	p.setUnits(units)
	return p
}

func (p *Plan) setUnits(units []Unit) {
	p.units = append([]Unit(nil), units...)
	p.index = make(map[string]int, len(units))
	for i, u := range p.units {
		p.index[u.Key] = i
	}
}

// Tolerance returns the tolerance used by Validate
func (p *Plan) Tolerance() decimal.Decimal {
	return p.tolerance
}

// Units returns the plan's units in order
func (p *Plan) Units() []Unit {
	return append([]Unit(nil), p.units...)
}

// Unit looks up a unit by key
func (p *Plan) Unit(key string) (Unit, bool) {
	i, ok := p.index[key]
	if !ok {
		return Unit{}, false
	}
	return p.units[i], true
}

// Record replaces whatever was allocated to the unit. Entries with a zero
// or negative quantity are dropped and repeated batches are merged.
func (p *Plan) Record(key string, allocs []BatchAllocation) error {
	unit, ok := p.Unit(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUnit, key)
	}
	cleaned := normalizeAllocations(allocs, unit.Unit)
	if len(cleaned) == 0 {
		delete(p.entries, key)
		return nil
	}
	p.entries[key] = cleaned
	return nil
}

// Clear drops the unit's allocation
func (p *Plan) Clear(key string) {
	delete(p.entries, key)
}

// Allocations returns a copy of the unit's allocation
func (p *Plan) Allocations(key string) []BatchAllocation {
	return append([]BatchAllocation(nil), p.entries[key]...)
}

// Allocated returns the unit's allocated total
func (p *Plan) Allocated(key string) decimal.Decimal {
	return Sum(p.entries[key])
}

// Remaining returns required minus allocated, floored at zero
func (p *Plan) Remaining(key string) decimal.Decimal {
	unit, ok := p.Unit(key)
	if !ok {
		return decimal.Zero
	}
	rem := unit.Required.Sub(p.Allocated(key))
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// IsUnitComplete reports whether the unit's total is within tolerance of its requirement
func (p *Plan) IsUnitComplete(key string) bool {
	unit, ok := p.Unit(key)
	if !ok {
		return false
	}
	return WithinTolerance(p.Allocated(key), unit.Required, p.tolerance)
}

// Validate returns a *MismatchError for the first unit, in unit order,
// whose allocated total is outside tolerance of its requirement.
func (p *Plan) Validate() error {
	for _, u := range p.units {
		allocated := p.Allocated(u.Key)
		if !WithinTolerance(allocated, u.Required, p.tolerance) {
			return &MismatchError{
				UnitKey:     u.Key,
				ProductName: u.ProductName,
				Required:    u.Required,
				Allocated:   allocated,
				Unit:        u.Unit,
			}
		}
	}
	return nil
}

// Mismatches returns every failing unit, for summaries
func (p *Plan) Mismatches() []*MismatchError {
	out := make([]*MismatchError, 0)
	for _, u := range p.units {
		allocated := p.Allocated(u.Key)
		if !WithinTolerance(allocated, u.Required, p.tolerance) {
			out = append(out, &MismatchError{UnitKey: u.Key, ProductName: u.ProductName, Required: u.Required, Allocated: allocated, Unit: u.Unit})
		}
	}
	return out
}

// Flatten produces one allocation record per (unit, batch) in unit order
func (p *Plan) Flatten(orderID uuid.UUID) []order.Allocation {
	out := make([]order.Allocation, 0)
	for _, u := range p.units {
		for _, a := range p.entries[u.Key] {
			unit := a.Unit
			if unit == "" {
				unit = u.Unit
			}
			out = append(out, order.Allocation{
				OrderID:      orderID,
				OrderItemKey: u.Key,
				ProductID:    u.ProductID,
				Batch:        a.Batch,
				Quantity:     a.Quantity,
				Unit:         unit,
			})
		}
	}
	return out
}

// Merge loads persisted allocations, replacing the entries of every unit
// that has persisted records. Records whose key matches no unit are
// returned so the caller can report them.
func (p *Plan) Merge(persisted []order.Allocation) []order.Allocation {
	grouped := make(map[string][]BatchAllocation)
	keys := make([]string, 0)
	orphans := make([]order.Allocation, 0)

	for _, a := range persisted {
		if _, ok := p.index[a.OrderItemKey]; !ok {
			orphans = append(orphans, a)
			continue
		}
		if _, seen := grouped[a.OrderItemKey]; !seen {
			keys = append(keys, a.OrderItemKey)
		}
		grouped[a.OrderItemKey] = append(grouped[a.OrderItemKey], BatchAllocation{Batch: a.Batch, Quantity: a.Quantity, Unit: a.Unit})
	}
	for _, k := range keys {
		_ = p.Record(k, grouped[k])
	}
	return orphans
}

// Rebase swaps in a new unit list, keeping entries of units that still exist
func (p *Plan) Rebase(units []Unit) {
	p.setUnits(units)
	for k := range p.entries {
		if _, ok := p.index[k]; !ok {
			delete(p.entries, k)
		}
	}
}

// Matches reports whether persisted records describe exactly the plan's entries
func (p *Plan) Matches(persisted []order.Allocation) bool {
	other := NewPlan(p.units, p.tolerance)
	if orphans := other.Merge(persisted); len(orphans) > 0 {
		return false
	}
	for _, u := range p.units {
		if !sameAllocations(p.entries[u.Key], other.entries[u.Key]) {
			return false
		}
	}
	return true
}

func sameAllocations(a, b []BatchAllocation) bool {
	if len(a) != len(b) {
		return false
	}
	byBatch := make(map[string]decimal.Decimal, len(a))
	for _, x := range a {
		byBatch[x.Batch] = x.Quantity
	}
	for _, y := range b {
		q, ok := byBatch[y.Batch]
		if !ok || !q.Equal(y.Quantity) {
			return false
		}
	}
	return true
}

func normalizeAllocations(allocs []BatchAllocation, defaultUnit string) []BatchAllocation {
	out := make([]BatchAllocation, 0, len(allocs))
	pos := make(map[string]int, len(allocs))
	for _, a := range allocs {
		batch := strings.TrimSpace(a.Batch)
		if batch == "" || !a.Quantity.IsPositive() {
			continue
		}
		unit := a.Unit
		if unit == "" {
			unit = defaultUnit
		}
		if i, ok := pos[batch]; ok {
			out[i].Quantity = out[i].Quantity.Add(a.Quantity)
			continue
		}
		pos[batch] = len(out)
		out = append(out, BatchAllocation{Batch: batch, Quantity: a.Quantity, Unit: unit})
	}
	return out
}
