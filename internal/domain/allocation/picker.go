package allocation

import (
	"strings"

	"github.com/masala/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// Picker edits the batch selection of one unit. It works on a local copy
// and hands the result back only on Save.
type Picker struct {
	unit      Unit
	available []inventory.BatchAvailability
	selection []BatchAllocation
	tolerance decimal.Decimal
	closed    bool
}

// OpenPicker seeds a picker from the unit's existing allocation
func OpenPicker(unit Unit, available []inventory.BatchAvailability, existing []BatchAllocation, tolerance decimal.Decimal) *Picker {
	return &Picker{
		unit:      unit,
		available: append([]inventory.BatchAvailability(nil), available...),
		selection: normalizeAllocations(existing, unit.Unit),
		tolerance: normalizeTolerance(tolerance),
	}
}

// Unit returns the unit being edited
func (p *Picker) Unit() Unit {
	return p.unit
}

// Available returns the batches offered for the unit's product
func (p *Picker) Available() []inventory.BatchAvailability {
	return append([]inventory.BatchAvailability(nil), p.available...)
}

// Refresh replaces the availability snapshot used for clamping
func (p *Picker) Refresh(available []inventory.BatchAvailability) {
	p.available = append([]inventory.BatchAvailability(nil), available...)
}

// Selection returns a copy of the current selection
func (p *Picker) Selection() []BatchAllocation {
	return append([]BatchAllocation(nil), p.selection...)
}

// Selected returns the quantity currently selected from batch
func (p *Picker) Selected(batch string) decimal.Decimal {
	if i := p.find(batch); i >= 0 {
		return p.selection[i].Quantity
	}
	return decimal.Zero
}

// Total returns the selected total
func (p *Picker) Total() decimal.Decimal {
	return Sum(p.selection)
}

// Remaining returns required minus selected, floored at zero
func (p *Picker) Remaining() decimal.Decimal {
	rem := p.unit.Required.Sub(p.Total())
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// SetBatchQuantity clamps quantity to [0, batch total] and stores it.
// A clamped value of zero removes the batch. The stored quantity is returned.
// A batch missing from the current availability clamps to zero and reports
// ErrUnknownBatch.
func (p *Picker) SetBatchQuantity(batch string, quantity decimal.Decimal) (decimal.Decimal, error) {
	if p.closed {
		return decimal.Zero, ErrPickerClosed
	}
	batch = strings.TrimSpace(batch)
	avail, ok := inventory.Find(p.available, batch)
	if !ok {
		p.remove(batch)
		return decimal.Zero, ErrUnknownBatch
	}

	clamped := decimal.Max(decimal.Zero, decimal.Min(quantity, avail.TotalQuantity))
	if clamped.IsZero() {
		p.remove(batch)
		return decimal.Zero, nil
	}

	unit := avail.Unit
	if unit == "" {
		unit = p.unit.Unit
	}
	if i := p.find(batch); i >= 0 {
		p.selection[i].Quantity = clamped
		p.selection[i].Unit = unit
	} else {
		p.selection = append(p.selection, BatchAllocation{Batch: batch, Quantity: clamped, Unit: unit})
	}
	return clamped, nil
}

// SelectAllForBatch fills as much of the remaining need as batch can supply:
// min(remaining + already selected from batch, batch total).
func (p *Picker) SelectAllForBatch(batch string) (decimal.Decimal, error) {
	if p.closed {
		return decimal.Zero, ErrPickerClosed
	}
	batch = strings.TrimSpace(batch)
	avail, ok := inventory.Find(p.available, batch)
	if !ok {
		p.remove(batch)
		return decimal.Zero, ErrUnknownBatch
	}
	want := decimal.Min(p.Remaining().Add(p.Selected(batch)), avail.TotalQuantity)
	return p.SetBatchQuantity(batch, want)
}

// ClearBatch removes batch from the selection
func (p *Picker) ClearBatch(batch string) error {
	if p.closed {
		return ErrPickerClosed
	}
	p.remove(strings.TrimSpace(batch))
	return nil
}

// Save returns the final selection and closes the picker. A selection more
// than the tolerance short of the requirement is refused with a
// *ShortfallError and the picker stays open.
func (p *Picker) Save() ([]BatchAllocation, error) {
	if p.closed {
		return nil, ErrPickerClosed
	}
	total := p.Total()
	if p.unit.Required.Sub(total).GreaterThan(p.tolerance) {
		return nil, &ShortfallError{
			UnitKey:     p.unit.Key,
			ProductName: p.unit.ProductName,
			Required:    p.unit.Required,
			Selected:    total,
			Unit:        p.unit.Unit,
		}
	}
	p.closed = true
	return p.Selection(), nil
}

// Cancel closes the picker without returning a selection
func (p *Picker) Cancel() {
	p.closed = true
}

// Closed reports whether Save or Cancel has been called
func (p *Picker) Closed() bool {
	return p.closed
}

func (p *Picker) find(batch string) int {
	for i := range p.selection {
		if p.selection[i].Batch == batch {
			return i
		}
	}
	return -1
}

func (p *Picker) remove(batch string) {
	if i := p.find(batch); i >= 0 {
		p.selection = append(p.selection[:i], p.selection[i+1:]...)
	}
}
