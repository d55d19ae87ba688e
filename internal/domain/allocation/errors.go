package allocation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownUnit is returned when a key does not belong to the plan
	ErrUnknownUnit = errors.New("unknown allocation unit")
	// ErrPickerClosed is returned by a picker that has already been saved
	ErrPickerClosed = errors.New("batch picker is closed")
	// ErrUnknownBatch is returned for a batch not offered to the picker
	ErrUnknownBatch = errors.New("batch is not available for this product")
)

// MismatchError reports a unit whose allocated total differs from its requirement
type MismatchError struct {
	UnitKey     string
	ProductName string
	Required    decimal.Decimal
	Allocated   decimal.Decimal
	Unit        string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("allocation mismatch for %s: required %s, allocated %s %s",
		e.ProductName, e.Required.String(), e.Allocated.String(), e.Unit)
}

// Excess reports whether more than required was allocated
func (e *MismatchError) Excess() bool {
	return e.Allocated.GreaterThan(e.Required)
}

// ShortfallError reports a picker selection below the unit's requirement
type ShortfallError struct {
	UnitKey     string
	ProductName string
	Required    decimal.Decimal
	Selected    decimal.Decimal
	Unit        string
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("shortfall for %s: required %s %s, selected %s %s",
		e.ProductName, e.Required.String(), e.Unit, e.Selected.String(), e.Unit)
}

// Missing returns how much is still needed
func (e *ShortfallError) Missing() decimal.Decimal {
	return e.Required.Sub(e.Selected)
}
