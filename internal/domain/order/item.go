package order

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemType distinguishes plain product lines from custom blends
type ItemType string

const (
	ItemTypeRegular ItemType = "regular"
	ItemTypeMix     ItemType = "mix"
)

// IsValid checks if the item type is known
func (t ItemType) IsValid() bool {
	return t == ItemTypeRegular || t == ItemTypeMix
}

// Item is a line of an order.
// Regular lines reference a product directly; ProductID is nil for
// free-text lines that have no catalogue product. Mix lines carry the
// component list as stored at order creation in MixPayload.
type Item struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	LineNo      int
	Type        ItemType
	ProductID   *uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	MixPayload  json.RawMessage
}

// NewRegularItem creates a product line
func NewRegularItem(productID *uuid.UUID, productName, unit string, quantity, unitPrice decimal.Decimal) (*Item, error) {
	if err := validateLine(productName, unit, quantity, unitPrice); err != nil {
		return nil, err
	}
	if productID != nil && *productID == uuid.Nil {
		productID = nil
	}
	return &Item{
		ID:          uuid.New(),
		Type:        ItemTypeRegular,
		ProductID:   productID,
		ProductName: strings.TrimSpace(productName),
		Quantity:    quantity,
		Unit:        strings.TrimSpace(unit),
		UnitPrice:   unitPrice,
	}, nil
}

// NewMixItem creates a blend line. The payload must parse in one of the
// accepted layouts and is re-encoded in the canonical layout.
func NewMixItem(name, unit string, quantity, unitPrice decimal.Decimal, payload json.RawMessage) (*Item, error) {
	if err := validateLine(name, unit, quantity, unitPrice); err != nil {
		return nil, err
	}
	components, err := ParseMixComponents(payload)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_MIX_PAYLOAD", err.Error())
	}
	if len(components) == 0 {
		return nil, shared.NewDomainError("INVALID_MIX_PAYLOAD", "mix must have at least one component")
	}
	for _, c := range components {
		if c.Quantity.IsNegative() {
			return nil, shared.NewDomainError("INVALID_MIX_PAYLOAD", "mix component quantity cannot be negative")
		}
	}
	canonical, err := EncodeMixComponents(components)
	if err != nil {
		return nil, err
	}
	return &Item{
		ID:          uuid.New(),
		Type:        ItemTypeMix,
		ProductName: strings.TrimSpace(name),
		Quantity:    quantity,
		Unit:        strings.TrimSpace(unit),
		UnitPrice:   unitPrice,
		MixPayload:  canonical,
	}, nil
}

func validateLine(name, unit string, quantity, unitPrice decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if strings.TrimSpace(unit) == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return nil
}

// IsMix reports whether the line is a blend
func (i *Item) IsMix() bool {
	return i.Type == ItemTypeMix
}

// HasProduct reports whether a regular line references a catalogue product
func (i *Item) HasProduct() bool {
	return i.ProductID != nil && *i.ProductID != uuid.Nil
}

// Amount returns quantity * unit price
func (i *Item) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// MixComponents parses the stored payload of a mix line
func (i *Item) MixComponents() ([]MixComponent, error) {
	if !i.IsMix() {
		return nil, nil
	}
	return ParseMixComponents(i.MixPayload)
}
