package order

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mix payload errors
var (
	ErrEmptyMixPayload  = errors.New("mix payload is empty")
	ErrUnknownMixShape  = errors.New("mix payload has an unrecognised shape")
	ErrMalformedMixJSON = errors.New("mix payload is not valid JSON")
)

// MixShape identifies which stored layout a mix payload used
type MixShape int

const (
	// MixShapeObject is {"components":[{"product_id","product_name","quantity","unit","unit_price"}]}
	MixShapeObject MixShape = iota + 1
	// MixShapeArray is [{"productId","name","calculatedQuantity","unit","price"}]
	MixShapeArray
)

func (s MixShape) String() string {
	switch s {
	case MixShapeObject:
		return "object"
	case MixShapeArray:
		return "array"
	}
	return "unknown"
}

// MixComponent is one ingredient of a mix line in canonical form.
// ProductID is nil when the stored reference is missing or not a UUID;
// RawProductID keeps whatever was stored for diagnostics.
type MixComponent struct {
	Index        int
	ProductID    *uuid.UUID
	RawProductID string
	Name         string
	Quantity     decimal.Decimal
	Unit         string
	UnitPrice    decimal.Decimal
}

// HasProduct reports whether the component references a resolvable product
func (c MixComponent) HasProduct() bool {
	return c.ProductID != nil && *c.ProductID != uuid.Nil
}

// flexString accepts a JSON string or number
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type objectPayload struct {
	Components []objectComponent `json:"components"`
}

type objectComponent struct {
	ProductID   flexString      `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type arrayComponent struct {
	ProductID          flexString      `json:"productId"`
	Name               string          `json:"name"`
	CalculatedQuantity decimal.Decimal `json:"calculatedQuantity"`
	Unit               string          `json:"unit"`
	Price              decimal.Decimal `json:"price"`
}

// ParseMixComponents normalises a stored mix payload into canonical components.
// Either stored layout is accepted, as is a payload that was JSON-encoded twice.
func ParseMixComponents(raw []byte) ([]MixComponent, error) {
	components, _, err := parseMix(raw, true)
	return components, err
}

// DetectMixShape reports which layout a payload uses without keeping the result
func DetectMixShape(raw []byte) (MixShape, error) {
	_, shape, err := parseMix(raw, true)
	return shape, err
}

func parseMix(raw []byte, allowNested bool) ([]MixComponent, MixShape, error) {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 || string(data) == "null" {
		return nil, 0, ErrEmptyMixPayload
	}

	switch data[0] {
	case '"':
		if !allowNested {
			return nil, 0, ErrUnknownMixShape
		}
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrMalformedMixJSON, err)
		}
		return parseMix([]byte(inner), false)

	case '{':
		var payload objectPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrMalformedMixJSON, err)
		}
		if payload.Components == nil {
			return nil, 0, ErrUnknownMixShape
		}
		out := make([]MixComponent, len(payload.Components))
		for i, c := range payload.Components {
			out[i] = newMixComponent(i, string(c.ProductID), c.ProductName, c.Quantity, c.Unit, c.UnitPrice)
		}
		return out, MixShapeObject, nil

	case '[':
		var payload []arrayComponent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrMalformedMixJSON, err)
		}
		out := make([]MixComponent, len(payload))
		for i, c := range payload {
			out[i] = newMixComponent(i, string(c.ProductID), c.Name, c.CalculatedQuantity, c.Unit, c.Price)
		}
		return out, MixShapeArray, nil
	}

	return nil, 0, ErrUnknownMixShape
}

func newMixComponent(index int, rawID, name string, qty decimal.Decimal, unit string, price decimal.Decimal) MixComponent {
	c := MixComponent{
		Index:        index,
		RawProductID: strings.TrimSpace(rawID),
		Name:         strings.TrimSpace(name),
		Quantity:     qty,
		Unit:         strings.TrimSpace(unit),
		UnitPrice:    price,
	}
	if id, err := uuid.Parse(c.RawProductID); err == nil && id != uuid.Nil {
		c.ProductID = &id
	}
	return c
}

// EncodeMixComponents writes components in the object layout, which is the
// layout new orders are stored with.
func EncodeMixComponents(components []MixComponent) (json.RawMessage, error) {
	payload := objectPayload{Components: make([]objectComponent, len(components))}
	for i, c := range components {
		payload.Components[i] = objectComponent{
			ProductID:   flexString(c.RawProductID),
			ProductName: c.Name,
			Quantity:    c.Quantity,
			Unit:        c.Unit,
			UnitPrice:   c.UnitPrice,
		}
		if c.ProductID != nil {
			payload.Components[i].ProductID = flexString(c.ProductID.String())
		}
	}
	return json.Marshal(payload)
}
