package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/masala/backend/internal/application/planner"
	"github.com/masala/backend/internal/domain/allocation"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// planFile is an allocation plan read from YAML:
//
//	changed_by: asha
//	notes: picked for the morning run
//	allocations:
//	  "<unit key or product name>":
//	    - batch: CU-01
//	      quantity: 3
type planFile struct {
	ChangedBy   string                                  `yaml:"changed_by"`
	Notes       string                                  `yaml:"notes"`
	Allocations map[string][]allocation.BatchAllocation `yaml:"allocations"`
}

func loadPlan(r io.Reader) (*planFile, error) {
	var plan planFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("plan file is empty")
		}
		return nil, fmt.Errorf("invalid plan file: %w", err)
	}
	if len(plan.Allocations) == 0 {
		return nil, fmt.Errorf("plan file has no allocations")
	}
	for ref, entries := range plan.Allocations {
		for i, e := range entries {
			if strings.TrimSpace(e.Batch) == "" {
				return nil, fmt.Errorf("allocations[%q][%d]: batch is required", ref, i)
			}
			if e.Quantity.IsNegative() {
				return nil, fmt.Errorf("allocations[%q][%d]: quantity cannot be negative", ref, i)
			}
		}
	}
	return &plan, nil
}

// adjustment records a requested quantity the picker changed
type adjustment struct {
	UnitKey   string
	Batch     string
	Requested decimal.Decimal
	Applied   decimal.Decimal
	Reason    string
}

// resolveUnit finds a unit by exact key, or by product name when exactly
// one unit carries that name
func resolveUnit(units []allocation.Unit, ref string) (allocation.Unit, error) {
	ref = strings.TrimSpace(ref)
	var byName []allocation.Unit
	for _, u := range units {
		if u.Key == ref {
			return u, nil
		}
		if strings.EqualFold(u.ProductName, ref) {
			byName = append(byName, u)
		}
	}
	switch len(byName) {
	case 0:
		return allocation.Unit{}, fmt.Errorf("%w: %s", allocation.ErrUnknownUnit, ref)
	case 1:
		return byName[0], nil
	}
	return allocation.Unit{}, fmt.Errorf("%q names %d units; use the unit key", ref, len(byName))
}

// applyPlan runs every plan entry through a picker, which clamps each
// quantity to what the batch holds, and records the result in the session
func applyPlan(s *planner.Session, plan *planFile) ([]adjustment, error) {
	units := s.Units()
	var adjustments []adjustment
	for _, ref := range slices.Sorted(maps.Keys(plan.Allocations)) {
		entries := plan.Allocations[ref]
		unit, err := resolveUnit(units, ref)
		if err != nil {
			return adjustments, err
		}
		p, err := s.OpenPicker(unit.Key)
		if err != nil {
			return adjustments, err
		}
		for _, e := range entries {
			applied, err := p.SetBatchQuantity(e.Batch, e.Quantity)
			switch {
			case errors.Is(err, allocation.ErrUnknownBatch):
				adjustments = append(adjustments, adjustment{UnitKey: unit.Key, Batch: e.Batch, Requested: e.Quantity, Applied: applied, Reason: "batch not available"})
			case err != nil:
				p.Cancel()
				return adjustments, err
			case !applied.Equal(e.Quantity):
				adjustments = append(adjustments, adjustment{UnitKey: unit.Key, Batch: e.Batch, Requested: e.Quantity, Applied: applied, Reason: "limited to batch stock"})
			}
		}
		if err := s.ApplyPicker(p); err != nil {
			return adjustments, fmt.Errorf("%s: %w", unit.ProductName, err)
		}
	}
	return adjustments, nil
}
