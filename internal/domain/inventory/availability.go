package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// BatchAvailability is the quantity on hand for one batch label of a product
type BatchAvailability struct {
	Batch         string          `json:"batch"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	Unit          string          `json:"unit"`
}

// Summarize folds stock batch records into per-label availability.
// Labels with nothing left are dropped. The result is ordered by earliest
// expiry first (labels without expiry last), then by label.
func Summarize(batches []StockBatch) []BatchAvailability {
	type acc struct {
		avail  BatchAvailability
		expiry *time.Time
	}
	byLabel := make(map[string]*acc)
	order := make([]string, 0)

	for i := range batches {
		b := &batches[i]
		a, ok := byLabel[b.Batch]
		if !ok {
			a = &acc{avail: BatchAvailability{Batch: b.Batch, TotalQuantity: decimal.Zero, Unit: b.Unit}}
			byLabel[b.Batch] = a
			order = append(order, b.Batch)
		}
		a.avail.TotalQuantity = a.avail.TotalQuantity.Add(b.Available())
		if b.ExpiryDate != nil && (a.expiry == nil || b.ExpiryDate.Before(*a.expiry)) {
			a.expiry = b.ExpiryDate
		}
	}

	items := make([]*acc, 0, len(order))
	for _, label := range order {
		if a := byLabel[label]; a.avail.TotalQuantity.GreaterThan(decimal.Zero) {
			items = append(items, a)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		ei, ej := items[i].expiry, items[j].expiry
		switch {
		case ei != nil && ej != nil && !ei.Equal(*ej):
			return ei.Before(*ej)
		case ei != nil && ej == nil:
			return true
		case ei == nil && ej != nil:
			return false
		}
		return items[i].avail.Batch < items[j].avail.Batch
	})

	out := make([]BatchAvailability, len(items))
	for i, a := range items {
		out[i] = a.avail
	}
	return out
}

// Find returns the availability entry for a batch label
func Find(availability []BatchAvailability, batch string) (BatchAvailability, bool) {
	for _, a := range availability {
		if a.Batch == batch {
			return a, true
		}
	}
	return BatchAvailability{}, false
}
