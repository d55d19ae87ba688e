package inventory

import (
	"context"

	"github.com/google/uuid"
)

// StockBatchRepository persists stock batches
type StockBatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockBatch, error)
	// FindByProduct returns every batch record of a product, earliest expiry first
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]StockBatch, error)
	// FindAvailable returns records with quantity left for a product and label
	FindAvailable(ctx context.Context, productID uuid.UUID, batch string) ([]StockBatch, error)
	Save(ctx context.Context, batch *StockBatch) error
	SaveAll(ctx context.Context, batches []*StockBatch) error
	// WithTx runs fn against a repository bound to one database transaction
	WithTx(ctx context.Context, fn func(repo StockBatchRepository) error) error
}
