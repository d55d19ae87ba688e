package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/inventory"
	"github.com/masala/backend/internal/domain/shared"
	"github.com/masala/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// fefoOrder sorts First Expired, First Out with undated batches last
const fefoOrder = "COALESCE(expiry_date, '9999-12-31') ASC, received_at ASC"

// GormStockBatchRepository implements inventory.StockBatchRepository using GORM
type GormStockBatchRepository struct {
	db   *gorm.DB
	inTx bool
}

// NewGormStockBatchRepository creates a new GormStockBatchRepository
func NewGormStockBatchRepository(db *gorm.DB) *GormStockBatchRepository {
	return &GormStockBatchRepository{db: db}
}

// FindByID finds a stock batch by its ID
func (r *GormStockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	var model models.StockBatchModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProduct returns every batch record of a product, earliest expiry first
func (r *GormStockBatchRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.StockBatch, error) {
	var rows []models.StockBatchModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order(fefoOrder).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toStockBatches(rows), nil
}

// FindAvailable returns records of a label that still hold stock. Inside
// WithTx the rows are locked until the transaction ends.
func (r *GormStockBatchRepository) FindAvailable(ctx context.Context, productID uuid.UUID, batch string) ([]inventory.StockBatch, error) {
	query := r.db.WithContext(ctx).
		Where("product_id = ? AND batch = ? AND quantity > consumed", productID, batch).
		Order(fefoOrder)
	if r.inTx {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rows []models.StockBatchModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toStockBatches(rows), nil
}

// Save creates or updates a stock batch
func (r *GormStockBatchRepository) Save(ctx context.Context, batch *inventory.StockBatch) error {
	return r.db.WithContext(ctx).Save(models.StockBatchModelFromDomain(batch)).Error
}

// SaveAll creates or updates several stock batches
func (r *GormStockBatchRepository) SaveAll(ctx context.Context, batches []*inventory.StockBatch) error {
	if len(batches) == 0 {
		return nil
	}
	rows := make([]*models.StockBatchModel, len(batches))
	for i, b := range batches {
		rows[i] = models.StockBatchModelFromDomain(b)
	}
	return r.db.WithContext(ctx).Save(&rows).Error
}

// WithTx runs fn against a repository bound to one transaction
func (r *GormStockBatchRepository) WithTx(ctx context.Context, fn func(repo inventory.StockBatchRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStockBatchRepository{db: tx, inTx: true})
	})
}

func toStockBatches(rows []models.StockBatchModel) []inventory.StockBatch {
	batches := make([]inventory.StockBatch, len(rows))
	for i := range rows {
		batches[i] = *rows[i].ToDomain()
	}
	return batches
}

// Ensure GormStockBatchRepository implements StockBatchRepository
var _ inventory.StockBatchRepository = (*GormStockBatchRepository)(nil)
