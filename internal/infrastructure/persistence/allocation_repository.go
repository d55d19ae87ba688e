package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/order"
	"github.com/masala/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAllocationRepository implements order.AllocationRepository using GORM
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// FindByOrder returns the saved allocations of an order in insertion order
func (r *GormAllocationRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]order.Allocation, error) {
	var rows []models.AllocationModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, order_item_key ASC, batch ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	allocations := make([]order.Allocation, len(rows))
	for i := range rows {
		allocations[i] = *rows[i].ToDomain()
	}
	return allocations, nil
}

// ReplaceForOrder swaps the order's allocation set atomically
func (r *GormAllocationRepository) ReplaceForOrder(ctx context.Context, orderID uuid.UUID, allocations []order.Allocation) error {
	rows := make([]models.AllocationModel, len(allocations))
	for i := range allocations {
		rows[i] = *models.AllocationModelFromDomain(&allocations[i])
		rows[i].OrderID = orderID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.AllocationModel{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(&rows, 100).Error
	})
}

// Ensure GormAllocationRepository implements order.AllocationRepository
var _ order.AllocationRepository = (*GormAllocationRepository)(nil)
