package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/order"
	"github.com/masala/backend/internal/domain/shared"
	"github.com/masala/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("line_no ASC")
	})
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := preloadItems(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderNumber finds an order with its items by its business number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var model models.OrderModel
	if err := preloadItems(r.db.WithContext(ctx)).
		Where("order_number = ?", orderNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists order headers matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})

	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(order_number) LIKE ? OR LOWER(customer_name) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.OrderModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	orders := make([]order.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// ExistsByOrderNumber reports whether an order number is taken
func (r *GormOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts or updates the order header and rewrites its items
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	items := model.Items
	model.Items = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", o.ID).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// SaveWithStatusChange writes the new status with a version check and
// appends the history row in the same transaction.
// The aggregate's version has already been bumped by TransitionTo.
func (r *GormOrderRepository) SaveWithStatusChange(ctx context.Context, o *order.Order, change *order.StatusChange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", o.ID, o.Version-1).
			Updates(map[string]interface{}{
				"status":     string(o.Status),
				"notes":      o.Notes,
				"version":    o.Version,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		if change == nil {
			return nil
		}
		return tx.Create(models.StatusHistoryModelFromDomain(change)).Error
	})
}

// FindStatusHistory returns the order's status changes, oldest first
func (r *GormOrderRepository) FindStatusHistory(ctx context.Context, orderID uuid.UUID) ([]order.StatusChange, error) {
	var rows []models.StatusHistoryModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("changed_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	changes := make([]order.StatusChange, len(rows))
	for i := range rows {
		changes[i] = *rows[i].ToDomain()
	}
	return changes, nil
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
