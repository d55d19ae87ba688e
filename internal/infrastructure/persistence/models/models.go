// Package models contains the GORM persistence models and their mapping to
// domain types.
package models

// All returns every model, in dependency order, for AutoMigrate in tests
func All() []any {
	return []any{
		&OrderModel{},
		&OrderItemModel{},
		&AllocationModel{},
		&StatusHistoryModel{},
		&StockBatchModel{},
	}
}
