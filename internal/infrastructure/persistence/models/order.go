package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	OrderNumber   string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerName  string           `gorm:"type:varchar(200);not null"`
	CustomerPhone string           `gorm:"type:varchar(50)"`
	Status        string           `gorm:"type:varchar(20);not null;default:'pending';index"`
	TotalAmount   decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Notes         string           `gorm:"type:text"`
	Items         []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		CustomerName:      m.CustomerName,
		CustomerPhone:     m.CustomerPhone,
		Status:            order.Status(m.Status),
		TotalAmount:       m.TotalAmount,
		Notes:             m.Notes,
		Items:             make([]order.Item, len(m.Items)),
	}
	for i := range m.Items {
		o.Items[i] = *m.Items[i].ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerName = o.CustomerName
	m.CustomerPhone = o.CustomerPhone
	m.Status = string(o.Status)
	m.TotalAmount = o.TotalAmount
	m.Notes = o.Notes
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i] = *OrderItemModelFromDomain(&o.Items[i])
		m.Items[i].OrderID = o.ID
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo      int             `gorm:"not null"`
	ItemType    string          `gorm:"type:varchar(10);not null;default:'regular'"`
	ProductID   *uuid.UUID      `gorm:"type:uuid"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit        string          `gorm:"type:varchar(20);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MixPayload  []byte          `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Item
func (m *OrderItemModel) ToDomain() *order.Item {
	item := &order.Item{
		ID:          m.ID,
		OrderID:     m.OrderID,
		LineNo:      m.LineNo,
		Type:        order.ItemType(m.ItemType),
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		Unit:        m.Unit,
		UnitPrice:   m.UnitPrice,
	}
	if len(m.MixPayload) > 0 {
		item.MixPayload = append([]byte(nil), m.MixPayload...)
	}
	return item
}

// OrderItemModelFromDomain creates a new persistence model from a domain Item
func OrderItemModelFromDomain(i *order.Item) *OrderItemModel {
	m := &OrderItemModel{
		ID:          i.ID,
		OrderID:     i.OrderID,
		LineNo:      i.LineNo,
		ItemType:    string(i.Type),
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		Unit:        i.Unit,
		UnitPrice:   i.UnitPrice,
	}
	if len(i.MixPayload) > 0 {
		m.MixPayload = []byte(i.MixPayload)
	}
	return m
}

// StatusHistoryModel is one row of order_status_history
type StatusHistoryModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus string    `gorm:"type:varchar(20);not null"`
	ToStatus   string    `gorm:"type:varchar(20);not null"`
	ChangedBy  string    `gorm:"type:varchar(100);not null"`
	Notes      string    `gorm:"type:text"`
	ChangedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StatusHistoryModel) TableName() string {
	return "order_status_history"
}

// ToDomain converts the history row to a domain StatusChange
func (m *StatusHistoryModel) ToDomain() *order.StatusChange {
	return &order.StatusChange{
		ID:        m.ID,
		OrderID:   m.OrderID,
		From:      order.Status(m.FromStatus),
		To:        order.Status(m.ToStatus),
		ChangedBy: m.ChangedBy,
		Notes:     m.Notes,
		ChangedAt: m.ChangedAt,
	}
}

// StatusHistoryModelFromDomain creates a history row from a domain StatusChange
func StatusHistoryModelFromDomain(c *order.StatusChange) *StatusHistoryModel {
	return &StatusHistoryModel{
		ID:         c.ID,
		OrderID:    c.OrderID,
		FromStatus: string(c.From),
		ToStatus:   string(c.To),
		ChangedBy:  c.ChangedBy,
		Notes:      c.Notes,
		ChangedAt:  c.ChangedAt,
	}
}
