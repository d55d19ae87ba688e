// Package order serves orders, their batch allocations and status workflow.
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/allocation"
	"github.com/masala/backend/internal/domain/order"
	"github.com/masala/backend/internal/domain/shared"
	"github.com/masala/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService handles order and allocation operations
type OrderService struct {
	orders         order.Repository
	allocations    order.AllocationRepository
	eventPublisher shared.EventPublisher
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	tolerance      decimal.Decimal
	metrics        *telemetry.AllocationMetrics
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orders order.Repository, allocations order.AllocationRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders:         orders,
		allocations:    allocations,
		idempotencyTTL: shared.DefaultIdempotencyConfig().TTL,
		tolerance:      allocation.DefaultTolerance,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables Idempotency-Key handling for allocation saves
func (s *OrderService) SetIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) {
	s.idempotency = store
	if ttl > 0 {
		s.idempotencyTTL = ttl
	}
}

// SetTolerance sets the per-unit tolerance checked before entering processing
func (s *OrderService) SetTolerance(tol decimal.Decimal) {
	if !tol.IsNegative() {
		s.tolerance = tol
	}
}

// SetMetrics sets the allocation metrics recorder
func (s *OrderService) SetMetrics(m *telemetry.AllocationMetrics) {
	s.metrics = m
}

// Create creates a new pending order
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	orderNumber := strings.TrimSpace(req.OrderNumber)
	if orderNumber == "" {
		orderNumber = generateOrderNumber(time.Now())
	}
	exists, err := s.orders.ExistsByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Order number %s already exists", orderNumber))
	}

	o, err := order.NewOrder(orderNumber, req.CustomerName, req.CustomerPhone)
	if err != nil {
		return nil, err
	}
	o.Notes = strings.TrimSpace(req.Notes)

	for i, in := range req.Items {
		item, err := newItem(in)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		if err := o.AddItem(item); err != nil {
			return nil, err
		}
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	s.publish(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

func newItem(in CreateOrderItemRequest) (*order.Item, error) {
	itemType := order.ItemType(in.Type)
	if itemType == "" {
		itemType = order.ItemTypeRegular
		if len(in.MixPayload) > 0 {
			itemType = order.ItemTypeMix
		}
	}
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", fmt.Sprintf("unknown item type %q", in.Type))
	}
	if itemType == order.ItemTypeMix {
		return order.NewMixItem(in.ProductName, in.Unit, in.Quantity, in.UnitPrice, in.MixPayload)
	}
	return order.NewRegularItem(in.ProductID, in.ProductName, in.Unit, in.Quantity, in.UnitPrice)
}

func generateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// GetByID retrieves an order with its lines
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		status, err := order.ParseStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["status"] = string(status)
	}

	orders, total, err := s.orders.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	items := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderListItemResponse(&orders[i])
	}
	return items, total, nil
}

// ListAllocations returns the saved allocation records of an order
func (s *OrderService) ListAllocations(ctx context.Context, orderID uuid.UUID) ([]AllocationRecord, error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	allocations, err := s.allocations.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToAllocationRecords(allocations), nil
}

// SaveAllocations replaces every allocation of an order with req.Allocations.
// Each record must reference an allocation unit of the order. When
// idempotencyKey is set and was already used for this order, nothing is
// written and the result is flagged Duplicate.
func (s *OrderService) SaveAllocations(ctx context.Context, orderID uuid.UUID, req SaveAllocationsRequest, idempotencyKey string) (result *SaveAllocationsResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderService", "SaveAllocations",
		telemetry.AttrOrderID.String(orderID.String()),
		telemetry.AttrRecordCount.Int(len(req.Allocations)),
	)
	defer func() {
		s.metrics.RecordSave(ctx, len(req.Allocations), err)
		telemetry.End(span, err)
	}()

	key := strings.TrimSpace(idempotencyKey)
	if key != "" && s.idempotency != nil {
		storeKey := "allocations:" + orderID.String() + ":" + key
		marked, markErr := s.idempotency.MarkProcessed(ctx, storeKey, s.idempotencyTTL)
		if markErr != nil {
			s.logger.Warn("idempotency check failed, saving anyway",
				zap.String("order_id", orderID.String()), zap.Error(markErr))
		} else if !marked {
			s.logger.Info("duplicate allocation save ignored",
				zap.String("order_id", orderID.String()), zap.String("idempotency_key", key))
			return &SaveAllocationsResult{OrderID: orderID, RecordCount: len(req.Allocations), Duplicate: true}, nil
		} else {
			defer func() {
				if err != nil {
					if relErr := s.idempotency.Release(ctx, storeKey); relErr != nil {
						s.logger.Warn("failed to release idempotency key", zap.Error(relErr))
					}
				}
			}()
		}
	}

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.CanEditAllocations() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Allocations cannot be changed while the order is %s", o.Status))
	}
	if len(req.Allocations) == 0 && o.Status == order.StatusProcessing {
		return nil, shared.NewDomainError("INVALID_STATE",
			"Allocations of an order in processing cannot be cleared")
	}

	allocations, err := resolveAllocations(o, req.Allocations)
	if err != nil {
		return nil, err
	}
	if err := s.allocations.ReplaceForOrder(ctx, orderID, allocations); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		if pubErr := s.eventPublisher.Publish(ctx, order.NewAllocationsSavedEvent(orderID, allocations)); pubErr != nil {
			s.logger.Warn("failed to publish event", zap.String("event_type", order.EventTypeAllocationsSaved), zap.Error(pubErr))
		}
	}
	s.logger.Info("allocations saved",
		zap.String("order_id", orderID.String()), zap.Int("records", len(allocations)))
	return &SaveAllocationsResult{OrderID: orderID, RecordCount: len(allocations)}, nil
}

// resolveAllocations checks each record against the order's units and
// builds the allocation set to persist
func resolveAllocations(o *order.Order, records []AllocationRecord) ([]order.Allocation, error) {
	units, _ := allocation.ComputeUnits(o.Items)
	byKey := make(map[string]allocation.Unit, len(units))
	for _, u := range units {
		byKey[u.Key] = u
	}

	out := make([]order.Allocation, 0, len(records))
	for i, r := range records {
		u, ok := byKey[strings.TrimSpace(r.OrderItemID)]
		if !ok {
			return nil, shared.NewDomainError("VALIDATION_FAILED",
				fmt.Sprintf("allocations[%d]: order_item_id %q does not match any item of order %s", i, r.OrderItemID, o.OrderNumber))
		}
		if r.ProductID != u.ProductID {
			return nil, shared.NewDomainError("VALIDATION_FAILED",
				fmt.Sprintf("allocations[%d]: product %s does not match %s", i, r.ProductID, u.ProductName))
		}
		unit := r.Unit
		if strings.TrimSpace(unit) == "" {
			unit = u.Unit
		}
		a, err := order.NewAllocation(o.ID, u.Key, r.ProductID, r.Batch, r.Quantity, unit)
		if err != nil {
			var de *shared.DomainError
			if errors.As(err, &de) {
				return nil, shared.NewDomainError(de.Code, fmt.Sprintf("allocations[%d]: %s", i, de.Message))
			}
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}

// TransitionStatus moves an order to req.Status. Requesting the current
// status succeeds without change. Entering processing requires every
// allocation unit to be fully allocated.
func (s *OrderService) TransitionStatus(ctx context.Context, orderID uuid.UUID, req TransitionStatusRequest) (response *OrderResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderService", "TransitionStatus",
		telemetry.AttrOrderID.String(orderID.String()),
		telemetry.AttrOrderStatus.String(req.Status),
	)
	defer func() {
		s.metrics.RecordTransition(ctx, req.Status, err)
		telemetry.End(span, err)
	}()

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if target == order.StatusProcessing && o.Status != order.StatusProcessing {
		if err := s.ensureFullyAllocated(ctx, o); err != nil {
			return nil, err
		}
	}

	change, err := o.TransitionTo(target, req.ChangedBy, req.Notes)
	if err != nil {
		return nil, err
	}
	if change == nil {
		r := ToOrderResponse(o)
		return &r, nil
	}
	if err := s.orders.SaveWithStatusChange(ctx, o, change); err != nil {
		return nil, err
	}
	s.publish(ctx, o)

	s.logger.Info("order status changed",
		zap.String("order_id", o.ID.String()),
		zap.String("from", string(change.From)),
		zap.String("to", string(change.To)),
		zap.String("changed_by", change.ChangedBy),
	)
	r := ToOrderResponse(o)
	return &r, nil
}

func (s *OrderService) ensureFullyAllocated(ctx context.Context, o *order.Order) error {
	saved, err := s.allocations.FindByOrder(ctx, o.ID)
	if err != nil {
		return err
	}
	units, _ := allocation.ComputeUnits(o.Items)
	plan := allocation.NewPlan(units, s.tolerance)
	plan.Merge(saved)
	if err := plan.Validate(); err != nil {
		return shared.NewDomainError("ALLOCATION_INCOMPLETE", err.Error())
	}
	return nil
}

// StatusHistory returns an order's status changes, oldest first
func (s *OrderService) StatusHistory(ctx context.Context, orderID uuid.UUID) ([]StatusHistoryResponse, error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	changes, err := s.orders.FindStatusHistory(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]StatusHistoryResponse, len(changes))
	for i := range changes {
		out[i] = ToStatusHistoryResponse(&changes[i])
	}
	return out, nil
}

func (s *OrderService) publish(ctx context.Context, o *order.Order) {
	events := o.PullDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		// state is already committed; handlers report their own failures
		s.logger.Error("failed to publish order events",
			zap.String("order_id", o.ID.String()), zap.Error(err))
	}
}
