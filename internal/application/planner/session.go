package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/application/notification"
	"github.com/masala/backend/internal/domain/allocation"
	"github.com/masala/backend/internal/domain/inventory"
	"github.com/masala/backend/internal/domain/order"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Session is one open allocation dialog for one order. Edits are expected
// from a single goroutine; fetch results land from worker goroutines and are
// discarded once the session is closed.
type Session struct {
	planner *Planner
	logger  *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	limiter *rate.Limiter

	mu        sync.Mutex
	order     *order.Order
	plan      *allocation.Plan
	skipped   []allocation.SkippedItem
	batches   map[uuid.UUID][]inventory.BatchAvailability
	batchErrs map[uuid.UUID]error
	orderErr  error
	saved     bool
	closed    bool
}

func newSession(ctx context.Context, p *Planner, o *order.Order) *Session {
	sessCtx, cancel := context.WithCancel(ctx)
	limit := rate.Inf
	if p.config.SaveInterval > 0 {
		limit = rate.Every(p.config.SaveInterval)
	}
	return &Session{
		planner:   p,
		logger:    p.logger.With(zap.String("order_id", o.ID.String())),
		ctx:       sessCtx,
		cancel:    cancel,
		limiter:   rate.NewLimiter(limit, 1),
		order:     o,
		plan:      allocation.NewPlan(nil, p.config.Tolerance),
		batches:   make(map[uuid.UUID][]inventory.BatchAvailability),
		batchErrs: make(map[uuid.UUID]error),
	}
}

// load fetches missing items and saved allocations concurrently, derives
// units, merges saved allocations and fetches batches per distinct product.
func (s *Session) load() {
	orderID := s.order.ID
	needItems := len(s.order.Items) == 0

	var (
		fetched   *order.Order
		persisted []order.Allocation
		g         errgroup.Group
	)
	if needItems {
		g.Go(func() error {
			o, err := s.planner.orders.GetOrder(s.ctx, orderID)
			if err != nil {
				s.mu.Lock()
				s.orderErr = err
				s.mu.Unlock()
				s.warn("Could not load order details", err.Error())
				return nil
			}
			fetched = o
			return nil
		})
	}
	g.Go(func() error {
		list, err := s.planner.orders.ListAllocations(s.ctx, orderID)
		if err != nil {
			s.warn("Could not load saved allocations", err.Error())
			return nil
		}
		persisted = list
		return nil
	})
	_ = g.Wait()

	s.mu.Lock()
	if s.closed || s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	if fetched != nil {
		s.order = fetched
	}
	s.rederiveLocked()
	orphans := s.plan.Merge(persisted)
	products := allocation.DistinctProducts(s.plan.Units())
	skipped := append([]allocation.SkippedItem(nil), s.skipped...)
	s.mu.Unlock()

	if len(skipped) > 0 {
		lines := make([]string, len(skipped))
		for i, sk := range skipped {
			lines[i] = sk.String()
		}
		s.warn(fmt.Sprintf("%d item(s) cannot be allocated", len(skipped)), strings.Join(lines, "; "))
	}
	if len(orphans) > 0 {
		s.warn("Some saved allocations no longer match an order line",
			fmt.Sprintf("%d record(s) will be dropped on the next save", len(orphans)))
	}

	s.fetchBatches(products)
}

func (s *Session) rederiveLocked() {
	units, skipped := allocation.ComputeUnits(s.order.Items)
	s.plan.Rebase(units)
	s.skipped = skipped
}

// fetchBatches issues one lookup per product, bounded by FetchConcurrency.
// Results are merged by product ID so completion order does not matter.
func (s *Session) fetchBatches(products []uuid.UUID) {
	if len(products) == 0 {
		return
	}
	var g errgroup.Group
	g.SetLimit(s.planner.config.FetchConcurrency)
	for _, pid := range products {
		g.Go(func() error {
			list, err := s.planner.inventory.ListBatches(s.ctx, pid)

			s.mu.Lock()
			defer s.mu.Unlock()
			if s.closed {
				return nil
			}
			if err != nil {
				s.batchErrs[pid] = err
				delete(s.batches, pid)
				return nil
			}
			delete(s.batchErrs, pid)
			s.batches[pid] = list
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	failed := make([]string, 0)
	for _, pid := range products {
		if err, ok := s.batchErrs[pid]; ok {
			failed = append(failed, fmt.Sprintf("%s: %v", s.productNameLocked(pid), err))
		}
	}
	s.mu.Unlock()

	if len(failed) > 0 {
		sort.Strings(failed)
		s.warn("Could not load batches", strings.Join(failed, "; "))
	}
	s.logger.Debug("batch availability loaded",
		zap.Int("products", len(products)),
		zap.Int("failed", len(failed)))
}

func (s *Session) productNameLocked(pid uuid.UUID) string {
	for _, u := range s.plan.Units() {
		if u.ProductID == pid {
			return u.ProductName
		}
	}
	return pid.String()
}

// Refresh re-reads the order. When the number of lines changed, units are
// derived again and batch availability is fetched anew; allocations of
// units that still exist are kept.
func (s *Session) Refresh(ctx context.Context) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	o, err := s.planner.orders.GetOrder(ctx, s.OrderID())
	if err != nil {
		s.warn("Could not reload order", err.Error())
		return fmt.Errorf("reload order: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	changed := len(o.Items) != len(s.order.Items)
	s.order = o
	s.orderErr = nil
	var products []uuid.UUID
	if changed {
		s.rederiveLocked()
		products = allocation.DistinctProducts(s.plan.Units())
	}
	s.mu.Unlock()

	if changed {
		s.fetchBatches(products)
	}
	return nil
}

// RefreshBatches re-fetches availability for one product
func (s *Session) RefreshBatches(productID uuid.UUID) {
	if s.Closed() {
		return
	}
	s.fetchBatches([]uuid.UUID{productID})
}

// OrderID returns the session's order ID
func (s *Session) OrderID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.ID
}

// Order returns the order as last loaded
func (s *Session) Order() *order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order
}

// Units returns the allocation units in line order
func (s *Session) Units() []allocation.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Units()
}

// Groups returns units grouped for display
func (s *Session) Groups() []allocation.Group {
	return allocation.GroupUnits(s.Units())
}

// Warnings lists lines and components that produced no unit
func (s *Session) Warnings() []allocation.SkippedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]allocation.SkippedItem(nil), s.skipped...)
}

// Availability returns the fetched batches of a product. ok is false when
// the lookup failed or has not happened.
func (s *Session) Availability(productID uuid.UUID) ([]inventory.BatchAvailability, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.batches[productID]
	return append([]inventory.BatchAvailability(nil), list...), ok
}

// Allocations returns the batches currently chosen for a unit
func (s *Session) Allocations(unitKey string) []allocation.BatchAllocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Allocations(unitKey)
}

// Allocated returns the allocated total of a unit
func (s *Session) Allocated(unitKey string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Allocated(unitKey)
}

// Remaining returns required minus allocated for a unit, floored at zero
func (s *Session) Remaining(unitKey string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Remaining(unitKey)
}

// OpenPicker starts a batch picker for a unit, seeded with its current
// allocation and the latest availability of its product.
func (s *Session) OpenPicker(unitKey string) (*allocation.Picker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	unit, ok := s.plan.Unit(unitKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", allocation.ErrUnknownUnit, unitKey)
	}
	return allocation.OpenPicker(unit, s.batches[unit.ProductID], s.plan.Allocations(unitKey), s.plan.Tolerance()), nil
}

// RecordAllocation replaces the allocation of a unit
func (s *Session) RecordAllocation(unitKey string, allocs []allocation.BatchAllocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return s.plan.Record(unitKey, allocs)
}

// ApplyPicker saves a picker and records its selection
func (s *Session) ApplyPicker(p *allocation.Picker) error {
	selection, err := p.Save()
	if err != nil {
		var shortfall *allocation.ShortfallError
		if errors.As(err, &shortfall) {
			s.notify(notification.LevelError, "Not enough selected", err.Error())
		}
		return err
	}
	return s.RecordAllocation(p.Unit().Key, selection)
}

// Save validates every unit and submits all allocations in one request.
// A session without units, or whose order failed to load, returns
// ErrNothingToSave. Valid calls closer together than the save interval
// return ErrSaveThrottled without any request. On failure the session stays
// open for a retry.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if err := s.submittableLocked(); err != nil {
		s.mu.Unlock()
		s.notify(notification.LevelError, "Nothing to save", err.Error())
		return err
	}
	if err := s.plan.Validate(); err != nil {
		s.mu.Unlock()
		s.notify(notification.LevelError, "Allocation incomplete", err.Error())
		return err
	}
	if !s.limiter.Allow() {
		s.mu.Unlock()
		return ErrSaveThrottled
	}
	orderID := s.order.ID
	records := s.plan.Flatten(orderID)
	s.mu.Unlock()

	if err := s.planner.orders.SaveAllocations(ctx, orderID, records); err != nil {
		s.notify(notification.LevelError, "Saving allocations failed", err.Error())
		return fmt.Errorf("save allocations: %w", err)
	}

	s.mu.Lock()
	s.saved = true
	s.mu.Unlock()

	s.logger.Info("allocations saved", zap.Int("records", len(records)))
	s.notify(notification.LevelSuccess, "Allocations saved", fmt.Sprintf("%d allocation record(s) saved", len(records)))
	return nil
}

// Commit saves the allocations and then moves the order to the commit
// status. The status request is sent only after the save succeeded. If it
// fails a *StatusTransitionError is returned and RetryTransition can be used.
// The session is closed after a successful commit.
func (s *Session) Commit(ctx context.Context, changedBy, notes string) error {
	if err := s.Save(ctx); err != nil {
		return err
	}
	return s.transition(ctx, changedBy, notes)
}

// RetryTransition re-sends only the status change, after confirming that
// the allocations stored on the server are the ones in this session.
func (s *Session) RetryTransition(ctx context.Context, changedBy, notes string) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	persisted, err := s.planner.orders.ListAllocations(ctx, s.OrderID())
	if err != nil {
		return fmt.Errorf("confirm saved allocations: %w", err)
	}
	s.mu.Lock()
	matches := s.submittableLocked() == nil && s.plan.Matches(persisted) && s.plan.Validate() == nil
	s.mu.Unlock()
	if !matches {
		s.notify(notification.LevelError, "Status not changed", ErrAllocationsNotConfirmed.Error())
		return ErrAllocationsNotConfirmed
	}
	return s.transition(ctx, changedBy, notes)
}

func (s *Session) submittableLocked() error {
	if s.orderErr != nil {
		return fmt.Errorf("%w: order not loaded: %v", ErrNothingToSave, s.orderErr)
	}
	if len(s.plan.Units()) == 0 {
		return ErrNothingToSave
	}
	return nil
}

func (s *Session) transition(ctx context.Context, changedBy, notes string) error {
	status := s.planner.config.CommitStatus
	orderID := s.OrderID()
	err := s.planner.orders.TransitionStatus(ctx, orderID, StatusUpdate{Status: status, ChangedBy: changedBy, Notes: notes})
	if err != nil {
		terr := &StatusTransitionError{OrderID: orderID, Status: status, Err: err}
		s.notify(notification.LevelError, "Order status not updated", terr.Error())
		return terr
	}
	s.notify(notification.LevelSuccess, "Order updated", fmt.Sprintf("Order moved to %s", status))
	s.Close()
	return nil
}

// Saved reports whether a Save has succeeded in this session
func (s *Session) Saved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

// Close discards the session. In-flight fetches are cancelled and their
// results ignored. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Closed reports whether Close has been called
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) warn(title, message string) {
	s.logger.Warn(title, zap.String("detail", message))
	s.notify(notification.LevelWarning, title, message)
}

func (s *Session) notify(level notification.Level, title, message string) {
	if s.Closed() {
		return
	}
	s.planner.notifier.Notify(level, title, message)
}
