// Package planner runs an allocation session for one order against the
// order and inventory services: loading the order, its saved allocations and
// batch availability, collecting operator choices and saving them.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/masala/backend/internal/application/notification"
	"github.com/masala/backend/internal/domain/allocation"
	"github.com/masala/backend/internal/domain/order"
	"github.com/masala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Config holds session settings
type Config struct {
	// Tolerance is the accepted |allocated - required| per unit
	Tolerance decimal.Decimal
	// SaveInterval is the minimum time between two Save calls; zero disables throttling
	SaveInterval time.Duration
	// FetchConcurrency bounds parallel batch lookups
	FetchConcurrency int
	// CommitStatus is the status requested after allocations are saved
	CommitStatus order.Status
}

// DefaultConfig returns the default session settings
func DefaultConfig() Config {
	return Config{
		Tolerance:        allocation.DefaultTolerance,
		SaveInterval:     time.Second,
		FetchConcurrency: 8,
		CommitStatus:     order.StatusProcessing,
	}
}

// Planner opens allocation sessions
type Planner struct {
	orders    OrderGateway
	inventory InventoryGateway
	notifier  notification.Notifier
	config    Config
	logger    *zap.Logger
}

// New creates a Planner
func New(orders OrderGateway, inventory InventoryGateway, notifier notification.Notifier, cfg Config, logger *zap.Logger) *Planner {
	if notifier == nil {
		notifier = notification.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = DefaultConfig().FetchConcurrency
	}
	if cfg.CommitStatus == "" {
		cfg.CommitStatus = order.StatusProcessing
	}
	if cfg.Tolerance.IsNegative() {
		cfg.Tolerance = allocation.DefaultTolerance
	}
	return &Planner{
		orders:    orders,
		inventory: inventory,
		notifier:  notifier,
		config:    cfg,
		logger:    logger,
	}
}

// Open starts a session for o. o may carry its items or only its ID; missing
// items are fetched. Load failures are reported as warning notices and leave
// the affected data empty. Open fails on invalid input, or when ctx is done
// before loading finished; the session's fetches run under ctx.
func (p *Planner) Open(ctx context.Context, o *order.Order) (*Session, error) {
	if o == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "order is required")
	}
	s := newSession(ctx, p, o)
	s.load()
	if err := ctx.Err(); err != nil {
		s.Close()
		return nil, fmt.Errorf("open allocation session: %w", err)
	}
	return s, nil
}
