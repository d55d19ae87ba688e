package order

import (
	"fmt"
	"strings"

	"github.com/masala/backend/internal/domain/shared"
)

// Status represents the lifecycle stage of an order
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// AllStatuses lists every status in lifecycle order
var AllStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusReady,
	StatusDelivered,
	StatusCancelled,
}

// ParseStatus parses a status string case-insensitively
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("unknown order status %q", s))
	}
	return status, nil
}

// IsValid checks if the status is one of the known statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo checks if the status can move to target.
// processing may fall back to confirmed so allocations can be reworked.
func (s Status) CanTransitionTo(target Status) bool {
	if target == StatusCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusProcessing
	case StatusConfirmed:
		return target == StatusProcessing
	case StatusProcessing:
		return target == StatusReady || target == StatusConfirmed
	case StatusReady:
		return target == StatusDelivered || target == StatusProcessing
	case StatusDelivered, StatusCancelled:
		return false
	}
	return false
}

// AllowsAllocationChanges reports whether allocations may still be edited
func (s Status) AllowsAllocationChanges() bool {
	return !s.IsTerminal() && s != StatusReady
}
