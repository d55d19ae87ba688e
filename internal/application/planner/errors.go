package planner

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/order"
)

var (
	// ErrSaveThrottled is returned when Save is called again within the save interval
	ErrSaveThrottled = errors.New("save ignored: called again too quickly")
	// ErrSessionClosed is returned by every operation after Close
	ErrSessionClosed = errors.New("allocation session is closed")
	// ErrAllocationsNotConfirmed is returned by RetryTransition when the
	// server's allocations do not match the session
	ErrAllocationsNotConfirmed = errors.New("saved allocations do not match this session")
	// ErrNothingToSave is returned by Save when the session has no units or
	// its order could not be loaded
	ErrNothingToSave = errors.New("nothing to save")
)

// StatusTransitionError reports that allocations were saved but the
// following status change failed. The status change alone can be retried
// with Session.RetryTransition.
type StatusTransitionError struct {
	OrderID uuid.UUID
	Status  order.Status
	Err     error
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("allocations saved but changing order %s to %s failed: %v", e.OrderID, e.Status, e.Err)
}

func (e *StatusTransitionError) Unwrap() error {
	return e.Err
}

// AllocationsSaved is always true; allocations are durable when this error is returned
func (e *StatusTransitionError) AllocationsSaved() bool {
	return true
}
