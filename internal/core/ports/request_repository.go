// Package ports defines the contracts between the application core and the
// infrastructure adapters: repositories, the unit of work, the robot
// command channel, and the customer notifier.
package ports

import (
	"context"

	"laundrybot/internal/core/domain/model/request"
)

// RequestRepository defines the persistence contract for laundry request
// aggregates.
type RequestRepository interface {
	// Add persists a new request and assigns its id.
	Add(ctx context.Context, aggregate *request.LaundryRequest) error

	// Update persists changes to an existing request.
	Update(ctx context.Context, aggregate *request.LaundryRequest) error

	// Get retrieves a request by id. Returns errs.ObjectNotFoundError when
	// no such request exists.
	Get(ctx context.Context, id int64) (*request.LaundryRequest, error)

	// GetActiveByCustomer retrieves the customer's non-terminal request, if
	// any. Each customer holds at most one request in flight.
	GetActiveByCustomer(ctx context.Context, customerID string) (*request.LaundryRequest, error)

	// GetAllActive retrieves every non-terminal request, oldest first. The
	// timeout supervisor scans this set on every tick.
	GetAllActive(ctx context.Context) ([]*request.LaundryRequest, error)

	// GetAllByCustomer retrieves the customer's full request history,
	// newest first.
	GetAllByCustomer(ctx context.Context, customerID string) ([]*request.LaundryRequest, error)
}
