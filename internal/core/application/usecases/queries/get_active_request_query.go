package queries

import (
	"errors"
	"time"

	"laundrybot/internal/pkg/guard"
)

var (
	ErrGetActiveRequestQueryIsNotConstructed = errors.New(
		"GetActiveRequestQuery must be created via NewGetActiveRequestQuery constructor",
	)
	ErrQueryCustomerIDIsRequired = errors.New("customer id is required")
)

// GetActiveRequestQuery retrieves a customer's in-flight request, the
// one the customer-facing app polls to render progress.
type GetActiveRequestQuery struct {
	customerID string

	guard guard.ConstructorGuard
}

// NewGetActiveRequestQuery creates a validated active request query.
func NewGetActiveRequestQuery(customerID string) (GetActiveRequestQuery, error) {
	if customerID == "" {
		return GetActiveRequestQuery{}, ErrQueryCustomerIDIsRequired
	}

	return GetActiveRequestQuery{
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveRequestQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveRequestQueryIsNotConstructed)
}

// CustomerID returns the customer whose active request is wanted.
func (q GetActiveRequestQuery) CustomerID() string { return q.customerID }

// GetActiveRequestQueryResponse is the progress view of an in-flight
// request.
type GetActiveRequestQueryResponse struct {
	ID              int64
	Flow            string
	Status          string
	RoomName        string
	RobotName       string
	RequestedAt     time.Time
	StatusChangedAt time.Time
	TotalCostCents  int64
}
