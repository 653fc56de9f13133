package queries

import (
	"errors"
	"time"

	"laundrybot/internal/pkg/guard"
)

var ErrGetRequestHistoryQueryIsNotConstructed = errors.New(
	"GetRequestHistoryQuery must be created via NewGetRequestHistoryQuery constructor",
)

// GetRequestHistoryQuery retrieves a customer's full request history,
// newest first.
type GetRequestHistoryQuery struct {
	customerID string

	guard guard.ConstructorGuard
}

// NewGetRequestHistoryQuery creates a validated history query.
func NewGetRequestHistoryQuery(customerID string) (GetRequestHistoryQuery, error) {
	if customerID == "" {
		return GetRequestHistoryQuery{}, ErrQueryCustomerIDIsRequired
	}

	return GetRequestHistoryQuery{
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRequestHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetRequestHistoryQueryIsNotConstructed)
}

// CustomerID returns the customer whose history is wanted.
func (q GetRequestHistoryQuery) CustomerID() string { return q.customerID }

// GetRequestHistoryQueryResponse is one history row.
type GetRequestHistoryQueryResponse struct {
	ID             int64
	Flow           string
	Status         string
	RoomName       string
	RequestedAt    time.Time
	CompletedAt    *time.Time
	WeightKg       float64
	TotalCostCents int64
}
