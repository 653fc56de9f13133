// Package queries implements the read side. Query handlers go straight
// to the database or the fleet registry and return plain response
// structs; they never touch domain aggregates or the unit of work.
package queries

import (
	"errors"
	"time"

	"laundrybot/internal/pkg/guard"
)

var (
	ErrGetRequestQueryIsNotConstructed = errors.New(
		"GetRequestQuery must be created via NewGetRequestQuery constructor",
	)
	ErrQueryRequestIDIsRequired = errors.New("request id is required")
)

// GetRequestQuery retrieves one request with its money ledger.
type GetRequestQuery struct {
	requestID int64

	guard guard.ConstructorGuard
}

// NewGetRequestQuery creates a validated request detail query.
func NewGetRequestQuery(requestID int64) (GetRequestQuery, error) {
	if requestID <= 0 {
		return GetRequestQuery{}, ErrQueryRequestIDIsRequired
	}

	return GetRequestQuery{
		requestID: requestID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRequestQuery) Validate() error {
	return q.guard.Validate(ErrGetRequestQueryIsNotConstructed)
}

// RequestID returns the request to fetch.
func (q GetRequestQuery) RequestID() int64 { return q.requestID }

// AdjustmentResponse is one ledger entry in a request detail response.
type AdjustmentResponse struct {
	Kind        string
	AmountCents int64
	Reason      string
	Actor       string
	CreatedAt   time.Time
}

// GetRequestQueryResponse is the full request detail: lifecycle state,
// tariff, ledger, and the effective total after adjustments.
type GetRequestQueryResponse struct {
	ID           int64
	CustomerID   string
	CustomerName string
	Flow         string
	Status       string

	RoomName  string
	RobotName string

	RequestedAt     time.Time
	StatusChangedAt time.Time
	CompletedAt     *time.Time

	WeightKg           float64
	PricePerKgCents    int64
	MinimumChargeCents int64
	TotalCostCents     int64

	// EffectiveTotalCents is the weight charge folded with every ledger
	// entry, floored at zero.
	EffectiveTotalCents int64

	PaymentMethod string
	DeclineReason string
	CancelReason  string
	RefundCents   int64

	Adjustments []AdjustmentResponse
}
