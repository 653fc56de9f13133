package queries

import (
	"context"
	"database/sql"
	"errors"

	"laundrybot/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetActiveRequestQueryHandler reads a customer's non-terminal request
// from the database.
type GetActiveRequestQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveRequestQueryHandler creates a handler for active request
// queries.
func NewGetActiveRequestQueryHandler(db *gorm.DB) GetActiveRequestQueryHandler {
	return GetActiveRequestQueryHandler{db: db}
}

// Handle fetches the customer's in-flight request. Returns
// errs.ObjectNotFoundError when the customer has nothing in flight.
func (h GetActiveRequestQueryHandler) Handle(ctx context.Context, query GetActiveRequestQuery) (GetActiveRequestQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetActiveRequestQueryResponse{}, err
	}

	var resp GetActiveRequestQueryResponse
	row := h.db.WithContext(ctx).Raw(`
		SELECT id, flow, status, room_name, robot_name,
			requested_at, status_changed_at, total_cost_cents
		FROM requests
		WHERE customer_id = ?
			AND status NOT IN ('Completed', 'Declined', 'Cancelled')
		LIMIT 1
	`, query.CustomerID()).Row()

	err := row.Scan(&resp.ID, &resp.Flow, &resp.Status, &resp.RoomName, &resp.RobotName,
		&resp.RequestedAt, &resp.StatusChangedAt, &resp.TotalCostCents)
	if errors.Is(err, sql.ErrNoRows) {
		return GetActiveRequestQueryResponse{}, errs.NewObjectNotFoundError("request", query.CustomerID())
	}
	if err != nil {
		return GetActiveRequestQueryResponse{}, err
	}

	return resp, nil
}
