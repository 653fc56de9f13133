package queries

import (
	"context"
	"database/sql"
	"errors"

	"laundrybot/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetRequestQueryHandler reads one request and its ledger from the
// database.
type GetRequestQueryHandler struct {
	db *gorm.DB
}

// NewGetRequestQueryHandler creates a handler for request detail queries.
func NewGetRequestQueryHandler(db *gorm.DB) GetRequestQueryHandler {
	return GetRequestQueryHandler{db: db}
}

// Handle fetches the request row, its ledger entries, and computes the
// effective total.
func (h GetRequestQueryHandler) Handle(ctx context.Context, query GetRequestQuery) (GetRequestQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetRequestQueryResponse{}, err
	}

	resp, err := scanRequestRow(h.db.WithContext(ctx).Raw(requestDetailSQL, query.RequestID()).Row())
	if errors.Is(err, sql.ErrNoRows) {
		return GetRequestQueryResponse{}, errs.NewObjectNotFoundError("request", query.RequestID())
	}
	if err != nil {
		return GetRequestQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT kind, amount_cents, reason, actor, created_at
		FROM adjustments
		WHERE request_id = ?
		ORDER BY created_at
	`, query.RequestID()).Rows()
	if err != nil {
		return GetRequestQueryResponse{}, err
	}
	defer rows.Close()

	adjusted := resp.TotalCostCents
	for rows.Next() {
		var entry AdjustmentResponse
		if err = rows.Scan(&entry.Kind, &entry.AmountCents, &entry.Reason,
			&entry.Actor, &entry.CreatedAt); err != nil {
			return GetRequestQueryResponse{}, err
		}
		adjusted += entry.AmountCents
		resp.Adjustments = append(resp.Adjustments, entry)
	}
	if err = rows.Err(); err != nil {
		return GetRequestQueryResponse{}, err
	}

	resp.EffectiveTotalCents = max(adjusted, 0)
	return resp, nil
}

const requestDetailSQL = `
	SELECT
		id, customer_id, customer_name, flow, status,
		room_name, robot_name,
		requested_at, status_changed_at, completed_at,
		weight_kg, price_per_kg_cents, minimum_charge_cents, total_cost_cents,
		payment_method, decline_reason, cancel_reason, refund_cents
	FROM requests
	WHERE id = ?
`

func scanRequestRow(row *sql.Row) (GetRequestQueryResponse, error) {
	var resp GetRequestQueryResponse
	var completedAt sql.NullTime

	err := row.Scan(
		&resp.ID, &resp.CustomerID, &resp.CustomerName, &resp.Flow, &resp.Status,
		&resp.RoomName, &resp.RobotName,
		&resp.RequestedAt, &resp.StatusChangedAt, &completedAt,
		&resp.WeightKg, &resp.PricePerKgCents, &resp.MinimumChargeCents, &resp.TotalCostCents,
		&resp.PaymentMethod, &resp.DeclineReason, &resp.CancelReason, &resp.RefundCents,
	)
	if err != nil {
		return GetRequestQueryResponse{}, err
	}

	if completedAt.Valid {
		t := completedAt.Time
		resp.CompletedAt = &t
	}
	return resp, nil
}
