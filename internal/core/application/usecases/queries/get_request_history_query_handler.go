package queries

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// GetRequestHistoryQueryHandler reads a customer's request history from
// the database.
type GetRequestHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetRequestHistoryQueryHandler creates a handler for history queries.
func NewGetRequestHistoryQueryHandler(db *gorm.DB) GetRequestHistoryQueryHandler {
	return GetRequestHistoryQueryHandler{db: db}
}

// Handle fetches every request the customer ever made, newest first.
func (h GetRequestHistoryQueryHandler) Handle(ctx context.Context, query GetRequestHistoryQuery) ([]GetRequestHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	history := make([]GetRequestHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, flow, status, room_name,
			requested_at, completed_at, weight_kg, total_cost_cents
		FROM requests
		WHERE customer_id = ?
		ORDER BY requested_at DESC
	`, query.CustomerID()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry GetRequestHistoryQueryResponse
		var completedAt sql.NullTime

		err = rows.Scan(&entry.ID, &entry.Flow, &entry.Status, &entry.RoomName,
			&entry.RequestedAt, &completedAt, &entry.WeightKg, &entry.TotalCostCents)
		if err != nil {
			return nil, err
		}

		if completedAt.Valid {
			t := completedAt.Time
			entry.CompletedAt = &t
		}
		history = append(history, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}
