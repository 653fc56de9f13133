package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetBeaconsQueryHandler reads the beacon catalog from the database.
type GetBeaconsQueryHandler struct {
	db *gorm.DB
}

// NewGetBeaconsQueryHandler creates a handler for beacon catalog queries.
func NewGetBeaconsQueryHandler(db *gorm.DB) GetBeaconsQueryHandler {
	return GetBeaconsQueryHandler{db: db}
}

// Handle lists every registered beacon, rooms first, then the base docks.
func (h GetBeaconsQueryHandler) Handle(ctx context.Context, _ GetBeaconsQuery) ([]GetBeaconsQueryResponse, error) {
	catalog := make([]GetBeaconsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT mac, room_name, rssi_threshold, is_base
		FROM beacons
		ORDER BY is_base, room_name, mac
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry GetBeaconsQueryResponse
		if err = rows.Scan(&entry.Mac, &entry.RoomName, &entry.RssiThreshold, &entry.IsBase); err != nil {
			return nil, err
		}
		catalog = append(catalog, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return catalog, nil
}
