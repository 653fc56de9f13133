package ports

import (
	"context"

	"laundrybot/internal/core/domain/model/beacon"
)

// BeaconRepository defines the persistence contract for the beacon catalog.
type BeaconRepository interface {
	// Save upserts a beacon by MAC.
	Save(ctx context.Context, aggregate *beacon.Beacon) error

	// GetByMac retrieves a beacon by its normalized MAC. Returns
	// errs.ObjectNotFoundError when the MAC is not in the catalog.
	GetByMac(ctx context.Context, mac string) (*beacon.Beacon, error)

	// GetByRoom retrieves the beacon installed in a room.
	GetByRoom(ctx context.Context, roomName string) (*beacon.Beacon, error)

	// GetAll retrieves the whole catalog.
	GetAll(ctx context.Context) ([]*beacon.Beacon, error)
}
