// Package beaconrepo persists the beacon catalog, keyed by normalized
// MAC address.
package beaconrepo

import (
	"laundrybot/internal/core/domain/model/beacon"
)

// BeaconDTO is the database row for a catalog entry.
type BeaconDTO struct {
	Mac           string `gorm:"primaryKey"`
	RoomName      string `gorm:"index"`
	RssiThreshold int
	Active        bool
	IsBase        bool
}

// TableName overrides GORM's default naming to use "beacons".
func (BeaconDTO) TableName() string {
	return "beacons"
}

func fromDomain(aggregate *beacon.Beacon) BeaconDTO {
	return BeaconDTO{
		Mac:           aggregate.Mac(),
		RoomName:      aggregate.RoomName(),
		RssiThreshold: aggregate.RssiThreshold(),
		Active:        aggregate.IsActive(),
		IsBase:        aggregate.IsBase(),
	}
}

func toDomain(dto BeaconDTO) (*beacon.Beacon, error) {
	return beacon.Restore(dto.Mac, dto.RoomName, dto.RssiThreshold, dto.Active, dto.IsBase)
}
