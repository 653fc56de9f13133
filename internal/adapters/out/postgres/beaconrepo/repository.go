package beaconrepo

import (
	"context"
	"errors"

	"laundrybot/internal/core/domain/model/beacon"
	"laundrybot/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBeaconRepository implements ports.BeaconRepository using GORM.
type GormBeaconRepository struct {
	db *gorm.DB
}

// NewGormBeaconRepository creates a new GORM beacon repository.
func NewGormBeaconRepository(db *gorm.DB) *GormBeaconRepository {
	return &GormBeaconRepository{db: db}
}

// Save upserts the catalog entry by MAC.
func (r *GormBeaconRepository) Save(ctx context.Context, aggregate *beacon.Beacon) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "mac"}},
			UpdateAll: true,
		}).
		Create(&dto).Error
}

// GetByMac retrieves a catalog entry by its normalized MAC.
func (r *GormBeaconRepository) GetByMac(ctx context.Context, mac string) (*beacon.Beacon, error) {
	var dto BeaconDTO
	if err := r.db.WithContext(ctx).First(&dto, "mac = ?", mac).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("beacon", mac)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByRoom retrieves the beacon installed in a room.
func (r *GormBeaconRepository) GetByRoom(ctx context.Context, roomName string) (*beacon.Beacon, error) {
	var dto BeaconDTO
	err := r.db.WithContext(ctx).
		First(&dto, "room_name = ? AND is_base = false", roomName).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("beacon", roomName)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves the whole catalog.
func (r *GormBeaconRepository) GetAll(ctx context.Context) ([]*beacon.Beacon, error) {
	var dtos []BeaconDTO
	if err := r.db.WithContext(ctx).Order("mac").Find(&dtos).Error; err != nil {
		return nil, err
	}

	beacons := make([]*beacon.Beacon, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		beacons = append(beacons, aggregate)
	}

	return beacons, nil
}
