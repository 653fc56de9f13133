package robotrepo

import (
	"context"
	"errors"

	"laundrybot/internal/core/domain/model/robot"
	"laundrybot/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRobotRepository implements ports.RobotRepository using GORM.
type GormRobotRepository struct {
	db *gorm.DB
}

// NewGormRobotRepository creates a new GORM robot repository.
func NewGormRobotRepository(db *gorm.DB) *GormRobotRepository {
	return &GormRobotRepository{db: db}
}

// Save upserts the snapshot by name. Heartbeats register robots on the
// fly, so insert and update are the same operation here.
func (r *GormRobotRepository) Save(ctx context.Context, aggregate *robot.Robot) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		}).
		Create(&dto).Error
}

// Get retrieves a robot by name.
func (r *GormRobotRepository) Get(ctx context.Context, name string) (*robot.Robot, error) {
	var dto RobotDTO
	if err := r.db.WithContext(ctx).First(&dto, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("robot", name)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves every registered robot.
func (r *GormRobotRepository) GetAll(ctx context.Context) ([]*robot.Robot, error) {
	var dtos []RobotDTO
	if err := r.db.WithContext(ctx).Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	robots := make([]*robot.Robot, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		robots = append(robots, aggregate)
	}

	return robots, nil
}
