// Package robotrepo persists robot snapshots. The in-memory registry is
// the live authority; this table is its write-through backing so the
// fleet comes back after a restart with bindings intact.
package robotrepo

import (
	"time"

	"laundrybot/internal/core/domain/model/robot"
)

// RobotDTO is the database row for a robot snapshot, keyed by name.
type RobotDTO struct {
	Name           string `gorm:"primaryKey"`
	Status         string `gorm:"not null"`
	Active         bool
	AcceptRequests bool
	BoundRequestID *int64 `gorm:"index"`
	CurrentTask    string
	LastBeaconMac  string
	LinePosition   float64
	IP             string
	LastSeen       time.Time
	IdleSince      time.Time
}

// TableName overrides GORM's default naming to use "robots".
func (RobotDTO) TableName() string {
	return "robots"
}

func fromDomain(aggregate *robot.Robot) RobotDTO {
	s := aggregate.ToSnapshot()
	return RobotDTO{
		Name:           s.Name,
		Status:         s.Status.String(),
		Active:         s.Active,
		AcceptRequests: s.AcceptRequests,
		BoundRequestID: s.BoundRequestID,
		CurrentTask:    s.CurrentTask,
		LastBeaconMac:  s.LastBeaconMac,
		LinePosition:   s.LinePosition,
		IP:             s.IP,
		LastSeen:       s.LastSeen,
		IdleSince:      s.IdleSince,
	}
}

func toDomain(dto RobotDTO) (*robot.Robot, error) {
	status, err := robot.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return robot.Restore(robot.Snapshot{
		Name:           dto.Name,
		Status:         status,
		Active:         dto.Active,
		AcceptRequests: dto.AcceptRequests,
		BoundRequestID: dto.BoundRequestID,
		CurrentTask:    dto.CurrentTask,
		LastBeaconMac:  dto.LastBeaconMac,
		LinePosition:   dto.LinePosition,
		IP:             dto.IP,
		LastSeen:       dto.LastSeen,
		IdleSince:      dto.IdleSince,
	})
}
