// Package requestrepo persists laundry request aggregates. It maps the
// aggregate's snapshot to a flat row; statuses and flows are stored by
// name so the table stays readable and survives enum reordering.
package requestrepo

import (
	"time"

	"laundrybot/internal/core/domain/model/request"
)

// RequestDTO is the database row for a laundry request.
type RequestDTO struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	CustomerID   string `gorm:"index;not null"`
	CustomerName string
	Flow         string `gorm:"not null"`
	Status       string `gorm:"index;not null"`

	RoomName  string `gorm:"not null"`
	BeaconMac string
	RobotName string

	RequestedAt        time.Time `gorm:"not null"`
	StatusChangedAt    time.Time `gorm:"not null"`
	AcceptedAt         *time.Time
	DispatchedAt       *time.Time
	ArrivedAtRoomAt    *time.Time
	LoadedAt           *time.Time
	ReturnedAt         *time.Time
	WeighedAt          *time.Time
	PaymentRequestedAt *time.Time
	PaymentCompletedAt *time.Time
	CompletedAt        *time.Time

	WeightKg           float64
	PricePerKgCents    int64
	MinimumChargeCents int64
	TotalCostCents     int64

	PaymentMethod    string
	PaymentReference string
	PaymentNotes     string

	DeclineReason string
	CancelReason  string
	CancelActor   string
	CancelledAt   *time.Time
	RefundCents   int64
	RefundReason  string
}

// TableName overrides GORM's default naming to use "requests".
func (RequestDTO) TableName() string {
	return "requests"
}

func fromDomain(aggregate *request.LaundryRequest) RequestDTO {
	s := aggregate.ToSnapshot()
	return RequestDTO{
		ID:           s.ID,
		CustomerID:   s.CustomerID,
		CustomerName: s.CustomerName,
		Flow:         s.Flow.String(),
		Status:       s.Status.String(),

		RoomName:  s.RoomName,
		BeaconMac: s.BeaconMac,
		RobotName: s.RobotName,

		RequestedAt:        s.RequestedAt,
		StatusChangedAt:    s.StatusChangedAt,
		AcceptedAt:         s.AcceptedAt,
		DispatchedAt:       s.DispatchedAt,
		ArrivedAtRoomAt:    s.ArrivedAtRoomAt,
		LoadedAt:           s.LoadedAt,
		ReturnedAt:         s.ReturnedAt,
		WeighedAt:          s.WeighedAt,
		PaymentRequestedAt: s.PaymentRequestedAt,
		PaymentCompletedAt: s.PaymentCompletedAt,
		CompletedAt:        s.CompletedAt,

		WeightKg:           s.WeightKg,
		PricePerKgCents:    s.PricePerKgCents,
		MinimumChargeCents: s.MinimumChargeCents,
		TotalCostCents:     s.TotalCostCents,

		PaymentMethod:    s.PaymentMethod,
		PaymentReference: s.PaymentReference,
		PaymentNotes:     s.PaymentNotes,

		DeclineReason: s.DeclineReason,
		CancelReason:  s.CancelReason,
		CancelActor:   s.CancelActor,
		CancelledAt:   s.CancelledAt,
		RefundCents:   s.RefundCents,
		RefundReason:  s.RefundReason,
	}
}

func toDomain(dto RequestDTO) (*request.LaundryRequest, error) {
	flow, err := request.FlowFromString(dto.Flow)
	if err != nil {
		return nil, err
	}
	status, err := request.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return request.Restore(request.Snapshot{
		ID:           dto.ID,
		CustomerID:   dto.CustomerID,
		CustomerName: dto.CustomerName,
		Flow:         flow,
		Status:       status,

		RoomName:  dto.RoomName,
		BeaconMac: dto.BeaconMac,
		RobotName: dto.RobotName,

		RequestedAt:        dto.RequestedAt,
		StatusChangedAt:    dto.StatusChangedAt,
		AcceptedAt:         dto.AcceptedAt,
		DispatchedAt:       dto.DispatchedAt,
		ArrivedAtRoomAt:    dto.ArrivedAtRoomAt,
		LoadedAt:           dto.LoadedAt,
		ReturnedAt:         dto.ReturnedAt,
		WeighedAt:          dto.WeighedAt,
		PaymentRequestedAt: dto.PaymentRequestedAt,
		PaymentCompletedAt: dto.PaymentCompletedAt,
		CompletedAt:        dto.CompletedAt,

		WeightKg:           dto.WeightKg,
		PricePerKgCents:    dto.PricePerKgCents,
		MinimumChargeCents: dto.MinimumChargeCents,
		TotalCostCents:     dto.TotalCostCents,

		PaymentMethod:    dto.PaymentMethod,
		PaymentReference: dto.PaymentReference,
		PaymentNotes:     dto.PaymentNotes,

		DeclineReason: dto.DeclineReason,
		CancelReason:  dto.CancelReason,
		CancelActor:   dto.CancelActor,
		CancelledAt:   dto.CancelledAt,
		RefundCents:   dto.RefundCents,
		RefundReason:  dto.RefundReason,
	})
}
