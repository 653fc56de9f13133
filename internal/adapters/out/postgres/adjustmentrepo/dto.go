// Package adjustmentrepo persists the append-only money ledger. Entries
// are never updated or deleted; corrections get their own entries.
package adjustmentrepo

import (
	"time"

	"laundrybot/internal/core/domain/model/kernel"
	"laundrybot/internal/core/domain/model/payment"

	"github.com/google/uuid"
)

// AdjustmentDTO is the database row for one ledger entry. AmountCents
// carries the sign: surcharges positive, discounts and refunds negative.
type AdjustmentDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID   int64     `gorm:"index;not null"`
	Kind        string    `gorm:"not null"`
	AmountCents int64     `gorm:"not null"`
	Reason      string    `gorm:"not null"`
	Actor       string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "adjustments".
func (AdjustmentDTO) TableName() string {
	return "adjustments"
}

func fromDomain(entry *payment.Adjustment) AdjustmentDTO {
	return AdjustmentDTO{
		ID:          entry.ID().Bytes(),
		RequestID:   entry.RequestID(),
		Kind:        entry.Kind().String(),
		AmountCents: entry.SignedCents(),
		Reason:      entry.Reason(),
		Actor:       entry.Actor(),
		CreatedAt:   entry.CreatedAt(),
	}
}

func toDomain(dto AdjustmentDTO) (*payment.Adjustment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	kind, err := payment.KindFromString(dto.Kind)
	if err != nil {
		return nil, err
	}

	return payment.Restore(id, dto.RequestID, kind, dto.AmountCents, dto.Reason, dto.Actor, dto.CreatedAt)
}
