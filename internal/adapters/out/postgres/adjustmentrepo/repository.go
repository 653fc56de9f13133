package adjustmentrepo

import (
	"context"

	"laundrybot/internal/core/domain/model/payment"

	"gorm.io/gorm"
)

// GormAdjustmentRepository implements ports.AdjustmentRepository using GORM.
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GORM adjustment repository.
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// Add appends a ledger entry.
func (r *GormAdjustmentRepository) Add(ctx context.Context, entry *payment.Adjustment) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetByRequest retrieves a request's entries in recording order.
func (r *GormAdjustmentRepository) GetByRequest(ctx context.Context, requestID int64) ([]*payment.Adjustment, error) {
	var dtos []AdjustmentDTO
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*payment.Adjustment, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
