package requestrepo

import (
	"context"
	"errors"

	"laundrybot/internal/core/domain/model/request"
	"laundrybot/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRequestRepository implements ports.RequestRepository using GORM.
type GormRequestRepository struct {
	db *gorm.DB
}

// NewGormRequestRepository creates a new GORM request repository.
func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

// terminalStatuses are excluded from "active" queries.
func terminalStatuses() []string {
	return []string{
		request.Completed.String(),
		request.Declined.String(),
		request.Cancelled.String(),
	}
}

// Add saves a new request and backfills the database-assigned id.
func (r *GormRequestRepository) Add(ctx context.Context, aggregate *request.LaundryRequest) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	aggregate.SetID(dto.ID)
	return nil
}

// Update saves an existing request.
func (r *GormRequestRepository) Update(ctx context.Context, aggregate *request.LaundryRequest) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&RequestDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("request", dto.ID)
	}

	return nil
}

// Get retrieves a request by id.
func (r *GormRequestRepository) Get(ctx context.Context, id int64) (*request.LaundryRequest, error) {
	var dto RequestDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("request", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByCustomer retrieves the customer's in-flight request, if any.
func (r *GormRequestRepository) GetActiveByCustomer(ctx context.Context, customerID string) (*request.LaundryRequest, error) {
	var dto RequestDTO
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status NOT IN ?", customerID, terminalStatuses()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("request", customerID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllActive retrieves every non-terminal request, oldest first.
func (r *GormRequestRepository) GetAllActive(ctx context.Context) ([]*request.LaundryRequest, error) {
	var dtos []RequestDTO
	err := r.db.WithContext(ctx).
		Where("status NOT IN ?", terminalStatuses()).
		Order("requested_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetAllByCustomer retrieves the customer's request history, newest first.
func (r *GormRequestRepository) GetAllByCustomer(ctx context.Context, customerID string) ([]*request.LaundryRequest, error) {
	var dtos []RequestDTO
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("requested_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []RequestDTO) ([]*request.LaundryRequest, error) {
	aggregates := make([]*request.LaundryRequest, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, aggregate)
	}
	return aggregates, nil
}
