package notify

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionDTO is one browser push subscription. The endpoint is the
// identity; re-registering the same endpoint updates the keys in place.
type SubscriptionDTO struct {
	Endpoint   string `gorm:"primaryKey"`
	CustomerID string `gorm:"index;not null"`
	P256dh     string `gorm:"not null"`
	Auth       string `gorm:"not null"`
}

// TableName overrides the default gorm naming.
func (SubscriptionDTO) TableName() string {
	return "push_subscriptions"
}

// SubscriptionStore persists web push subscriptions.
type SubscriptionStore struct {
	db *gorm.DB
}

// NewSubscriptionStore creates a store on the shared database handle.
func NewSubscriptionStore(db *gorm.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

// Save upserts a subscription by endpoint.
func (s *SubscriptionStore) Save(ctx context.Context, sub SubscriptionDTO) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			UpdateAll: true,
		}).
		Create(&sub).Error
}

// Delete removes a subscription by endpoint. Deleting an unknown endpoint
// is a no-op.
func (s *SubscriptionStore) Delete(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).
		Where("endpoint = ?", endpoint).
		Delete(&SubscriptionDTO{}).Error
}

// GetByCustomer returns every subscription registered for a customer.
func (s *SubscriptionStore) GetByCustomer(ctx context.Context, customerID string) ([]SubscriptionDTO, error) {
	var subs []SubscriptionDTO
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}
