package ports

import (
	"context"

	"laundrybot/internal/core/domain/model/payment"
)

// AdjustmentRepository defines the persistence contract for the money
// ledger. The ledger is append only; there is deliberately no update or
// delete.
type AdjustmentRepository interface {
	// Add appends a ledger entry.
	Add(ctx context.Context, entry *payment.Adjustment) error

	// GetByRequest retrieves a request's entries in recording order.
	GetByRequest(ctx context.Context, requestID int64) ([]*payment.Adjustment, error)
}
