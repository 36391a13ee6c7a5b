package repository

import (
	"context"

	"telecare-notifier/internal/domain/entity"
)

// CallbackLogRepository defines the interface for the gateway callback audit
// log. Writes are best-effort: an audit failure never fails the callback.
type CallbackLogRepository interface {
	Save(ctx context.Context, log *entity.CallbackLog) error
	FindByBookingID(ctx context.Context, bookingID string, limit int) ([]*entity.CallbackLog, error)
}
