package repository

import (
	"context"

	"telecare-notifier/internal/domain/entity"
)

// PaymentUpdate is the restricted set of fields a verified gateway callback
// may change on a booking row.
type PaymentUpdate struct {
	PaymentStatus  string
	Paid           *bool // nil leaves the flag untouched
	GatewayPayload []byte
}

// BookingRepository defines the interface for booking row access. Updates
// never touch scheduling fields.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	UpdatePayment(ctx context.Context, id string, update PaymentUpdate) error
	UpdateStatus(ctx context.Context, id string, status string) error
	UpdateMeetLink(ctx context.Context, id string, meetLink string) error
}
